package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jongocollab/jongohub/internal/dto"
	"github.com/jongocollab/jongohub/internal/service"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"github.com/jongocollab/jongohub/pkg/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(service service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) ListPendingUsers(c *gin.Context) {
	users, err := h.service.ListPendingUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	data := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, dto.NewUserResponse(u))
	}

	response.OK(c, http.StatusOK, "", gin.H{
		"count": len(data),
		"data":  data,
	})
}

func (h *AdminHandler) ApproveUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "Invalid user id", apperror.ErrInvalidInput))
		return
	}

	user, err := h.service.ApproveUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, userNotFoundOr(err))
		return
	}

	response.OK(c, http.StatusOK, "User approved successfully", gin.H{
		"data": dto.NewUserResponse(user),
	})
}

func (h *AdminHandler) RejectUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "Invalid user id", apperror.ErrInvalidInput))
		return
	}

	if _, err := h.service.RejectUser(c.Request.Context(), id); err != nil {
		response.Error(c, userNotFoundOr(err))
		return
	}

	response.OK(c, http.StatusOK, "User rejected successfully", nil)
}

func userNotFoundOr(err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.New(http.StatusNotFound, "User not found", apperror.ErrNotFound)
	}
	return err
}
