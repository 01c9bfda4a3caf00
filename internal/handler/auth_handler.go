package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jongocollab/jongohub/internal/dto"
	"github.com/jongocollab/jongohub/internal/middleware"
	"github.com/jongocollab/jongohub/internal/service"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"github.com/jongocollab/jongohub/pkg/response"
	"github.com/jongocollab/jongohub/pkg/validator"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	result, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.AutoApproved {
		response.OK(c, http.StatusCreated, "Registration successful! Welcome to JongoHub.", gin.H{
			"autoApproved": true,
			"data": gin.H{
				"token": result.Token,
				"user":  dto.NewUserResponse(result.User),
			},
		})
		return
	}

	response.OK(c, http.StatusCreated, "Registration successful! Your account is pending admin approval.", gin.H{
		"autoApproved": false,
		"data": gin.H{
			"userId":         result.User.ID,
			"email":          result.User.Email,
			"approvalStatus": result.User.ApprovalStatus,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	result, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Login successful", gin.H{
		"data": gin.H{
			"token": result.Token,
			"user":  dto.NewUserResponse(result.User),
		},
	})
}

// Me returns the public projection of the gate-resolved user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	response.OK(c, http.StatusOK, "", gin.H{"data": dto.NewUserResponse(user)})
}
