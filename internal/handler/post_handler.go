package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jongocollab/jongohub/internal/dto"
	"github.com/jongocollab/jongohub/internal/middleware"
	"github.com/jongocollab/jongohub/internal/service"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"github.com/jongocollab/jongohub/pkg/response"
	"github.com/jongocollab/jongohub/pkg/validator"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) List(c *gin.Context) {
	var query dto.ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	result, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{
		"count": len(result.Posts),
		"total": result.Total,
		"page":  result.Page,
		"pages": result.Pages,
		"data":  result.Posts,
	})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, postNotFoundOr(err))
		return
	}
	response.OK(c, http.StatusOK, "", gin.H{"data": post})
}

func (h *PostHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	var input dto.CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	post, err := h.service.Create(c.Request.Context(), user, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "Post created successfully", gin.H{"data": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	id, ok := postID(c)
	if !ok {
		return
	}

	var input dto.UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	post, err := h.service.Update(c.Request.Context(), user, id, input)
	if err != nil {
		response.Error(c, postNotFoundOr(err))
		return
	}
	response.OK(c, http.StatusOK, "Post updated successfully", gin.H{"data": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, id); err != nil {
		response.Error(c, postNotFoundOr(err))
		return
	}
	response.OK(c, http.StatusOK, "Post deleted successfully", nil)
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	id, ok := postID(c)
	if !ok {
		return
	}

	result, err := h.service.ToggleLike(c.Request.Context(), user.ID, id)
	if err != nil {
		response.Error(c, postNotFoundOr(err))
		return
	}
	response.OK(c, http.StatusOK, "", gin.H{
		"liked":     result.Liked,
		"likeCount": result.LikeCount,
	})
}

func (h *PostHandler) AddComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	id, ok := postID(c)
	if !ok {
		return
	}

	var input dto.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), user, id, input)
	if err != nil {
		response.Error(c, postNotFoundOr(err))
		return
	}
	response.OK(c, http.StatusCreated, "Comment added successfully", gin.H{"data": comment})
}

func (h *PostHandler) RequestCollaboration(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}
	id, ok := postID(c)
	if !ok {
		return
	}

	var input dto.CollaborateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	if err := h.service.RequestCollaboration(c.Request.Context(), user, id, input); err != nil {
		response.Error(c, postNotFoundOr(err))
		return
	}
	response.OK(c, http.StatusCreated, "Collaboration request sent successfully", nil)
}

// GetImage serves an embedded image as raw bytes with its declared media type.
func (h *PostHandler) GetImage(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "Invalid image index", apperror.ErrInvalidInput))
		return
	}

	img, err := h.service.GetImage(c.Request.Context(), id, index)
	if err != nil {
		response.Error(c, postNotFoundOr(err))
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, img.MediaType, img.Data)
}

func postID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "Invalid post id", apperror.ErrInvalidInput))
		return primitive.NilObjectID, false
	}
	return id, true
}

func postNotFoundOr(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.New(http.StatusNotFound, "Post not found", apperror.ErrNotFound)
	}
	return err
}
