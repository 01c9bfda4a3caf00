package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jongocollab/jongohub/internal/model"
	"github.com/jongocollab/jongohub/internal/repository"
	"github.com/jongocollab/jongohub/internal/token"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"github.com/jongocollab/jongohub/pkg/response"
)

const userContextKey = "user"

type AuthMiddleware struct {
	users  repository.UserRepository
	tokens *token.Service
}

func NewAuthMiddleware(users repository.UserRepository, tokens *token.Service) *AuthMiddleware {
	return &AuthMiddleware{users: users, tokens: tokens}
}

// RequireAuth resolves the bearer token to a live user record and attaches
// it to the request context. Missing, invalid, and stale credentials all get
// the same message so responses do not leak token state; unapproved accounts
// are authenticated but forbidden, with their status included so clients can
// render pending/rejected messaging.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		unauthorized := apperror.New(http.StatusUnauthorized, "Not authorized to access this route", apperror.ErrUnauthorized)

		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			response.Error(c, unauthorized)
			return
		}

		userID, err := m.tokens.Verify(tokenString)
		if err != nil {
			response.Error(c, unauthorized)
			return
		}

		user, err := m.users.FindByID(c.Request.Context(), userID)
		if err != nil {
			// Stale token: the account it references no longer exists.
			response.Error(c, unauthorized)
			return
		}

		if user.ApprovalStatus != model.ApprovalApproved {
			response.Error(c, apperror.New(http.StatusForbidden, "Your account is pending approval", apperror.ErrForbidden).
				WithContext("approvalStatus", user.ApprovalStatus))
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin assumes RequireAuth already ran; it only reads the role off
// the attached user.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, apperror.New(http.StatusUnauthorized, "Not authorized to access this route", apperror.ErrUnauthorized))
			return
		}
		if user.Role != model.RoleAdmin {
			response.Error(c, apperror.New(http.StatusForbidden, "Access denied. Admin only.", apperror.ErrForbidden))
			return
		}
		c.Next()
	}
}

// RequireSupervisor admits supervisors and admins.
func (m *AuthMiddleware) RequireSupervisor() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, apperror.New(http.StatusUnauthorized, "Not authorized to access this route", apperror.ErrUnauthorized))
			return
		}
		if user.Role != model.RoleSupervisor && user.Role != model.RoleAdmin {
			response.Error(c, apperror.New(http.StatusForbidden, "Access denied. Supervisor only.", apperror.ErrForbidden))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by RequireAuth.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
