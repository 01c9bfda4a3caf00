package dto

import (
	"github.com/jongocollab/jongohub/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterInput struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	SchoolName string `json:"schoolName" binding:"required"`
	Department string `json:"department" binding:"required,oneof=software ai networking hardware other"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public projection of an account; the hashed secret is
// never part of it.
type UserResponse struct {
	ID             primitive.ObjectID   `json:"id"`
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName"`
	Email          string               `json:"email"`
	Role           model.Role           `json:"role"`
	School         string               `json:"school"`
	Department     string               `json:"department"`
	ApprovalStatus model.ApprovalStatus `json:"approvalStatus"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Role:           u.Role,
		School:         u.SchoolName,
		Department:     u.Department,
		ApprovalStatus: u.ApprovalStatus,
	}
}

type AuthResult struct {
	Token        string
	User         *model.User
	AutoApproved bool
}
