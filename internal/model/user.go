package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

var Departments = []string{"software", "ai", "networking", "hardware", "other"}

// User is a registered account. The password hash never leaves the server:
// repository reads exclude it unless the caller explicitly asks for it.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FirstName      string              `bson:"firstName" json:"firstName"`
	LastName       string              `bson:"lastName" json:"lastName"`
	Email          string              `bson:"email" json:"email"`
	PasswordHash   string              `bson:"password,omitempty" json:"-"`
	Role           Role                `bson:"role" json:"role"`
	SchoolID       *primitive.ObjectID `bson:"school,omitempty" json:"school,omitempty"`
	SchoolName     string              `bson:"schoolName" json:"schoolName"`
	Department     string              `bson:"department" json:"department"`
	ApprovalStatus ApprovalStatus      `bson:"approvalStatus" json:"approvalStatus"`
	ProfilePicture string              `bson:"profilePicture" json:"profilePicture"`
	ArrivalDate    time.Time           `bson:"arrivalDate" json:"arrivalDate"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// FullName is the display name denormalized onto posts and comments.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func IsValidDepartment(d string) bool {
	for _, dep := range Departments {
		if d == dep {
			return true
		}
	}
	return false
}
