package dto

import (
	"github.com/jongocollab/jongohub/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreatePostInput struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"required,max=2000"`
	Category    string   `json:"category" binding:"required,oneof=code design project research"`
	Tags        []string `json:"tags"`
	Link        string   `json:"link"`
	Images      []string `json:"images"`
}

// UpdatePostInput carries partial-update semantics: empty strings and nil
// slices keep the stored value. Link is a pointer because it is the one
// field a client may intentionally clear.
type UpdatePostInput struct {
	Title       string   `json:"title" binding:"omitempty,max=200"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
	Category    string   `json:"category" binding:"omitempty,oneof=code design project research"`
	Tags        []string `json:"tags"`
	Link        *string  `json:"link"`
	Images      []string `json:"images"`
}

type CommentInput struct {
	Text string `json:"text" binding:"required"`
}

type CollaborateInput struct {
	Message string `json:"message" binding:"required"`
}

type ListPostsQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Author   string `form:"author"`
	Limit    int64  `form:"limit,default=20"`
	Page     int64  `form:"page,default=1"`
}

// AuthorInfo is the live author projection attached to post responses,
// alongside the creation-time snapshot fields the post itself carries.
type AuthorInfo struct {
	ID             primitive.ObjectID `json:"id"`
	FirstName      string             `json:"firstName"`
	LastName       string             `json:"lastName"`
	SchoolName     string             `json:"schoolName"`
	Department     string             `json:"department"`
	ProfilePicture string             `json:"profilePicture"`
}

func NewAuthorInfo(u *model.User) *AuthorInfo {
	return &AuthorInfo{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		SchoolName:     u.SchoolName,
		Department:     u.Department,
		ProfilePicture: u.ProfilePicture,
	}
}

type PostResponse struct {
	*model.Post
	AuthorInfo *AuthorInfo `json:"authorInfo,omitempty"`
	LikeCount  int         `json:"likeCount"`
}

func NewPostResponse(p *model.Post, author *AuthorInfo) PostResponse {
	return PostResponse{Post: p, AuthorInfo: author, LikeCount: len(p.Likes)}
}

type PostListResult struct {
	Posts []PostResponse
	Total int64
	Page  int64
	Pages int64
}

type LikeResult struct {
	Liked     bool
	LikeCount int
}

// PostImage is a decoded embedded image ready for direct delivery.
type PostImage struct {
	MediaType string
	Data      []byte
}
