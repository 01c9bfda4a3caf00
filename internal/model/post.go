package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var Categories = []string{"code", "design", "project", "research"}

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
)

type CollabStatus string

const (
	CollabPending  CollabStatus = "pending"
	CollabAccepted CollabStatus = "accepted"
	CollabRejected CollabStatus = "rejected"
)

// Comment is embedded in its post, newest first. Comments are never edited
// or removed.
type Comment struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	UserName  string             `bson:"userName" json:"userName"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// CollaborationRequest is embedded in its post; at most one per requester.
type CollaborationRequest struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	UserName  string             `bson:"userName" json:"userName"`
	Message   string             `bson:"message" json:"message"`
	Status    CollabStatus       `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Post is the content aggregate: likes, comments, and collaboration requests
// live inside the post document and share its lifetime. AuthorName and
// AuthorSchool are snapshots taken at creation time; later profile edits do
// not rewrite them.
type Post struct {
	ID                    primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Title                 string                 `bson:"title" json:"title"`
	Description           string                 `bson:"description" json:"description"`
	Category              string                 `bson:"category" json:"category"`
	Tags                  []string               `bson:"tags" json:"tags"`
	Link                  string                 `bson:"link" json:"link"`
	Images                []string               `bson:"images" json:"images"`
	Author                primitive.ObjectID     `bson:"author" json:"author"`
	AuthorName            string                 `bson:"authorName" json:"authorName"`
	AuthorSchool          string                 `bson:"authorSchool" json:"authorSchool"`
	Likes                 []primitive.ObjectID   `bson:"likes" json:"likes"`
	Comments              []Comment              `bson:"comments" json:"comments"`
	Views                 int64                  `bson:"views" json:"views"`
	CollaborationRequests []CollaborationRequest `bson:"collaborationRequests" json:"collaborationRequests"`
	IsActive              bool                   `bson:"isActive" json:"isActive"`
	CreatedAt             time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// LikedBy reports whether userID is in the likes set.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

func IsValidCategory(c string) bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}
