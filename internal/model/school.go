package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// School is a lookup record materialized lazily the first time a registrant
// names a school.
type School struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Abbreviation string             `bson:"abbreviation" json:"abbreviation"`
	Logo         string             `bson:"logo" json:"logo"`
	PrimaryColor string             `bson:"primaryColor" json:"primaryColor"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

const DefaultSchoolColor = "#CC00FF"
