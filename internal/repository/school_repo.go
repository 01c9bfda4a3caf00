package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jongocollab/jongohub/internal/model"
	"github.com/jongocollab/jongohub/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SchoolRepository interface {
	FindOrCreate(ctx context.Context, name string) (*model.School, error)
	EnsureIndexes(ctx context.Context) error
}

type schoolRepository struct {
	c *mongo.Collection
}

func NewSchoolRepository(db *mongo.Database) SchoolRepository {
	return &schoolRepository{c: db.Collection("schools")}
}

func (r *schoolRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_schools_name"),
		},
		{
			Keys:    bson.D{{Key: "abbreviation", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_schools_abbr"),
		},
	})
	return err
}

// FindOrCreate returns the school with the given name, materializing it on
// first reference. Two registrations racing on the same new name resolve via
// the unique index: the loser re-reads the winner's document.
func (r *schoolRepository) FindOrCreate(ctx context.Context, name string) (*model.School, error) {
	name = strings.TrimSpace(name)

	var school model.School
	err := r.c.FindOne(ctx, bson.M{"name": name}).Decode(&school)
	if err == nil {
		return &school, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	school = model.School{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Abbreviation: abbreviate(name),
		PrimaryColor: model.DefaultSchoolColor,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if _, err := r.c.InsertOne(ctx, school); err != nil {
		if database.IsDup(err) {
			var existing model.School
			if err := r.c.FindOne(ctx, bson.M{"name": name}).Decode(&existing); err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &school, nil
}

func abbreviate(name string) string {
	runes := []rune(strings.ToUpper(name))
	if len(runes) > 4 {
		runes = runes[:4]
	}
	return string(runes)
}
