package repository

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jongocollab/jongohub/internal/model"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"github.com/jongocollab/jongohub/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindPending(ctx context.Context) ([]*model.User, error)
	UpdateApprovalStatus(ctx context.Context, id primitive.ObjectID, status model.ApprovalStatus) (*model.User, error)
	EnsureIndexes(ctx context.Context) error
}

// excludePassword keeps the hashed secret out of every read that does not
// explicitly need it for credential checking.
var excludePassword = bson.M{"password": 0}

type userRepository struct {
	c *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{c: db.Collection("users")}
}

func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_email"),
		},
		{
			Keys:    bson.D{{Key: "approvalStatus", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_users_approval"),
		},
	})
	return err
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	now := time.Now()
	if user.ArrivalDate.IsZero() {
		user.ArrivalDate = now
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, user); err != nil {
		if database.IsDup(err) {
			return apperror.New(http.StatusConflict, "User with this email already exists", apperror.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var u model.User
	opts := options.FindOne().SetProjection(excludePassword)
	if err := r.c.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(excludePassword)
	cur, err := r.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByEmail includes the password hash; it exists for credential checks.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := r.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindPending(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().
		SetProjection(excludePassword).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.c.Find(ctx, bson.M{"approvalStatus": model.ApprovalPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []*model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateApprovalStatus(ctx context.Context, id primitive.ObjectID, status model.ApprovalStatus) (*model.User, error) {
	update := bson.M{"$set": bson.M{
		"approvalStatus": status,
		"updatedAt":      time.Now(),
	}}
	opts := options.FindOneAndUpdate().
		SetProjection(excludePassword).
		SetReturnDocument(options.After)

	var u model.User
	if err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
