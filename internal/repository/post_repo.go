package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/jongocollab/jongohub/internal/model"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostFilter narrows List. Zero values mean "no filter"; visibility is not
// part of the filter because listing only ever sees active posts.
type PostFilter struct {
	Category string
	Search   string
	Author   *primitive.ObjectID
	Limit    int64
	Page     int64
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*model.Post, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error)
	RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error)
	PrependComment(ctx context.Context, id primitive.ObjectID, comment model.Comment) (*model.Post, error)
	AddCollaborationRequest(ctx context.Context, id primitive.ObjectID, req model.CollaborationRequest) error
	EnsureIndexes(ctx context.Context) error
}

type postRepository struct {
	c *mongo.Collection
}

func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{c: db.Collection("posts")}
}

func (r *postRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_posts_author"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_posts_category"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("idx_posts_tags"),
		},
	})
	return err
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.IsActive = true
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Images == nil {
		post.Images = []string{}
	}
	post.Likes = []primitive.ObjectID{}
	post.Comments = []model.Comment{}
	post.CollaborationRequests = []model.CollaborationRequest{}

	_, err := r.c.InsertOne(ctx, post)
	return err
}

func (r *postRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var p model.Post
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*model.Post, int64, error) {
	query := bson.M{"isActive": true}

	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}
	if filter.Author != nil {
		query["author"] = *filter.Author
	}

	total, err := r.c.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(filter.Limit).
		SetSkip((filter.Page - 1) * filter.Limit)

	cur, err := r.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	posts := []*model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Post, error) {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p model.Post
	if err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter atomically; every read counts.
func (r *postRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// AddLike inserts userID into the likes set in a single atomic update. It
// returns ErrNotFound when the post is absent or the user already liked it;
// the caller falls through to RemoveLike to complete the toggle.
func (r *postRepository) AddLike(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	filter := bson.M{"_id": id, "likes": bson.M{"$ne": userID}}
	update := bson.M{"$addToSet": bson.M{"likes": userID}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// RemoveLike is the inverse of AddLike: it only matches when the user is in
// the likes set.
func (r *postRepository) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	filter := bson.M{"_id": id, "likes": userID}
	update := bson.M{"$pull": bson.M{"likes": userID}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// PrependComment pushes the comment at position 0 so the sequence stays
// newest-first without a read-modify-write cycle.
func (r *postRepository) PrependComment(ctx context.Context, id primitive.ObjectID, comment model.Comment) (*model.Post, error) {
	filter := bson.M{"_id": id}
	update := bson.M{"$push": bson.M{"comments": bson.M{
		"$each":     bson.A{comment},
		"$position": 0,
	}}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// AddCollaborationRequest appends the request only when the user has no
// existing request on the post, whatever its status. ErrConflict when a
// request already exists, ErrNotFound when the post is absent.
func (r *postRepository) AddCollaborationRequest(ctx context.Context, id primitive.ObjectID, req model.CollaborationRequest) error {
	filter := bson.M{"_id": id, "collaborationRequests.user": bson.M{"$ne": req.User}}
	update := bson.M{"$push": bson.M{"collaborationRequests": req}}

	res, err := r.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the post does not exist or the user already requested.
		if err := r.c.FindOne(ctx, bson.M{"_id": id}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return apperror.ErrNotFound
		} else if err != nil {
			return err
		}
		return apperror.ErrConflict
	}
	return nil
}

func (r *postRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*model.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p model.Post
	if err := r.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
