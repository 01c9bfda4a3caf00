package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jongocollab/jongohub/internal/dto"
	"github.com/jongocollab/jongohub/internal/model"
	"github.com/jongocollab/jongohub/internal/repository"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"github.com/jongocollab/jongohub/pkg/dataurl"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxPageSize = 100

type PostService interface {
	List(ctx context.Context, query dto.ListPostsQuery) (*dto.PostListResult, error)
	Get(ctx context.Context, id primitive.ObjectID) (*dto.PostResponse, error)
	Create(ctx context.Context, author *model.User, input dto.CreatePostInput) (*dto.PostResponse, error)
	Update(ctx context.Context, caller *model.User, id primitive.ObjectID, input dto.UpdatePostInput) (*dto.PostResponse, error)
	Delete(ctx context.Context, caller *model.User, id primitive.ObjectID) error
	ToggleLike(ctx context.Context, callerID, id primitive.ObjectID) (*dto.LikeResult, error)
	AddComment(ctx context.Context, caller *model.User, id primitive.ObjectID, input dto.CommentInput) (*model.Comment, error)
	RequestCollaboration(ctx context.Context, caller *model.User, id primitive.ObjectID, input dto.CollaborateInput) error
	GetImage(ctx context.Context, id primitive.ObjectID, index int) (*dto.PostImage, error)
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
	log   *zap.Logger
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, log *zap.Logger) PostService {
	return &postService{posts: posts, users: users, log: log}
}

func (s *postService) List(ctx context.Context, query dto.ListPostsQuery) (*dto.PostListResult, error) {
	filter := repository.PostFilter{
		Search: query.Search,
		Limit:  query.Limit,
		Page:   query.Page,
	}

	// "all" is a sentinel meaning unfiltered.
	if query.Category != "" && query.Category != "all" {
		filter.Category = query.Category
	}
	if query.Author != "" {
		authorID, err := primitive.ObjectIDFromHex(query.Author)
		if err != nil {
			return nil, apperror.New(http.StatusBadRequest, "Invalid author id", apperror.ErrInvalidInput)
		}
		filter.Author = &authorID
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	authors, err := s.loadAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		items = append(items, dto.NewPostResponse(p, authors[p.Author]))
	}

	pages := total / filter.Limit
	if total%filter.Limit != 0 {
		pages++
	}

	return &dto.PostListResult{
		Posts: items,
		Total: total,
		Page:  filter.Page,
		Pages: pages,
	}, nil
}

// Get fetches one post and counts the read: every fetch increments the view
// counter, with no deduplication by viewer.
func (s *postService) Get(ctx context.Context, id primitive.ObjectID) (*dto.PostResponse, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.posts.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	post.Views++

	resp := dto.NewPostResponse(post, s.loadAuthor(ctx, post.Author))
	return &resp, nil
}

func (s *postService) Create(ctx context.Context, author *model.User, input dto.CreatePostInput) (*dto.PostResponse, error) {
	if err := validateImages(input.Images); err != nil {
		return nil, err
	}

	// Author name and school are snapshots of the profile at creation time.
	post := &model.Post{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Tags:         input.Tags,
		Link:         input.Link,
		Images:       input.Images,
		Author:       author.ID,
		AuthorName:   author.FullName(),
		AuthorSchool: author.SchoolName,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info("post created",
		zap.String("postId", post.ID.Hex()),
		zap.String("author", author.ID.Hex()),
		zap.Int("images", len(post.Images)))

	resp := dto.NewPostResponse(post, dto.NewAuthorInfo(author))
	return &resp, nil
}

func (s *postService) Update(ctx context.Context, caller *model.User, id primitive.ObjectID, input dto.UpdatePostInput) (*dto.PostResponse, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Author != caller.ID {
		return nil, apperror.New(http.StatusForbidden, "Not authorized to update this post", apperror.ErrForbidden)
	}
	if err := validateImages(input.Images); err != nil {
		return nil, err
	}

	// Partial update: only supplied fields overwrite. Link is the one field
	// that may be cleared to empty on purpose.
	set := bson.M{}
	if input.Title != "" {
		set["title"] = input.Title
	}
	if input.Description != "" {
		set["description"] = input.Description
	}
	if input.Category != "" {
		set["category"] = input.Category
	}
	if input.Tags != nil {
		set["tags"] = input.Tags
	}
	if input.Link != nil {
		set["link"] = *input.Link
	}
	if input.Images != nil {
		set["images"] = input.Images
	}

	updated, err := s.posts.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}

	resp := dto.NewPostResponse(updated, s.loadAuthor(ctx, updated.Author))
	return &resp, nil
}

// Delete removes the post document permanently, embedded interactions
// included. The isActive flag only gates listing visibility.
func (s *postService) Delete(ctx context.Context, caller *model.User, id primitive.ObjectID) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post.Author != caller.ID {
		return apperror.New(http.StatusForbidden, "Not authorized to delete this post", apperror.ErrForbidden)
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("post deleted", zap.String("postId", id.Hex()), zap.String("author", caller.ID.Hex()))
	return nil
}

// ToggleLike flips the caller's membership in the likes set. Each call is a
// single atomic update: add when absent, otherwise remove.
func (s *postService) ToggleLike(ctx context.Context, callerID, id primitive.ObjectID) (*dto.LikeResult, error) {
	post, err := s.posts.AddLike(ctx, id, callerID)
	if err == nil {
		return &dto.LikeResult{Liked: true, LikeCount: len(post.Likes)}, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	// Add did not match: the user already liked the post, or it is gone.
	post, err = s.posts.RemoveLike(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResult{Liked: false, LikeCount: len(post.Likes)}, nil
}

func (s *postService) AddComment(ctx context.Context, caller *model.User, id primitive.ObjectID, input dto.CommentInput) (*model.Comment, error) {
	comment := model.Comment{
		User:      caller.ID,
		UserName:  caller.FullName(),
		Text:      input.Text,
		CreatedAt: time.Now(),
	}
	if _, err := s.posts.PrependComment(ctx, id, comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *postService) RequestCollaboration(ctx context.Context, caller *model.User, id primitive.ObjectID, input dto.CollaborateInput) error {
	req := model.CollaborationRequest{
		User:      caller.ID,
		UserName:  caller.FullName(),
		Message:   input.Message,
		Status:    model.CollabPending,
		CreatedAt: time.Now(),
	}
	err := s.posts.AddCollaborationRequest(ctx, id, req)
	if errors.Is(err, apperror.ErrConflict) {
		return apperror.New(http.StatusConflict, "Collaboration request already sent", apperror.ErrConflict)
	}
	return err
}

func (s *postService) GetImage(ctx context.Context, id primitive.ObjectID, index int) (*dto.PostImage, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(post.Images) {
		return nil, apperror.New(http.StatusNotFound, "Image not found", apperror.ErrNotFound)
	}

	mediaType, data, err := dataurl.Decode(post.Images[index])
	if err != nil {
		return nil, apperror.New(http.StatusBadRequest, "Invalid image format", apperror.ErrInvalidInput)
	}
	return &dto.PostImage{MediaType: mediaType, Data: data}, nil
}

func validateImages(images []string) error {
	for _, img := range images {
		if err := dataurl.Validate(img); err != nil {
			return apperror.New(http.StatusBadRequest, err.Error(), apperror.ErrInvalidInput)
		}
	}
	return nil
}

// loadAuthor resolves the live author projection; a deleted author simply
// yields no projection, the snapshot fields on the post still render.
func (s *postService) loadAuthor(ctx context.Context, id primitive.ObjectID) *dto.AuthorInfo {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	return dto.NewAuthorInfo(user)
}

func (s *postService) loadAuthors(ctx context.Context, posts []*model.Post) (map[primitive.ObjectID]*dto.AuthorInfo, error) {
	seen := map[primitive.ObjectID]struct{}{}
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.Author]; !ok {
			seen[p.Author] = struct{}{}
			ids = append(ids, p.Author)
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	authors := make(map[primitive.ObjectID]*dto.AuthorInfo, len(users))
	for _, u := range users {
		authors[u.ID] = dto.NewAuthorInfo(u)
	}
	return authors, nil
}
