package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jongocollab/jongohub/internal/model"
	"github.com/jongocollab/jongohub/internal/repository"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the mongo implementations' contracts,
// including the atomic matched/not-matched semantics of the like and
// collaboration updates.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperror.New(409, "User with this email already exists", apperror.ErrConflict)
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			cp := *u
			cp.PasswordHash = ""
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *fakeUserRepo) FindPending(_ context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.User{}
	for _, u := range r.users {
		if u.ApprovalStatus == model.ApprovalPending {
			cp := *u
			cp.PasswordHash = ""
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeUserRepo) UpdateApprovalStatus(_ context.Context, id primitive.ObjectID, status model.ApprovalStatus) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	u.ApprovalStatus = status
	u.UpdatedAt = time.Now()
	cp := *u
	cp.PasswordHash = ""
	return &cp, nil
}

func (r *fakeUserRepo) EnsureIndexes(context.Context) error { return nil }

type fakeSchoolRepo struct {
	mu      sync.Mutex
	schools map[string]*model.School
}

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{schools: map[string]*model.School{}}
}

func (r *fakeSchoolRepo) FindOrCreate(_ context.Context, name string) (*model.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name = strings.TrimSpace(name)
	if s, ok := r.schools[name]; ok {
		cp := *s
		return &cp, nil
	}
	s := &model.School{
		ID:        primitive.NewObjectID(),
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	r.schools[name] = s
	cp := *s
	return &cp, nil
}

func (r *fakeSchoolRepo) EnsureIndexes(context.Context) error { return nil }

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[primitive.ObjectID]*model.Post{}}
}

func clonePost(p *model.Post) *model.Post {
	cp := *p
	cp.Tags = append([]string{}, p.Tags...)
	cp.Images = append([]string{}, p.Images...)
	cp.Likes = append([]primitive.ObjectID{}, p.Likes...)
	cp.Comments = append([]model.Comment{}, p.Comments...)
	cp.CollaborationRequests = append([]model.CollaborationRequest{}, p.CollaborationRequests...)
	return &cp
}

func (r *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return clonePost(p), nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (r *fakePostRepo) List(_ context.Context, filter repository.PostFilter) ([]*model.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*model.Post
	for _, p := range r.posts {
		if !p.IsActive {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Author != nil && p.Author != *filter.Author {
			continue
		}
		if filter.Search != "" {
			hit := containsFold(p.Title, filter.Search) || containsFold(p.Description, filter.Search)
			for _, tag := range p.Tags {
				hit = hit || containsFold(tag, filter.Search)
			}
			if !hit {
				continue
			}
		}
		matched = append(matched, clonePost(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *fakePostRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	for key, value := range set {
		switch key {
		case "title":
			p.Title = value.(string)
		case "description":
			p.Description = value.(string)
		case "category":
			p.Category = value.(string)
		case "tags":
			p.Tags = value.([]string)
		case "link":
			p.Link = value.(string)
		case "images":
			p.Images = value.([]string)
		case "updatedAt":
			p.UpdatedAt = value.(time.Time)
		}
	}
	return clonePost(p), nil
}

func (r *fakePostRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return apperror.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		p.Views++
	}
	return nil
}

func (r *fakePostRepo) AddLike(_ context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.LikedBy(userID) {
		return nil, apperror.ErrNotFound
	}
	p.Likes = append(p.Likes, userID)
	return clonePost(p), nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || !p.LikedBy(userID) {
		return nil, apperror.ErrNotFound
	}
	likes := p.Likes[:0]
	for _, l := range p.Likes {
		if l != userID {
			likes = append(likes, l)
		}
	}
	p.Likes = likes
	return clonePost(p), nil
}

func (r *fakePostRepo) PrependComment(_ context.Context, id primitive.ObjectID, comment model.Comment) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	p.Comments = append([]model.Comment{comment}, p.Comments...)
	return clonePost(p), nil
}

func (r *fakePostRepo) AddCollaborationRequest(_ context.Context, id primitive.ObjectID, req model.CollaborationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return apperror.ErrNotFound
	}
	for _, existing := range p.CollaborationRequests {
		if existing.User == req.User {
			return apperror.ErrConflict
		}
	}
	p.CollaborationRequests = append(p.CollaborationRequests, req)
	return nil
}

func (r *fakePostRepo) EnsureIndexes(context.Context) error { return nil }
