package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jongocollab/jongohub/internal/model"
	"github.com/jongocollab/jongohub/internal/token"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubUserRepo struct {
	users map[primitive.ObjectID]*model.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		cp.PasswordHash = ""
		return &cp, nil
	}
	return nil, apperror.ErrNotFound
}

func (r *stubUserRepo) Create(context.Context, *model.User) error { return nil }
func (r *stubUserRepo) FindByIDs(context.Context, []primitive.ObjectID) ([]*model.User, error) {
	return nil, nil
}
func (r *stubUserRepo) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, apperror.ErrNotFound
}
func (r *stubUserRepo) FindPending(context.Context) ([]*model.User, error) { return nil, nil }
func (r *stubUserRepo) UpdateApprovalStatus(context.Context, primitive.ObjectID, model.ApprovalStatus) (*model.User, error) {
	return nil, apperror.ErrNotFound
}
func (r *stubUserRepo) EnsureIndexes(context.Context) error { return nil }

type gateFixture struct {
	mw     *AuthMiddleware
	tokens *token.Service
	repo   *stubUserRepo
}

func newGateFixture() *gateFixture {
	gin.SetMode(gin.TestMode)
	tokens := token.NewService("test-secret", time.Hour)
	repo := &stubUserRepo{users: map[primitive.ObjectID]*model.User{}}
	return &gateFixture{
		mw:     NewAuthMiddleware(repo, tokens),
		tokens: tokens,
		repo:   repo,
	}
}

func (f *gateFixture) addUser(role model.Role, status model.ApprovalStatus) *model.User {
	u := &model.User{
		ID:             primitive.NewObjectID(),
		FirstName:      "First",
		LastName:       "Last",
		Email:          "user@uni.edu",
		Role:           role,
		ApprovalStatus: status,
	}
	f.repo.users[u.ID] = u
	return u
}

func (f *gateFixture) router(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{f.mw.RequireAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "email": user.Email})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(t *testing.T, r *gin.Engine, authHeader string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRequireAuthMissingToken(t *testing.T) {
	f := newGateFixture()
	rec, body := doGet(t, f.router(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestRequireAuthInvalidToken(t *testing.T) {
	f := newGateFixture()

	recMissing, bodyMissing := doGet(t, f.router(), "")
	recInvalid, bodyInvalid := doGet(t, f.router(), "Bearer garbage")

	assert.Equal(t, http.StatusUnauthorized, recInvalid.Code)
	// Invalid and missing tokens are indistinguishable to the client.
	assert.Equal(t, recMissing.Code, recInvalid.Code)
	assert.Equal(t, bodyMissing["message"], bodyInvalid["message"])
}

func TestRequireAuthStaleToken(t *testing.T) {
	f := newGateFixture()

	// Valid signature, but the account is gone.
	tok, err := f.tokens.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	rec, _ := doGet(t, f.router(), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthUnapprovedAccount(t *testing.T) {
	f := newGateFixture()

	for _, status := range []model.ApprovalStatus{model.ApprovalPending, model.ApprovalRejected} {
		u := f.addUser(model.RoleStudent, status)
		tok, err := f.tokens.Issue(u.ID)
		require.NoError(t, err)

		rec, body := doGet(t, f.router(), "Bearer "+tok)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, string(status), body["approvalStatus"], "status %s", status)
	}
}

func TestRequireAuthApprovedAccount(t *testing.T) {
	f := newGateFixture()
	u := f.addUser(model.RoleStudent, model.ApprovalApproved)
	tok, err := f.tokens.Issue(u.ID)
	require.NoError(t, err)

	rec, body := doGet(t, f.router(), "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.Email, body["email"])
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		role model.Role
		want int
	}{
		{model.RoleStudent, http.StatusForbidden},
		{model.RoleSupervisor, http.StatusForbidden},
		{model.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		f := newGateFixture()
		u := f.addUser(tt.role, model.ApprovalApproved)
		tok, err := f.tokens.Issue(u.ID)
		require.NoError(t, err)

		rec, _ := doGet(t, f.router(f.mw.RequireAdmin()), "Bearer "+tok)
		assert.Equal(t, tt.want, rec.Code, "role %s", tt.role)
	}
}

func TestRequireSupervisor(t *testing.T) {
	tests := []struct {
		role model.Role
		want int
	}{
		{model.RoleStudent, http.StatusForbidden},
		{model.RoleSupervisor, http.StatusOK},
		{model.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		f := newGateFixture()
		u := f.addUser(tt.role, model.ApprovalApproved)
		tok, err := f.tokens.Issue(u.ID)
		require.NoError(t, err)

		rec, _ := doGet(t, f.router(f.mw.RequireSupervisor()), "Bearer "+tok)
		assert.Equal(t, tt.want, rec.Code, "role %s", tt.role)
	}
}
