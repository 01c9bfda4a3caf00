package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jongocollab/jongohub/internal/config"
	"github.com/jongocollab/jongohub/internal/dto"
	"github.com/jongocollab/jongohub/internal/model"
	"github.com/jongocollab/jongohub/internal/repository"
	"github.com/jongocollab/jongohub/internal/token"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResult, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResult, error)
}

type authService struct {
	users   repository.UserRepository
	schools repository.SchoolRepository
	tokens  *token.Service
	cfg     *config.Config
	log     *zap.Logger
}

func NewAuthService(users repository.UserRepository, schools repository.SchoolRepository, tokens *token.Service, cfg *config.Config, log *zap.Logger) AuthService {
	return &authService{
		users:   users,
		schools: schools,
		tokens:  tokens,
		cfg:     cfg,
		log:     log,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.New(http.StatusConflict, "User with this email already exists", apperror.ErrConflict)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	school, err := s.schools.FindOrCreate(ctx, input.SchoolName)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	status := model.ApprovalPending
	autoApproved := s.cfg.ShouldAutoApprove(email)
	if autoApproved {
		status = model.ApprovalApproved
	}

	// Role is never client-settable; every registrant starts as a student.
	user := &model.User{
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Email:          email,
		PasswordHash:   string(hash),
		Role:           model.RoleStudent,
		SchoolID:       &school.ID,
		SchoolName:     school.Name,
		Department:     input.Department,
		ApprovalStatus: status,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("email", user.Email),
		zap.String("school", user.SchoolName),
		zap.Bool("autoApproved", autoApproved))

	result := &dto.AuthResult{User: user, AutoApproved: autoApproved}

	// Unapproved accounts never receive a token.
	if autoApproved {
		tok, err := s.tokens.Issue(user.ID)
		if err != nil {
			return nil, err
		}
		result.Token = tok
	}
	return result, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResult, error) {
	// One message for unknown email and wrong password, so logins cannot be
	// used to enumerate accounts.
	invalidCredentials := apperror.New(http.StatusUnauthorized, "Invalid email or password", apperror.ErrUnauthorized)

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, invalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, invalidCredentials
	}

	// Approval gating happens before any token is issued, not only at the
	// request gate.
	switch user.ApprovalStatus {
	case model.ApprovalPending:
		return nil, apperror.New(http.StatusForbidden, "Your account is pending admin approval. Please wait for approval.", apperror.ErrForbidden).
			WithContext("approvalStatus", model.ApprovalPending)
	case model.ApprovalRejected:
		return nil, apperror.New(http.StatusForbidden, "Your account registration was rejected. Please contact support.", apperror.ErrForbidden).
			WithContext("approvalStatus", model.ApprovalRejected)
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &dto.AuthResult{Token: tok, User: user}, nil
}
