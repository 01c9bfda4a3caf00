package service

import (
	"context"

	"github.com/jongocollab/jongohub/internal/model"
	"github.com/jongocollab/jongohub/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AdminService interface {
	ListPendingUsers(ctx context.Context) ([]*model.User, error)
	ApproveUser(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	RejectUser(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

type adminService struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewAdminService(users repository.UserRepository, log *zap.Logger) AdminService {
	return &adminService{users: users, log: log}
}

func (s *adminService) ListPendingUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.FindPending(ctx)
}

// ApproveUser sets the account approved. Re-approving is a state-level
// no-op; concurrent conflicting transitions are last-writer-wins.
func (s *adminService) ApproveUser(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.users.UpdateApprovalStatus(ctx, id, model.ApprovalApproved)
	if err != nil {
		return nil, err
	}
	s.log.Info("user approved", zap.String("userId", id.Hex()), zap.String("email", user.Email))
	return user, nil
}

func (s *adminService) RejectUser(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.users.UpdateApprovalStatus(ctx, id, model.ApprovalRejected)
	if err != nil {
		return nil, err
	}
	s.log.Info("user rejected", zap.String("userId", id.Hex()), zap.String("email", user.Email))
	return user, nil
}
