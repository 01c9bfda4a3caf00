package bootstrap

import (
	"context"
	"errors"

	"github.com/jongocollab/jongohub/internal/config"
	"github.com/jongocollab/jongohub/internal/model"
	"github.com/jongocollab/jongohub/internal/repository"
	"github.com/jongocollab/jongohub/pkg/apperror"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdminUser creates an approved admin account in development so the
// approval workflow can be exercised on a fresh database. It is a no-op
// when the account already exists or no seed password is configured.
func SeedAdminUser(ctx context.Context, users repository.UserRepository, cfg *config.Config, log *zap.Logger) error {
	if cfg.SeedAdminPassword == "" {
		log.Debug("no seed admin password configured, skipping admin seed")
		return nil
	}

	_, err := users.FindByEmail(ctx, cfg.SeedAdminEmail)
	if err == nil {
		log.Debug("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		FirstName:      "Admin",
		LastName:       "User",
		Email:          cfg.SeedAdminEmail,
		PasswordHash:   string(hash),
		Role:           model.RoleAdmin,
		SchoolName:     "JongoHub",
		Department:     "other",
		ApprovalStatus: model.ApprovalApproved,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	log.Info("seeded admin user", zap.String("email", admin.Email))
	return nil
}
