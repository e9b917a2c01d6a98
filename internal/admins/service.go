package admins

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/auth"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/db"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/security"
)

// Service authenticates back-office admins.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Profile(ctx context.Context, adminID uuid.UUID) (*AdminDTO, error)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type LoginResult struct {
	AccessToken string   `json:"access_token"`
	Admin       AdminDTO `json:"admin"`
}

type service struct {
	repo   AdminRepository
	jwtCfg config.JWTConfig
	logg   *logger.Logger
	now    func() time.Time
}

func NewService(repo AdminRepository, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "admin repository is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, logg: logg, now: time.Now}, nil
}

// Login verifies credentials and mints a short-lived access token. Unknown
// email and wrong password produce the same error so callers cannot probe
// which addresses have accounts.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	invalidCredentials := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, invalidCredentials
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load admin")
	}

	ok, err := security.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil || !ok {
		return nil, invalidCredentials
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		Name:    admin.Name,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint access token")
	}

	if err := s.repo.TouchLastLogin(ctx, admin.ID, s.now()); err != nil {
		// Login still succeeds; the timestamp is bookkeeping.
		s.logg.Error(s.logg.WithAdminID(ctx, admin.ID.String()), "failed to record last login", err)
	}

	return &LoginResult{
		AccessToken: token,
		Admin:       AdminDTO{ID: admin.ID, Email: admin.Email, Name: admin.Name},
	}, nil
}

func (s *service) Profile(ctx context.Context, adminID uuid.UUID) (*AdminDTO, error) {
	admin, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load admin")
	}
	return &AdminDTO{ID: admin.ID, Email: admin.Email, Name: admin.Name}, nil
}
