package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/freshplate/recipe-service/internal/auth"
	"github.com/freshplate/recipe-service/internal/config"
	"github.com/freshplate/recipe-service/internal/domain"
	"github.com/freshplate/recipe-service/internal/repository"
	apperrors "github.com/freshplate/recipe-service/pkg/util/errorutil"
)

// AccountService coordinates registration, token issuance and profile flows.
type AccountService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	revocations auth.RevocationStore
	bcryptCost  int
}

// AccountDependencies encapsulates requirements for the account service.
type AccountDependencies struct {
	UserRepo        repository.UserRepository
	RevocationStore auth.RevocationStore
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		users:       deps.UserRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revocations: deps.RevocationStore,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// CreateUserInput carries the fields a new account is built from.
type CreateUserInput struct {
	Email       string
	Password    string
	Name        string
	IsStaff     bool
	IsSuperuser bool
}

// CreateUser creates an account. The email is required and stored with its
// domain segment lowercased; the password is kept only as a bcrypt hash.
func (s *AccountService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	email, err := domain.NormalizeEmail(input.Email)
	if err != nil {
		return nil, apperrors.NewValidationError("email is required", map[string]any{"email": "this field may not be blank"})
	}
	if len(input.Password) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("password too short", map[string]any{
			"password": "ensure this field has at least 5 characters",
		})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errEmailTaken()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         input.Name,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      input.IsStaff,
		IsSuperuser:  input.IsSuperuser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the pre-check; the unique
		// index then reports the same field-level error as the pre-check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, errEmailTaken()
		}
		return nil, err
	}
	return user, nil
}

func errEmailTaken() error {
	return apperrors.NewValidationError("email already registered", map[string]any{
		"email": "user with this email already exists",
	})
}

// CreateSuperuser delegates to CreateUser forcing the staff and superuser flags.
func (s *AccountService) CreateSuperuser(ctx context.Context, email, password string) (*domain.User, error) {
	return s.CreateUser(ctx, CreateUserInput{
		Email:       email,
		Password:    password,
		IsStaff:     true,
		IsSuperuser: true,
	})
}

// errInvalidCredentials is the single answer to every authentication failure
// at the token endpoint, so callers cannot tell unknown emails from wrong
// passwords.
func errInvalidCredentials() error {
	return apperrors.NewValidationError("unable to authenticate with provided credentials", nil)
}

// IssueToken authenticates the credentials and mints a bearer token.
func (s *AccountService) IssueToken(ctx context.Context, email, password string) (string, time.Time, error) {
	if password == "" {
		return "", time.Time{}, errInvalidCredentials()
	}
	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return "", time.Time{}, errInvalidCredentials()
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, errInvalidCredentials()
		}
		return "", time.Time{}, err
	}
	if !user.IsActive {
		return "", time.Time{}, errInvalidCredentials()
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, errInvalidCredentials()
	}

	return s.tokenMgr.GenerateToken(user.ID)
}

// Profile returns the account behind an id.
func (s *AccountService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ProfilePatch carries the updatable profile fields; nil means untouched.
type ProfilePatch struct {
	Name     *string
	Password *string
}

// UpdateProfile applies a partial update. A password change re-hashes and
// records a revocation cutoff so previously issued tokens stop working;
// the cutoff write is best effort and never fails the update.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	passwordChanged := false
	if patch.Password != nil {
		if len(*patch.Password) < auth.MinPasswordLength {
			return nil, apperrors.NewValidationError("password too short", map[string]any{
				"password": "ensure this field has at least 5 characters",
			})
		}
		hash, err := auth.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		passwordChanged = true
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	if passwordChanged && s.revocations != nil {
		_ = s.revocations.Revoke(ctx, userID)
	}
	return user, nil
}
