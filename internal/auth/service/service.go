// Package service implements authentication: credential checks, access
// token issuance, and the environment-driven admin bootstrap.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"advisormatch_backend/internal/auth/password"
	"advisormatch_backend/internal/auth/repository"
	"advisormatch_backend/platform/apperr"
	"advisormatch_backend/platform/config"
	"advisormatch_backend/platform/logger"
)

const accessTokenType = "access"

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
	User        repository.User
}

// Login checks credentials and issues a signed access token. Unknown email
// and wrong password produce the same error so the response does not leak
// which accounts exist.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (LoginResult, error) {
	const op = "auth.Login"

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return LoginResult{}, apperr.Unauthorized("invalid credentials").WithOp(op)
		}
		return LoginResult{}, apperr.Wrap(apperr.KindInternal, "failed to load user", err).WithOp(op)
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return LoginResult{}, apperr.Unauthorized("invalid credentials").WithOp(op)
	}

	ttl := s.cfg.GetAccessTokenTTL()
	token, err := s.signAccessToken(user, ttl)
	if err != nil {
		return LoginResult{}, apperr.Wrap(apperr.KindInternal, "failed to sign token", err).WithOp(op)
	}

	s.log.AuthEvent("login", email, true, "")
	return LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
		User:        user,
	}, nil
}

// Me returns the authenticated user's own record.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	const op = "auth.Me"

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.User{}, apperr.NotFound("user not found").WithOp(op)
		}
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "failed to load user", err).WithOp(op)
	}
	return user, nil
}

// CreateAdvisorUser creates login credentials for an advisor. The advisorId
// claim in issued tokens scopes that user to their own records.
func (s *Service) CreateAdvisorUser(ctx context.Context, email, plainPassword string, advisorID uuid.UUID) (repository.User, error) {
	const op = "auth.CreateAdvisorUser"

	email = strings.ToLower(strings.TrimSpace(email))
	if len(plainPassword) < 12 {
		return repository.User{}, apperr.Validation("password must be at least 12 characters").WithOp(op)
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err).WithOp(op)
	}

	user, err := s.repo.Create(ctx, email, hash, repository.RoleAdvisor, &advisorID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.User{}, apperr.Conflict("a user with this email already exists").WithOp(op)
		}
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "failed to create user", err).WithOp(op)
	}

	s.log.AuthEvent("user_created", email, true, "")
	return user, nil
}

// EnsureAdminBootstrap seeds the admin account from the environment on
// startup. The credential never appears in code or migrations. A missing
// bootstrap config is skipped; an already-existing account is left as is.
func (s *Service) EnsureAdminBootstrap(ctx context.Context) error {
	const op = "auth.EnsureAdminBootstrap"

	email := strings.ToLower(strings.TrimSpace(s.cfg.GetAdminBootstrapEmail()))
	plain := s.cfg.GetAdminBootstrapPassword()
	if email == "" || plain == "" {
		s.log.Warn("admin bootstrap skipped, credentials not configured")
		return nil
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return apperr.Wrap(apperr.KindInternal, "failed to check bootstrap account", err).WithOp(op)
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to hash bootstrap password", err).WithOp(op)
	}

	if _, err := s.repo.Create(ctx, email, hash, repository.RoleAdmin, nil); err != nil {
		if isUniqueViolation(err) {
			// Lost a race against a concurrent instance, account exists.
			return nil
		}
		return apperr.Wrap(apperr.KindInternal, "failed to create bootstrap account", err).WithOp(op)
	}

	s.log.AuthEvent("admin_bootstrap", email, true, "")
	return nil
}

func (s *Service) signAccessToken(user repository.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"type":  accessTokenType,
		"roles": []string{user.Role},
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	if user.AdvisorID != nil {
		claims["advisorId"] = user.AdvisorID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
