package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/internal/repository"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
	"github.com/noah-isme/army-personnel-api/pkg/password"
	"github.com/noah-isme/army-personnel-api/pkg/validation"
)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id int64) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

type sessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// AuthConfig defines session token settings.
type AuthConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// AuthService authenticates admins and resolves session tokens.
type AuthService struct {
	users     authUserRepository
	sessions  sessionStore
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, sessions sessionStore, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if config.TTL <= 0 {
		config.TTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Login verifies credentials and opens a session. Unknown users, inactive users and wrong
// passwords all fail with the same error.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid login payload")
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = password.VerifyDummy(req.Password)
			return nil, s.loginFailed()
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin user")
	}

	if err := password.Verify(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.logger.Warn("stored password hash unusable", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		return nil, s.loginFailed()
	}
	if !user.IsActive {
		return nil, s.loginFailed()
	}
	if password.IsLegacy(user.PasswordHash) {
		s.upgradeHash(ctx, user.ID, req.Password)
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TTL),
		IP:        req.IP,
		UserAgent: req.UserAgent,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	token, err := s.signToken(session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	s.metrics.RecordLogin(true)
	s.logger.Info("admin logged in", zap.Int64("user_id", user.ID), zap.String("session_id", session.ID))

	return &models.LoginResponse{Token: token, ExpiresAt: session.ExpiresAt, User: *user}, nil
}

// upgradeHash moves a legacy scrypt hash to bcrypt so every later check costs the same as the
// dummy comparison done for unknown users. Failures leave the legacy hash in place.
func (s *AuthService) upgradeHash(ctx context.Context, userID int64, plain string) {
	hash, err := password.Hash(plain)
	if err != nil {
		s.logger.Warn("failed to rehash legacy password", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		s.logger.Warn("failed to store upgraded password hash", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	s.logger.Info("legacy password hash upgraded", zap.Int64("user_id", userID))
}

func (s *AuthService) loginFailed() error {
	s.metrics.RecordLogin(false)
	return appErrors.Clone(appErrors.ErrInvalidCredentials, "")
}

func (s *AuthService) signToken(session *models.Session) (string, error) {
	claims := models.SessionClaims{
		SessionID: session.ID,
		UserID:    session.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(session.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

// Authenticate resolves a session token into the acting admin.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Actor, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	claims := &models.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session user")
	}
	if !user.IsActive {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account is inactive")
	}

	return &models.Actor{UserID: user.ID, Username: user.Username, SessionID: session.ID}, nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to end session")
	}
	return nil
}

// CurrentUser returns the admin behind the actor.
func (s *AuthService) CurrentUser(ctx context.Context, actor models.Actor) (*models.AdminUser, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load admin %d", actor.UserID))
	}
	return user, nil
}
