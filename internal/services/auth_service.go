package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperrors"
	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

var errInvalidCredentials = apperrors.NewUnauthorizedError("invalid username or password")

// ClientInfo describes where a sign-in came from.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// AuthResult is returned by a successful sign-up or sign-in.
type AuthResult struct {
	User    *models.User
	Session *models.Session
	Token   string
}

// Identity is the authenticated caller of a request. RefreshedToken is set
// when the session was extended and the client should store a new token.
type Identity struct {
	User           *models.User
	Session        *models.Session
	RefreshedToken string
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	cfg         config.AuthConfig
	jwtSecret   []byte
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		jwtSecret:   []byte(cfg.Secret),
		logger:      logger.Named("auth"),
		now:         time.Now,
	}
}

// SignUp registers a new user and signs them in.
func (s *AuthService) SignUp(ctx context.Context, input models.SignUpInput, client ClientInfo) (*AuthResult, error) {
	if _, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("username '%s' already taken", input.Username), "username")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewInternalError("failed to check username", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflictError(fmt.Sprintf("email '%s' already registered", input.Email), "email")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewInternalError("failed to check email", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	role := models.RoleUser
	if s.cfg.IsAdminUsername(input.Username) {
		role = models.RoleAdmin
	}
	user := &models.User{
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.NewConflictError("username or email already registered", "username")
		}
		return nil, apperrors.NewInternalError("failed to register user", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", role))
	return s.startSession(ctx, user, client)
}

// SignIn checks credentials and opens a new session. It never reveals
// whether the username or the password was wrong.
func (s *AuthService) SignIn(ctx context.Context, input models.SignInInput, client ClientInfo) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperrors.NewInternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.startSession(ctx, user, client)
}

// Authenticate resolves a session token to the signed-in user. Sessions older
// than the update age are extended and a refreshed token is returned.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid session token")
	}

	session, err := s.sessionRepo.Get(ctx, claims.Id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("session not found")
		}
		return nil, apperrors.NewInternalError("failed to load session", err)
	}

	now := s.now()
	if session.Expired(now) {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session", zap.String("session_id", session.ID), zap.Error(err))
		}
		return nil, apperrors.NewUnauthorizedError("session expired")
	}
	if strconv.FormatUint(uint64(session.UserID), 10) != claims.Subject {
		return nil, apperrors.NewUnauthorizedError("invalid session token")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("user no longer exists")
		}
		return nil, apperrors.NewInternalError("failed to load user", err)
	}

	identity := &Identity{User: user, Session: session}
	if now.Sub(session.RefreshedAt) >= s.cfg.UpdateAge {
		expiresAt := now.Add(s.cfg.SessionTTL)
		if err := s.sessionRepo.Extend(ctx, session.ID, expiresAt, now); err != nil {
			return nil, apperrors.NewInternalError("failed to extend session", err)
		}
		session.ExpiresAt = expiresAt
		session.RefreshedAt = now

		token, err := s.signToken(session)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to sign token", err)
		}
		identity.RefreshedToken = token
	}
	return identity, nil
}

// SignOut deletes the session, revoking every token that references it.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return apperrors.NewInternalError("failed to delete session", err)
	}
	return nil
}

// SetRole changes the role of a user.
func (s *AuthService) SetRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, apperrors.NewValidationError("unknown role",
			apperrors.ValidationDetail{Field: "role", Message: "must be user or admin"})
	}
	user, err := s.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, apperrors.NewInternalError("failed to update role", err)
	}
	s.logger.Info("role changed", zap.Uint("user_id", userID), zap.String("role", role))
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *models.User, client ClientInfo) (*AuthResult, error) {
	now := s.now()
	session := &models.Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		ExpiresAt:   now.Add(s.cfg.SessionTTL),
		RefreshedAt: now,
		IPAddress:   client.IPAddress,
		UserAgent:   client.UserAgent,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, apperrors.NewInternalError("failed to create session", err)
	}

	token, err := s.signToken(session)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sign token", err)
	}
	return &AuthResult{User: user, Session: session, Token: token}, nil
}

func (s *AuthService) signToken(session *models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Id:        session.ID,
		Subject:   strconv.FormatUint(uint64(session.UserID), 10),
		ExpiresAt: session.ExpiresAt.Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

// parseToken validates signature and expiry of a session token.
func (s *AuthService) parseToken(tokenString string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Id == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
