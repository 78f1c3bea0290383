package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/user-vault/backend/internal/apierror"
	"github.com/user-vault/backend/internal/config"
	"github.com/user-vault/backend/internal/db"
	"github.com/user-vault/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const refreshCookieName = "refreshToken"

// UserStore is the durable account store consumed by the auth and user
// services.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// TokenStore holds at most one refresh-token row per user. Upsert must be
// atomic: login and refresh replace the row, logout deletes it.
type TokenStore interface {
	UpsertRefreshToken(ctx context.Context, userID int64, token string) (*model.RefreshToken, error)
	GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error)
}

type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

// AuthService orchestrates register, login, logout and refresh. It keeps no
// state of its own beyond injected dependencies.
type AuthService struct {
	users     UserStore
	sessions  TokenStore
	tokens    *TokenService
	cookieCfg CookieConfig
}

func NewAuthService(users UserStore, sessions TokenStore, tokens *TokenService, cfg config.AuthConfig) (*AuthService, error) {
	cookieSecure, err := parseBool(cfg.CookieSecure, false)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}

	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	cookiePath := cfg.CookiePath
	if strings.TrimSpace(cookiePath) == "" {
		cookiePath = "/"
	}

	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		cookieCfg: CookieConfig{
			Name:     refreshCookieName,
			Path:     cookiePath,
			Domain:   cfg.CookieDomain,
			Secure:   cookieSecure,
			SameSite: cookieSameSite,
			MaxAge:   int(tokens.RefreshTTL().Seconds()),
		},
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig {
	return s.cookieCfg
}

// Register creates an account and starts a session. The lookups give friendly
// duplicate messages, but the storage unique constraints are authoritative:
// a concurrent registration that slips past the pre-checks still surfaces as
// the same duplicate error when the insert hits the constraint.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.AuthResponse, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, duplicateEmail(email)
	} else if !db.IsNoRows(err) {
		return nil, err
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, duplicateUsername(username)
	} else if !db.IsNoRows(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return nil, duplicateEmail(email)
			}
			return nil, duplicateUsername(username)
		}
		return nil, err
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.AuthResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apierror.BadRequest(fmt.Sprintf("There is no user with username: %s.", username))
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apierror.BadRequest("Wrong password.")
	}

	return s.startSession(ctx, user)
}

// Logout verifies and deletes the stored refresh token. The delete returns
// the removed row, so a token that was already rotated or deleted by a
// concurrent request cannot be logged out twice.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) (*model.RefreshToken, error) {
	if refreshToken == "" {
		return nil, apierror.Unauthorized()
	}

	if _, err := s.tokens.VerifyRefreshToken(refreshToken); err != nil {
		return nil, apierror.Unauthorized()
	}

	if _, err := s.sessions.GetRefreshToken(ctx, refreshToken); err != nil {
		if db.IsNoRows(err) {
			return nil, apierror.Unauthorized()
		}
		return nil, err
	}

	deleted, err := s.sessions.DeleteRefreshToken(ctx, refreshToken)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apierror.Unauthorized()
		}
		return nil, err
	}
	return deleted, nil
}

// Refresh exchanges a valid stored refresh token for a new pair, rotating the
// stored value. The user is reloaded by id rather than trusted from the token
// payload.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	if refreshToken == "" {
		return nil, apierror.Unauthorized()
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apierror.Unauthorized()
	}

	if _, err := s.sessions.GetRefreshToken(ctx, refreshToken); err != nil {
		if db.IsNoRows(err) {
			return nil, apierror.Unauthorized()
		}
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, claims.ID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apierror.Unauthorized()
		}
		return nil, err
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) startSession(ctx context.Context, user *model.User) (*model.AuthResponse, error) {
	projection := user.Projection()

	tokens, err := s.tokens.IssueTokenPair(projection)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.UpsertRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &model.AuthResponse{User: projection, Tokens: tokens}, nil
}

func duplicateEmail(email string) *apierror.APIError {
	return apierror.BadRequest(fmt.Sprintf("The user with email: %s is already exists.", email))
}

func duplicateUsername(username string) *apierror.APIError {
	return apierror.BadRequest(fmt.Sprintf("The user with username: %s is already exists.", username))
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func parseSameSite(value string) (http.SameSite, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("unknown SameSite value %q", value)
	}
}
