package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/user-vault/backend/internal/config"
	"github.com/user-vault/backend/internal/model"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMisconfigured = errors.New("auth config invalid")
)

type tokenClaims struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the access/refresh token pair. Access and
// refresh tokens use distinct secrets so one can never stand in for the
// other. No I/O; safe to call from request handlers.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET_ACCESS_KEY is required", ErrMisconfigured)
	}
	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET_REFRESH_KEY is required", ErrMisconfigured)
	}

	accessTTL, err := time.ParseDuration(cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}

	refreshTTL, err := time.ParseDuration(cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWT_REFRESH_TTL", ErrMisconfigured)
	}

	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) IssueTokenPair(user model.UserProjection) (model.TokenPair, error) {
	accessToken, err := s.sign(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.sign(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *TokenService) VerifyAccessToken(token string) (model.UserProjection, error) {
	return s.verify(token, s.accessSecret)
}

func (s *TokenService) VerifyRefreshToken(token string) (model.UserProjection, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenService) sign(user model.UserProjection, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// Timestamps have second precision; the jti keeps two tokens
			// issued back to back from being identical, so rotation always
			// changes the stored value.
			ID: uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *TokenService) verify(tokenStr string, secret []byte) (model.UserProjection, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return model.UserProjection{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return model.UserProjection{}, ErrInvalidToken
	}

	return model.UserProjection{
		ID:        userID,
		Username:  claims.Username,
		Email:     claims.Email,
		CreatedAt: claims.CreatedAt,
	}, nil
}
