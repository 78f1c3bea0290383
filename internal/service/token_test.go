package service

import (
	"errors"
	"testing"
	"time"

	"github.com/user-vault/backend/internal/config"
	"github.com/user-vault/backend/internal/model"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     "30m",
		RefreshTTL:    "720h",
	}
}

func testProjection() model.UserProjection {
	return model.UserProjection{
		ID:        7,
		Username:  "username",
		Email:     "email@gmail.com",
		CreatedAt: time.Now().Truncate(time.Second),
	}
}

func TestIssueAndVerifyTokenPair(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	user := testProjection()
	pair, err := svc.IssueTokenPair(user)
	if err != nil {
		t.Fatalf("IssueTokenPair error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}

	fromAccess, err := svc.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken error: %v", err)
	}
	if fromAccess.ID != user.ID || fromAccess.Username != user.Username || fromAccess.Email != user.Email {
		t.Fatalf("access claims mismatch: got %+v want %+v", fromAccess, user)
	}

	fromRefresh, err := svc.VerifyRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefreshToken error: %v", err)
	}
	if fromRefresh.ID != user.ID {
		t.Fatalf("refresh claims mismatch: got %+v", fromRefresh)
	}
}

func TestTokenSecretsAreDistinct(t *testing.T) {
	svc, _ := NewTokenService(testAuthConfig())
	pair, err := svc.IssueTokenPair(testProjection())
	if err != nil {
		t.Fatalf("IssueTokenPair error: %v", err)
	}

	if _, err := svc.VerifyRefreshToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
	if _, err := svc.VerifyAccessToken(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTTL = "-1s"
	svc, err := NewTokenService(cfg)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	pair, err := svc.IssueTokenPair(testProjection())
	if err != nil {
		t.Fatalf("IssueTokenPair error: %v", err)
	}
	if _, err := svc.VerifyAccessToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	svc, _ := NewTokenService(testAuthConfig())

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.VerifyAccessToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}

	pair, _ := svc.IssueTokenPair(testProjection())
	tampered := pair.AccessToken + "x"
	if _, err := svc.VerifyAccessToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestRotationProducesDistinctTokens(t *testing.T) {
	svc, _ := NewTokenService(testAuthConfig())
	user := testProjection()

	first, err := svc.IssueTokenPair(user)
	if err != nil {
		t.Fatalf("IssueTokenPair error: %v", err)
	}
	second, err := svc.IssueTokenPair(user)
	if err != nil {
		t.Fatalf("IssueTokenPair error: %v", err)
	}
	if first.RefreshToken == second.RefreshToken {
		t.Fatalf("expected distinct refresh tokens on rotation")
	}
}

func TestNewTokenServiceMisconfigured(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.AuthConfig)
	}{
		{"missing access secret", func(c *config.AuthConfig) { c.AccessSecret = "" }},
		{"missing refresh secret", func(c *config.AuthConfig) { c.RefreshSecret = "" }},
		{"bad access ttl", func(c *config.AuthConfig) { c.AccessTTL = "soon" }},
		{"bad refresh ttl", func(c *config.AuthConfig) { c.RefreshTTL = "30 days" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testAuthConfig()
			tt.mutate(&cfg)
			if _, err := NewTokenService(cfg); !errors.Is(err, ErrMisconfigured) {
				t.Fatalf("expected ErrMisconfigured, got %v", err)
			}
		})
	}
}
