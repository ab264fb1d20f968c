// internal/app/auth.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campusreview/betyg/internal/identity"
	"github.com/campusreview/betyg/internal/models"
)

// Auth turns validated logins into bearer tokens and resolves tokens back
// into session identity. With enable_auth off it issues tokenless sessions
// and the handlers trust the identity header instead.
type Auth struct {
	enabled     bool
	sessions    *SessionManager
	tokenHeader string
}

func NewAuth(config *Config) (*Auth, error) {
	if !config.Server.EnableAuth {
		return &Auth{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := time.Duration(config.Auth.SessionTTLMinutes) * time.Minute

	return &Auth{
		enabled:     true,
		sessions:    NewSessionManager(client, ttl),
		tokenHeader: config.Auth.TokenHeader,
	}, nil
}

func (a *Auth) Enabled() bool {
	return a.enabled
}

func (a *Auth) Close() error {
	if a.sessions != nil {
		return a.sessions.Close()
	}
	return nil
}

// StartSession registers a fresh session for an already-validated login.
func (a *Auth) StartSession(ctx context.Context, who identity.Session) (*models.SessionInfo, error) {
	if !a.enabled {
		return &models.SessionInfo{Email: who.Email, RegNo: who.RegNo}, nil
	}
	return a.sessions.CreateSession(ctx, who.Email, who.RegNo)
}

// SessionFromRequest resolves the bearer token on a request back into the
// identity captured at login.
func (a *Auth) SessionFromRequest(r *http.Request) (identity.Session, error) {
	if !a.enabled {
		return identity.Session{}, fmt.Errorf("auth is disabled")
	}

	authHeader := r.Header.Get(a.tokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return identity.Session{}, fmt.Errorf("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	info, err := a.sessions.FetchSession(r.Context(), token)
	if err != nil {
		logger.Debug.Printf("Session lookup failed: %v", err)
		return identity.Session{}, fmt.Errorf("invalid session token")
	}

	return identity.Session{Email: info.Email, RegNo: info.RegNo}, nil
}

// EndSession drops the session behind the request's bearer token, if any.
func (a *Auth) EndSession(r *http.Request) error {
	if !a.enabled {
		return nil
	}

	authHeader := r.Header.Get(a.tokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return fmt.Errorf("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	return a.sessions.DeleteSession(r.Context(), token)
}
