package usecase

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"skills-matrix/internal/config"
	"skills-matrix/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

type LoginResult struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

type AuthUsecase interface {
	Login(ctx context.Context, username, password string) (LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// RevocationStore remembers token ids that must no longer be accepted.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Auth struct {
	credentials config.AuthConfig
	jwt         jwt.Service
	revocations RevocationStore
	logger      *log.Logger

	now func() time.Time

	warnedNoRevocation atomic.Bool
	storeDown          atomic.Bool
}

func NewAuthUsecase(credentials config.AuthConfig, jwtSvc jwt.Service, revocations RevocationStore, logger *log.Logger) *Auth {
	return &Auth{
		credentials: credentials,
		jwt:         jwtSvc,
		revocations: revocations,
		logger:      logger,
		now:         time.Now,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizer keeps unknown usernames as slow as wrong passwords.
func equalizer() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("skills-matrix-unknown-user"), bcrypt.DefaultCost)
	})
	return dummyHash
}

func (u *Auth) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, invalidInput("Username and password are required")
	}

	hash, ok := u.credentials.Lookup(username)
	if !ok {
		_ = bcrypt.CompareHashAndPassword(equalizer(), []byte(password))
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	tok, claims, err := u.jwt.GenerateToken(username)
	if err != nil {
		return LoginResult{}, err
	}
	if u.logger != nil {
		u.logger.Printf("[Auth] login username=%s jti=%s", username, claims.TokenID())
	}
	return LoginResult{Token: tok, Username: username, ExpiresAt: claims.ExpiresAt()}, nil
}

// Logout revokes a still-valid token until it would have expired anyway.
// It never fails: invalid tokens and store errors leave logout client-side.
func (u *Auth) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	claims, err := u.jwt.ValidateToken(token)
	if err != nil {
		return nil
	}

	if u.revocations == nil {
		if u.logger != nil && u.warnedNoRevocation.CompareAndSwap(false, true) {
			u.logger.Printf("[Auth] no revocation store configured, logout is client-side only")
		}
		return nil
	}

	ttl := claims.ExpiresAt().Sub(u.now())
	if ttl <= 0 || claims.TokenID() == "" {
		return nil
	}
	if err := u.revocations.Revoke(ctx, claims.TokenID(), ttl); err != nil {
		u.storeFailed("revoke", claims.TokenID(), err)
		return nil
	}
	u.storeRecovered()
	if u.logger != nil {
		u.logger.Printf("[Auth] logout username=%s jti=%s", claims.Username, claims.TokenID())
	}
	return nil
}

// IsRevoked reports a revoked token id. Lookup failures are treated as not revoked
// so that an unavailable store never locks every user out.
func (u *Auth) IsRevoked(ctx context.Context, tokenID string) bool {
	if u.revocations == nil || tokenID == "" {
		return false
	}
	revoked, err := u.revocations.IsRevoked(ctx, tokenID)
	if err != nil {
		u.storeFailed("revocation lookup", tokenID, err)
		return false
	}
	u.storeRecovered()
	return revoked
}

// storeFailed logs the first failure of an outage only; the guard runs on
// every request.
func (u *Auth) storeFailed(op, tokenID string, err error) {
	if u.storeDown.CompareAndSwap(false, true) && u.logger != nil {
		u.logger.Printf("[Auth] %s failed jti=%s err=%v, further store errors suppressed until it recovers", op, tokenID, err)
	}
}

func (u *Auth) storeRecovered() {
	if u.storeDown.CompareAndSwap(true, false) && u.logger != nil {
		u.logger.Printf("[Auth] revocation store recovered")
	}
}
