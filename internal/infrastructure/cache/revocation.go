package cache

import (
	"context"
	"time"
)

const revokedPrefix = "auth:revoked:"

type keyValueStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// TokenRevocations is a denylist of JWT ids; entries expire with the token.
type TokenRevocations struct {
	kv keyValueStore
}

func NewTokenRevocations(kv keyValueStore) *TokenRevocations {
	return &TokenRevocations{kv: kv}
}

func RevokedKey(tokenID string) string {
	return revokedPrefix + tokenID
}

func (t *TokenRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return t.kv.Set(ctx, RevokedKey(tokenID), "1", ttl)
}

func (t *TokenRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return t.kv.Exists(ctx, RevokedKey(tokenID))
}
