package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	revokedKeyPrefix = "revoked_token:"
	minRevocationTTL = time.Minute
)

// RevocationStore keeps revoked tokens in Redis. Entries expire together
// with the token they block, so no purge job is needed.
type RevocationStore struct {
	client *goredis.Client
	now    func() time.Time
}

func NewRevocationStore(client *goredis.Client) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// Revoke marks the token revoked. SETNX keeps the first recorded expiry, so
// repeated calls are harmless. A zero expiresAt stores the entry without a
// TTL.
func (s *RevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = expiresAt.Sub(s.now())
		if ttl < minRevocationTTL {
			ttl = minRevocationTTL
		}
	}
	return s.client.SetNX(ctx, revokedKey(token), expiresAt.Unix(), ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}
