// Package session reads the externally-owned session state. The auth flow
// writes a signed token into a well-known redis key on login and removes
// it on logout; this adapter turns that key into an optional identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store implements domain.SessionReader on top of redis.
type Store struct {
	rdb    *redis.Client
	key    string
	secret string
}

// NewStore creates a session store reading the token from key.
func NewStore(rdb *redis.Client, key, secret string) *Store {
	return &Store{
		rdb:    rdb,
		key:    key,
		secret: secret,
	}
}

// CurrentIdentity reads and validates the session token. An absent key is
// a clean "no identity"; an unreadable key or a token that fails
// validation is an error the caller treats as logged out.
func (s *Store) CurrentIdentity(ctx context.Context) (uuid.UUID, bool, error) {
	token, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("read session key: %w", err)
	}
	return ParseSessionToken(token, s.secret)
}

// ParseSessionToken validates a session JWT and extracts the identity
// from its subject claim.
func ParseSessionToken(tokenStr, secret string) (uuid.UUID, bool, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, false, jwt.ErrSignatureInvalid
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("session subject is not an identity: %w", err)
	}
	return id, true, nil
}

// IssueSessionToken creates a signed session token for identity. The
// engine itself never issues sessions; this exists for the auth flow's
// tooling and for tests.
func IssueSessionToken(identity uuid.UUID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   identity.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
