package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidTokenType = errors.New("token type must be access or refresh")
	ErrEmptySubject     = errors.New("token subject is required")
)

// Claims is the signed payload: sub, type and exp, plus jti and iat so
// tokens issued within the same second still differ.
type Claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenPayload is a successfully decoded token.
type TokenPayload struct {
	Subject   string
	Type      TokenType
	ExpiresAt time.Time
}

// TokenCodec signs and verifies self-contained session tokens. It keeps no
// record of issued tokens.
type TokenCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec builds a codec for an HMAC algorithm (HS256, HS384, HS512).
func NewTokenCodec(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenCodec{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// WithClock replaces the codec's time source.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

// TTL returns the default lifetime for tokens of type t.
func (c *TokenCodec) TTL(t TokenType) time.Duration {
	if t == TokenTypeRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token for subject. A non-positive ttl selects the configured
// default for the token type.
func (c *TokenCodec) Issue(subject string, tokenType TokenType, ttl time.Duration) (string, error) {
	if tokenType != TokenTypeAccess && tokenType != TokenTypeRefresh {
		return "", ErrInvalidTokenType
	}
	if subject == "" {
		return "", ErrEmptySubject
	}
	if ttl <= 0 {
		ttl = c.TTL(tokenType)
	}

	now := c.now()
	claims := Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Decode verifies signature, algorithm and expiry. It returns false on any
// failure and never inspects the token type.
func (c *TokenCodec) Decode(tokenString string) (*TokenPayload, bool) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}

	return &TokenPayload{
		Subject:   claims.Subject,
		Type:      claims.Type,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}
