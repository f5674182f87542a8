package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/janhq/dm-server/internal/config"
	"github.com/janhq/dm-server/internal/domain/session"
)

// RawTokenCodec uses the user id itself as the session token. Any non-empty
// value resolves; whether the user exists is left to the caller.
type RawTokenCodec struct{}

var _ session.Codec = RawTokenCodec{}

func (RawTokenCodec) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	return userID, nil
}

func (RawTokenCodec) Resolve(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", session.ErrInvalidToken
	}
	return token, nil
}

// SignedTokenCodec issues HS256 JWTs whose subject is the user id.
type SignedTokenCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

var _ session.Codec = (*SignedTokenCodec)(nil)

// NewSignedTokenCodec creates a codec signing with secret.
func NewSignedTokenCodec(secret, issuer string, ttl time.Duration) *SignedTokenCodec {
	return &SignedTokenCodec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *SignedTokenCodec) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *SignedTokenCodec) Resolve(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", session.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", session.ErrInvalidToken
	}
	return claims.Subject, nil
}

// NewTokenCodec picks the codec for the configured session mode.
func NewTokenCodec(cfg *config.Config) session.Codec {
	if cfg.SignedSessions() {
		return NewSignedTokenCodec(cfg.SessionSigningSecret, cfg.ServiceName, cfg.SessionTTL)
	}
	return RawTokenCodec{}
}
