package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials issues and verifies the signed bearer tokens handed to staff
// after login. It holds no state besides the signing key.
type Credentials struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// Verification is the outcome of checking a token. Expired implies !Valid.
type Verification struct {
	Subject uint
	Expired bool
	Valid   bool
}

func NewCredentials(secret string, defaultTTL time.Duration) *Credentials {
	return &Credentials{secret: []byte(secret), defaultTTL: defaultTTL, now: time.Now}
}

// Issue signs a token for the staff id. ttl <= 0 uses the default lifetime.
func (c *Credentials) Issue(subject uint, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.sign(subject, c.now().Add(ttl))
}

func (c *Credentials) TTL() time.Duration { return c.defaultTTL }

func (c *Credentials) sign(subject uint, expires time.Time) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(subject), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature, algorithm and expiry, and extracts the subject.
func (c *Credentials) Verify(tokenString string) Verification {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())

	if err != nil {
		return Verification{Expired: errors.Is(err, jwt.ErrTokenExpired)}
	}
	if !token.Valid {
		return Verification{}
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return Verification{}
	}
	return Verification{Subject: uint(id), Valid: true}
}
