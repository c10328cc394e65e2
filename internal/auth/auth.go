// Package auth turns bearer tokens into principals. It does not manage users
// or sessions; tokens are minted elsewhere.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// Resolver maps a raw bearer token to the opaque principal id it carries.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Claims carried by service tokens. The subject is the principal id.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver verifies HMAC-signed JWTs.
type JWTResolver struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTResolver(secret, issuer string) (*JWTResolver, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &JWTResolver{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

func (r *JWTResolver) Resolve(_ context.Context, token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return "", fmt.Errorf("%w: token is expired", ErrInvalidToken)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}
	if r.issuer != "" && !claims.VerifyIssuer(r.issuer, true) {
		return "", fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// Issue signs a token for subject valid for ttl.
func (r *JWTResolver) Issue(subject, name string, ttl time.Duration) (string, error) {
	now := r.now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    r.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

// StaticResolver accepts a fixed token table, for local runs and tests.
type StaticResolver map[string]string

func (r StaticResolver) Resolve(_ context.Context, token string) (string, error) {
	if principal, ok := r[token]; ok {
		return principal, nil
	}
	return "", ErrInvalidToken
}

// Chain tries each resolver in order and returns the first success.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, token string) (string, error) {
	err := ErrInvalidToken
	for _, r := range c {
		principal, rerr := r.Resolve(ctx, token)
		if rerr == nil {
			return principal, nil
		}
		err = rerr
	}
	return "", err
}

type principalKey struct{}

// WithPrincipal stores the principal on ctx.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// Principal returns the caller's principal, or "" for anonymous callers.
func Principal(ctx context.Context) string {
	p, _ := ctx.Value(principalKey{}).(string)
	return p
}
