// Package session carries the authenticated rider through a request.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoRider = errors.New("no rider in context")

// Claims is the token payload issued by the identity provider. The subject is the rider id.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Rider is the caller of a request.
type Rider struct {
	ID    string
	Name  string
	Email string
}

type riderKey struct{}

func WithRider(ctx context.Context, r Rider) context.Context {
	return context.WithValue(ctx, riderKey{}, r)
}

func FromContext(ctx context.Context) (Rider, error) {
	r, ok := ctx.Value(riderKey{}).(Rider)
	if !ok || r.ID == "" {
		return Rider{}, ErrNoRider
	}
	return r, nil
}

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses the token and returns the rider it was issued to.
func (v *Verifier) Verify(tokenString string) (Rider, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Rider{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return Rider{}, fmt.Errorf("parse token: invalid")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Rider{}, fmt.Errorf("token has no subject")
	}

	return Rider{ID: sub, Name: claims.Name, Email: claims.Email}, nil
}

// Issue signs a token for riderID. Used by tests and local tooling; production
// tokens come from the identity provider.
func (v *Verifier) Issue(riderID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   riderID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
