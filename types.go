package tokenauth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Email() string
	DisplayName() string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, secret string) (string, error)
	UpdateProfile(ctx context.Context, claims AuthClaims, displayName string) (*Profile, error)
	TokenService() TokenService
}

// TokenService mints and validates signed tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// IdentityStore ensure we have a store to retrieve and update identities.
// FindByEmail returns ErrIdentityNotFound when no record matches.
// UpdateDisplayName keeps the stored name when displayName is empty; the
// mutation must be atomic with respect to concurrent readers of the record.
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateDisplayName(ctx context.Context, email, displayName string) (*User, error)
}

// ItemStore lists the public catalog
type ItemStore interface {
	ListItems(ctx context.Context) ([]Item, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetAudience() []string
	GetAuthScheme() string
}

// LoginPayload is the transport-agnostic login input
type LoginPayload interface {
	GetIdentifier() string
	GetSecret() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
