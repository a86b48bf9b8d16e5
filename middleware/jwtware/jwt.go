// Package jwtware gates protected routes behind bearer-token verification.
// Extraction is deliberately strict: the Authorization header must carry the
// literal scheme prefix followed by the token, nothing else. A failed
// verification short-circuits the request; the downstream handler never runs.
package jwtware

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-router"
)

var (
	// ErrTokenMissing is returned when the Authorization header is absent or
	// does not carry the expected scheme.
	ErrTokenMissing = errors.New("authorization token is required")
)

// AuthClaims interface for structured claims without import cycles.
// This mirrors the AuthClaims interface from the tokenauth package.
type AuthClaims interface {
	Subject() string
	Email() string
	DisplayName() string
}

// TokenValidator interface for validating tokens without import cycles.
// This mirrors the TokenService.Validate method from the tokenauth package.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	return f(tokenString)
}

type Config struct {
	// Filter skips the middleware when it returns true
	Filter func(router.Context) bool
	// SuccessHandler runs after validation; defaults to ctx.Next()
	SuccessHandler router.HandlerFunc
	// ErrorHandler resolves every authentication failure; the protected
	// handler is unreachable once it runs
	ErrorHandler router.ErrorHandler
	// ContextKey is the router locals key claims are stored under
	ContextKey string
	// AuthScheme is the literal scheme prefix, "Bearer" unless overridden
	AuthScheme string
	// TokenValidator is required for token validation
	TokenValidator TokenValidator
	// ContextEnricher is an optional function to propagate claims to the
	// standard Go context. If provided, it will be called after successful
	// token validation.
	ContextEnricher func(c context.Context, claims AuthClaims) context.Context
}

// New returns a middleware enforcing bearer-token authentication
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractBearerToken(ctx, cfg.AuthScheme)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, claims)

			// if a context enricher we use it to propagate claims to the standard context
			if cfg.ContextEnricher != nil {
				stdCtx := ctx.Context()
				stdCtxWithClaims := cfg.ContextEnricher(stdCtx, claims)
				ctx.SetContext(stdCtxWithClaims)
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// ExtractBearerToken pulls the raw token from the Authorization header. The
// header must start with the scheme followed by a single space; case-sensitive,
// no other parsing leniency.
func ExtractBearerToken(ctx router.Context, authScheme string) (string, error) {
	header := ctx.GetString(router.HeaderAuthorization, "")
	if header == "" {
		return "", ErrTokenMissing
	}

	prefix := authScheme + " "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrTokenMissing
	}

	token := header[len(prefix):]
	if token == "" {
		return "", ErrTokenMissing
	}

	return token, nil
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			if errors.Is(err, ErrTokenMissing) {
				return c.Status(router.StatusUnauthorized).SendString(ErrTokenMissing.Error())
			}
			return c.Status(router.StatusUnauthorized).SendString("Invalid or expired token")
		}
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: JWT middleware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}
