package tokenauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
)

func testClaims(email string) *JWTClaims {
	return &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserEmail: email,
	}
}

func TestGetClaims(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func() context.Context
		wantOK   bool
	}{
		{
			name: "claims present",
			setupCtx: func() context.Context {
				return WithClaimsContext(context.Background(), testClaims("user@example.com"))
			},
			wantOK: true,
		},
		{
			name:     "claims absent",
			setupCtx: context.Background,
			wantOK:   false,
		},
		{
			name: "wrong value type under key",
			setupCtx: func() context.Context {
				return context.WithValue(context.Background(), claimsCtxKey, "not claims")
			},
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims, ok := GetClaims(tc.setupCtx())
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, "user@example.com", claims.Email())
			} else {
				assert.Nil(t, claims)
			}
		})
	}
}

func TestGetRouterClaims(t *testing.T) {
	t.Run("claims stored under configured key", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.LocalsMock["principal"] = testClaims("user@example.com")

		claims, ok := GetRouterClaims(ctx, "principal")
		assert.True(t, ok)
		assert.Equal(t, "user@example.com", claims.Email())
	})

	t.Run("empty key falls back to default", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.LocalsMock["user"] = testClaims("user@example.com")

		claims, ok := GetRouterClaims(ctx, "")
		assert.True(t, ok)
		assert.Equal(t, "user@example.com", claims.Email())
	})

	t.Run("no claims in locals", func(t *testing.T) {
		ctx := router.NewMockContext()

		claims, ok := GetRouterClaims(ctx, "user")
		assert.False(t, ok)
		assert.Nil(t, claims)
	})

	t.Run("non claims value in locals", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.LocalsMock["user"] = "just a string"

		claims, ok := GetRouterClaims(ctx, "user")
		assert.False(t, ok)
		assert.Nil(t, claims)
	})
}
