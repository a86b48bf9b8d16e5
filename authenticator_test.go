package tokenauth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	tokenauth "github.com/goliatone/go-tokenauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testConfig implements tokenauth.Config for testing
type testConfig struct {
	signingKey string
	tokenTTL   time.Duration
}

func (c testConfig) GetSigningKey() string {
	if c.signingKey == "" {
		return "test-signing-key"
	}
	return c.signingKey
}

func (c testConfig) GetSigningMethod() string { return "HS256" }
func (c testConfig) GetContextKey() string { return "user" }

func (c testConfig) GetTokenTTL() time.Duration {
	if c.tokenTTL == 0 {
		return time.Hour
	}
	return c.tokenTTL
}

func (c testConfig) GetIssuer() string     { return testIssuer }
func (c testConfig) GetAudience() []string { return nil }
func (c testConfig) GetAuthScheme() string { return "Bearer" }

func seededStore() *tokenauth.MemoryStore {
	return tokenauth.NewMemoryStore().SeedUsers(
		&tokenauth.User{Email: "user1@example.com", Password: "12345", DisplayName: "User One"},
		&tokenauth.User{Email: "user2@example.com", Password: "pass456", DisplayName: "User Two"},
	)
}

func newTestAuthenticator(store tokenauth.IdentityStore) *tokenauth.Auther {
	return tokenauth.NewAuthenticator(store, testConfig{}).WithLogger(quietLogger())
}

func TestLoginMintsVerifiableToken(t *testing.T) {
	auther := newTestAuthenticator(seededStore())

	token, err := auther.Login(context.Background(), "user1@example.com", "12345")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auther.TokenService().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user1@example.com", claims.Email())
	assert.Equal(t, "user1@example.com", claims.Subject())
	assert.Equal(t, "User One", claims.DisplayName())
}

func TestLoginMissingFields(t *testing.T) {
	auther := newTestAuthenticator(seededStore())

	tests := []struct {
		name       string
		identifier string
		secret     string
	}{
		{name: "missing identifier", identifier: "", secret: "12345"},
		{name: "missing secret", identifier: "user1@example.com", secret: ""},
		{name: "missing both", identifier: "", secret: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, err := auther.Login(context.Background(), tc.identifier, tc.secret)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, tokenauth.ErrMissingFields)
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	auther := newTestAuthenticator(seededStore())

	_, unknownErr := auther.Login(context.Background(), "nobody@example.com", "12345")
	_, wrongSecretErr := auther.Login(context.Background(), "user1@example.com", "wrong")

	require.Error(t, unknownErr)
	require.Error(t, wrongSecretErr)

	assert.ErrorIs(t, unknownErr, tokenauth.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongSecretErr, tokenauth.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongSecretErr.Error(),
		"unknown identity and wrong secret must be indistinguishable to the caller")
}

// failingStore returns an unexpected error from every operation
type failingStore struct {
	err error
}

func (s failingStore) FindByEmail(ctx context.Context, email string) (*tokenauth.User, error) {
	return nil, s.err
}

func (s failingStore) UpdateDisplayName(ctx context.Context, email, displayName string) (*tokenauth.User, error) {
	return nil, s.err
}

func TestLoginStoreFailureIsNotCredentialFailure(t *testing.T) {
	auther := newTestAuthenticator(failingStore{err: errors.New("connection refused")})

	token, err := auther.Login(context.Background(), "user1@example.com", "12345")
	assert.Empty(t, token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, tokenauth.ErrInvalidCredentials)
}

func TestUpdateProfileChangesDisplayName(t *testing.T) {
	store := seededStore()
	auther := newTestAuthenticator(store)

	claims := &tokenauth.JWTClaims{UserEmail: "user1@example.com"}

	profile, err := auther.UpdateProfile(context.Background(), claims, "Renamed User")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "user1@example.com", profile.Email)
	assert.Equal(t, "Renamed User", profile.DisplayName)

	stored, err := store.FindByEmail(context.Background(), "user1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", stored.DisplayName)
}

func TestUpdateProfileEmptyNameKeepsStoredName(t *testing.T) {
	store := seededStore()
	auther := newTestAuthenticator(store)

	claims := &tokenauth.JWTClaims{UserEmail: "user1@example.com"}

	profile, err := auther.UpdateProfile(context.Background(), claims, "")
	require.NoError(t, err)
	assert.Equal(t, "User One", profile.DisplayName)
}

func TestUpdateProfileOnlyTouchesPrincipalRecord(t *testing.T) {
	store := seededStore()
	auther := newTestAuthenticator(store)

	claims := &tokenauth.JWTClaims{UserEmail: "user1@example.com"}

	_, err := auther.UpdateProfile(context.Background(), claims, "Renamed User")
	require.NoError(t, err)

	other, err := store.FindByEmail(context.Background(), "user2@example.com")
	require.NoError(t, err)
	assert.Equal(t, "User Two", other.DisplayName, "a principal must never reach another identity's record")
}

func TestUpdateProfilePrincipalNoLongerResolves(t *testing.T) {
	store := seededStore()
	auther := newTestAuthenticator(store)

	store.DeleteUser(context.Background(), "user1@example.com")

	claims := &tokenauth.JWTClaims{UserEmail: "user1@example.com"}

	profile, err := auther.UpdateProfile(context.Background(), claims, "Renamed User")
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, tokenauth.ErrIdentityNotFound,
		"a valid token whose record is gone is a not-found, not an auth failure")
}

func TestUpdateProfileNilClaims(t *testing.T) {
	auther := newTestAuthenticator(seededStore())

	profile, err := auther.UpdateProfile(context.Background(), nil, "Renamed User")
	assert.Nil(t, profile)
	assert.Error(t, err)
}

func TestWithLoggerForwardsFailures(t *testing.T) {
	logger := &MockLogger{}
	logger.On("Error", mock.Anything, mock.Anything).Return()

	auther := tokenauth.NewAuthenticator(seededStore(), testConfig{}).WithLogger(logger)

	_, err := auther.Login(context.Background(), "user1@example.com", "wrong")
	require.Error(t, err)

	logger.AssertCalled(t, "Error", mock.Anything, mock.Anything)
}
