package tokenauth

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/goliatone/go-errors"
)

// Auther implements the Authenticator interface over an IdentityStore
type Auther struct {
	store        IdentityStore
	signingKey   []byte
	tokenTTL     time.Duration
	issuer       string
	audience     []string
	logger       Logger
	tokenService TokenService
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store IdentityStore, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenTTL(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		store:        store,
		signingKey:   []byte(opts.GetSigningKey()),
		tokenTTL:     opts.GetTokenTTL(),
		audience:     opts.GetAudience(),
		issuer:       opts.GetIssuer(),
		logger:       defLogger{},
		tokenService: tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenTTL,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the identifier/secret pair against the store and mints a
// token on success. Unknown identity and wrong secret are logged with their
// real cause but both return ErrInvalidCredentials to the caller.
func (s *Auther) Login(ctx context.Context, identifier, secret string) (string, error) {
	if identifier == "" || secret == "" {
		return "", ErrMissingFields
	}

	user, err := s.store.FindByEmail(ctx, identifier)
	if err != nil {
		s.logger.Error("Login identity lookup failed", "identifier", identifier, "error", err)
		if errors.Is(err, ErrIdentityNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "identity lookup failed")
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(secret)) != 1 {
		s.logger.Error("Login secret mismatch", "identifier", identifier)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(userIdentity{user})
	if err != nil {
		s.logger.Error("Login token generation failed", "error", err)
		return "", err
	}

	return token, nil
}

// UpdateProfile mutates the display name of the record the verified principal
// points at. The target is always claims.Email(); client-supplied identifiers
// never participate. An empty displayName keeps the stored name and still
// succeeds. A principal that no longer resolves is a not-found, not an
// authentication failure: the token itself was valid.
func (s *Auther) UpdateProfile(ctx context.Context, claims AuthClaims, displayName string) (*Profile, error) {
	if claims == nil {
		return nil, errors.New("verified principal is required", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	user, err := s.store.UpdateDisplayName(ctx, claims.Email(), displayName)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			s.logger.Info("UpdateProfile principal no longer resolves", "email", claims.Email())
			return nil, ErrIdentityNotFound
		}
		s.logger.Error("UpdateProfile store error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "profile update failed")
	}

	return user.Profile(), nil
}

// userIdentity adapts a stored User to the Identity interface. ID and Email
// both return the email so subject and identity stay equal in minted claims.
type userIdentity struct {
	user *User
}

func (u userIdentity) ID() string {
	return u.user.Email
}

func (u userIdentity) Email() string {
	return u.user.Email
}

func (u userIdentity) DisplayName() string {
	return u.user.DisplayName
}
