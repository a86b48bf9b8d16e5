package tokenauth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeMissingFields      = "missing_fields"
	TextCodeTokenMissing       = "token_missing"
	TextCodeTokenExpired       = "token_expired"
	TextCodeTokenMalformed     = "token_malformed"
	TextCodeTokenSignature     = "token_signature_invalid"
	TextCodeProfileNotFound    = "profile_not_found"
	TextCodeInvalidInput       = "invalid_input"
)

// ErrIdentityNotFound is the error stores return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProfileNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidCredentials is returned on login failure. Unknown identity and
// wrong secret produce this same value so clients cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrMissingFields is returned when the login payload lacks required fields.
var ErrMissingFields = errors.New("email and password required", errors.CategoryValidation).
	WithTextCode(TextCodeMissingFields).
	WithCode(errors.CodeBadRequest)

// ErrTokenMissing is returned when a protected route receives no bearer token.
var ErrTokenMissing = errors.New("authorization token is required", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMissing).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for well formed, correctly signed tokens whose
// expiry is in the past. Unlike the malformed/signature cases this one IS
// surfaced distinctly to clients.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be parsed at all.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignatureInvalid is returned when the signature does not verify or
// the token asserts a signing method other than the pinned one. Kept distinct
// from ErrTokenMalformed internally; both map to the same client message.
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenSignature).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidInput is returned when the profile payload carries a non string name.
var ErrInvalidInput = errors.New("name must be a string", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidInput).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for unparseable tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsSignatureError will check for signature verification failures
func IsSignatureError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, TextCodeTokenSignature) {
		return true
	}
	return strings.Contains(err.Error(), "signature is invalid")
}

// IsInvalidTokenError covers the failures that collapse into the generic
// "invalid token" client message: malformed tokens and bad signatures.
func IsInvalidTokenError(err error) bool {
	return IsMalformedError(err) || IsSignatureError(err)
}

func hasTextCode(err error, code string) bool {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}
