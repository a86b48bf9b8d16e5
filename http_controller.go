package tokenauth

import (
	"bytes"
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-tokenauth/middleware/jwtware"
)

// APIControllerRoutes holds the route paths the controller registers
type APIControllerRoutes struct {
	Health  string
	Items   string
	Login   string
	Profile string
}

// APIController wires the marketplace JSON API: public health and item
// routes, login, and the protected profile update.
type APIController struct {
	Debug        bool
	Logger       Logger
	Auther       Authenticator
	Items        ItemStore
	Routes       *APIControllerRoutes
	Config       Config
	ErrorHandler router.ErrorHandler
}

type APIControllerOption func(*APIController) *APIController

// WithAuthenticator sets the Authenticator backing login and profile updates
func WithAuthenticator(auther Authenticator) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Auther = auther
		return c
	}
}

// WithItemStore sets the catalog store
func WithItemStore(items ItemStore) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Items = items
		return c
	}
}

// WithConfig sets the auth configuration
func WithConfig(cfg Config) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Config = cfg
		return c
	}
}

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger Logger) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Logger = logger
		return c
	}
}

// NewAPIController creates an APIController with default routes
func NewAPIController(opts ...APIControllerOption) *APIController {
	c := &APIController{
		Logger: defLogger{},
		Routes: &APIControllerRoutes{
			Health:  "/",
			Items:   "/items",
			Login:   "/auth/login",
			Profile: "/profile",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in API controller...")
	}

	if c.Config == nil {
		panic("Missing Config in API controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = c.defaultErrHandler
	}

	return c
}

// RegisterAPIRoutes mounts the controller on the given router
func RegisterAPIRoutes[T any](app router.Router[T], opts ...APIControllerOption) *APIController {
	c := NewAPIController(opts...)

	app.Get(c.Routes.Health, c.Health).SetName("health.get")
	app.Get(c.Routes.Items, c.ItemsIndex).SetName("items.get")
	app.Post(c.Routes.Login, c.LoginPost).SetName("auth-login.post")
	app.Put(c.Routes.Profile, c.ProfileUpdate, c.ProtectedRoute()).SetName("profile.put")

	return c
}

// ProtectedRoute returns the middleware guarding mutating routes. Claims are
// stored in router locals under the configured context key and propagated to
// the request's standard context.
func (a *APIController) ProtectedRoute() router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		TokenValidator: AdaptTokenValidator(a.Auther.TokenService()),
		ErrorHandler:   a.AuthErrorHandler,
		ContextKey:     a.Config.GetContextKey(),
		AuthScheme:     a.Config.GetAuthScheme(),
		ContextEnricher: func(c context.Context, claims jwtware.AuthClaims) context.Context {
			if authClaims, ok := claims.(AuthClaims); ok {
				return WithClaimsContext(c, authClaims)
			}
			return c
		},
	})
}

// AdaptTokenValidator exposes a TokenValidator under the middleware's
// cycle-free interface.
func AdaptTokenValidator(validator TokenValidator) jwtware.TokenValidator {
	return jwtware.TokenValidatorFunc(func(raw string) (jwtware.AuthClaims, error) {
		claims, err := validator.Validate(raw)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

// AuthErrorHandler converts verification failures into client responses.
// Expiry is surfaced distinctly; malformed and bad-signature tokens share one
// message so verification internals do not leak. The failure cause stays in
// the server log with its full classification.
func (a *APIController) AuthErrorHandler(ctx router.Context, err error) error {
	switch {
	case errors.Is(err, jwtware.ErrTokenMissing):
		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error": "Authorization token is required",
		})
	case IsTokenExpiredError(err):
		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error": "Token expired",
		})
	default:
		a.Logger.Info("Rejected token", "error", err.Error())
		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"error": "Invalid token",
		})
	}
}

// Health is the root banner route
func (a *APIController) Health(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "marketplace API is running",
	})
}

// ItemsIndex lists the public catalog
func (a *APIController) ItemsIndex(ctx router.Context) error {
	if a.Items == nil {
		return a.ErrorHandler(ctx, errors.New("item store not configured", errors.CategoryInternal))
	}

	items, err := a.Items.ListItems(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"items": items,
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the identity key
func (r LoginRequest) GetIdentifier() string {
	return r.Email
}

// GetSecret returns the shared secret
func (r LoginRequest) GetSecret() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginPost handles credential submission and returns a minted token
func (a *APIController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, ErrMissingFields.Category, ErrMissingFields.Message).
			WithTextCode(ErrMissingFields.TextCode).
			WithCode(ErrMissingFields.Code))
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": ErrMissingFields.Message,
		})
	}

	if a.Debug {
		// never the secret, not even in debug output
		a.Logger.Debug("login attempt", "identifier", payload.GetIdentifier())
	}

	token, err := a.Auther.Login(ctx.Context(), payload.GetIdentifier(), payload.GetSecret())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"token": token,
	})
}

// ProfileUpdateRequest payload. Name is typed as any so a present but non
// string value can be rejected rather than silently coerced.
type ProfileUpdateRequest struct {
	Name any `form:"name" json:"name"`
}

func (r ProfileUpdateRequest) displayName() (string, error) {
	switch name := r.Name.(type) {
	case nil:
		return "", nil
	case string:
		return name, nil
	default:
		return "", ErrInvalidInput
	}
}

// ProfileUpdate mutates the display name of the record the verified principal
// resolves to. The target identity comes from the claims the middleware
// attached, never from the request payload.
func (a *APIController) ProfileUpdate(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, a.Config.GetContextKey())
	if !ok {
		return a.AuthErrorHandler(ctx, jwtware.ErrTokenMissing)
	}

	payload := new(ProfileUpdateRequest)
	if body := bytes.TrimSpace(ctx.Body()); len(body) > 0 {
		if err := ctx.Bind(payload); err != nil {
			return a.ErrorHandler(ctx, errors.Wrap(err, ErrInvalidInput.Category, ErrInvalidInput.Message).
				WithTextCode(ErrInvalidInput.TextCode).
				WithCode(ErrInvalidInput.Code))
		}
	}

	displayName, err := payload.displayName()
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	record, err := a.Auther.UpdateProfile(ctx.Context(), claims, displayName)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message": "Profile updated",
		"record":  record,
	})
}

func (a *APIController) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"API error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return c.JSON(router.StatusUnauthorized, map[string]string{
			"error": richErr.Message,
		})
	case errors.CategoryValidation, errors.CategoryBadInput:
		return c.JSON(router.StatusBadRequest, map[string]string{
			"error": richErr.Message,
		})
	case errors.CategoryNotFound:
		return c.JSON(router.StatusNotFound, map[string]string{
			"error": "User not found",
		})
	default:
		a.Logger.Error("Unhandled API error", "error", err.Error())
		return c.JSON(router.StatusInternalServerError, map[string]string{
			"error": "Internal Server Error",
		})
	}
}
