package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/generated/servers"
	"orderflow/internal/pkg/errs"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
)

const requesterKey = "requester"

// AuthConfig describes the HS256 tokens the API accepts.
type AuthConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// NewJWTValidator builds an HS256 validator for the configured issuer and audience.
func NewJWTValidator(cfg AuthConfig) (*validator.Validator, error) {
	if len(cfg.Secret) == 0 {
		return nil, errs.NewValueIsRequiredError("auth secret")
	}

	keyFunc := func(context.Context) (interface{}, error) {
		return cfg.Secret, nil
	}

	return validator.New(
		keyFunc,
		validator.HS256,
		cfg.Issuer,
		[]string{cfg.Audience},
		validator.WithAllowedClockSkew(time.Minute),
	)
}

// Authenticate validates the bearer token and stores its subject as the requester.
// Requests without a valid token are answered with 401.
func Authenticate(jwtValidator *validator.Validator, logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.DebugContext(r.Context(), "jwt rejected", "error", err)
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":401,"message":"missing or invalid bearer token"}`))
	}

	checkJWT := echo.WrapMiddleware(jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	).CheckJWT)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return checkJWT(func(ctx echo.Context) error {
			claims, ok := ctx.Request().Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, servers.Error{
					Code:    http.StatusUnauthorized,
					Message: "missing or invalid bearer token",
				})
			}

			requester, err := kernel.NewOwnerID(claims.RegisteredClaims.Subject)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, servers.Error{
					Code:    http.StatusUnauthorized,
					Message: "token has no subject",
				})
			}

			ctx.Set(requesterKey, requester)
			return next(ctx)
		})
	}
}

// WithRequester stores an already authenticated requester on the context.
func WithRequester(ctx echo.Context, requester kernel.OwnerID) {
	ctx.Set(requesterKey, requester)
}

func requesterFrom(ctx echo.Context) (kernel.OwnerID, error) {
	requester, ok := ctx.Get(requesterKey).(kernel.OwnerID)
	if !ok {
		return kernel.OwnerID{}, errs.NewAccessDeniedError("api", "anonymous")
	}
	return requester, nil
}
