package middlewares

import (
	"e-voting/app/server/apperr"
	"e-voting/app/server/constants"
	"e-voting/app/server/gate"
	"errors"
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// ErrorResponder writes err to the client.
type ErrorResponder func(c echo.Context, err error) error

// sessionLookupError marks gate failures that are not the caller's fault.
type sessionLookupError struct {
	err error
}

func (e *sessionLookupError) Error() string { return e.err.Error() }
func (e *sessionLookupError) Unwrap() error { return e.err }

// Auth reads the bearer token and lets g decide whether it is still good.
// The resulting identity is available through IdentityFrom.
func Auth(g *gate.Gate, respond ErrorResponder) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  constants.ContextKeyIdentity,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			id, err := g.Authenticate(c.Request().Context(), auth)
			if err != nil {
				if !errors.Is(err, apperr.ErrUnauthenticated) {
					return nil, &sessionLookupError{err: err}
				}
				return nil, err
			}
			return id, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var lookup *sessionLookupError
			if errors.As(err, &lookup) {
				return respond(c, lookup.err)
			}
			// missing header, wrong scheme or a rejected token
			if !errors.Is(err, apperr.ErrUnauthenticated) {
				err = fmt.Errorf("%w: %w", apperr.ErrUnauthenticated, err)
			}
			return respond(c, err)
		},
	})
}

// RequireAdmin must run after Auth.
func RequireAdmin(respond ErrorResponder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := gate.RequireAdmin(IdentityFrom(c)); err != nil {
				return respond(c, err)
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity Auth stored, or nil.
func IdentityFrom(c echo.Context) *gate.Identity {
	id, _ := c.Get(constants.ContextKeyIdentity).(*gate.Identity)
	return id
}
