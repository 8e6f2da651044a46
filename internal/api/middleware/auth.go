// Package middleware wires session authentication and role checks into Echo.
package middleware

import (
	"net/http"

	"logitrack/internal/models"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// SessionAuth returns middleware that resolves the caller's identity from the
// session cookie (or a bearer header) and stores userID/userRole in the
// request context for handlers.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "cookie:" + SessionCookieName + ",header:Authorization:Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(models.SessionClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token := c.Get("user").(*jwt.Token)
			claims := token.Claims.(*models.SessionClaims)
			c.Set("userID", claims.Subject)
			c.Set("userRole", claims.Role)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, models.Fail("Authentication required"))
		},
	})
}

// RequireRole rejects callers whose role is not in the allowed set. It must
// run after SessionAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("userRole").(string)
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, models.Fail("Access denied"))
		}
	}
}

// ErrorHandler is the catch-all Echo error handler. Expected HTTP errors keep
// their status; everything else is logged and returned as a generic 500 so no
// internals leak to the caller.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if he, ok := err.(*echo.HTTPError); ok {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		_ = c.JSON(he.Code, models.Fail(msg))
		return
	}
	c.Logger().Error("unhandled error: ", err)
	_ = c.JSON(http.StatusInternalServerError, models.Fail("Internal server error"))
}
