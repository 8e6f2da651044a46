// Package api wires handlers, middleware, and routes into an Echo instance.
package api

import (
	"net/http"

	appmw "logitrack/internal/api/middleware"
	"logitrack/internal/models"
	"logitrack/internal/modules/auth"
	"logitrack/internal/modules/delivery"
	"logitrack/internal/modules/users"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlers groups the per-module HTTP handlers.
type Handlers struct {
	Auth     *auth.Handler
	Users    *users.Handler
	Delivery *delivery.Handler
}

// New builds the Echo instance with all routes registered.
func New(h Handlers, jwtSecret, clientOrigin string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = appmw.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	if clientOrigin != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{clientOrigin},
			AllowCredentials: true,
		}))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.OKMessage("ok"))
	})

	session := appmw.SessionAuth(jwtSecret)
	adminOnly := appmw.RequireRole(models.RoleAdmin)

	api := e.Group("/api")

	// Auth
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.GET("/me", h.Auth.Me, session)
	authGroup.POST("/logout", h.Auth.Logout, session)

	// Deliveries. The tracking route is deliberately public.
	d := api.Group("/deliveries")
	d.GET("/track/:trackingNumber", h.Delivery.Track)
	d.POST("", h.Delivery.CreateDelivery, session, appmw.RequireRole(models.RoleCustomer))
	d.GET("", h.Delivery.ListDeliveries, session)
	d.GET("/:id", h.Delivery.GetDelivery, session)
	d.PUT("/:id/assign", h.Delivery.AssignDriver, session, adminOnly)
	d.PUT("/:id/status", h.Delivery.UpdateStatus, session, appmw.RequireRole(models.RoleAdmin, models.RoleDriver))

	// Users
	u := api.Group("/users", session)
	u.GET("", h.Users.ListUsers, adminOnly)
	u.GET("/:id", h.Users.GetUser)
	u.PUT("/:id", h.Users.UpdateUser)
	u.DELETE("/:id", h.Users.DeactivateUser, adminOnly)
	u.PUT("/:id/activate", h.Users.ActivateUser, adminOnly)

	return e
}
