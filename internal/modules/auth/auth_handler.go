package auth

import (
	"errors"
	"net/http"
	"time"

	"logitrack/internal/api/middleware"
	"logitrack/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	svc        ServiceInterface
	validate   *validator.Validate
	sessionTTL time.Duration
}

// NewHandler creates a new auth handler.
func NewHandler(svc ServiceInterface, sessionTTL time.Duration) *Handler {
	return &Handler{
		svc:        svc,
		validate:   validator.New(),
		sessionTTL: sessionTTL,
	}
}

func (h *Handler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Validation failed", validationErrors(err)...))
	}

	user, token, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, models.Fail("Email already registered"))
		}
		c.Logger().Error("Handler.Register: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to register"))
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusCreated, models.OK(models.AuthResponse{User: user, Token: token}))
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Validation failed", validationErrors(err)...))
	}

	user, token, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, models.Fail("Invalid email or password"))
		}
		if errors.Is(err, models.ErrAccountInactive) {
			return c.JSON(http.StatusForbidden, models.Fail("Account is deactivated"))
		}
		c.Logger().Error("Handler.Login: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to log in"))
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, models.OK(models.AuthResponse{User: user, Token: token}))
}

func (h *Handler) Me(c echo.Context) error {
	userID := c.Get("userID").(string)

	user, err := h.svc.Me(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("User not found"))
		}
		c.Logger().Error("Handler.Me: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to load profile"))
	}
	return c.JSON(http.StatusOK, models.OK(user))
}

func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, models.OKMessage("Logged out"))
}

func (h *Handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func validationErrors(err error) []string {
	var out []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out = append(out, fe.Field()+": failed on '"+fe.Tag()+"'")
		}
		return out
	}
	return []string{err.Error()}
}
