package users

import (
	"errors"
	"net/http"
	"strconv"

	"logitrack/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for user profiles.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new user handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) GetUser(c echo.Context) error {
	callerID := c.Get("userID").(string)
	role := c.Get("userRole").(string)

	u, err := h.svc.GetProfile(c.Request().Context(), c.Param("id"), callerID, role)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			return c.JSON(http.StatusForbidden, models.Fail("Access denied"))
		}
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("User not found"))
		}
		c.Logger().Error("Handler.GetUser: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to retrieve user"))
	}
	return c.JSON(http.StatusOK, models.OK(u))
}

func (h *Handler) UpdateUser(c echo.Context) error {
	callerID := c.Get("userID").(string)
	role := c.Get("userRole").(string)

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Validation failed", validationErrors(err)...))
	}

	u, err := h.svc.UpdateProfile(c.Request().Context(), c.Param("id"), callerID, role, req)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			return c.JSON(http.StatusForbidden, models.Fail("Access denied"))
		}
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("User not found"))
		}
		c.Logger().Error("Handler.UpdateUser: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to update user"))
	}
	return c.JSON(http.StatusOK, models.OK(u))
}

func (h *Handler) ListUsers(c echo.Context) error {
	page, limit := paginationParams(c)

	users, total, err := h.svc.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListUsers: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to list users"))
	}
	return c.JSON(http.StatusOK, models.APIResponse{
		Success:    true,
		Data:       users,
		Pagination: models.NewPagination(page, limit, total),
	})
}

func (h *Handler) DeactivateUser(c echo.Context) error {
	if err := h.svc.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("User not found"))
		}
		c.Logger().Error("Handler.DeactivateUser: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to deactivate user"))
	}
	return c.JSON(http.StatusOK, models.OKMessage("User deactivated"))
}

func (h *Handler) ActivateUser(c echo.Context) error {
	if err := h.svc.Activate(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("User not found"))
		}
		c.Logger().Error("Handler.ActivateUser: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to activate user"))
	}
	return c.JSON(http.StatusOK, models.OKMessage("User activated"))
}

// paginationParams extracts page/limit query params with sane bounds.
func paginationParams(c echo.Context) (int, int) {
	page := 1
	limit := 10
	if pageStr := c.QueryParam("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	return page, limit
}

// validationErrors flattens validator errors into per-field messages.
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
