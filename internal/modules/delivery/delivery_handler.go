package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"logitrack/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for deliveries.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new delivery handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) CreateDelivery(c echo.Context) error {
	customerID := c.Get("userID").(string)

	var req models.CreateDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Validation failed", validationErrors(err)...))
	}

	d, err := h.svc.CreateDelivery(c.Request().Context(), customerID, req)
	if err != nil {
		c.Logger().Error("Handler.CreateDelivery: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to create delivery"))
	}
	return c.JSON(http.StatusCreated, models.OK(d))
}

func (h *Handler) ListDeliveries(c echo.Context) error {
	callerID := c.Get("userID").(string)
	role := c.Get("userRole").(string)
	page, limit := paginationParams(c)

	deliveries, total, err := h.svc.ListDeliveries(c.Request().Context(), callerID, role, page, limit)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			return c.JSON(http.StatusForbidden, models.Fail("Access denied"))
		}
		c.Logger().Error("Handler.ListDeliveries: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to list deliveries"))
	}
	return c.JSON(http.StatusOK, models.APIResponse{
		Success:    true,
		Data:       deliveries,
		Pagination: models.NewPagination(page, limit, total),
	})
}

func (h *Handler) GetDelivery(c echo.Context) error {
	callerID := c.Get("userID").(string)
	role := c.Get("userRole").(string)

	d, err := h.svc.GetDelivery(c.Request().Context(), c.Param("id"), callerID, role)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("Delivery not found"))
		}
		c.Logger().Error("Handler.GetDelivery: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to retrieve delivery"))
	}
	return c.JSON(http.StatusOK, models.OK(d))
}

func (h *Handler) AssignDriver(c echo.Context) error {
	var req models.AssignDriverRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Validation failed", validationErrors(err)...))
	}

	d, err := h.svc.AssignDriver(c.Request().Context(), c.Param("id"), req.DriverID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidDriver):
			return c.JSON(http.StatusBadRequest, models.Fail("Invalid or inactive driver"))
		case errors.Is(err, models.ErrDeliveryNotAssignable):
			return c.JSON(http.StatusBadRequest, models.Fail("Can only assign drivers to pending deliveries"))
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Fail("Delivery not found"))
		}
		c.Logger().Error("Handler.AssignDriver: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to assign driver"))
	}
	return c.JSON(http.StatusOK, models.OK(d))
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	callerID := c.Get("userID").(string)
	role := c.Get("userRole").(string)

	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Fail("Validation failed", validationErrors(err)...))
	}

	d, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), callerID, role, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBackwardTransition):
			return c.JSON(http.StatusBadRequest, models.Fail("Cannot move delivery status backwards"))
		case errors.Is(err, models.ErrForbidden):
			return c.JSON(http.StatusForbidden, models.Fail("Access denied"))
		case errors.Is(err, models.ErrNotFound):
			return c.JSON(http.StatusNotFound, models.Fail("Delivery not found"))
		}
		c.Logger().Error("Handler.UpdateStatus: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to update status"))
	}
	return c.JSON(http.StatusOK, models.OK(d))
}

// Track is the only unauthenticated read in the system; the tracking number
// acts as a bearer capability.
func (h *Handler) Track(c echo.Context) error {
	info, err := h.svc.Track(c.Request().Context(), c.Param("trackingNumber"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Fail("Tracking number not found"))
		}
		c.Logger().Error("Handler.Track: ", err)
		return c.JSON(http.StatusInternalServerError, models.Fail("Failed to look up tracking number"))
	}
	return c.JSON(http.StatusOK, models.OK(info))
}

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
