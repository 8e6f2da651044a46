package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"logitrack/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService returns canned results per method.
type stubService struct {
	trackInfo *models.TrackingInfo
	trackErr  error
	updateErr error
}

func (s *stubService) CreateDelivery(ctx context.Context, customerID string, req models.CreateDeliveryRequest) (*models.Delivery, error) {
	return nil, nil
}
func (s *stubService) ListDeliveries(ctx context.Context, callerID, callerRole string, page, limit int) ([]*models.Delivery, int, error) {
	return nil, 0, nil
}
func (s *stubService) GetDelivery(ctx context.Context, deliveryID, callerID, callerRole string) (*models.Delivery, error) {
	return nil, nil
}
func (s *stubService) AssignDriver(ctx context.Context, deliveryID, driverID string) (*models.Delivery, error) {
	return nil, nil
}
func (s *stubService) UpdateStatus(ctx context.Context, deliveryID, callerID, callerRole string, req models.UpdateStatusRequest) (*models.Delivery, error) {
	return nil, s.updateErr
}
func (s *stubService) Track(ctx context.Context, trackingNumber string) (*models.TrackingInfo, error) {
	return s.trackInfo, s.trackErr
}

func TestTrackHandler(t *testing.T) {
	h := NewHandler(&stubService{trackInfo: &models.TrackingInfo{
		TrackingNumber: "TRK0123456789AB",
		Status:         models.StatusInTransit,
	}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/deliveries/track/:trackingNumber")
	c.SetParamNames("trackingNumber")
	c.SetParamValues("TRK0123456789AB")

	require.NoError(t, h.Track(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, _ := resp.Data.(map[string]interface{})
	require.NotNil(t, data)
	assert.Equal(t, "TRK0123456789AB", data["trackingNumber"])
	assert.Equal(t, models.StatusInTransit, data["status"])
}

func TestTrackHandlerNotFound(t *testing.T) {
	h := NewHandler(&stubService{trackErr: models.ErrNotFound})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("trackingNumber")
	c.SetParamValues("TRKDOESNOTEXIST")

	require.NoError(t, h.Track(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestUpdateStatusHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{"backward transition", models.ErrBackwardTransition, http.StatusBadRequest},
		{"not the assigned driver", models.ErrForbidden, http.StatusForbidden},
		{"unknown delivery", models.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&stubService{updateErr: tc.svcErr})

			e := echo.New()
			body := `{"status":"Delivered"}`
			req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set("userID", "driver-e")
			c.Set("userRole", models.RoleDriver)
			c.SetParamNames("id")
			c.SetParamValues("delivery-1")

			require.NoError(t, h.UpdateStatus(c))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestUpdateStatusHandlerValidation(t *testing.T) {
	h := NewHandler(&stubService{})

	e := echo.New()
	body := `{"status":"Lost"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", "admin-1")
	c.Set("userRole", models.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("delivery-1")

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Errors)
}
