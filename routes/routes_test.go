package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse-backend/config"
	"guesthouse-backend/middleware"
	"guesthouse-backend/pricing"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := config.Open(&config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:", DBLogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &apiClient{t: t, router: SetupRouter(NewHandlers(db, pricing.DefaultWeekend), nil)}
}

func (a *apiClient) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// create posts body and returns the created object's id.
func (a *apiClient) create(path string, body interface{}) uint {
	a.t.Helper()
	w, env := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var obj struct {
		ID uint `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &obj))
	require.NotZero(a.t, obj.ID)
	return obj.ID
}

// seedCatalog sets up one building, a room type priced for June 2030 and
// two rooms. June 3, 2030 is a Monday.
func (a *apiClient) seedCatalog() (roomTypeID, roomA, roomB uint) {
	buildingID := a.create("/api/buildings", map[string]interface{}{
		"name": map[string]string{"hu": "Tópart", "en": "Lakeside"},
	})
	roomTypeID = a.create("/api/room-types", map[string]interface{}{
		"buildingId": buildingID,
		"name":       map[string]string{"hu": "Kétágyas"},
		"capacity":   2,
	})
	roomA = a.create("/api/rooms", map[string]interface{}{"roomTypeId": roomTypeID, "name": "A"})
	roomB = a.create("/api/rooms", map[string]interface{}{"roomTypeId": roomTypeID, "name": "B"})
	a.create(fmt.Sprintf("/api/room-types/%d/date-ranges", roomTypeID), map[string]interface{}{
		"startDate": "2030-06-01", "endDate": "2030-06-30",
		"weekdayPrice": 100, "weekendPrice": 150, "minNights": 2,
	})
	return roomTypeID, roomA, roomB
}

func TestHealthAndRequestID(t *testing.T) {
	api := newAPI(t)
	w, env := api.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestBookingFlowOverHTTP(t *testing.T) {
	api := newAPI(t)
	_, roomA, roomB := api.seedCatalog()

	w, env := api.do(http.MethodPost, "/api/bookings", map[string]interface{}{
		"guestName": "Kovács Anna", "roomId": roomA, "guestCount": 2,
		"checkIn": "2030-06-03", "checkOut": "2030-06-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.True(t, env.Success)
	var booking struct {
		ID            uint    `json:"id"`
		TotalAmount   float64 `json:"totalAmount"`
		PaymentStatus string  `json:"paymentStatus"`
		Status        string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &booking))
	assert.Equal(t, 200.0, booking.TotalAmount)
	assert.Equal(t, "PENDING", booking.PaymentStatus)
	assert.Equal(t, "INCOMING", booking.Status)

	w, env = api.do(http.MethodPost, "/api/bookings", map[string]interface{}{
		"guestName": "Nagy Péter", "roomId": roomA, "guestCount": 1,
		"checkIn": "2030-06-04", "checkOut": "2030-06-07",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "booking_overlap", env.Error.Code)
	assert.Equal(t, float64(booking.ID), env.Error.Details["conflictingBookingId"])

	w, env = api.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/payments", booking.ID), map[string]interface{}{
		"amount": 200, "currency": "EUR", "method": "CASH",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = api.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d/ledger", booking.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Status    string  `json:"status"`
		Remaining float64 `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, "FULLY_PAID", summary.Status)
	assert.Zero(t, summary.Remaining)

	w, _ = api.do(http.MethodPost, "/api/booking-groups", map[string]interface{}{
		"guestName": "Család", "checkIn": "2030-06-10", "checkOut": "2030-06-12",
		"rooms": []map[string]interface{}{{"roomId": roomA, "guestCount": 2}, {"roomId": roomB, "guestCount": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = api.do(http.MethodGet, "/api/reservations?sort=checkIn", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int `json:"total"`
		Items []struct {
			Kind string `json:"kind"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Equal(t, 2, page.Total)
	assert.Equal(t, "booking", page.Items[0].Kind)
	assert.Equal(t, "group", page.Items[1].Kind)
}

func TestErrorEnvelopes(t *testing.T) {
	api := newAPI(t)
	roomTypeID, roomA, _ := api.seedCatalog()

	w, env := api.do(http.MethodPost, "/api/bookings", map[string]interface{}{
		"guestName": "X", "roomId": roomA, "guestCount": 1,
		"checkIn": "2030-13-01", "checkOut": "2030-06-05",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid_payload", env.Error.Code)

	w, env = api.do(http.MethodGet, "/api/bookings/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "booking_not_found", env.Error.Code)

	w, env = api.do(http.MethodGet, "/api/bookings/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", env.Error.Code)

	w, env = api.do(http.MethodPost, "/api/bookings", map[string]interface{}{
		"guestName": "X", "roomId": roomA, "guestCount": 1,
		"checkIn": "2030-06-05", "checkOut": "2030-06-05",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date_order", env.Error.Code)

	w, env = api.do(http.MethodPost, fmt.Sprintf("/api/room-types/%d/date-ranges", roomTypeID), map[string]interface{}{
		"startDate": "2030-06-30", "endDate": "2030-07-05", "weekdayPrice": 1, "weekendPrice": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "date_range_overlap", env.Error.Code)

	w, env = api.do(http.MethodPost, "/api/pricing/quote", map[string]interface{}{
		"checkIn": "2030-06-03", "checkOut": "2030-06-05", "guestCount": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "room_required", env.Error.Code)
}

func TestQuoteAndCalendarOverHTTP(t *testing.T) {
	api := newAPI(t)
	roomTypeID, roomA, _ := api.seedCatalog()

	// Fri and Sat nights are weekend nights
	w, env := api.do(http.MethodPost, "/api/pricing/quote", map[string]interface{}{
		"roomId": roomA, "checkIn": "2030-06-06", "checkOut": "2030-06-09", "guestCount": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var quote struct {
		RoomName string `json:"roomName"`
		Stay     struct {
			Nights             int     `json:"nights"`
			AccommodationTotal float64 `json:"accommodationTotal"`
		} `json:"stay"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "A", quote.RoomName)
	assert.Equal(t, 3, quote.Stay.Nights)
	assert.Equal(t, 400.0, quote.Stay.AccommodationTotal)

	w, _ = api.do(http.MethodPut, fmt.Sprintf("/api/room-types/%d/overrides", roomTypeID), map[string]interface{}{
		"date": "2030-06-04", "isInactive": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = api.do(http.MethodGet, fmt.Sprintf("/api/room-types/%d/calendar?from=2030-06-03&to=2030-06-06", roomTypeID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var days []struct {
		Date     string `json:"date"`
		Inactive bool   `json:"inactive"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &days))
	require.Len(t, days, 3)
	assert.False(t, days[0].Inactive)
	assert.True(t, days[1].Inactive)
}
