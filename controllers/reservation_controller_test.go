package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-backoffice/config"
	"hotel-backoffice/controllers"
	"hotel-backoffice/models"
	"hotel-backoffice/routes"
	"hotel-backoffice/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRouter builds the full route tree against a private in-memory
// database. The package-level CRUD controllers read config.DB, so it is
// pointed at the same handle; these tests therefore cannot run in parallel.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(10000)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateAndSeed(db))
	config.DB = db

	rooms := services.NewRoomService(db, nil)
	reservations := services.NewReservationService(db, rooms, 24*time.Hour)
	payments := services.NewPaymentService(db, reservations)
	users := services.NewUserService(db)

	router := routes.SetupRouter(
		controllers.NewReservationController(reservations),
		controllers.NewPaymentController(payments),
		controllers.NewUserController(users),
		controllers.NewRoomController(rooms),
	)
	return router, db
}

func createRoom(t *testing.T, db *gorm.DB, price float64) models.Room {
	t.Helper()

	cat := models.RoomCategory{Name: "cat-" + uuid.NewString()[:8], Price: price}
	require.NoError(t, db.Create(&cat).Error)

	room := models.Room{
		RoomCategoryID: &cat.ID,
		RoomNumber:     "rm-" + uuid.NewString()[:8],
		Status:         models.RoomStatusAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func createUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		FullName: "Test Guest",
		Email:    uuid.NewString()[:8] + "@example.com",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func dayString(n int) string {
	return time.Now().AddDate(0, 0, n).Format("2006-01-02")
}

func TestCreateReservationEndpoint(t *testing.T) {
	router, db := newTestRouter(t)
	room := createRoom(t, db, 150)
	user := createUser(t, db)

	w := doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
		"user_id":   user.ID,
		"room_id":   room.ID,
		"check_in":  dayString(10),
		"check_out": dayString(13),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected data object, got %v", body)

	assert.Equal(t, models.OrderStatusPending, data["status"])
	assert.Equal(t, float64(3), data["nights"])
	assert.Equal(t, 450.0, data["total_amount"])
	assert.Regexp(t, `^RSV-[0-9A-F]{8}$`, data["reference_code"])

	var got models.Room
	require.NoError(t, db.First(&got, room.ID).Error)
	assert.Equal(t, models.RoomStatusBooked, got.Status)
}

func TestCreateReservationEndpoint_Conflict(t *testing.T) {
	router, db := newTestRouter(t)
	room := createRoom(t, db, 100)
	user := createUser(t, db)

	w := doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
		"user_id":   user.ID,
		"room_id":   room.ID,
		"check_in":  dayString(10),
		"check_out": dayString(14),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
		"user_id":   user.ID,
		"room_id":   room.ID,
		"check_in":  dayString(12),
		"check_out": dayString(16),
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "error.roomUnavailable", errObj["code"])

	details := errObj["details"].(map[string]any)
	assert.Equal(t, float64(room.ID), details["room_id"])
	assert.Equal(t, dayString(10), details["blocked_from"])
	assert.Equal(t, dayString(14), details["blocked_until"])
}

func TestCreateReservationEndpoint_BadPayload(t *testing.T) {
	router, db := newTestRouter(t)
	room := createRoom(t, db, 100)
	user := createUser(t, db)

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
			"room_id": room.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("garbage date", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
			"user_id":   user.ID,
			"room_id":   room.ID,
			"check_in":  "next tuesday",
			"check_out": dayString(5),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("inverted range", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
			"user_id":   user.ID,
			"room_id":   room.ID,
			"check_in":  dayString(8),
			"check_out": dayString(5),
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "error.invalidRange", body["error"].(map[string]any)["code"])
	})

	t.Run("unknown room", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
			"user_id":   user.ID,
			"room_id":   99999,
			"check_in":  dayString(5),
			"check_out": dayString(8),
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAvailabilityEndpoint(t *testing.T) {
	router, db := newTestRouter(t)
	room := createRoom(t, db, 100)
	user := createUser(t, db)

	w := doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
		"user_id":   user.ID,
		"room_id":   room.ID,
		"check_in":  dayString(10),
		"check_out": dayString(12),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("overlapping range is blocked", func(t *testing.T) {
		path := fmt.Sprintf("/api/rooms/%d/availability?check_in=%s&check_out=%s",
			room.ID, dayString(11), dayString(13))
		w := doJSON(t, router, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, false, data["available"])
		assert.Equal(t, dayString(10), data["blocked_from"])
		assert.Equal(t, dayString(12), data["blocked_until"])
	})

	t.Run("back-to-back range is free", func(t *testing.T) {
		path := fmt.Sprintf("/api/rooms/%d/availability?check_in=%s&check_out=%s",
			room.ID, dayString(12), dayString(15))
		w := doJSON(t, router, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, true, data["available"])
		assert.NotContains(t, data, "blocked_from")
	})
}

// A failed payment cancels the pending order and frees the room, end to end
// through the webhook route.
func TestPaymentWebhook_FailedPaymentFreesRoom(t *testing.T) {
	router, db := newTestRouter(t)
	room := createRoom(t, db, 100)
	user := createUser(t, db)

	w := doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
		"user_id":   user.ID,
		"room_id":   room.ID,
		"check_in":  dayString(10),
		"check_out": dayString(12),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeBody(t, w)["data"].(map[string]any)["id"].(float64))

	w = doJSON(t, router, http.MethodPost, "/api/payments", gin.H{
		"order_id": orderID,
		"status":   models.PaymentStatusFailed,
		"amount":   200.0,
		"method":   "card",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)

	var got models.Room
	require.NoError(t, db.First(&got, room.ID).Error)
	assert.Equal(t, models.RoomStatusAvailable, got.Status)

	// The rejected attempt is still on the audit trail.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reservations/%d/payments", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Success bool             `json:"success"`
		Data    []models.Payment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, models.PaymentStatusFailed, envelope.Data[0].Status)
}

func TestPaymentWebhook_PaidConfirmsOrder(t *testing.T) {
	router, db := newTestRouter(t)
	room := createRoom(t, db, 100)
	user := createUser(t, db)

	w := doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
		"user_id":   user.ID,
		"room_id":   room.ID,
		"check_in":  dayString(10),
		"check_out": dayString(12),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeBody(t, w)["data"].(map[string]any)["id"].(float64))

	w = doJSON(t, router, http.MethodPost, "/api/payments", gin.H{
		"order_id": orderID,
		"status":   models.PaymentStatusPaid,
		"amount":   200.0,
		"method":   "card",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)

	// A second outcome against a settled order is rejected.
	w = doJSON(t, router, http.MethodPost, "/api/payments", gin.H{
		"order_id": orderID,
		"status":   models.PaymentStatusFailed,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestCancelReservationEndpoint(t *testing.T) {
	router, db := newTestRouter(t)
	room := createRoom(t, db, 100)
	user := createUser(t, db)

	w := doJSON(t, router, http.MethodPost, "/api/reservations", gin.H{
		"user_id":   user.ID,
		"room_id":   room.ID,
		"check_in":  dayString(10),
		"check_out": dayString(12),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeBody(t, w)["data"].(map[string]any)["id"].(float64))

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/reservations/%d/cancel", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Room
	require.NoError(t, db.First(&got, room.ID).Error)
	assert.Equal(t, models.RoomStatusAvailable, got.Status)

	// Cancelling twice is a state machine violation.
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/reservations/%d/cancel", orderID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetReservationEndpoint_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/reservations/424242", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "error.notFound", body["error"].(map[string]any)["code"])
}
