// controllers/reservation_controller.go
package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateReservationRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	RoomID   uint   `json:"room_id" binding:"required"`
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`

	GuestDetails datatypes.JSON `json:"guest_details,omitempty"`
}

type UpdateReservationRequest struct {
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
	RoomID   *uint   `json:"room_id,omitempty"`

	TotalAmountOverride *float64 `json:"total_amount_override,omitempty"`

	Deadline      *string `json:"deadline,omitempty"`
	ResetDeadline bool    `json:"reset_deadline,omitempty"`

	GuestDetails datatypes.JSON `json:"guest_details,omitempty"`
}

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: svc}
}

// parseDate accepts the date-only form the dashboard sends, with an RFC3339
// fallback for API clients.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// respondReservationError maps the engine's error taxonomy onto HTTP.
// Validation rejections are final; only the 500 branch is retry-worthy.
func respondReservationError(c *gin.Context, err error) {
	var unavailable *services.RoomUnavailableError
	var expired *services.ReservationExpiredError

	switch {
	case errors.Is(err, services.ErrInvalidRange):
		utils.JSONError(c, http.StatusBadRequest, "error.invalidRange", err.Error())
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.notFound", err.Error())
	case errors.As(err, &unavailable):
		utils.JSONErrorDetails(c, http.StatusConflict, "error.roomUnavailable", unavailable.Error(), gin.H{
			"room_id":       unavailable.RoomID,
			"blocked_from":  unavailable.BlockedFrom.Format("2006-01-02"),
			"blocked_until": unavailable.BlockedUntil.Format("2006-01-02"),
		})
	case errors.As(err, &expired):
		utils.JSONError(c, http.StatusGone, "error.reservationExpired", expired.Error())
	case errors.Is(err, services.ErrInvalidStateTransition):
		utils.JSONError(c, http.StatusConflict, "error.invalidStateTransition", err.Error())
	default:
		slog.Error("reservation operation failed", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal error")
	}
}

// POST /api/reservations
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var payload CreateReservationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONErrorDetails(c, http.StatusBadRequest, "error.invalidPayload",
			"user_id, room_id, check_in and check_out are required", err.Error())
		return
	}

	checkIn, err := parseDate(payload.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", err.Error())
		return
	}
	checkOut, err := parseDate(payload.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", err.Error())
		return
	}

	order, err := ctrl.Reservations.CreateReservation(
		c.Request.Context(), payload.UserID, payload.RoomID, checkIn, checkOut, payload.GuestDetails)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, order)
}

// GET /api/reservations
func (ctrl *ReservationController) GetReservations(c *gin.Context) {
	orders, err := ctrl.Reservations.GetAllOrders()
	if err != nil {
		respondReservationError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, orders)
}

// GET /api/reservations/:id
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	order, err := ctrl.Reservations.GetOrder(id)
	if err != nil {
		respondReservationError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// PATCH /api/reservations/:id
func (ctrl *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload UpdateReservationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONErrorDetails(c, http.StatusBadRequest, "error.invalidPayload",
			"invalid update payload", err.Error())
		return
	}

	input := services.UpdateReservationInput{
		RoomID:         payload.RoomID,
		AmountOverride: payload.TotalAmountOverride,
		ResetDeadline:  payload.ResetDeadline,
		GuestDetails:   payload.GuestDetails,
	}
	if payload.CheckIn != nil {
		t, err := parseDate(*payload.CheckIn)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", err.Error())
			return
		}
		input.CheckIn = &t
	}
	if payload.CheckOut != nil {
		t, err := parseDate(*payload.CheckOut)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", err.Error())
			return
		}
		input.CheckOut = &t
	}
	if payload.Deadline != nil {
		t, err := time.Parse(time.RFC3339, *payload.Deadline)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", "deadline must be RFC3339")
			return
		}
		input.Deadline = &t
	}

	order, err := ctrl.Reservations.UpdateReservation(c.Request.Context(), id, input)
	if err != nil {
		respondReservationError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// POST /api/reservations/:id/cancel
func (ctrl *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	order, err := ctrl.Reservations.CancelReservation(id)
	if err != nil {
		respondReservationError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// GET /api/rooms/:id/availability?check_in=YYYY-MM-DD&check_out=YYYY-MM-DD
func (ctrl *ReservationController) CheckAvailability(c *gin.Context) {
	roomID, ok := parseIDParam(c)
	if !ok {
		return
	}
	checkIn, err := parseDate(c.Query("check_in"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", err.Error())
		return
	}
	checkOut, err := parseDate(c.Query("check_out"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", err.Error())
		return
	}

	conflicting, blocking, err := ctrl.Reservations.HasConflict(roomID, checkIn, checkOut, 0)
	if err != nil {
		respondReservationError(c, err)
		return
	}

	resp := gin.H{"room_id": roomID, "available": !conflicting}
	if blocking != nil {
		resp["blocked_from"] = blocking.CheckIn.Format("2006-01-02")
		resp["blocked_until"] = blocking.CheckOut.Format("2006-01-02")
	}
	utils.JSONSuccess(c, http.StatusOK, resp)
}
