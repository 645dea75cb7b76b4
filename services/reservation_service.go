package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultReservationWindow is how long a PENDING order holds its room
// before the sweeper may reclaim it.
const DefaultReservationWindow = 24 * time.Hour

// ReservationService owns the booking lifecycle: conflict checking against
// the order ledger, the PENDING to CONFIRMED/CANCELLED state machine, and the
// room-status bookkeeping that goes with it.
type ReservationService struct {
	DB     *gorm.DB
	Rooms  *RoomService
	Window time.Duration

	locks *roomLocks
}

func NewReservationService(db *gorm.DB, rooms *RoomService, window time.Duration) *ReservationService {
	if window <= 0 {
		window = DefaultReservationWindow
	}
	return &ReservationService{
		DB:     db,
		Rooms:  rooms,
		Window: window,
		locks:  newRoomLocks(),
	}
}

// UpdateReservationInput carries the optional field changes for
// UpdateReservation. Nil pointers mean "leave unchanged".
type UpdateReservationInput struct {
	CheckIn  *time.Time
	CheckOut *time.Time
	RoomID   *uint

	// AmountOverride pins the total amount instead of the nights-times-price
	// recomputation that a date or room change normally triggers.
	AmountOverride *float64

	// Deadline may only move the decision deadline forward unless
	// ResetDeadline is set, in which case it is taken as given.
	Deadline      *time.Time
	ResetDeadline bool

	GuestDetails datatypes.JSON
}

// dateOnly truncates a timestamp to midnight; the engine works at night
// granularity throughout.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nightsBetween(checkIn, checkOut time.Time) int {
	return int(dateOnly(checkOut).Sub(dateOnly(checkIn)).Hours() / 24)
}

// onEarlierDay reports whether a falls on an earlier calendar day than b,
// each read in its own location. API dates arrive as UTC midnights while
// the server clock may run in any zone; comparing instants would reject
// same-day check-ins for part of the day on non-UTC hosts.
func onEarlierDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// findActiveOrdersForRoom is the ledger query: every PENDING or CONFIRMED
// order for the room, regardless of deadline. Cancelled orders never block.
func findActiveOrdersForRoom(tx *gorm.DB, roomID uint) ([]models.Order, error) {
	var orders []models.Order
	err := tx.
		Where("room_id = ? AND status IN ?", roomID, []string{models.OrderStatusPending, models.OrderStatusConfirmed}).
		Order("check_in ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active orders for room %d: %w", roomID, err)
	}
	return orders, nil
}

// findConflict returns the first active order for roomID whose interval
// overlaps [checkIn, checkOut) under half-open semantics: back-to-back
// stays that touch at a boundary date do not conflict. excludeOrderID lets
// an order being updated skip itself.
func findConflict(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeOrderID uint) (*models.Order, error) {
	q := tx.
		Where("room_id = ? AND status IN ?", roomID, []string{models.OrderStatusPending, models.OrderStatusConfirmed}).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Order("check_in ASC")
	if excludeOrderID != 0 {
		q = q.Where("id <> ?", excludeOrderID)
	}

	var blocking models.Order
	if err := q.First(&blocking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("conflict query failed for room %d: %w", roomID, err)
	}
	return &blocking, nil
}

// HasConflict is the read-only conflict check. It validates the range,
// verifies the room exists, and reports the blocking order if any.
func (s *ReservationService) HasConflict(roomID uint, checkIn, checkOut time.Time, excludeOrderID uint) (bool, *models.Order, error) {
	checkIn, checkOut = dateOnly(checkIn), dateOnly(checkOut)
	if !checkIn.Before(checkOut) {
		return false, nil, ErrInvalidRange
	}
	if _, err := s.Rooms.GetRoom(roomID); err != nil {
		return false, nil, err
	}

	blocking, err := findConflict(s.DB, roomID, checkIn, checkOut, excludeOrderID)
	if err != nil {
		return false, nil, err
	}
	return blocking != nil, blocking, nil
}

// syncRoomStatus recomputes the room's availability from the ledger inside
// the caller's transaction: BOOKED iff at least one CONFIRMED order exists,
// or a PENDING one whose deadline has not elapsed.
func syncRoomStatus(tx *gorm.DB, roomID uint, now time.Time) error {
	var active int64
	err := tx.Model(&models.Order{}).
		Where("room_id = ?", roomID).
		Where("status = ? OR (status = ? AND deadline > ?)",
			models.OrderStatusConfirmed, models.OrderStatusPending, now).
		Count(&active).Error
	if err != nil {
		return fmt.Errorf("failed to count active orders for room %d: %w", roomID, err)
	}

	status := models.RoomStatusAvailable
	if active > 0 {
		status = models.RoomStatusBooked
	}
	if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update room %d status: %w", roomID, err)
	}
	return nil
}

// CreateReservation books roomID for userID over [checkIn, checkOut).
// The conflict check and the order insert run under the room's mutex and a
// row lock on the room, so two overlapping requests for the same room can
// never both succeed. The order insert and the room-status flip commit
// together or not at all.
func (s *ReservationService) CreateReservation(ctx context.Context, userID, roomID uint, checkIn, checkOut time.Time, guestDetails datatypes.JSON) (models.Order, error) {
	var order models.Order

	checkIn, checkOut = dateOnly(checkIn), dateOnly(checkOut)
	now := time.Now()
	if !checkIn.Before(checkOut) || onEarlierDay(checkIn, now) {
		return order, ErrInvalidRange
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, ErrUserNotFound
		}
		return order, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	price, err := s.Rooms.GetRoomPrice(ctx, roomID)
	if err != nil {
		return order, err
	}

	unlock := s.locks.lock(roomID)
	defer unlock()

	var conflict *RoomUnavailableError
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockForUpdate(tx).
			First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		blocking, err := findConflict(tx, roomID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if blocking != nil {
			conflict = &RoomUnavailableError{
				RoomID:       roomID,
				BlockedFrom:  blocking.CheckIn,
				BlockedUntil: blocking.CheckOut,
			}
			return conflict
		}

		nights := nightsBetween(checkIn, checkOut)
		order = models.Order{
			ReferenceCode: utils.NewReferenceCode(),
			Status:        models.OrderStatusPending,
			UserID:        userID,
			RoomID:        roomID,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			Nights:        nights,
			TotalAmount:   float64(nights) * price,
			Deadline:      now.Add(s.Window),
			GuestDetails:  guestDetails,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
			Update("status", models.RoomStatusBooked).Error; err != nil {
			return fmt.Errorf("failed to mark room %d booked: %w", roomID, err)
		}
		return nil
	})
	if txErr != nil {
		if conflict != nil {
			return models.Order{}, conflict
		}
		return models.Order{}, txErr
	}

	slog.Info("reservation created",
		"order_id", order.ID, "reference", order.ReferenceCode,
		"room_id", roomID, "user_id", userID,
		"check_in", checkIn.Format("2006-01-02"), "check_out", checkOut.Format("2006-01-02"),
		"amount", order.TotalAmount)
	return order, nil
}

// ApplyPaymentOutcome advances a PENDING order according to the payment
// collaborator's verdict. PAID confirms, FAILED cancels and releases the
// room, PENDING_CONFIRMATION leaves the order as is. Anything else is kept
// PENDING on purpose; the default branch below is the single place where
// an unknown provider status gets decided.
func (s *ReservationService) ApplyPaymentOutcome(orderID uint, status models.PaymentStatus) (models.Order, error) {
	var order models.Order

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.Terminal() {
			return ErrInvalidStateTransition
		}

		switch status {
		case models.PaymentStatusPaid:
			order.Status = models.OrderStatusConfirmed
			if err := tx.Model(&order).Update("status", order.Status).Error; err != nil {
				return fmt.Errorf("failed to confirm order %d: %w", orderID, err)
			}
		case models.PaymentStatusFailed:
			order.Status = models.OrderStatusCancelled
			if err := tx.Model(&order).Update("status", order.Status).Error; err != nil {
				return fmt.Errorf("failed to cancel order %d: %w", orderID, err)
			}
			if err := syncRoomStatus(tx, order.RoomID, time.Now()); err != nil {
				return err
			}
		case models.PaymentStatusPendingConfirmation:
			// Provider has the money in flight; nothing to do yet.
		default:
			slog.Warn("unrecognized payment status, order stays pending",
				"order_id", orderID, "status", string(status))
		}
		return nil
	})
	if txErr != nil {
		return models.Order{}, txErr
	}

	slog.Info("payment outcome applied", "order_id", order.ID, "payment_status", string(status), "order_status", order.Status)
	return order, nil
}

// UpdateReservation applies field changes to a PENDING order, re-running the
// conflict check (excluding the order itself) when dates or room change.
//
// If the order's deadline, after any revision from input, has already
// elapsed, the order is force-cancelled and its room released even though
// the other changes were written; the caller gets ReservationExpiredError
// and must re-fetch state.
func (s *ReservationService) UpdateReservation(ctx context.Context, orderID uint, input UpdateReservationInput) (models.Order, error) {
	var current models.Order
	if err := s.DB.First(&current, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	if current.Terminal() {
		return models.Order{}, ErrInvalidStateTransition
	}

	newRoomID := current.RoomID
	if input.RoomID != nil {
		newRoomID = *input.RoomID
	}

	// Price lookup happens before the room locks; it validates the target
	// room exists as a side effect.
	price, err := s.Rooms.GetRoomPrice(ctx, newRoomID)
	if err != nil {
		return models.Order{}, err
	}

	unlock := s.locks.lock(current.RoomID, newRoomID)
	defer unlock()

	var (
		order      models.Order
		conflict   *RoomUnavailableError
		expiredErr *ReservationExpiredError
	)
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Terminal() {
			return ErrInvalidStateTransition
		}

		oldRoomID := order.RoomID

		newCheckIn, newCheckOut := order.CheckIn, order.CheckOut
		if input.CheckIn != nil {
			newCheckIn = dateOnly(*input.CheckIn)
		}
		if input.CheckOut != nil {
			newCheckOut = dateOnly(*input.CheckOut)
		}
		if !newCheckIn.Before(newCheckOut) {
			return ErrInvalidRange
		}

		datesChanged := !newCheckIn.Equal(order.CheckIn) || !newCheckOut.Equal(order.CheckOut)
		roomChanged := newRoomID != oldRoomID

		if datesChanged || roomChanged {
			blocking, err := findConflict(tx, newRoomID, newCheckIn, newCheckOut, order.ID)
			if err != nil {
				return err
			}
			if blocking != nil {
				conflict = &RoomUnavailableError{
					RoomID:       newRoomID,
					BlockedFrom:  blocking.CheckIn,
					BlockedUntil: blocking.CheckOut,
				}
				return conflict
			}
		}

		order.CheckIn, order.CheckOut = newCheckIn, newCheckOut
		order.RoomID = newRoomID
		order.Nights = nightsBetween(newCheckIn, newCheckOut)

		switch {
		case input.AmountOverride != nil:
			order.TotalAmount = *input.AmountOverride
		case datesChanged || roomChanged:
			order.TotalAmount = float64(order.Nights) * price
		}

		// The deadline only ever moves forward unless explicitly reset.
		if input.Deadline != nil {
			if input.ResetDeadline || input.Deadline.After(order.Deadline) {
				order.Deadline = *input.Deadline
			}
		}

		if len(input.GuestDetails) > 0 {
			order.GuestDetails = input.GuestDetails
		}

		now := time.Now()
		expired := !order.Deadline.After(now)
		if expired {
			order.Status = models.OrderStatusCancelled
			expiredErr = &ReservationExpiredError{OrderID: order.ID, Deadline: order.Deadline}
		}

		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to update order %d: %w", orderID, err)
		}

		if err := syncRoomStatus(tx, newRoomID, now); err != nil {
			return err
		}
		if roomChanged {
			if err := syncRoomStatus(tx, oldRoomID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if conflict != nil {
			return models.Order{}, conflict
		}
		return models.Order{}, txErr
	}
	if expiredErr != nil {
		slog.Info("reservation expired during update, force-cancelled", "order_id", order.ID)
		return order, expiredErr
	}

	slog.Info("reservation updated", "order_id", order.ID, "room_id", order.RoomID, "amount", order.TotalAmount)
	return order, nil
}

// CancelReservation cancels a PENDING order and releases its room. Orders
// that are already CONFIRMED or CANCELLED are rejected.
func (s *ReservationService) CancelReservation(orderID uint) (models.Order, error) {
	var order models.Order

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != models.OrderStatusPending {
			return ErrInvalidStateTransition
		}

		order.Status = models.OrderStatusCancelled
		if err := tx.Model(&order).Update("status", order.Status).Error; err != nil {
			return fmt.Errorf("failed to cancel order %d: %w", orderID, err)
		}
		return syncRoomStatus(tx, order.RoomID, time.Now())
	})
	if txErr != nil {
		return models.Order{}, txErr
	}

	slog.Info("reservation cancelled", "order_id", order.ID, "room_id", order.RoomID)
	return order, nil
}

// GetOrder loads one order with its room and user.
func (s *ReservationService) GetOrder(orderID uint) (models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Room.RoomCategory").Preload("User").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order, ErrOrderNotFound
		}
		return order, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	return order, nil
}

// GetAllOrders lists orders newest first.
func (s *ReservationService) GetAllOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.DB.Preload("Room").Preload("User").
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
