package services

import (
	"errors"
	"fmt"
	"time"
)

// Reservation engine error taxonomy. Validation errors are final; callers
// must not retry them. Persistence failures are returned wrapped so callers
// can unwrap the driver error and decide on a retry.
var (
	ErrInvalidRange           = errors.New("check-in must be before check-out and not in the past")
	ErrRoomNotFound           = errors.New("room not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStateTransition = errors.New("order is not in a state that allows this transition")
)

// RoomUnavailableError reports a date conflict. It names the blocking
// interval so callers can offer alternative dates; it is an expected
// rejection, not a fault.
type RoomUnavailableError struct {
	RoomID       uint
	BlockedFrom  time.Time
	BlockedUntil time.Time
}

func (e *RoomUnavailableError) Error() string {
	return fmt.Sprintf("room %d is already reserved from %s to %s",
		e.RoomID, e.BlockedFrom.Format("2006-01-02"), e.BlockedUntil.Format("2006-01-02"))
}

// ReservationExpiredError is returned by UpdateReservation when the order's
// deadline elapsed before the update could be applied. The order has been
// force-cancelled and its room released as a side effect; callers must
// re-fetch state rather than assume the update landed.
type ReservationExpiredError struct {
	OrderID  uint
	Deadline time.Time
}

func (e *ReservationExpiredError) Error() string {
	return fmt.Sprintf("reservation %d expired at %s and has been cancelled",
		e.OrderID, e.Deadline.Format(time.RFC3339))
}
