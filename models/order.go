package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order lifecycle. PENDING is the only non-terminal state; CONFIRMED and
// CANCELLED orders are never mutated again.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCancelled = "CANCELLED"
)

// Order is a reservation of one room for a half-open [check-in, check-out)
// date interval by one user. Orders referenced by payments or reviews are
// soft-deleted at most; removal is an explicit administrative operation.
type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"reference_code"`
	Status        string `gorm:"column:status;size:32;index" json:"status"`

	UserID uint `gorm:"index;column:user_id" json:"user_id"`
	RoomID uint `gorm:"index;column:room_id" json:"room_id"`

	CheckIn  time.Time `gorm:"column:check_in" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out" json:"check_out"`
	Nights   int       `gorm:"column:nights" json:"nights"`

	// Computed as nights times category price at creation; immutable afterwards
	// unless an update supplies an explicit override.
	TotalAmount float64 `gorm:"column:total_amount" json:"total_amount"`

	// Past this instant an unconfirmed order is fair game for the sweeper.
	Deadline time.Time `gorm:"column:deadline;index" json:"deadline"`

	// Free-form guest details snapshot taken from the booking payload.
	GuestDetails datatypes.JSON `gorm:"column:guest_details" json:"guestDetails,omitempty"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}

// Active reports whether the order still holds its room: CONFIRMED always,
// PENDING only until the deadline.
func (o *Order) Active(now time.Time) bool {
	switch o.Status {
	case OrderStatusConfirmed:
		return true
	case OrderStatusPending:
		return o.Deadline.After(now)
	default:
		return false
	}
}

// Terminal reports whether the state machine is done with this order.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusConfirmed || o.Status == OrderStatusCancelled
}
