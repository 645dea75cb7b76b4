package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus is the outcome a payment collaborator reports for an order.
// It is a named type on purpose: the reservation service switches over every
// known value, and anything outside this set hits an explicit default branch
// that keeps the order PENDING instead of silently falling through.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "PAID"
	PaymentStatusFailed PaymentStatus = "FAILED"
	// The provider accepted the payment but has not settled it yet.
	PaymentStatusPendingConfirmation PaymentStatus = "PENDING_CONFIRMATION"
)

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrderID uint          `gorm:"index;column:order_id" json:"order_id"`
	Amount  float64       `gorm:"column:amount" json:"amount"`
	Status  PaymentStatus `gorm:"column:status;size:32" json:"status"`
	Method  string        `gorm:"column:method;size:64" json:"method"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Order Order `gorm:"foreignKey:OrderID;references:ID" json:"order,omitempty"`
}
