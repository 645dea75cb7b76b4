package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomCategory carries the nightly price for every room attached to it.
// Rooms never store a price of their own (see Order.TotalAmount computation).
type RoomCategory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"size:64;uniqueIndex" json:"name" binding:"required"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"column:price" json:"price" binding:"required,gt=0"`
	MaxGuests   uint    `json:"max_guests"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
