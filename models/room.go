package models

import (
	"gorm.io/gorm"
)

// Room availability states. A room is RoomStatusBooked exactly while it has
// at least one CONFIRMED order, or a PENDING order whose deadline has not
// elapsed; the reservation service recomputes this on every mutation.
const (
	RoomStatusAvailable = "AVAILABLE"
	RoomStatusBooked    = "BOOKED"
)

type Room struct {
	gorm.Model

	// Nullable so a payload without a valid FK doesn't insert category 0.
	RoomCategoryID *uint `json:"roomCategoryId,omitempty" gorm:"column:room_category_id"`
	HotelID        *uint `json:"hotelId,omitempty" gorm:"column:hotel_id;index"`

	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Floor      string `json:"floor" gorm:"type:varchar(10)"`
	Status     string `json:"status" gorm:"size:32;default:AVAILABLE"`

	Description string `json:"description" gorm:"type:text"`

	RoomCategory RoomCategory `gorm:"foreignKey:RoomCategoryID" json:"roomCategory,omitempty"`
	Hotel        Hotel        `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
}
