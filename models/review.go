package models

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID  uint  `gorm:"index;column:user_id" json:"user_id" binding:"required"`
	HotelID uint  `gorm:"index;column:hotel_id" json:"hotel_id" binding:"required"`
	OrderID *uint `gorm:"column:order_id" json:"order_id,omitempty"`

	Rating  int    `gorm:"column:rating" json:"rating" binding:"required,min=1,max=5"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User  `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Hotel Hotel `gorm:"foreignKey:HotelID;references:ID" json:"hotel,omitempty"`
}
