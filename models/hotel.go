package models

import (
	"gorm.io/gorm"
)

type Hotel struct {
	gorm.Model

	Name        string `gorm:"size:128" json:"name" binding:"required"`
	Address     string `gorm:"type:text" json:"address"`
	City        string `gorm:"size:64" json:"city"`
	Phone       string `gorm:"size:32" json:"phone"`
	Description string `gorm:"type:text" json:"description"`

	Rooms []Room `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
}
