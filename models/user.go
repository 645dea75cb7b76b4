package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FullName string `gorm:"size:128" json:"fullName" binding:"required"`
	Email    string `gorm:"size:128;uniqueIndex" json:"email" binding:"required,email"`
	Phone    string `gorm:"size:32" json:"phone"`

	// bcrypt hash, never the raw password.
	Password string `gorm:"size:128" json:"-"`

	RoleID *uint `gorm:"column:role_id" json:"roleId,omitempty"`
	Role   Role  `gorm:"foreignKey:RoleID" json:"role,omitempty"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
