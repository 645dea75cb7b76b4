package services

import (
	"errors"
	"fmt"
	"strings"

	"hotel-backoffice/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Create hashes the raw password before persisting. The caller puts the raw
// password in user.Password; it never reaches the database.
func (s *UserService) Create(user *models.User, rawPassword string) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if rawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hash)
	}
	return s.DB.Create(user).Error
}

func (s *UserService) GetByID(id uint) (models.User, error) {
	var user models.User
	if err := s.DB.Preload("Role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}

func (s *UserService) GetAll() ([]models.User, error) {
	var users []models.User
	err := s.DB.Preload("Role").Order("created_at DESC").Find(&users).Error
	return users, err
}
