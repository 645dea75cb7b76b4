package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"hotel-backoffice/cache"
	"hotel-backoffice/models"

	"gorm.io/gorm"
)

const priceCacheTTL = 5 * time.Minute

// RoomService is the inventory side of the house: point lookups for rooms
// and their category prices. Prices are read through an optional Redis
// cache because every booking request needs one.
type RoomService struct {
	DB    *gorm.DB
	Cache cache.Cache
}

func NewRoomService(db *gorm.DB, c cache.Cache) *RoomService {
	return &RoomService{DB: db, Cache: c}
}

// GetRoom loads a room with its category. Returns ErrRoomNotFound for a
// missing id.
func (s *RoomService) GetRoom(id uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.Preload("RoomCategory").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room, ErrRoomNotFound
		}
		return room, fmt.Errorf("failed to load room %d: %w", id, err)
	}
	return room, nil
}

// GetRoomPrice returns the nightly price of the room's category.
func (s *RoomService) GetRoomPrice(ctx context.Context, roomID uint) (float64, error) {
	if s.Cache != nil {
		key := s.Cache.GenerateKey("room-price", strconv.FormatUint(uint64(roomID), 10))
		if raw, err := s.Cache.Get(ctx, key); err == nil {
			if price, perr := strconv.ParseFloat(raw, 64); perr == nil {
				return price, nil
			}
		}
	}

	room, err := s.GetRoom(roomID)
	if err != nil {
		return 0, err
	}
	if room.RoomCategoryID == nil || room.RoomCategory.ID == 0 {
		return 0, fmt.Errorf("room %d has no category assigned", roomID)
	}
	price := room.RoomCategory.Price

	if s.Cache != nil {
		key := s.Cache.GenerateKey("room-price", strconv.FormatUint(uint64(roomID), 10))
		if err := s.Cache.Set(ctx, key, strconv.FormatFloat(price, 'f', -1, 64), priceCacheTTL); err != nil {
			slog.Warn("failed to cache room price", "room_id", roomID, "error", err)
		}
	}
	return price, nil
}

// InvalidatePrice drops the cached price for a room, e.g. after its
// category changes.
func (s *RoomService) InvalidatePrice(ctx context.Context, roomID uint) {
	if s.Cache == nil {
		return
	}
	key := s.Cache.GenerateKey("room-price", strconv.FormatUint(uint64(roomID), 10))
	if err := s.Cache.Delete(ctx, key); err != nil {
		slog.Warn("failed to invalidate room price", "room_id", roomID, "error", err)
	}
}

func (s *RoomService) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Preload("RoomCategory").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) Create(room *models.Room) error {
	return s.DB.Create(room).Error
}

// Update applies a partial update and drops the cached price, since a
// category reassignment changes what the next booking must be charged.
func (s *RoomService) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	if _, err := s.GetRoom(id); err != nil {
		return err
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update room %d: %w", id, err)
		}
	}
	s.InvalidatePrice(ctx, id)
	return nil
}

func (s *RoomService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetRoom(id); err != nil {
		return err
	}
	if err := s.DB.Delete(&models.Room{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete room %d: %w", id, err)
	}
	s.InvalidatePrice(ctx, id)
	return nil
}
