package services

import (
	"fmt"
	"testing"
	"time"

	"hotel-backoffice/config"
	"hotel-backoffice/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database, migrated and seeded
// the same way production is. cache=shared keeps the database alive across
// the pooled connections; the busy timeout covers concurrent test writers.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(10000)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateAndSeed(db))
	return db
}

func newTestReservationService(t *testing.T, db *gorm.DB, window time.Duration) *ReservationService {
	t.Helper()
	rooms := NewRoomService(db, nil)
	return NewReservationService(db, rooms, window)
}

// createRoom makes a room in a category with the given nightly price.
func createRoom(t *testing.T, db *gorm.DB, price float64) models.Room {
	t.Helper()

	cat := models.RoomCategory{
		Name:  "cat-" + uuid.NewString()[:8],
		Price: price,
	}
	require.NoError(t, db.Create(&cat).Error)

	room := models.Room{
		RoomCategoryID: &cat.ID,
		RoomNumber:     "rm-" + uuid.NewString()[:8],
		Status:         models.RoomStatusAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func createUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	user := models.User{
		FullName: "Test Guest",
		Email:    uuid.NewString()[:8] + "@example.com",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func roomStatus(t *testing.T, db *gorm.DB, roomID uint) string {
	t.Helper()
	var room models.Room
	require.NoError(t, db.First(&room, roomID).Error)
	return room.Status
}

func orderStatus(t *testing.T, db *gorm.DB, orderID uint) string {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	return order.Status
}

// futureDate returns midnight n days from now; reservation dates must not
// be in the past.
func futureDate(n int) time.Time {
	return dateOnly(time.Now().AddDate(0, 0, n))
}
