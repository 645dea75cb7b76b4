package services

import (
	"context"
	"testing"
	"time"

	"hotel-backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func expireOrder(t *testing.T, db *gorm.DB, orderID uint) {
	t.Helper()
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("deadline", time.Now().Add(-time.Minute)).Error)
}

func TestSweepOnce_CancelsExpiredAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(t, db, 24*time.Hour)
	room := createRoom(t, db, 100)
	user := createUser(t, db)
	ctx := context.Background()

	order, err := svc.CreateReservation(ctx, user.ID, room.ID, futureDate(1), futureDate(3), nil)
	require.NoError(t, err)
	expireOrder(t, db, order.ID)

	sweeper := NewExpirySweeper(db, time.Hour)

	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.OrderStatusCancelled, orderStatus(t, db, order.ID))
	assert.Equal(t, models.RoomStatusAvailable, roomStatus(t, db, room.ID))

	// Second pass finds nothing and changes nothing.
	n, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, models.OrderStatusCancelled, orderStatus(t, db, order.ID))
	assert.Equal(t, models.RoomStatusAvailable, roomStatus(t, db, room.ID))
}

func TestSweepOnce_LeavesUnexpiredAndConfirmedAlone(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(t, db, 24*time.Hour)
	room := createRoom(t, db, 100)
	user := createUser(t, db)
	ctx := context.Background()

	pending, err := svc.CreateReservation(ctx, user.ID, room.ID, futureDate(1), futureDate(3), nil)
	require.NoError(t, err)

	confirmed, err := svc.CreateReservation(ctx, user.ID, room.ID, futureDate(3), futureDate(5), nil)
	require.NoError(t, err)
	_, err = svc.ApplyPaymentOutcome(confirmed.ID, models.PaymentStatusPaid)
	require.NoError(t, err)
	// Even a past deadline is irrelevant once confirmed.
	expireOrder(t, db, confirmed.ID)

	sweeper := NewExpirySweeper(db, time.Hour)
	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, models.OrderStatusPending, orderStatus(t, db, pending.ID))
	assert.Equal(t, models.OrderStatusConfirmed, orderStatus(t, db, confirmed.ID))
	assert.Equal(t, models.RoomStatusBooked, roomStatus(t, db, room.ID))
}

func TestSweepOnce_RoomStaysBookedWhileConfirmedOrderRemains(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(t, db, 24*time.Hour)
	room := createRoom(t, db, 100)
	user := createUser(t, db)
	ctx := context.Background()

	stale, err := svc.CreateReservation(ctx, user.ID, room.ID, futureDate(1), futureDate(3), nil)
	require.NoError(t, err)
	confirmed, err := svc.CreateReservation(ctx, user.ID, room.ID, futureDate(5), futureDate(7), nil)
	require.NoError(t, err)
	_, err = svc.ApplyPaymentOutcome(confirmed.ID, models.PaymentStatusPaid)
	require.NoError(t, err)

	expireOrder(t, db, stale.ID)

	sweeper := NewExpirySweeper(db, time.Hour)
	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.OrderStatusCancelled, orderStatus(t, db, stale.ID))
	assert.Equal(t, models.RoomStatusBooked, roomStatus(t, db, room.ID))
}

func TestSweeper_StartStopLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReservationService(t, db, 24*time.Hour)
	room := createRoom(t, db, 100)
	user := createUser(t, db)

	order, err := svc.CreateReservation(context.Background(), user.ID, room.ID, futureDate(1), futureDate(3), nil)
	require.NoError(t, err)
	expireOrder(t, db, order.ID)

	sweeper := NewExpirySweeper(db, 10*time.Millisecond)
	sweeper.Start()
	defer sweeper.Stop()

	assert.Eventually(t, func() bool {
		var o models.Order
		if err := db.First(&o, order.ID).Error; err != nil {
			return false
		}
		return o.Status == models.OrderStatusCancelled
	}, 2*time.Second, 20*time.Millisecond)

	sweeper.Stop()
	// Stop is idempotent and Start works again after it.
	sweeper.Stop()
	sweeper.Start()
	sweeper.Stop()
}
