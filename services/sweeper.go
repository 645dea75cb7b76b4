package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hotel-backoffice/models"

	"gorm.io/gorm"
)

// DefaultSweepInterval matches the policy default for the reservation
// window: one reclaim pass per day.
const DefaultSweepInterval = 24 * time.Hour

// ExpirySweeper periodically cancels PENDING orders whose decision deadline
// has elapsed and releases their rooms. It owns its goroutine: Start spawns
// it, Stop blocks until the in-flight pass finishes.
type ExpirySweeper struct {
	DB       *gorm.DB
	Interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewExpirySweeper(db *gorm.DB, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &ExpirySweeper{DB: db, Interval: interval}
}

// Start launches the periodic sweep. Calling Start twice without Stop is a
// programming error.
func (s *ExpirySweeper) Start() {
	if s.done != nil {
		panic("sweeper already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		slog.Info("expiry sweeper started", "interval", s.Interval.String())
		for {
			select {
			case <-ctx.Done():
				slog.Info("expiry sweeper stopped")
				return
			case <-ticker.C:
				if n, err := s.SweepOnce(ctx); err != nil {
					slog.Error("sweep pass failed", "error", err)
				} else if n > 0 {
					slog.Info("sweep pass reclaimed rooms", "cancelled_orders", n)
				}
			}
		}
	}()
}

// Stop shuts the sweeper down and waits for the running pass, if any.
func (s *ExpirySweeper) Stop() {
	if s.done == nil {
		return
	}
	s.cancel()
	<-s.done
	s.done = nil
}

// SweepOnce cancels every PENDING order past its deadline and resyncs the
// affected rooms. Each order is handled in its own transaction; a failure
// on one is logged and does not abort the rest; the next pass retries it.
// Running the pass twice is a no-op the second time.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) (int, error) {
	now := time.Now()

	var expired []models.Order
	if err := s.DB.WithContext(ctx).
		Where("status = ? AND deadline < ?", models.OrderStatusPending, now).
		Find(&expired).Error; err != nil {
		return 0, fmt.Errorf("failed to query expired orders: %w", err)
	}

	cancelled := 0
	for i := range expired {
		orderID := expired[i].ID
		if err := s.expireOne(ctx, orderID, now); err != nil {
			if errors.Is(err, errNoLongerPending) {
				continue
			}
			slog.Error("failed to expire order, will retry next pass",
				"order_id", orderID, "error", err)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

// errNoLongerPending marks the benign race where a payment outcome or a
// manual cancel won against the sweeper.
var errNoLongerPending = errors.New("order no longer pending")

func (s *ExpirySweeper) expireOne(ctx context.Context, orderID uint, now time.Time) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).
			First(&order, orderID).Error; err != nil {
			return err
		}

		// Re-check under the row lock: a concurrent ApplyPaymentOutcome may
		// have confirmed or cancelled the order since the scan.
		if order.Status != models.OrderStatusPending || order.Deadline.After(now) {
			return errNoLongerPending
		}

		if err := tx.Model(&order).
			Update("status", models.OrderStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel expired order %d: %w", orderID, err)
		}
		if err := syncRoomStatus(tx, order.RoomID, now); err != nil {
			return err
		}

		slog.Info("expired reservation cancelled",
			"order_id", orderID, "room_id", order.RoomID,
			"deadline", order.Deadline.Format(time.RFC3339))
		return nil
	})
}
