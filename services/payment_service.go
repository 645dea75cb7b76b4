package services

import (
	"fmt"
	"log/slog"

	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"gorm.io/gorm"
)

// PaymentService records payment outcomes delivered by the payment
// collaborator and feeds them into the reservation state machine.
type PaymentService struct {
	DB           *gorm.DB
	Reservations *ReservationService
}

func NewPaymentService(db *gorm.DB, reservations *ReservationService) *PaymentService {
	return &PaymentService{DB: db, Reservations: reservations}
}

// RecordOutcome persists the payment row and applies its status to the
// order. The payment record is written before the transition so a rejected
// one (for example a duplicate webhook on an already-confirmed order) still
// leaves an audit trail; a payment for an order that does not exist at all
// is rejected outright.
func (s *PaymentService) RecordOutcome(orderID uint, status models.PaymentStatus, amount float64, method string) (models.Order, error) {
	var exists int64
	if err := s.DB.Model(&models.Order{}).Where("id = ?", orderID).Count(&exists).Error; err != nil {
		return models.Order{}, fmt.Errorf("failed to look up order %d: %w", orderID, err)
	}
	if exists == 0 {
		return models.Order{}, ErrOrderNotFound
	}

	payment := models.Payment{
		OrderID: orderID,
		Amount:  amount,
		Status:  status,
		Method:  method,
	}
	if err := s.DB.Create(&payment).Error; err != nil {
		return models.Order{}, fmt.Errorf("failed to record payment for order %d: %w", orderID, err)
	}

	order, err := s.Reservations.ApplyPaymentOutcome(orderID, status)
	if err != nil {
		return models.Order{}, err
	}

	if order.Status == models.OrderStatusConfirmed {
		s.sendConfirmationEmail(order)
	}
	return order, nil
}

// ListForOrder returns the payment history of one order.
func (s *PaymentService) ListForOrder(orderID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.DB.Where("order_id = ?", orderID).
		Order("created_at ASC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments for order %d: %w", orderID, err)
	}
	return payments, nil
}

// Confirmation mail is best-effort: a delivery failure never rolls back a
// confirmed booking.
func (s *PaymentService) sendConfirmationEmail(order models.Order) {
	var user models.User
	if err := s.DB.First(&user, order.UserID).Error; err != nil {
		slog.Warn("skipping confirmation email, user load failed",
			"order_id", order.ID, "error", err)
		return
	}
	if err := utils.SendBookingConfirmationEmail(
		user.Email,
		user.FullName,
		order.ReferenceCode,
		order.CheckIn.Format("2006-01-02"),
		order.CheckOut.Format("2006-01-02"),
		order.TotalAmount,
	); err != nil {
		slog.Warn("confirmation email failed", "order_id", order.ID, "error", err)
	}
}
