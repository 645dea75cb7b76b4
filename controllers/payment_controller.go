package controllers

import (
	"net/http"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

// RecordPaymentRequest is what the payment collaborator delivers: an order
// reference plus the outcome. Amount and method are recorded for audit.
type RecordPaymentRequest struct {
	OrderID uint                 `json:"order_id" binding:"required"`
	Status  models.PaymentStatus `json:"status" binding:"required"`
	Amount  float64              `json:"amount"`
	Method  string               `json:"method"`
}

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: svc}
}

// POST /api/payments
func (ctrl *PaymentController) RecordPayment(c *gin.Context) {
	var payload RecordPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONErrorDetails(c, http.StatusBadRequest, "error.invalidPayload",
			"order_id and status are required", err.Error())
		return
	}

	order, err := ctrl.Payments.RecordOutcome(payload.OrderID, payload.Status, payload.Amount, payload.Method)
	if err != nil {
		respondReservationError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// GET /api/reservations/:id/payments
func (ctrl *PaymentController) ListOrderPayments(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	payments, err := ctrl.Payments.ListForOrder(id)
	if err != nil {
		respondReservationError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payments)
}
