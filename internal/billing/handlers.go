package billing

import (
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// RecordPayment POST /api/v1/invoices/:id/payments
func (h *Handlers) RecordPayment(c *fiber.Ctx) error {
	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid invoice id", 400, nil)
	}
	var body struct {
		Amount    float64 `json:"amount"`
		Reference string  `json:"reference"`
	}
	if err := c.BodyParser(&body); err != nil || body.Amount == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	payment, err := h.Service.RecordPayment(c.Context(), invoiceID, body.Amount, body.Reference)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Payment recorded", payment, nil)
}

// ListForReservation GET /api/v1/reservations/:id/invoices
func (h *Handlers) ListForReservation(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid reservation id", 400, nil)
	}
	var invoices []domain.Invoice
	if err := h.Service.DB.WithContext(c.Context()).
		Preload("LineItems").
		Where("reservation_id = ?", reservationID).
		Find(&invoices).Error; err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Invoices", invoices, nil)
}
