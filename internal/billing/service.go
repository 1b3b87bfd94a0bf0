package billing

import (
	"context"
	"errors"
	"fmt"

	"harborstay-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefundIssuer abstracts the external payment processor for refunds.
type RefundIssuer interface {
	Refund(payment *domain.Payment, amount float64, reason string) (string, error)
}

// Service owns invoice/payment bookkeeping. It consumes reservation
// state but has no inventory logic of its own; the booking engine calls
// into it only through ListOpenPayments and RefundForReservation.
type Service struct {
	DB     *gorm.DB
	Issuer RefundIssuer
}

// OpenInvoiceForReservation creates an empty open invoice for a new
// reservation. Room charges accrue nightly via the night audit.
func (s *Service) OpenInvoiceForReservation(tx *gorm.DB, reservationID uuid.UUID) (*domain.Invoice, error) {
	invoice := domain.Invoice{
		ReservationID: reservationID,
		Status:        domain.InvoiceOpen,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// RecordPayment captures a payment against an invoice and reduces its
// balance. Reference is the processor's charge/intent id.
func (s *Service) RecordPayment(ctx context.Context, invoiceID uuid.UUID, amount float64, reference string) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var payment *domain.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice domain.Invoice
		if err := tx.Where("invoice_id = ?", invoiceID).First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gorm.ErrRecordNotFound
			}
			return err
		}
		payment = &domain.Payment{
			InvoiceID: invoiceID,
			Amount:    amount,
			Status:    domain.PaymentCaptured,
			Reference: reference,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		invoice.Balance -= amount
		if invoice.Balance <= 0 && invoice.Status == domain.InvoiceOpen {
			invoice.Status = domain.InvoicePaid
		}
		return tx.Save(&invoice).Error
	})
	return payment, err
}

// ListOpenPayments returns the captured, not-yet-refunded payments on
// paid invoices linked to a reservation.
func (s *Service) ListOpenPayments(tx *gorm.DB, reservationID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := tx.
		Joins("JOIN invoices ON invoices.invoice_id = payments.invoice_id").
		Where("invoices.reservation_id = ? AND invoices.status = ? AND payments.status = ?",
			reservationID, domain.InvoicePaid, domain.PaymentCaptured).
		Find(&payments).Error
	return payments, err
}

// RefundForReservation refunds paidAmount − effectiveFee per paid invoice,
// never below zero. When forfeit is true (non-refundable or past-deadline
// cancellation) the effective fee is the full paid amount and nothing is
// refunded. Runs on the caller's transaction so a failed refund rolls the
// whole reconciliation back.
func (s *Service) RefundForReservation(tx *gorm.DB, reservationID uuid.UUID, fee float64, forfeit bool, reason string) (float64, error) {
	payments, err := s.ListOpenPayments(tx, reservationID)
	if err != nil {
		return 0, err
	}

	var totalRefunded float64
	remainingFee := fee
	for i := range payments {
		p := &payments[i]
		paid := p.Amount - p.RefundedAmount
		if paid <= 0 {
			continue
		}

		effectiveFee := remainingFee
		if forfeit {
			effectiveFee = paid
		}
		refund := paid - effectiveFee
		if refund <= 0 {
			remainingFee -= paid
			if remainingFee < 0 {
				remainingFee = 0
			}
			continue
		}
		remainingFee = 0

		reference := p.Reference
		if s.Issuer != nil {
			reference, err = s.Issuer.Refund(p, refund, reason)
			if err != nil {
				return totalRefunded, err
			}
		}

		p.RefundedAmount += refund
		if p.RefundedAmount >= p.Amount {
			p.Status = domain.PaymentRefunded
		}
		if err := tx.Save(p).Error; err != nil {
			return totalRefunded, err
		}
		item := domain.InvoiceLineItem{
			InvoiceID:   p.InvoiceID,
			ItemType:    domain.ItemRefund,
			Description: fmt.Sprintf("Refund (%s): %s", reason, reference),
			Amount:      -refund,
		}
		if err := tx.Create(&item).Error; err != nil {
			return totalRefunded, err
		}
		totalRefunded += refund
	}
	return totalRefunded, nil
}
