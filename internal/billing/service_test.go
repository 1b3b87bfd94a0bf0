package billing

import (
	"context"
	"testing"

	"harborstay-backend/internal/database"
	"harborstay-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingIssuer captures refund calls so tests can assert on them.
type recordingIssuer struct {
	calls []float64
}

func (r *recordingIssuer) Refund(payment *domain.Payment, amount float64, reason string) (string, error) {
	r.calls = append(r.calls, amount)
	return "re_test_" + payment.PaymentID.String()[:8], nil
}

func setupBillingTest(t *testing.T) (*Service, *recordingIssuer, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	issuer := &recordingIssuer{}
	return &Service{DB: db, Issuer: issuer}, issuer, db
}

// paidReservation creates a reservation with a paid invoice of the given
// amount.
func paidReservation(t *testing.T, svc *Service, amount float64) uuid.UUID {
	reservation := domain.Reservation{
		ConfirmationCode: "HBS-" + uuid.New().String()[:8],
		GuestName:        "Payer",
		Status:           domain.ReservationConfirmed,
	}
	require.NoError(t, svc.DB.Create(&reservation).Error)

	var invoice *domain.Invoice
	require.NoError(t, svc.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		invoice, err = svc.OpenInvoiceForReservation(tx, reservation.ReservationID)
		return err
	}))
	invoice.Total, invoice.Balance = amount, amount
	require.NoError(t, svc.DB.Save(invoice).Error)

	_, err := svc.RecordPayment(context.Background(), invoice.InvoiceID, amount, "pi_test")
	require.NoError(t, err)
	return reservation.ReservationID
}

func TestRecordPayment_SettlesInvoice(t *testing.T) {
	svc, _, db := setupBillingTest(t)
	reservationID := paidReservation(t, svc, 500)

	var invoice domain.Invoice
	require.NoError(t, db.Where("reservation_id = ?", reservationID).First(&invoice).Error)
	assert.Equal(t, domain.InvoicePaid, invoice.Status)
	assert.Equal(t, 0.0, invoice.Balance)
}

func TestRecordPayment_PartialLeavesOpen(t *testing.T) {
	svc, _, db := setupBillingTest(t)

	reservation := domain.Reservation{ConfirmationCode: "HBS-P1", GuestName: "Partial", Status: domain.ReservationConfirmed}
	require.NoError(t, db.Create(&reservation).Error)
	invoice := domain.Invoice{ReservationID: reservation.ReservationID, Status: domain.InvoiceOpen, Total: 400, Balance: 400}
	require.NoError(t, db.Create(&invoice).Error)

	_, err := svc.RecordPayment(context.Background(), invoice.InvoiceID, 150, "")
	require.NoError(t, err)

	var updated domain.Invoice
	require.NoError(t, db.Where("invoice_id = ?", invoice.InvoiceID).First(&updated).Error)
	assert.Equal(t, domain.InvoiceOpen, updated.Status)
	assert.Equal(t, 250.0, updated.Balance)
}

func TestRecordPayment_RejectsNonPositive(t *testing.T) {
	svc, _, _ := setupBillingTest(t)
	_, err := svc.RecordPayment(context.Background(), uuid.New(), 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestRecordPayment_UnknownInvoice(t *testing.T) {
	svc, _, _ := setupBillingTest(t)
	_, err := svc.RecordPayment(context.Background(), uuid.New(), 100, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRefund_FullMinusFee(t *testing.T) {
	svc, issuer, db := setupBillingTest(t)
	reservationID := paidReservation(t, svc, 500)

	var refunded float64
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		refunded, err = svc.RefundForReservation(tx, reservationID, 75, false, "cancellation")
		return err
	}))
	assert.Equal(t, 425.0, refunded)
	require.Len(t, issuer.calls, 1)
	assert.Equal(t, 425.0, issuer.calls[0])

	var payment domain.Payment
	require.NoError(t, db.First(&payment).Error)
	assert.Equal(t, 425.0, payment.RefundedAmount)
	assert.Equal(t, domain.PaymentCaptured, payment.Status)

	// A negative line item records the refund on the invoice.
	var item domain.InvoiceLineItem
	require.NoError(t, db.Where("item_type = ?", domain.ItemRefund).First(&item).Error)
	assert.Equal(t, -425.0, item.Amount)
}

func TestRefund_ForfeitRefundsNothing(t *testing.T) {
	svc, issuer, db := setupBillingTest(t)
	reservationID := paidReservation(t, svc, 500)

	var refunded float64
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		refunded, err = svc.RefundForReservation(tx, reservationID, 0, true, "cancellation")
		return err
	}))
	assert.Equal(t, 0.0, refunded)
	assert.Empty(t, issuer.calls)
}

func TestRefund_FeeExceedingPaymentFloorsAtZero(t *testing.T) {
	svc, issuer, db := setupBillingTest(t)
	reservationID := paidReservation(t, svc, 100)

	var refunded float64
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		refunded, err = svc.RefundForReservation(tx, reservationID, 250, false, "cancellation")
		return err
	}))
	assert.Equal(t, 0.0, refunded)
	assert.Empty(t, issuer.calls)
}

func TestRefund_FullRefundMarksPaymentRefunded(t *testing.T) {
	svc, _, db := setupBillingTest(t)
	reservationID := paidReservation(t, svc, 300)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.RefundForReservation(tx, reservationID, 0, false, "cancellation")
		return err
	}))

	var payment domain.Payment
	require.NoError(t, db.First(&payment).Error)
	assert.Equal(t, domain.PaymentRefunded, payment.Status)

	// A second refund pass finds nothing left to give back.
	var refunded float64
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		refunded, err = svc.RefundForReservation(tx, reservationID, 0, false, "cancellation")
		return err
	}))
	assert.Equal(t, 0.0, refunded)
}

func TestRefund_NoPaymentsNoRefund(t *testing.T) {
	svc, issuer, db := setupBillingTest(t)

	reservation := domain.Reservation{ConfirmationCode: "HBS-NP", GuestName: "Unpaid", Status: domain.ReservationConfirmed}
	require.NoError(t, db.Create(&reservation).Error)

	var refunded float64
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		refunded, err = svc.RefundForReservation(tx, reservation.ReservationID, 0, false, "cancellation")
		return err
	}))
	assert.Equal(t, 0.0, refunded)
	assert.Empty(t, issuer.calls)
}
