package billing

import (
	"harborstay-backend/internal/domain"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"
)

// StripeRefundIssuer issues refunds through the Stripe API, keyed by the
// payment's Reference (PaymentIntent id). Payments with no reference are
// treated as front-desk payments and refunded on the books only.
type StripeRefundIssuer struct {
	SecretKey string
}

func (r *StripeRefundIssuer) Refund(payment *domain.Payment, amount float64, reason string) (string, error) {
	if r.SecretKey == "" || payment.Reference == "" {
		return payment.Reference, nil
	}
	stripe.Key = r.SecretKey
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(payment.Reference),
		Amount:        stripe.Int64(int64(amount * 100)),
		Metadata: map[string]string{
			"reason": reason,
		},
	}
	res, err := refund.New(params)
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

// NopRefundIssuer records refunds on the books without contacting any
// processor. Used in tests and when Stripe is not configured.
type NopRefundIssuer struct{}

func (NopRefundIssuer) Refund(payment *domain.Payment, amount float64, reason string) (string, error) {
	return payment.Reference, nil
}
