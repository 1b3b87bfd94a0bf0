package booking

import (
	"context"
	"errors"
	"time"

	"harborstay-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReconcileResult reports what a cancellation / no-show gave back.
type ReconcileResult struct {
	Reservation    *domain.Reservation `json:"reservation"`
	NightsReleased int                 `json:"nights_released"`
	Refunded       float64             `json:"refunded"`
	PastDeadline   bool                `json:"past_deadline"`
	NonRefundable  bool                `json:"non_refundable"`
}

// cancellationTerms is the policy snapshot resolved from a reservation's
// room legs. Reservations whose legs carry no rate-plan snapshot default
// to fully refundable with no fee.
type cancellationTerms struct {
	nonRefundable bool
	deadlineHours *int
	feePercent    float64
}

func resolveTerms(legs []domain.ReservationRoomLeg) cancellationTerms {
	for _, leg := range legs {
		if leg.NonRefundable || leg.CancellationDeadlineHours != nil || leg.CancellationFeePercent > 0 {
			return cancellationTerms{
				nonRefundable: leg.NonRefundable,
				deadlineHours: leg.CancellationDeadlineHours,
				feePercent:    leg.CancellationFeePercent,
			}
		}
	}
	return cancellationTerms{}
}

// pastDeadline evaluates the cancellation deadline against the business
// date: true when the terms are non-refundable with no deadline, when
// the deadline is zero hours, or when now has reached checkIn minus the
// deadline window.
func (t cancellationTerms) pastDeadline(now, checkIn time.Time) bool {
	if t.deadlineHours == nil {
		return t.nonRefundable
	}
	if *t.deadlineHours == 0 {
		return true
	}
	cutoff := checkIn.Add(-time.Duration(*t.deadlineHours) * time.Hour)
	return !now.Before(cutoff)
}

// ReconcileCancellation cancels a reservation and conditionally returns
// its consumed inventory and money. The status transition, the ledger
// release and the refund commit or roll back together.
func (s *Service) ReconcileCancellation(ctx context.Context, reservationID uuid.UUID, fee float64) (*ReconcileResult, error) {
	today, err := s.Dates.Get(ctx)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation domain.Reservation
		if err := tx.Preload("Legs").Where("reservation_id = ?", reservationID).First(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReservationNotFound
			}
			return err
		}
		if reservation.Status != domain.ReservationPending && reservation.Status != domain.ReservationConfirmed {
			return domain.ErrNotCancellable
		}

		terms := resolveTerms(reservation.Legs)
		past := terms.pastDeadline(today, reservation.CheckIn)
		result.NonRefundable = terms.nonRefundable
		result.PastDeadline = past

		if !terms.nonRefundable && !past {
			nights := domain.Nights(reservation.CheckIn, reservation.CheckOut)
			for _, leg := range reservation.Legs {
				if leg.BlockID != nil {
					// Block-sourced legs never consumed general
					// inventory; their units flow back through the
					// block's pickup count.
					continue
				}
				if err := s.releaseNights(tx, leg.RoomTypeID, nights, leg.Quantity); err != nil {
					return err
				}
				result.NightsReleased += len(nights) * leg.Quantity
			}
		}

		forfeit := terms.nonRefundable || past
		refunded, err := s.Billing.RefundForReservation(tx, reservationID, fee, forfeit, "cancellation")
		if err != nil {
			return err
		}
		result.Refunded = refunded

		reservation.Status = domain.ReservationCancelled
		for i := range reservation.Legs {
			reservation.Legs[i].Status = domain.ReservationCancelled
			if err := tx.Save(&reservation.Legs[i]).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}
		result.Reservation = &reservation

		return s.recordEvent(tx, domain.EventCancellationRelease, nil, map[string]interface{}{
			"reservation_id":  reservationID,
			"nights_released": result.NightsReleased,
			"refunded":        refunded,
			"past_deadline":   past,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("reservation_id", reservationID.String()).
		Int("nights_released", result.NightsReleased).
		Float64("refunded", result.Refunded).
		Msg("Reservation cancelled")
	return result, nil
}

// ReconcileNoShow marks a reservation no-show. Refundable stays release
// every night except the first — the first night stays consumed as the
// no-show penalty, so a one-night stay releases nothing. Non-refundable
// stays release nothing regardless of deadline state.
func (s *Service) ReconcileNoShow(ctx context.Context, reservationID uuid.UUID) (*ReconcileResult, error) {
	result := &ReconcileResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation domain.Reservation
		if err := tx.Preload("Legs").Where("reservation_id = ?", reservationID).First(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReservationNotFound
			}
			return err
		}
		if reservation.Status != domain.ReservationPending && reservation.Status != domain.ReservationConfirmed {
			return domain.ErrInvalidStatusTransition
		}

		terms := resolveTerms(reservation.Legs)
		result.NonRefundable = terms.nonRefundable

		if !terms.nonRefundable {
			nights := domain.Nights(reservation.CheckIn, reservation.CheckOut)
			if len(nights) > 1 {
				releasable := nights[1:]
				for _, leg := range reservation.Legs {
					if leg.BlockID != nil {
						continue
					}
					if err := s.releaseNights(tx, leg.RoomTypeID, releasable, leg.Quantity); err != nil {
						return err
					}
					result.NightsReleased += len(releasable) * leg.Quantity
				}
			}
		}

		reservation.Status = domain.ReservationNoShow
		for i := range reservation.Legs {
			reservation.Legs[i].Status = domain.ReservationNoShow
			if err := tx.Save(&reservation.Legs[i]).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}
		result.Reservation = &reservation

		return s.recordEvent(tx, domain.EventNoShowRelease, nil, map[string]interface{}{
			"reservation_id":  reservationID,
			"nights_released": result.NightsReleased,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("reservation_id", reservationID.String()).
		Int("nights_released", result.NightsReleased).
		Msg("Reservation marked no-show")
	return result, nil
}
