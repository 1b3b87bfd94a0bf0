package nightaudit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/overbooking"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service runs the end-of-day batch: recurring room charges, revenue
// rollup, discrepancy scan, policy trim. Steps run in that fixed order
// but each commits its own transaction, so one failing step never
// corrupts the others' inputs.
type Service struct {
	DB       *gorm.DB
	Policies *overbooking.Service
}

// Discrepancy is a data problem the audit reports but never fixes.
type Discrepancy struct {
	Kind          string     `json:"kind"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	RoomID        *uuid.UUID `json:"room_id,omitempty"`
	Detail        string     `json:"detail"`
}

// Report summarizes one audit run.
type Report struct {
	BusinessDate    time.Time              `json:"business_date"`
	ChargesPosted   int                    `json:"charges_posted"`
	ChargesSkipped  int                    `json:"charges_skipped"`
	Summary         *domain.RevenueSummary `json:"summary,omitempty"`
	Discrepancies   []Discrepancy          `json:"discrepancies"`
	PoliciesDeleted int64                  `json:"policies_deleted"`
	PoliciesTrimmed int64                  `json:"policies_trimmed"`
	StepErrors      []string               `json:"step_errors,omitempty"`
}

// Run executes the audit for one business date.
func (s *Service) Run(ctx context.Context, businessDate time.Time) (*Report, error) {
	businessDate = domain.Date(businessDate)
	report := &Report{BusinessDate: businessDate}

	if err := s.postRoomCharges(ctx, businessDate, report); err != nil {
		report.StepErrors = append(report.StepErrors, fmt.Sprintf("room charges: %v", err))
	}
	if err := s.rollUpRevenue(ctx, businessDate, report); err != nil {
		report.StepErrors = append(report.StepErrors, fmt.Sprintf("revenue summary: %v", err))
	}
	if err := s.scanDiscrepancies(ctx, businessDate, report); err != nil {
		report.StepErrors = append(report.StepErrors, fmt.Sprintf("discrepancy scan: %v", err))
	}
	if err := s.trimPolicies(ctx, businessDate, report); err != nil {
		report.StepErrors = append(report.StepErrors, fmt.Sprintf("policy trim: %v", err))
	}

	log.Info().
		Str("business_date", businessDate.Format(domain.DateLayout)).
		Int("charges_posted", report.ChargesPosted).
		Int("discrepancies", len(report.Discrepancies)).
		Int("step_errors", len(report.StepErrors)).
		Msg("Night audit completed")
	return report, nil
}

// postRoomCharges posts the nightly room charge for every checked-in
// reservation spanning the business date. A charge already posted for
// that leg/date/invoice is skipped, not duplicated.
func (s *Service) postRoomCharges(ctx context.Context, businessDate time.Time, report *Report) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservations []domain.Reservation
		if err := tx.Preload("Legs").
			Where("status = ? AND check_in <= ? AND check_out > ?",
				domain.ReservationCheckedIn, businessDate, businessDate).
			Find(&reservations).Error; err != nil {
			return err
		}

		for _, reservation := range reservations {
			var invoice domain.Invoice
			err := tx.Where("reservation_id = ? AND status = ?", reservation.ReservationID, domain.InvoiceOpen).
				First(&invoice).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No open invoice: the discrepancy scan reports it.
				continue
			}
			if err != nil {
				return err
			}

			for _, leg := range reservation.Legs {
				if !leg.Status.HoldsInventory() {
					continue
				}
				var existing int64
				if err := tx.Model(&domain.InvoiceLineItem{}).
					Where("invoice_id = ? AND leg_id = ? AND item_type = ? AND charge_date = ?",
						invoice.InvoiceID, leg.LegID, domain.ItemRoomCharge, businessDate).
					Count(&existing).Error; err != nil {
					return err
				}
				if existing > 0 {
					report.ChargesSkipped++
					continue
				}

				amount := leg.RatePerNight * float64(leg.Quantity)
				chargeDate := businessDate
				item := domain.InvoiceLineItem{
					InvoiceID:   invoice.InvoiceID,
					LegID:       &leg.LegID,
					ItemType:    domain.ItemRoomCharge,
					Description: fmt.Sprintf("Room charge %s", businessDate.Format(domain.DateLayout)),
					Amount:      amount,
					ChargeDate:  &chargeDate,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				invoice.Total += amount
				invoice.Balance += amount
				report.ChargesPosted++
			}
			if err := tx.Save(&invoice).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// rollUpRevenue upserts the dated revenue/occupancy summary row.
func (s *Service) rollUpRevenue(ctx context.Context, businessDate time.Time, report *Report) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var roomRevenue, otherRevenue float64
		if err := tx.Model(&domain.InvoiceLineItem{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("charge_date = ? AND item_type = ?", businessDate, domain.ItemRoomCharge).
			Scan(&roomRevenue).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.InvoiceLineItem{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("charge_date = ? AND item_type <> ?", businessDate, domain.ItemRoomCharge).
			Scan(&otherRevenue).Error; err != nil {
			return err
		}

		var occupied, arrivals, departures int64
		if err := tx.Model(&domain.Room{}).
			Where("status = ?", domain.RoomStatusOccupied).
			Count(&occupied).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Reservation{}).
			Where("check_in = ? AND status IN ?", businessDate, []domain.ReservationStatus{
				domain.ReservationCheckedIn, domain.ReservationCheckedOut,
			}).
			Count(&arrivals).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Reservation{}).
			Where("check_out = ? AND status = ?", businessDate, domain.ReservationCheckedOut).
			Count(&departures).Error; err != nil {
			return err
		}

		var summary domain.RevenueSummary
		err := tx.Where("business_date = ?", businessDate).First(&summary).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			summary = domain.RevenueSummary{BusinessDate: businessDate}
		} else if err != nil {
			return err
		}
		summary.RoomRevenue = roomRevenue
		summary.OtherRevenue = otherRevenue
		summary.TotalRevenue = roomRevenue + otherRevenue
		summary.OccupiedRooms = int(occupied)
		summary.Arrivals = int(arrivals)
		summary.Departures = int(departures)
		if err := tx.Save(&summary).Error; err != nil {
			return err
		}
		report.Summary = &summary
		return nil
	})
}

// scanDiscrepancies flags checked-in reservations with no open invoice,
// checked-out reservations with outstanding balance, and occupied rooms
// with no matching checked-in reservation. Reported, not auto-corrected.
func (s *Service) scanDiscrepancies(ctx context.Context, businessDate time.Time, report *Report) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var noInvoice []domain.Reservation
		if err := tx.
			Where("status = ?", domain.ReservationCheckedIn).
			Where("reservation_id NOT IN (?)",
				tx.Model(&domain.Invoice{}).Select("reservation_id").Where("status = ?", domain.InvoiceOpen)).
			Find(&noInvoice).Error; err != nil {
			return err
		}
		for i := range noInvoice {
			id := noInvoice[i].ReservationID
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Kind:          "checked_in_without_open_invoice",
				ReservationID: &id,
				Detail:        fmt.Sprintf("reservation %s is checked in but has no open invoice", id),
			})
		}

		var withBalance []domain.Reservation
		if err := tx.
			Where("status = ?", domain.ReservationCheckedOut).
			Where("reservation_id IN (?)",
				tx.Model(&domain.Invoice{}).Select("reservation_id").Where("balance > 0")).
			Find(&withBalance).Error; err != nil {
			return err
		}
		for i := range withBalance {
			id := withBalance[i].ReservationID
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Kind:          "checked_out_with_balance",
				ReservationID: &id,
				Detail:        fmt.Sprintf("reservation %s checked out with an outstanding balance", id),
			})
		}

		var orphanRooms []domain.Room
		if err := tx.
			Where("status = ?", domain.RoomStatusOccupied).
			Where("room_id NOT IN (?)",
				tx.Model(&domain.ReservationRoomLeg{}).Select("room_id").
					Where("room_id IS NOT NULL AND status = ?", domain.ReservationCheckedIn)).
			Find(&orphanRooms).Error; err != nil {
			return err
		}
		for i := range orphanRooms {
			id := orphanRooms[i].RoomID
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				Kind:   "occupied_room_without_reservation",
				RoomID: &id,
				Detail: fmt.Sprintf("room %s is marked occupied with no checked-in reservation", orphanRooms[i].Number),
			})
		}

		if len(report.Discrepancies) > 0 {
			payload, _ := json.Marshal(map[string]interface{}{
				"business_date": businessDate.Format(domain.DateLayout),
				"discrepancies": report.Discrepancies,
			})
			if err := tx.Create(&domain.InventoryEvent{
				EventType: domain.EventAuditDiscrepancy,
				EventData: datatypes.JSON(payload),
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// trimPolicies keeps the policy resolver's working set bounded without
// losing future constraints.
func (s *Service) trimPolicies(ctx context.Context, businessDate time.Time, report *Report) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, trimmed, err := s.Policies.TrimExpired(tx, businessDate)
		if err != nil {
			return err
		}
		report.PoliciesDeleted = deleted
		report.PoliciesTrimmed = trimmed
		return nil
	})
}
