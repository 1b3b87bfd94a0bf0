package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/inventory"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LegInput is one requested room leg.
type LegInput struct {
	RoomTypeID uuid.UUID  `json:"room_type_id"`
	RatePlanID *uuid.UUID `json:"rate_plan_id"`
	BlockID    *uuid.UUID `json:"block_id"`
	Quantity   int        `json:"quantity"`
}

// CreateReservationInput is a booking request. Confirmed matters only
// for group requests mixing block and general-inventory legs.
type CreateReservationInput struct {
	GuestName   string     `json:"guest_name"`
	GuestEmail  string     `json:"guest_email"`
	CheckIn     time.Time  `json:"check_in"`
	CheckOut    time.Time  `json:"check_out"`
	Legs        []LegInput `json:"legs"`
	OverridePct *int       `json:"overbooking_percent_override"`
	Confirmed   bool       `json:"confirmed"`
}

// ConfirmationWarning tells staff that part of a group is drawn from
// general inventory rather than the pre-held block.
type ConfirmationWarning struct {
	RoomTypeID   uuid.UUID `json:"room_type_id"`
	RatePerNight float64   `json:"rate_per_night"`
	Quantity     int       `json:"quantity"`
	Message      string    `json:"message"`
}

// ReservationResult is either a created reservation or a confirmation
// request; never both.
type ReservationResult struct {
	Reservation          *domain.Reservation   `json:"reservation,omitempty"`
	RequiresConfirmation bool                  `json:"requires_confirmation"`
	Warnings             []ConfirmationWarning `json:"warnings,omitempty"`
}

// CreateReservation books an individual or group stay. Block-sourced legs
// consume their block's held units; all other legs go through the
// policy-aware reserve path. Everything commits in one transaction.
func (s *Service) CreateReservation(ctx context.Context, in CreateReservationInput) (*ReservationResult, error) {
	checkIn, checkOut := domain.Date(in.CheckIn), domain.Date(in.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, domain.ErrInvalidDateRange
	}
	if len(in.Legs) == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	for _, leg := range in.Legs {
		if leg.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	today, err := s.Dates.Get(ctx)
	if err != nil {
		return nil, err
	}
	if checkIn.Before(today) {
		return nil, domain.ErrPastDate
	}

	// Mixed block/non-block groups need explicit staff confirmation
	// before part of the group is pulled from general inventory.
	var blockLegs, inventoryLegs []LegInput
	for _, leg := range in.Legs {
		if leg.BlockID != nil {
			blockLegs = append(blockLegs, leg)
		} else {
			inventoryLegs = append(inventoryLegs, leg)
		}
	}
	if len(blockLegs) > 0 && len(inventoryLegs) > 0 && !in.Confirmed {
		warnings, err := s.inventoryWarnings(ctx, inventoryLegs)
		if err != nil {
			return nil, err
		}
		return &ReservationResult{RequiresConfirmation: true, Warnings: warnings}, nil
	}

	var reservation domain.Reservation
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation = domain.Reservation{
			ConfirmationCode: fmt.Sprintf("HBS-%d", time.Now().UnixMilli()),
			GuestName:        in.GuestName,
			GuestEmail:       in.GuestEmail,
			Status:           domain.ReservationConfirmed,
			CheckIn:          checkIn,
			CheckOut:         checkOut,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		for _, legIn := range in.Legs {
			leg, err := s.buildLeg(tx, &reservation, legIn)
			if err != nil {
				return err
			}
			if legIn.BlockID != nil {
				if err := s.pickUpFromBlock(tx, leg, checkIn, checkOut); err != nil {
					return err
				}
			}
			if err := tx.Create(leg).Error; err != nil {
				return err
			}
		}

		// Non-block legs hit the ledger in one aggregated reserve pass.
		if len(inventoryLegs) > 0 {
			requests := make([]RoomRequest, 0, len(inventoryLegs))
			for _, leg := range inventoryLegs {
				requests = append(requests, RoomRequest{RoomTypeID: leg.RoomTypeID, Quantity: leg.Quantity})
			}
			if err := s.Reserve(tx, requests, checkIn, checkOut, in.OverridePct); err != nil {
				return err
			}
		}

		if _, err := s.Billing.OpenInvoiceForReservation(tx, reservation.ReservationID); err != nil {
			return err
		}
		return s.recordEvent(tx, domain.EventReserved, nil, map[string]interface{}{
			"reservation_id": reservation.ReservationID,
			"check_in":       checkIn.Format(domain.DateLayout),
			"check_out":      checkOut.Format(domain.DateLayout),
			"legs":           len(in.Legs),
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Preload("Legs").
		Where("reservation_id = ?", reservation.ReservationID).
		First(&reservation).Error; err != nil {
		return nil, err
	}
	return &ReservationResult{Reservation: &reservation}, nil
}

// buildLeg snapshots rate-plan cancellation terms onto the leg. A leg
// with no resolvable rate plan defaults to fully refundable, no fee.
func (s *Service) buildLeg(tx *gorm.DB, reservation *domain.Reservation, in LegInput) (*domain.ReservationRoomLeg, error) {
	var roomType domain.RoomType
	if err := tx.Where("room_type_id = ?", in.RoomTypeID).First(&roomType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoomTypeNotFound
		}
		return nil, err
	}

	leg := &domain.ReservationRoomLeg{
		ReservationID: reservation.ReservationID,
		RoomTypeID:    in.RoomTypeID,
		BlockID:       in.BlockID,
		RatePlanID:    in.RatePlanID,
		Quantity:      in.Quantity,
		RatePerNight:  roomType.BaseRate,
		Status:        domain.ReservationConfirmed,
	}
	if in.RatePlanID != nil {
		var plan domain.RatePlan
		if err := tx.Where("rate_plan_id = ?", *in.RatePlanID).First(&plan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrRatePlanNotFound
			}
			return nil, err
		}
		leg.RatePerNight = plan.RatePerNight
		leg.NonRefundable = plan.IsNonRefundable
		leg.CancellationFeePercent = plan.CancellationFeePercent
		if plan.CancellationDeadlineHours != nil {
			hours := *plan.CancellationDeadlineHours
			leg.CancellationDeadlineHours = &hours
		}
	}
	return leg, nil
}

// pickUpFromBlock consumes held units from an active block instead of
// general inventory. The block's ledger decrement already happened at
// block creation; here we only guard the block's remaining units. The
// block row is read under an exclusive lock so concurrent pickups (and a
// concurrent release) serialize on it; otherwise two transactions racing
// for the last held unit would both see it free and overdraw the block.
func (s *Service) pickUpFromBlock(tx *gorm.DB, leg *domain.ReservationRoomLeg, checkIn, checkOut time.Time) error {
	var block domain.Block
	err := inventory.ForUpdate(tx).
		Where("block_id = ? AND released_at IS NULL", *leg.BlockID).
		First(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBlockNotFoundOrReleased
		}
		return err
	}
	if block.RoomTypeID == nil || *block.RoomTypeID != leg.RoomTypeID {
		return domain.ErrRoomTypeNotFound
	}
	if checkIn.Before(domain.Date(block.StartDate)) || domain.Date(checkOut).After(domain.Date(block.EndDate).AddDate(0, 0, 1)) {
		return domain.ErrInvalidDateRange
	}

	pickedUp, err := s.blockPickup(tx, block.BlockID)
	if err != nil {
		return err
	}
	remaining := block.Quantity - pickedUp
	if remaining < leg.Quantity {
		return &domain.InsufficientAvailabilityError{
			RoomTypeID: leg.RoomTypeID,
			Night:      domain.Date(checkIn),
			Remaining:  remaining,
			Requested:  leg.Quantity,
		}
	}
	return nil
}

// blockPickup sums the still-active leg quantities referencing a block.
func (s *Service) blockPickup(tx *gorm.DB, blockID uuid.UUID) (int, error) {
	var picked int64
	err := tx.Model(&domain.ReservationRoomLeg{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("block_id = ? AND status IN ?", blockID, []domain.ReservationStatus{
			domain.ReservationPending, domain.ReservationConfirmed, domain.ReservationCheckedIn,
		}).
		Scan(&picked).Error
	return int(picked), err
}

// inventoryWarnings enumerates one warning per distinct (room-type, rate)
// combination that a mixed group would pull from general inventory.
func (s *Service) inventoryWarnings(ctx context.Context, legs []LegInput) ([]ConfirmationWarning, error) {
	type key struct {
		roomTypeID uuid.UUID
		rate       float64
	}
	seen := make(map[key]*ConfirmationWarning)
	var order []key

	for _, legIn := range legs {
		var rate float64
		if legIn.RatePlanID != nil {
			var plan domain.RatePlan
			if err := s.DB.WithContext(ctx).Where("rate_plan_id = ?", *legIn.RatePlanID).First(&plan).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, domain.ErrRatePlanNotFound
				}
				return nil, err
			}
			rate = plan.RatePerNight
		} else {
			var roomType domain.RoomType
			if err := s.DB.WithContext(ctx).Where("room_type_id = ?", legIn.RoomTypeID).First(&roomType).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, domain.ErrRoomTypeNotFound
				}
				return nil, err
			}
			rate = roomType.BaseRate
		}

		k := key{roomTypeID: legIn.RoomTypeID, rate: rate}
		if w, ok := seen[k]; ok {
			w.Quantity += legIn.Quantity
			continue
		}
		seen[k] = &ConfirmationWarning{
			RoomTypeID:   legIn.RoomTypeID,
			RatePerNight: rate,
			Quantity:     legIn.Quantity,
		}
		order = append(order, k)
	}

	warnings := make([]ConfirmationWarning, 0, len(order))
	for _, k := range order {
		w := seen[k]
		w.Message = fmt.Sprintf("%d room(s) of type %s at %.2f/night will be drawn from general inventory, not the block",
			w.Quantity, w.RoomTypeID, w.RatePerNight)
		warnings = append(warnings, *w)
	}
	return warnings, nil
}

// GetReservation loads a reservation with its legs.
func (s *Service) GetReservation(ctx context.Context, reservationID uuid.UUID) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := s.DB.WithContext(ctx).Preload("Legs").
		Where("reservation_id = ?", reservationID).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// CheckIn transitions a reservation to checked_in and marks rooms
// occupied. Single-room legs get a vacant room of their type assigned
// automatically; group legs stay unassigned.
func (s *Service) CheckIn(ctx context.Context, reservationID uuid.UUID) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Legs").Where("reservation_id = ?", reservationID).First(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReservationNotFound
			}
			return err
		}
		if reservation.Status != domain.ReservationPending && reservation.Status != domain.ReservationConfirmed {
			return domain.ErrInvalidStatusTransition
		}

		for i := range reservation.Legs {
			leg := &reservation.Legs[i]
			if leg.Quantity == 1 && leg.RoomID == nil {
				var room domain.Room
				err := tx.Where("room_type_id = ? AND status = ?", leg.RoomTypeID, domain.RoomStatusVacant).
					First(&room).Error
				if err == nil {
					leg.RoomID = &room.RoomID
					if err := tx.Model(&domain.Room{}).
						Where("room_id = ?", room.RoomID).
						Update("status", domain.RoomStatusOccupied).Error; err != nil {
						return err
					}
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}
			leg.Status = domain.ReservationCheckedIn
			if err := tx.Save(leg).Error; err != nil {
				return err
			}
		}

		reservation.Status = domain.ReservationCheckedIn
		return tx.Save(&reservation).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CheckOut transitions a checked-in reservation to checked_out.
// Inventory is permanently consumed — the ledger is not touched. The
// invoice must be settled unless force is set.
func (s *Service) CheckOut(ctx context.Context, reservationID uuid.UUID, force bool) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Legs").Where("reservation_id = ?", reservationID).First(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReservationNotFound
			}
			return err
		}
		if reservation.Status != domain.ReservationCheckedIn {
			return domain.ErrInvalidStatusTransition
		}

		if !force {
			var outstanding int64
			if err := tx.Model(&domain.Invoice{}).
				Where("reservation_id = ? AND status = ? AND balance > 0", reservationID, domain.InvoiceOpen).
				Count(&outstanding).Error; err != nil {
				return err
			}
			if outstanding > 0 {
				return domain.ErrInvoiceUnsettled
			}
		}

		for i := range reservation.Legs {
			leg := &reservation.Legs[i]
			if leg.RoomID != nil {
				if err := tx.Model(&domain.Room{}).
					Where("room_id = ?", *leg.RoomID).
					Update("status", domain.RoomStatusVacant).Error; err != nil {
					return err
				}
			}
			leg.Status = domain.ReservationCheckedOut
			if err := tx.Save(leg).Error; err != nil {
				return err
			}
		}

		reservation.Status = domain.ReservationCheckedOut
		return tx.Save(&reservation).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *Service) recordEvent(tx *gorm.DB, eventType domain.InventoryEventType, roomTypeID *uuid.UUID, data map[string]interface{}) error {
	payload, _ := json.Marshal(data)
	return tx.Create(&domain.InventoryEvent{
		RoomTypeID: roomTypeID,
		EventType:  eventType,
		EventData:  datatypes.JSON(payload),
	}).Error
}
