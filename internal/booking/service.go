package booking

import (
	"sort"
	"time"

	"harborstay-backend/internal/billing"
	"harborstay-backend/internal/businessdate"
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/inventory"
	"harborstay-backend/internal/overbooking"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service is the availability validator & reserver plus the lifecycle
// inventory reconciler. All ledger-mutating paths run inside a single
// transaction per logical operation.
type Service struct {
	DB        *gorm.DB
	Inventory *inventory.Service
	Policies  *overbooking.Service
	Billing   *billing.Service
	Dates     businessdate.Provider
}

// RoomRequest is one room-type's share of a reservation attempt.
type RoomRequest struct {
	RoomTypeID uuid.UUID
	Quantity   int
}

// Reserve atomically checks and decrements the ledger for every night of
// every requested room-type, honoring the resolved overbooking policy
// (or an explicit override). Row locks are taken in ascending
// (room-type, date) order so concurrent overlapping attempts serialize
// instead of deadlocking. Any shortfall aborts the whole transaction.
func (s *Service) Reserve(tx *gorm.DB, requests []RoomRequest, checkIn, checkOut time.Time, overridePct *int) error {
	nights := domain.Nights(checkIn, checkOut)
	if len(nights) == 0 {
		return domain.ErrInvalidDateRange
	}

	// Aggregate quantities per room type, then walk types in a stable
	// ascending order.
	quantities := make(map[uuid.UUID]int)
	for _, req := range requests {
		if req.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
		quantities[req.RoomTypeID] += req.Quantity
	}
	roomTypeIDs := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		roomTypeIDs = append(roomTypeIDs, id)
	}
	sort.Slice(roomTypeIDs, func(i, j int) bool {
		return roomTypeIDs[i].String() < roomTypeIDs[j].String()
	})

	for _, roomTypeID := range roomTypeIDs {
		quantity := quantities[roomTypeID]
		for _, night := range nights {
			row, err := s.Inventory.LockNight(tx, roomTypeID, night)
			if err != nil {
				return err
			}

			effectivePct := 100
			if overridePct != nil {
				effectivePct = *overridePct
			} else {
				effectivePct, err = s.Policies.ResolvePercent(tx, roomTypeID, night)
				if err != nil {
					return err
				}
			}

			maxAllowed := row.Capacity * effectivePct / 100
			remaining := maxAllowed - row.Sold()
			if remaining < quantity {
				log.Info().
					Str("room_type_id", roomTypeID.String()).
					Str("night", night.Format(domain.DateLayout)).
					Int("remaining", remaining).
					Int("requested", quantity).
					Msg("Reservation denied: insufficient availability")
				return &domain.InsufficientAvailabilityError{
					RoomTypeID: roomTypeID,
					Night:      night,
					Remaining:  remaining,
					Requested:  quantity,
				}
			}
			if err := s.Inventory.Adjust(tx, row, -quantity); err != nil {
				return err
			}
		}
	}
	return nil
}

// releaseNights returns quantity units to the ledger for each of the
// given nights, locking rows in the same ascending order as Reserve.
func (s *Service) releaseNights(tx *gorm.DB, roomTypeID uuid.UUID, nights []time.Time, quantity int) error {
	for _, night := range nights {
		row, err := s.Inventory.LockNight(tx, roomTypeID, night)
		if err != nil {
			return err
		}
		if err := s.Inventory.Adjust(tx, row, quantity); err != nil {
			return err
		}
	}
	return nil
}
