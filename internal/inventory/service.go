package inventory

import (
	"context"
	"errors"
	"time"

	"harborstay-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the inventory ledger: per (room-type, night) capacity and
// availability counters. Adjust is the only mutator and must be called on
// a row already locked in the enclosing transaction.
type Service struct {
	DB *gorm.DB
}

// NightAvailability is one night of the per-night breakdown.
type NightAvailability struct {
	Date      time.Time `json:"date"`
	Capacity  int       `json:"capacity"`
	Available int       `json:"available"`
}

// AvailabilityResult is the read-only availability answer for a stay.
type AvailabilityResult struct {
	MinAvailable int                 `json:"min_available"`
	IsAvailable  bool                `json:"is_available"`
	PerNight     []NightAvailability `json:"per_night"`
}

// CheckAvailability reads availability for [checkIn, checkOut) without
// locks. Missing nights are reported as zero capacity, not errors —
// only the reserve path treats them as hard failures.
func (s *Service) CheckAvailability(ctx context.Context, roomTypeID uuid.UUID, checkIn, checkOut time.Time) (*AvailabilityResult, error) {
	nights := domain.Nights(checkIn, checkOut)
	if len(nights) == 0 {
		return nil, domain.ErrInvalidDateRange
	}

	var rows []domain.InventoryRow
	if err := s.DB.WithContext(ctx).
		Where("room_type_id = ? AND date >= ? AND date < ?", roomTypeID, nights[0], domain.Date(checkOut)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byDate := make(map[time.Time]domain.InventoryRow, len(rows))
	for _, r := range rows {
		byDate[domain.Date(r.Date)] = r
	}

	result := &AvailabilityResult{IsAvailable: true}
	for i, night := range nights {
		row := byDate[night]
		na := NightAvailability{Date: night, Capacity: row.Capacity, Available: row.Available}
		result.PerNight = append(result.PerNight, na)
		if i == 0 || na.Available < result.MinAvailable {
			result.MinAvailable = na.Available
		}
	}
	if result.MinAvailable <= 0 {
		result.IsAvailable = false
	}
	return result, nil
}

// ForUpdate adds SELECT ... FOR UPDATE to the query on engines that
// support row locks. SQLite has a single writer per database and no
// FOR UPDATE syntax; its transactions already serialize.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// LockNight reads one ledger row under an exclusive row lock
// (SELECT ... FOR UPDATE). Must run inside a transaction. A missing row
// is a hard failure: seeding must precede booking.
func (s *Service) LockNight(tx *gorm.DB, roomTypeID uuid.UUID, night time.Time) (*domain.InventoryRow, error) {
	var row domain.InventoryRow
	err := ForUpdate(tx).
		Where("room_type_id = ? AND date = ?", roomTypeID, domain.Date(night)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoInventoryRow
		}
		return nil, err
	}
	return &row, nil
}

// Adjust applies delta to a locked row's availability (negative =
// consumption, positive = release) and bumps its version. The caller owns
// the lock and the transaction; Adjust never checks policy ceilings.
func (s *Service) Adjust(tx *gorm.DB, row *domain.InventoryRow, delta int) error {
	row.Available += delta
	row.Version++
	return tx.Model(&domain.InventoryRow{}).
		Where("inventory_id = ?", row.InventoryID).
		Updates(map[string]interface{}{
			"available": row.Available,
			"version":   row.Version,
		}).Error
}

// Seed creates or tops up ledger rows for every night in [from, to) at
// the given capacity. New rows start fully available; existing rows have
// capacity changes mirrored onto availability so net consumption is kept.
func (s *Service) Seed(ctx context.Context, roomTypeID uuid.UUID, from, to time.Time, capacity int) (int, error) {
	if capacity < 0 {
		return 0, domain.ErrInvalidQuantity
	}
	nights := domain.Nights(from, to)
	if len(nights) == 0 {
		return 0, domain.ErrInvalidDateRange
	}

	var seeded int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var roomType domain.RoomType
		if err := tx.Where("room_type_id = ?", roomTypeID).First(&roomType).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRoomTypeNotFound
			}
			return err
		}
		for _, night := range nights {
			var row domain.InventoryRow
			err := ForUpdate(tx).
				Where("room_type_id = ? AND date = ?", roomTypeID, night).
				First(&row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				row = domain.InventoryRow{
					RoomTypeID: roomTypeID,
					Date:       night,
					Capacity:   capacity,
					Available:  capacity,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				seeded++
				continue
			}
			if err != nil {
				return err
			}
			diff := capacity - row.Capacity
			if diff == 0 {
				continue
			}
			row.Capacity = capacity
			row.Available += diff
			row.Version++
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
			seeded++
		}
		return nil
	})
	return seeded, err
}
