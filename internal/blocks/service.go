package blocks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/inventory"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service manages inventory-consuming holds. Type-wide blocks decrement
// the ledger night by night at creation and restore the unconsumed
// remainder at release; room-specific blocks only take a physical room
// out of order.
type Service struct {
	DB        *gorm.DB
	Inventory *inventory.Service
}

type CreateBlockInput struct {
	RoomTypeID *uuid.UUID       `json:"room_type_id"`
	RoomID     *uuid.UUID       `json:"room_id"`
	StartDate  time.Time        `json:"start_date"`
	EndDate    time.Time        `json:"end_date"`
	BlockType  domain.BlockType `json:"block_type"`
	Quantity   int              `json:"quantity"`
	Reason     string           `json:"reason"`
}

// ReleaseResult reports how a released block's units were split.
type ReleaseResult struct {
	Block         *domain.Block `json:"block"`
	ReleasedSlots int           `json:"released_slots"`
	PickedUp      int           `json:"picked_up"`
}

// CreateBlock holds rooms. Blocks are administrative: the ledger
// decrement skips the overbooking ceiling check, but a missing ledger row
// is still a hard failure — seeding must precede blocking.
func (s *Service) CreateBlock(ctx context.Context, in CreateBlockInput) (*domain.Block, error) {
	if !in.BlockType.Valid() {
		return nil, errors.New("unknown block type")
	}
	if in.RoomTypeID == nil && in.RoomID == nil {
		return nil, errors.New("block needs a room type or a room")
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	start, end := domain.Date(in.StartDate), domain.Date(in.EndDate)
	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}

	var block domain.Block
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		block = domain.Block{
			RoomTypeID: in.RoomTypeID,
			RoomID:     in.RoomID,
			StartDate:  start,
			EndDate:    end,
			BlockType:  in.BlockType,
			Quantity:   in.Quantity,
			Reason:     in.Reason,
		}
		if err := tx.Create(&block).Error; err != nil {
			return err
		}

		if in.RoomTypeID != nil {
			// End date is inclusive for blocks: a block through the
			// 10th holds the night of the 10th.
			for _, night := range domain.Nights(start, end.AddDate(0, 0, 1)) {
				row, err := s.Inventory.LockNight(tx, *in.RoomTypeID, night)
				if err != nil {
					return err
				}
				if err := s.Inventory.Adjust(tx, row, -in.Quantity); err != nil {
					return err
				}
			}
		}

		if in.RoomID != nil {
			res := tx.Model(&domain.Room{}).
				Where("room_id = ?", *in.RoomID).
				Update("status", domain.RoomStatusOutOfOrder)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.ErrRoomNotFound
			}
		}

		return s.recordEvent(tx, domain.EventBlockCreated, in.RoomTypeID, map[string]interface{}{
			"block_id":   block.BlockID,
			"block_type": in.BlockType,
			"quantity":   in.Quantity,
			"start_date": start.Format(domain.DateLayout),
			"end_date":   end.Format(domain.DateLayout),
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("block_id", block.BlockID.String()).
		Str("block_type", string(in.BlockType)).
		Int("quantity", in.Quantity).
		Msg("Block created")
	return &block, nil
}

// ReleaseBlock releases a block and restores the unconsumed remainder:
// quantity minus the units picked up by still-active reservations.
// Picked-up units stay permanently consumed — they belong to real
// reservations now. Releasing an already-released or unknown block fails;
// it never silently succeeds.
func (s *Service) ReleaseBlock(ctx context.Context, blockID uuid.UUID) (*ReleaseResult, error) {
	result := &ReleaseResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var block domain.Block
		err := inventory.ForUpdate(tx).
			Where("block_id = ? AND released_at IS NULL", blockID).
			First(&block).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBlockNotFoundOrReleased
			}
			return err
		}

		var picked int64
		if err := tx.Model(&domain.ReservationRoomLeg{}).
			Select("COALESCE(SUM(quantity), 0)").
			Where("block_id = ? AND status IN ?", blockID, []domain.ReservationStatus{
				domain.ReservationPending, domain.ReservationConfirmed, domain.ReservationCheckedIn,
			}).
			Scan(&picked).Error; err != nil {
			return err
		}
		result.PickedUp = int(picked)

		unreleased := block.Quantity - result.PickedUp
		if unreleased < 0 {
			unreleased = 0
		}
		result.ReleasedSlots = unreleased

		if block.RoomTypeID != nil && unreleased > 0 {
			for _, night := range domain.Nights(block.StartDate, domain.Date(block.EndDate).AddDate(0, 0, 1)) {
				row, err := s.Inventory.LockNight(tx, *block.RoomTypeID, night)
				if err != nil {
					return err
				}
				if err := s.Inventory.Adjust(tx, row, unreleased); err != nil {
					return err
				}
			}
		}

		if block.RoomID != nil {
			if err := tx.Model(&domain.Room{}).
				Where("room_id = ? AND status = ?", *block.RoomID, domain.RoomStatusOutOfOrder).
				Update("status", domain.RoomStatusVacant).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		block.ReleasedAt = &now
		if err := tx.Save(&block).Error; err != nil {
			return err
		}
		result.Block = &block

		return s.recordEvent(tx, domain.EventBlockReleased, block.RoomTypeID, map[string]interface{}{
			"block_id":       blockID,
			"released_slots": unreleased,
			"picked_up":      result.PickedUp,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("block_id", blockID.String()).
		Int("released_slots", result.ReleasedSlots).
		Int("picked_up", result.PickedUp).
		Msg("Block released")
	return result, nil
}

// ListBlocks returns blocks, optionally filtered to active-only.
func (s *Service) ListBlocks(ctx context.Context, activeOnly bool) ([]domain.Block, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("released_at IS NULL")
	}
	var blocks []domain.Block
	err := q.Find(&blocks).Error
	return blocks, err
}

func (s *Service) recordEvent(tx *gorm.DB, eventType domain.InventoryEventType, roomTypeID *uuid.UUID, data map[string]interface{}) error {
	payload, _ := json.Marshal(data)
	return tx.Create(&domain.InventoryEvent{
		RoomTypeID: roomTypeID,
		EventType:  eventType,
		EventData:  datatypes.JSON(payload),
	}).Error
}
