package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlockType is a closed set — illegal hold kinds are unrepresentable.
type BlockType string

const (
	BlockMaintenance       BlockType = "maintenance"
	BlockRenovation        BlockType = "renovation"
	BlockGroupHold         BlockType = "group_hold"
	BlockOverbookingBuffer BlockType = "overbooking_buffer"
	BlockVIPHold           BlockType = "vip_hold"
)

// Valid reports whether t is one of the defined block types.
func (t BlockType) Valid() bool {
	switch t {
	case BlockMaintenance, BlockRenovation, BlockGroupHold, BlockOverbookingBuffer, BlockVIPHold:
		return true
	}
	return false
}

// Block is an inventory-consuming hold not tied to a guest reservation.
// A block with RoomTypeID set consumes Quantity units of ledger
// availability for every night in its range at creation and restores only
// the unconsumed remainder at release. A block with only RoomID set takes
// one physical room out of order and never touches the ledger.
type Block struct {
	BlockID    uuid.UUID  `gorm:"column:block_id;type:uuid;primaryKey" json:"block_id"`
	RoomTypeID *uuid.UUID `gorm:"column:room_type_id;type:uuid;index" json:"room_type_id"`
	RoomID     *uuid.UUID `gorm:"column:room_id;type:uuid;index" json:"room_id"`
	StartDate  time.Time  `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate    time.Time  `gorm:"column:end_date;type:date;not null" json:"end_date"`
	BlockType  BlockType  `gorm:"column:block_type;type:varchar(30);not null" json:"block_type"`
	Quantity   int        `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Reason     string     `gorm:"column:reason;type:varchar(255)" json:"reason"`
	ReleasedAt *time.Time `gorm:"column:released_at" json:"released_at"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Block) TableName() string {
	return "blocks"
}

func (b *Block) BeforeCreate(tx *gorm.DB) error {
	if b.BlockID == uuid.Nil {
		b.BlockID = uuid.New()
	}
	return nil
}
