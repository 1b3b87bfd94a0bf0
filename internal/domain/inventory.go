package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InventoryRow is the per (room-type, night) capacity counter — the
// single source of truth for sellable rooms. Available may go negative
// only while an overbooking policy permits it; the reserve path enforces
// capacity − available ≤ floor(capacity × pct / 100) at write time.
type InventoryRow struct {
	InventoryID uuid.UUID `gorm:"column:inventory_id;type:uuid;primaryKey" json:"inventory_id"`
	RoomTypeID  uuid.UUID `gorm:"column:room_type_id;type:uuid;not null;uniqueIndex:idx_inventory_type_date" json:"room_type_id"`
	Date        time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_inventory_type_date" json:"date"`
	Capacity    int       `gorm:"column:capacity;not null;default:0" json:"capacity"`
	Available   int       `gorm:"column:available;not null;default:0" json:"available"`
	Version     int       `gorm:"column:version;not null;default:0" json:"version"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (InventoryRow) TableName() string {
	return "inventory_rows"
}

func (r *InventoryRow) BeforeCreate(tx *gorm.DB) error {
	if r.InventoryID == uuid.Nil {
		r.InventoryID = uuid.New()
	}
	return nil
}

// Sold is the net consumption against capacity for this night.
func (r *InventoryRow) Sold() int {
	return r.Capacity - r.Available
}

// InventoryEventType classifies ledger mutations for the audit trail.
type InventoryEventType string

const (
	EventReserved            InventoryEventType = "reserved"
	EventBlockCreated        InventoryEventType = "block_created"
	EventBlockReleased       InventoryEventType = "block_released"
	EventCancellationRelease InventoryEventType = "cancellation_release"
	EventNoShowRelease       InventoryEventType = "no_show_release"
	EventAuditDiscrepancy    InventoryEventType = "audit_discrepancy"
)

// InventoryEvent records what moved the ledger and why.
type InventoryEvent struct {
	EventID    uuid.UUID          `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	RoomTypeID *uuid.UUID         `gorm:"column:room_type_id;type:uuid;index" json:"room_type_id"`
	EventType  InventoryEventType `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData  datatypes.JSON     `gorm:"column:event_data;type:json" json:"event_data"`
	CreatedAt  time.Time          `gorm:"column:created_at" json:"created_at"`
}

func (InventoryEvent) TableName() string {
	return "inventory_events"
}

func (e *InventoryEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
