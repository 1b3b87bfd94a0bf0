package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomStatus is the physical state of a room, maintained by check-in /
// check-out and read by the night audit's discrepancy scan.
type RoomStatus string

const (
	RoomStatusVacant     RoomStatus = "vacant"
	RoomStatusOccupied   RoomStatus = "occupied"
	RoomStatusOutOfOrder RoomStatus = "out_of_order"
)

type RoomType struct {
	RoomTypeID uuid.UUID `gorm:"column:room_type_id;type:uuid;primaryKey" json:"room_type_id"`
	Name       string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Code       string    `gorm:"column:code;type:varchar(20);uniqueIndex" json:"code"`
	BaseRate   float64   `gorm:"column:base_rate;type:decimal(10,2);not null;default:0" json:"base_rate"`
	MaxGuests  int       `gorm:"column:max_guests;not null;default:2" json:"max_guests"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (RoomType) TableName() string {
	return "room_types"
}

func (rt *RoomType) BeforeCreate(tx *gorm.DB) error {
	if rt.RoomTypeID == uuid.Nil {
		rt.RoomTypeID = uuid.New()
	}
	return nil
}

type Room struct {
	RoomID     uuid.UUID  `gorm:"column:room_id;type:uuid;primaryKey" json:"room_id"`
	RoomTypeID uuid.UUID  `gorm:"column:room_type_id;type:uuid;not null;index" json:"room_type_id"`
	Number     string     `gorm:"column:number;type:varchar(10);not null;uniqueIndex" json:"number"`
	Floor      int        `gorm:"column:floor" json:"floor"`
	Status     RoomStatus `gorm:"column:status;type:varchar(20);not null;default:vacant" json:"status"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.RoomID == uuid.Nil {
		r.RoomID = uuid.New()
	}
	return nil
}
