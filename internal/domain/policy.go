package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OverbookingPolicy permits selling past capacity for a date range.
// RoomTypeID nil means hotel-wide default. 100 = no overbooking,
// 120 = up to 20% oversell. Ranges may overlap; resolution is per night,
// specific room-type first, then hotel-wide, then 100.
type OverbookingPolicy struct {
	PolicyID           uuid.UUID  `gorm:"column:policy_id;type:uuid;primaryKey" json:"policy_id"`
	RoomTypeID         *uuid.UUID `gorm:"column:room_type_id;type:uuid;index" json:"room_type_id"`
	StartDate          time.Time  `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate            time.Time  `gorm:"column:end_date;type:date;not null" json:"end_date"`
	OverbookingPercent int        `gorm:"column:overbooking_percent;not null;default:100" json:"overbooking_percent"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (OverbookingPolicy) TableName() string {
	return "overbooking_policies"
}

func (p *OverbookingPolicy) BeforeCreate(tx *gorm.DB) error {
	if p.PolicyID == uuid.Nil {
		p.PolicyID = uuid.New()
	}
	return nil
}
