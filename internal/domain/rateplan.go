package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatePlan carries the cancellation terms a booking inherits at creation.
// CancellationDeadlineHours nil means no deadline.
type RatePlan struct {
	RatePlanID                uuid.UUID  `gorm:"column:rate_plan_id;type:uuid;primaryKey" json:"rate_plan_id"`
	RoomTypeID                *uuid.UUID `gorm:"column:room_type_id;type:uuid;index" json:"room_type_id"`
	Name                      string     `gorm:"column:name;type:varchar(100);not null" json:"name"`
	RatePerNight              float64    `gorm:"column:rate_per_night;type:decimal(10,2);not null" json:"rate_per_night"`
	IsNonRefundable           bool       `gorm:"column:is_non_refundable;not null;default:false" json:"is_non_refundable"`
	CancellationDeadlineHours *int       `gorm:"column:cancellation_deadline_hours" json:"cancellation_deadline_hours"`
	CancellationFeePercent    float64    `gorm:"column:cancellation_fee_percent;type:decimal(5,2);not null;default:0" json:"cancellation_fee_percent"`
	CreatedAt                 time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt                 time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (RatePlan) TableName() string {
	return "rate_plans"
}

func (p *RatePlan) BeforeCreate(tx *gorm.DB) error {
	if p.RatePlanID == uuid.Nil {
		p.RatePlanID = uuid.New()
	}
	return nil
}
