package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RevenueSummary is the night audit's dated rollup, upserted by
// business date (step 2 of the audit).
type RevenueSummary struct {
	SummaryID     uuid.UUID `gorm:"column:summary_id;type:uuid;primaryKey" json:"summary_id"`
	BusinessDate  time.Time `gorm:"column:business_date;type:date;not null;uniqueIndex" json:"business_date"`
	RoomRevenue   float64   `gorm:"column:room_revenue;type:decimal(12,2);not null;default:0" json:"room_revenue"`
	OtherRevenue  float64   `gorm:"column:other_revenue;type:decimal(12,2);not null;default:0" json:"other_revenue"`
	TotalRevenue  float64   `gorm:"column:total_revenue;type:decimal(12,2);not null;default:0" json:"total_revenue"`
	OccupiedRooms int       `gorm:"column:occupied_rooms;not null;default:0" json:"occupied_rooms"`
	Arrivals      int       `gorm:"column:arrivals;not null;default:0" json:"arrivals"`
	Departures    int       `gorm:"column:departures;not null;default:0" json:"departures"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (RevenueSummary) TableName() string {
	return "revenue_summaries"
}

func (s *RevenueSummary) BeforeCreate(tx *gorm.DB) error {
	if s.SummaryID == uuid.Nil {
		s.SummaryID = uuid.New()
	}
	return nil
}
