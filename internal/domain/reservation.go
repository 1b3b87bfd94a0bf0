package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationNoShow     ReservationStatus = "no_show"
)

// HoldsInventory reports whether a reservation in this status still
// consumes ledger availability.
func (s ReservationStatus) HoldsInventory() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn:
		return true
	}
	return false
}

type Reservation struct {
	ReservationID    uuid.UUID         `gorm:"column:reservation_id;type:uuid;primaryKey" json:"reservation_id"`
	ConfirmationCode string            `gorm:"column:confirmation_code;type:varchar(20);uniqueIndex" json:"confirmation_code"`
	GuestName        string            `gorm:"column:guest_name;type:varchar(100);not null" json:"guest_name"`
	GuestEmail       string            `gorm:"column:guest_email;type:varchar(255)" json:"guest_email"`
	Status           ReservationStatus `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	CheckIn          time.Time         `gorm:"column:check_in;type:date;not null" json:"check_in"`
	CheckOut         time.Time         `gorm:"column:check_out;type:date;not null" json:"check_out"`
	CreatedAt        time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"column:updated_at" json:"updated_at"`

	Legs []ReservationRoomLeg `gorm:"foreignKey:ReservationID;references:ReservationID" json:"legs,omitempty"`
}

func (Reservation) TableName() string {
	return "reservations"
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ReservationID == uuid.Nil {
		r.ReservationID = uuid.New()
	}
	return nil
}

// ReservationRoomLeg is the unit the engine consumes inventory for.
// The cancellation policy fields are a snapshot of the rate plan at
// booking time; changing the plan later never reprices past bookings.
type ReservationRoomLeg struct {
	LegID         uuid.UUID         `gorm:"column:leg_id;type:uuid;primaryKey" json:"leg_id"`
	ReservationID uuid.UUID         `gorm:"column:reservation_id;type:uuid;not null;index" json:"reservation_id"`
	RoomTypeID    uuid.UUID         `gorm:"column:room_type_id;type:uuid;not null;index" json:"room_type_id"`
	RoomID        *uuid.UUID        `gorm:"column:room_id;type:uuid" json:"room_id"`
	BlockID       *uuid.UUID        `gorm:"column:block_id;type:uuid;index" json:"block_id"`
	RatePlanID    *uuid.UUID        `gorm:"column:rate_plan_id;type:uuid" json:"rate_plan_id"`
	Quantity      int               `gorm:"column:quantity;not null;default:1" json:"quantity"`
	RatePerNight  float64           `gorm:"column:rate_per_night;type:decimal(10,2);not null;default:0" json:"rate_per_night"`
	Status        ReservationStatus `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`

	NonRefundable             bool    `gorm:"column:non_refundable;not null;default:false" json:"non_refundable"`
	CancellationDeadlineHours *int    `gorm:"column:cancellation_deadline_hours" json:"cancellation_deadline_hours"`
	CancellationFeePercent    float64 `gorm:"column:cancellation_fee_percent;type:decimal(5,2);not null;default:0" json:"cancellation_fee_percent"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ReservationRoomLeg) TableName() string {
	return "reservation_room_legs"
}

func (l *ReservationRoomLeg) BeforeCreate(tx *gorm.DB) error {
	if l.LegID == uuid.Nil {
		l.LegID = uuid.New()
	}
	return nil
}
