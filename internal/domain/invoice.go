package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceOpen InvoiceStatus = "open"
	InvoicePaid InvoiceStatus = "paid"
	InvoiceVoid InvoiceStatus = "void"
)

// ItemType is a closed set of invoice line categories.
type ItemType string

const (
	ItemRoomCharge ItemType = "room_charge"
	ItemTax        ItemType = "tax"
	ItemFee        ItemType = "fee"
	ItemAdjustment ItemType = "adjustment"
	ItemRefund     ItemType = "refund"
)

type Invoice struct {
	InvoiceID     uuid.UUID     `gorm:"column:invoice_id;type:uuid;primaryKey" json:"invoice_id"`
	ReservationID uuid.UUID     `gorm:"column:reservation_id;type:uuid;not null;index" json:"reservation_id"`
	Status        InvoiceStatus `gorm:"column:status;type:varchar(10);not null;default:open" json:"status"`
	Total         float64       `gorm:"column:total;type:decimal(12,2);not null;default:0" json:"total"`
	Balance       float64       `gorm:"column:balance;type:decimal(12,2);not null;default:0" json:"balance"`
	CreatedAt     time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"column:updated_at" json:"updated_at"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID;references:InvoiceID" json:"line_items,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.InvoiceID == uuid.Nil {
		i.InvoiceID = uuid.New()
	}
	return nil
}

// InvoiceLineItem is one charge on an invoice. ChargeDate is set for
// recurring room charges so the night audit can post them idempotently.
type InvoiceLineItem struct {
	ItemID      uuid.UUID  `gorm:"column:item_id;type:uuid;primaryKey" json:"item_id"`
	InvoiceID   uuid.UUID  `gorm:"column:invoice_id;type:uuid;not null;index" json:"invoice_id"`
	LegID       *uuid.UUID `gorm:"column:leg_id;type:uuid;index" json:"leg_id"`
	ItemType    ItemType   `gorm:"column:item_type;type:varchar(20);not null" json:"item_type"`
	Description string     `gorm:"column:description;type:varchar(255)" json:"description"`
	Amount      float64    `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	ChargeDate  *time.Time `gorm:"column:charge_date;type:date" json:"charge_date"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

func (li *InvoiceLineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ItemID == uuid.Nil {
		li.ItemID = uuid.New()
	}
	return nil
}

type PaymentStatus string

const (
	PaymentCaptured PaymentStatus = "captured"
	PaymentRefunded PaymentStatus = "refunded"
)

type Payment struct {
	PaymentID      uuid.UUID     `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	InvoiceID      uuid.UUID     `gorm:"column:invoice_id;type:uuid;not null;index" json:"invoice_id"`
	Amount         float64       `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	RefundedAmount float64       `gorm:"column:refunded_amount;type:decimal(12,2);not null;default:0" json:"refunded_amount"`
	Status         PaymentStatus `gorm:"column:status;type:varchar(10);not null;default:captured" json:"status"`
	Reference      string        `gorm:"column:reference;type:varchar(100)" json:"reference"`
	CreatedAt      time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
