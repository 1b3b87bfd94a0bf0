package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoInventoryRow          = errors.New("no inventory row for requested night")
	ErrRoomTypeNotFound        = errors.New("room type not found")
	ErrRoomNotFound            = errors.New("room not found")
	ErrRatePlanNotFound        = errors.New("rate plan not found")
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrBlockNotFoundOrReleased = errors.New("block not found or already released")
	ErrNotCancellable          = errors.New("reservation cannot be cancelled in its current status")
	ErrInvalidStatusTransition = errors.New("invalid reservation status transition")
	ErrInvalidDateRange        = errors.New("check-out must be after check-in")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrPastDate                = errors.New("date is before the current business date")
	ErrInvoiceUnsettled        = errors.New("invoice has an outstanding balance")
)

// InsufficientAvailabilityError reports a policy-aware oversell check
// failure for one room-type/night. Surfaced verbatim to the caller and
// never retried automatically.
type InsufficientAvailabilityError struct {
	RoomTypeID uuid.UUID
	Night      time.Time
	Remaining  int
	Requested  int
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("insufficient availability for room type %s on %s: %d remaining, %d requested",
		e.RoomTypeID, e.Night.Format(DateLayout), e.Remaining, e.Requested)
}

// IsInsufficientAvailability reports whether err is (or wraps) an
// InsufficientAvailabilityError.
func IsInsufficientAvailability(err error) bool {
	var target *InsufficientAvailabilityError
	return errors.As(err, &target)
}
