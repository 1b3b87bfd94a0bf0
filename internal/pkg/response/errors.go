package response

import (
	"errors"

	"harborstay-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DomainError maps engine errors onto the standard error envelope.
// Validation problems are 400, missing records 404, state-machine and
// availability conflicts 409, anything else (transient store errors
// included) 500 so the caller knows a whole-operation retry is safe.
func DomainError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientAvailabilityError
	if errors.As(err, &insufficient) {
		return Error(c, err.Error(), fiber.StatusConflict, fiber.Map{
			"room_type_id": insufficient.RoomTypeID,
			"night":        insufficient.Night.Format(domain.DateLayout),
			"remaining":    insufficient.Remaining,
			"requested":    insufficient.Requested,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrPastDate),
		errors.Is(err, domain.ErrNoInventoryRow):
		return Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrRoomTypeNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrRatePlanNotFound),
		errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, domain.ErrBlockNotFoundOrReleased),
		errors.Is(err, domain.ErrNotCancellable),
		errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrInvoiceUnsettled):
		return Error(c, err.Error(), fiber.StatusConflict, nil)
	}
	return Error(c, err.Error(), fiber.StatusInternalServerError, nil)
}
