package booking

import (
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type legBody struct {
	RoomTypeID string  `json:"room_type_id"`
	RatePlanID *string `json:"rate_plan_id"`
	BlockID    *string `json:"block_id"`
	Quantity   int     `json:"quantity"`
}

type reservationBody struct {
	GuestName   string    `json:"guest_name"`
	GuestEmail  string    `json:"guest_email"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	Legs        []legBody `json:"legs"`
	OverridePct *int      `json:"overbooking_percent_override"`
	Confirmed   bool      `json:"confirmed"`
}

func (b reservationBody) toInput() (CreateReservationInput, error) {
	in := CreateReservationInput{
		GuestName:   b.GuestName,
		GuestEmail:  b.GuestEmail,
		OverridePct: b.OverridePct,
		Confirmed:   b.Confirmed,
	}
	var err error
	if in.CheckIn, err = domain.ParseDate(b.CheckIn); err != nil {
		return in, err
	}
	if in.CheckOut, err = domain.ParseDate(b.CheckOut); err != nil {
		return in, err
	}
	for _, leg := range b.Legs {
		legIn := LegInput{Quantity: leg.Quantity}
		if legIn.RoomTypeID, err = uuid.Parse(leg.RoomTypeID); err != nil {
			return in, err
		}
		if leg.RatePlanID != nil && *leg.RatePlanID != "" {
			id, err := uuid.Parse(*leg.RatePlanID)
			if err != nil {
				return in, err
			}
			legIn.RatePlanID = &id
		}
		if leg.BlockID != nil && *leg.BlockID != "" {
			id, err := uuid.Parse(*leg.BlockID)
			if err != nil {
				return in, err
			}
			legIn.BlockID = &id
		}
		in.Legs = append(in.Legs, legIn)
	}
	return in, nil
}

// CreateReservation POST /api/v1/reservations and /api/v1/reservations/group
func (h *Handlers) CreateReservation(c *fiber.Ctx) error {
	var body reservationBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.GuestName == "" || len(body.Legs) == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	in, err := body.toInput()
	if err != nil {
		return response.Error(c, "Invalid reservation request: "+err.Error(), 400, nil)
	}

	result, err := h.Service.CreateReservation(c.Context(), in)
	if err != nil {
		return response.DomainError(c, err)
	}
	if result.RequiresConfirmation {
		return response.Success(c, "Confirmation required", result, nil)
	}
	return response.SuccessCreated(c, "Reservation created", result.Reservation, nil)
}

// GetReservation GET /api/v1/reservations/:id
func (h *Handlers) GetReservation(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid reservation id", 400, nil)
	}
	reservation, err := h.Service.GetReservation(c.Context(), reservationID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Reservation", reservation, nil)
}

// CheckIn POST /api/v1/reservations/:id/check-in
func (h *Handlers) CheckIn(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid reservation id", 400, nil)
	}
	reservation, err := h.Service.CheckIn(c.Context(), reservationID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Guest checked in", reservation, nil)
}

// CheckOut POST /api/v1/reservations/:id/check-out
func (h *Handlers) CheckOut(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid reservation id", 400, nil)
	}
	var body struct {
		Force bool `json:"force"`
	}
	_ = c.BodyParser(&body)

	reservation, err := h.Service.CheckOut(c.Context(), reservationID, body.Force)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Guest checked out", reservation, nil)
}

// Cancel POST /api/v1/reservations/:id/cancel
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid reservation id", 400, nil)
	}
	var body struct {
		Fee float64 `json:"fee"`
	}
	_ = c.BodyParser(&body)
	if body.Fee < 0 {
		return response.Error(c, "Fee must not be negative", 400, nil)
	}

	result, err := h.Service.ReconcileCancellation(c.Context(), reservationID, body.Fee)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Reservation cancelled", result, nil)
}

// NoShow POST /api/v1/reservations/:id/no-show
func (h *Handlers) NoShow(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid reservation id", 400, nil)
	}
	result, err := h.Service.ReconcileNoShow(c.Context(), reservationID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Reservation marked no-show", result, nil)
}
