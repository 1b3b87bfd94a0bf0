package inventory

import (
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// CheckAvailability GET /api/v1/availability?room_type_id=&check_in=&check_out=
func (h *Handlers) CheckAvailability(c *fiber.Ctx) error {
	roomTypeID, err := uuid.Parse(c.Query("room_type_id"))
	if err != nil {
		return response.Error(c, "Invalid room_type_id", 400, nil)
	}
	checkIn, err := domain.ParseDate(c.Query("check_in"))
	if err != nil {
		return response.Error(c, "Invalid check_in date", 400, nil)
	}
	checkOut, err := domain.ParseDate(c.Query("check_out"))
	if err != nil {
		return response.Error(c, "Invalid check_out date", 400, nil)
	}

	result, err := h.Service.CheckAvailability(c.Context(), roomTypeID, checkIn, checkOut)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Availability checked", result, nil)
}

// Seed POST /api/v1/inventory/seed
func (h *Handlers) Seed(c *fiber.Ctx) error {
	var body struct {
		RoomTypeID string `json:"room_type_id"`
		From       string `json:"from"`
		To         string `json:"to"`
		Capacity   int    `json:"capacity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	roomTypeID, err := uuid.Parse(body.RoomTypeID)
	if err != nil {
		return response.Error(c, "Invalid room_type_id", 400, nil)
	}
	from, err := domain.ParseDate(body.From)
	if err != nil {
		return response.Error(c, "Invalid from date", 400, nil)
	}
	to, err := domain.ParseDate(body.To)
	if err != nil {
		return response.Error(c, "Invalid to date", 400, nil)
	}

	seeded, err := h.Service.Seed(c.Context(), roomTypeID, from, to, body.Capacity)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Inventory seeded", fiber.Map{"nights_seeded": seeded}, nil)
}
