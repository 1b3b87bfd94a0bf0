package rooms

import (
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// CreateRoomType POST /api/v1/room-types
func (h *Handlers) CreateRoomType(c *fiber.Ctx) error {
	var body struct {
		Name      string  `json:"name"`
		Code      string  `json:"code"`
		BaseRate  float64 `json:"base_rate"`
		MaxGuests int     `json:"max_guests"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	roomType := domain.RoomType{
		Name:      body.Name,
		Code:      body.Code,
		BaseRate:  body.BaseRate,
		MaxGuests: body.MaxGuests,
	}
	if err := h.Service.CreateRoomType(c.Context(), &roomType); err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Room type created", roomType, nil)
}

// ListRoomTypes GET /api/v1/room-types
func (h *Handlers) ListRoomTypes(c *fiber.Ctx) error {
	roomTypes, err := h.Service.ListRoomTypes(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Room types", roomTypes, nil)
}

// CreateRoom POST /api/v1/rooms
func (h *Handlers) CreateRoom(c *fiber.Ctx) error {
	var body struct {
		RoomTypeID string `json:"room_type_id"`
		Number     string `json:"number"`
		Floor      int    `json:"floor"`
	}
	if err := c.BodyParser(&body); err != nil || body.Number == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	roomTypeID, err := uuid.Parse(body.RoomTypeID)
	if err != nil {
		return response.Error(c, "Invalid room_type_id", 400, nil)
	}
	room := domain.Room{
		RoomTypeID: roomTypeID,
		Number:     body.Number,
		Floor:      body.Floor,
	}
	if err := h.Service.CreateRoom(c.Context(), &room); err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Room created", room, nil)
}

// ListRooms GET /api/v1/rooms?room_type_id=
func (h *Handlers) ListRooms(c *fiber.Ctx) error {
	var roomTypeID *uuid.UUID
	if q := c.Query("room_type_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			return response.Error(c, "Invalid room_type_id", 400, nil)
		}
		roomTypeID = &id
	}
	rooms, err := h.Service.ListRooms(c.Context(), roomTypeID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Rooms", rooms, nil)
}

// CreateRatePlan POST /api/v1/rate-plans
func (h *Handlers) CreateRatePlan(c *fiber.Ctx) error {
	var body struct {
		Name                      string  `json:"name"`
		RoomTypeID                *string `json:"room_type_id"`
		RatePerNight              float64 `json:"rate_per_night"`
		IsNonRefundable           bool    `json:"is_non_refundable"`
		CancellationDeadlineHours *int    `json:"cancellation_deadline_hours"`
		CancellationFeePercent    float64 `json:"cancellation_fee_percent"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	plan := domain.RatePlan{
		Name:                      body.Name,
		RatePerNight:              body.RatePerNight,
		IsNonRefundable:           body.IsNonRefundable,
		CancellationDeadlineHours: body.CancellationDeadlineHours,
		CancellationFeePercent:    body.CancellationFeePercent,
	}
	if body.RoomTypeID != nil && *body.RoomTypeID != "" {
		id, err := uuid.Parse(*body.RoomTypeID)
		if err != nil {
			return response.Error(c, "Invalid room_type_id", 400, nil)
		}
		plan.RoomTypeID = &id
	}
	if err := h.Service.CreateRatePlan(c.Context(), &plan); err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Rate plan created", plan, nil)
}

// ListRatePlans GET /api/v1/rate-plans
func (h *Handlers) ListRatePlans(c *fiber.Ctx) error {
	plans, err := h.Service.ListRatePlans(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Rate plans", plans, nil)
}
