package overbooking

import (
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// CreatePolicy POST /api/v1/overbooking-policies
func (h *Handlers) CreatePolicy(c *fiber.Ctx) error {
	var body struct {
		RoomTypeID         *string `json:"room_type_id"`
		StartDate          string  `json:"start_date"`
		EndDate            string  `json:"end_date"`
		OverbookingPercent int     `json:"overbooking_percent"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if body.OverbookingPercent < 100 {
		return response.Error(c, "overbooking_percent must be at least 100", 400, nil)
	}

	var roomTypeID *uuid.UUID
	if body.RoomTypeID != nil && *body.RoomTypeID != "" {
		id, err := uuid.Parse(*body.RoomTypeID)
		if err != nil {
			return response.Error(c, "Invalid room_type_id", 400, nil)
		}
		roomTypeID = &id
	}
	startDate, err := domain.ParseDate(body.StartDate)
	if err != nil {
		return response.Error(c, "Invalid start_date", 400, nil)
	}
	endDate, err := domain.ParseDate(body.EndDate)
	if err != nil {
		return response.Error(c, "Invalid end_date", 400, nil)
	}

	policy, err := h.Service.CreatePolicy(c.Context(), roomTypeID, startDate, endDate, body.OverbookingPercent)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Overbooking policy created", policy, nil)
}

// ListPolicies GET /api/v1/overbooking-policies
func (h *Handlers) ListPolicies(c *fiber.Ctx) error {
	policies, err := h.Service.ListPolicies(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Overbooking policies", policies, nil)
}

// DeletePolicy DELETE /api/v1/overbooking-policies/:id
func (h *Handlers) DeletePolicy(c *fiber.Ctx) error {
	policyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid policy id", 400, nil)
	}
	if err := h.Service.DeletePolicy(c.Context(), policyID); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Overbooking policy deleted", nil, nil)
}

// Resolve GET /api/v1/overbooking-policies/resolve?room_type_id=&date=
func (h *Handlers) Resolve(c *fiber.Ctx) error {
	roomTypeID, err := uuid.Parse(c.Query("room_type_id"))
	if err != nil {
		return response.Error(c, "Invalid room_type_id", 400, nil)
	}
	date, err := domain.ParseDate(c.Query("date"))
	if err != nil {
		return response.Error(c, "Invalid date", 400, nil)
	}

	percent, err := h.Service.ResolvePercent(h.Service.DB.WithContext(c.Context()), roomTypeID, date)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Overbooking percent resolved", fiber.Map{
		"room_type_id":        roomTypeID,
		"date":                date.Format(domain.DateLayout),
		"overbooking_percent": percent,
	}, nil)
}
