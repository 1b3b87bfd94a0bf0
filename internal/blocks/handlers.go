package blocks

import (
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// CreateBlock POST /api/v1/blocks
func (h *Handlers) CreateBlock(c *fiber.Ctx) error {
	var body struct {
		RoomTypeID *string `json:"room_type_id"`
		RoomID     *string `json:"room_id"`
		StartDate  string  `json:"start_date"`
		EndDate    string  `json:"end_date"`
		BlockType  string  `json:"block_type"`
		Quantity   int     `json:"quantity"`
		Reason     string  `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	in := CreateBlockInput{
		BlockType: domain.BlockType(body.BlockType),
		Quantity:  body.Quantity,
		Reason:    body.Reason,
	}
	if !in.BlockType.Valid() {
		return response.Error(c, "Invalid block_type", 400, nil)
	}
	if body.RoomTypeID != nil && *body.RoomTypeID != "" {
		id, err := uuid.Parse(*body.RoomTypeID)
		if err != nil {
			return response.Error(c, "Invalid room_type_id", 400, nil)
		}
		in.RoomTypeID = &id
	}
	if body.RoomID != nil && *body.RoomID != "" {
		id, err := uuid.Parse(*body.RoomID)
		if err != nil {
			return response.Error(c, "Invalid room_id", 400, nil)
		}
		in.RoomID = &id
	}
	var err error
	if in.StartDate, err = domain.ParseDate(body.StartDate); err != nil {
		return response.Error(c, "Invalid start_date", 400, nil)
	}
	if in.EndDate, err = domain.ParseDate(body.EndDate); err != nil {
		return response.Error(c, "Invalid end_date", 400, nil)
	}

	block, err := h.Service.CreateBlock(c.Context(), in)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Block created", block, nil)
}

// ReleaseBlock POST /api/v1/blocks/:id/release
func (h *Handlers) ReleaseBlock(c *fiber.Ctx) error {
	blockID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid block id", 400, nil)
	}
	result, err := h.Service.ReleaseBlock(c.Context(), blockID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Block released", result, nil)
}

// ListBlocks GET /api/v1/blocks?active=true
func (h *Handlers) ListBlocks(c *fiber.Ctx) error {
	blocks, err := h.Service.ListBlocks(c.Context(), c.Query("active") == "true")
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Blocks", blocks, nil)
}
