package businessdate

import (
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Provider Provider
}

// Get GET /api/v1/business-date
func (h *Handlers) Get(c *fiber.Ctx) error {
	date, err := h.Provider.Get(c.Context())
	if err != nil {
		return response.Error(c, err.Error(), 500, nil)
	}
	return response.Success(c, "Business date", fiber.Map{
		"business_date": date.Format(domain.DateLayout),
	}, nil)
}

// Set PUT /api/v1/business-date — admin override; normal advancement
// happens through the night audit.
func (h *Handlers) Set(c *fiber.Ctx) error {
	var body struct {
		BusinessDate string `json:"business_date"`
	}
	if err := c.BodyParser(&body); err != nil || body.BusinessDate == "" {
		return response.Error(c, "Missing business_date", 400, nil)
	}
	date, err := domain.ParseDate(body.BusinessDate)
	if err != nil {
		return response.Error(c, "Invalid business_date", 400, nil)
	}
	if err := h.Provider.Set(c.Context(), date); err != nil {
		return response.Error(c, err.Error(), 500, nil)
	}
	return response.Success(c, "Business date updated", fiber.Map{
		"business_date": date.Format(domain.DateLayout),
	}, nil)
}
