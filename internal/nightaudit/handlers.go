package nightaudit

import (
	"harborstay-backend/internal/businessdate"
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
	Dates   businessdate.Provider
}

// Run POST /api/v1/night-audit/run — runs the audit for the supplied
// business date (default: the current one) and then advances the
// business date to the next day.
func (h *Handlers) Run(c *fiber.Ctx) error {
	var body struct {
		BusinessDate string `json:"business_date"`
	}
	_ = c.BodyParser(&body)

	businessDate, err := h.Dates.Get(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}
	if body.BusinessDate != "" {
		if businessDate, err = domain.ParseDate(body.BusinessDate); err != nil {
			return response.Error(c, "Invalid business_date", 400, nil)
		}
	}

	report, err := h.Service.Run(c.Context(), businessDate)
	if err != nil {
		return response.DomainError(c, err)
	}

	if err := h.Dates.Set(c.Context(), businessDate.AddDate(0, 0, 1)); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Night audit completed", report, nil)
}
