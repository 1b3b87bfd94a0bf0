package app

import (
	"time"

	"harborstay-backend/internal/billing"
	"harborstay-backend/internal/blocks"
	"harborstay-backend/internal/booking"
	"harborstay-backend/internal/businessdate"
	"harborstay-backend/internal/config"
	"harborstay-backend/internal/database"
	"harborstay-backend/internal/domain"
	"harborstay-backend/internal/health"
	"harborstay-backend/internal/inventory"
	"harborstay-backend/internal/middleware"
	"harborstay-backend/internal/nightaudit"
	"harborstay-backend/internal/overbooking"
	"harborstay-backend/internal/pkg/response"
	"harborstay-backend/internal/rooms"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. DB and Redis are optional (nil when not configured);
// without a DB only the health routes are mounted.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{AllowedSuffix: cfg.FrontendURLEndsWith}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	healthHandlers := &health.Handlers{DB: db, Rdb: rdb}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/", func(c *fiber.Ctx) error {
		return response.Success(c, cfg.HotelName+" property management API", nil, nil)
	})

	if db == nil {
		return app, nil, rdb, nil
	}

	initial := time.Now()
	if cfg.BusinessDate != "" {
		if parsed, err := domain.ParseDate(cfg.BusinessDate); err == nil {
			initial = parsed
		}
	}
	dates := businessdate.New(rdb, initial)

	inventoryService := &inventory.Service{DB: db}
	policyService := &overbooking.Service{DB: db}
	billingService := &billing.Service{
		DB:     db,
		Issuer: &billing.StripeRefundIssuer{SecretKey: cfg.StripeSecretKey},
	}
	bookingService := &booking.Service{
		DB:        db,
		Inventory: inventoryService,
		Policies:  policyService,
		Billing:   billingService,
		Dates:     dates,
	}
	blockService := &blocks.Service{DB: db, Inventory: inventoryService}
	auditService := &nightaudit.Service{DB: db, Policies: policyService}
	roomService := &rooms.Service{DB: db}

	api := app.Group("/api/v1")

	// Availability & inventory
	inventoryHandlers := &inventory.Handlers{Service: inventoryService}
	api.Get("/availability", inventoryHandlers.CheckAvailability)
	api.Post("/inventory/seed", inventoryHandlers.Seed)

	// Reservations (individual + group) and lifecycle
	bookingHandlers := &booking.Handlers{Service: bookingService}
	api.Post("/reservations", bookingHandlers.CreateReservation)
	api.Post("/reservations/group", bookingHandlers.CreateReservation)
	api.Get("/reservations/:id", bookingHandlers.GetReservation)
	api.Post("/reservations/:id/check-in", bookingHandlers.CheckIn)
	api.Post("/reservations/:id/check-out", bookingHandlers.CheckOut)
	api.Post("/reservations/:id/cancel", bookingHandlers.Cancel)
	api.Post("/reservations/:id/no-show", bookingHandlers.NoShow)

	// Blocks
	blockHandlers := &blocks.Handlers{Service: blockService}
	api.Post("/blocks", blockHandlers.CreateBlock)
	api.Post("/blocks/:id/release", blockHandlers.ReleaseBlock)
	api.Get("/blocks", blockHandlers.ListBlocks)

	// Overbooking policies
	policyHandlers := &overbooking.Handlers{Service: policyService}
	api.Post("/overbooking-policies", policyHandlers.CreatePolicy)
	api.Get("/overbooking-policies", policyHandlers.ListPolicies)
	api.Get("/overbooking-policies/resolve", policyHandlers.Resolve)
	api.Delete("/overbooking-policies/:id", policyHandlers.DeletePolicy)

	// Billing collaborators
	billingHandlers := &billing.Handlers{Service: billingService}
	api.Post("/invoices/:id/payments", billingHandlers.RecordPayment)
	api.Get("/reservations/:id/invoices", billingHandlers.ListForReservation)

	// Night audit + business date
	auditHandlers := &nightaudit.Handlers{Service: auditService, Dates: dates}
	api.Post("/night-audit/run", auditHandlers.Run)
	dateHandlers := &businessdate.Handlers{Provider: dates}
	api.Get("/business-date", dateHandlers.Get)
	api.Put("/business-date", dateHandlers.Set)

	// Room / rate-plan plumbing
	roomHandlers := &rooms.Handlers{Service: roomService}
	api.Post("/room-types", roomHandlers.CreateRoomType)
	api.Get("/room-types", roomHandlers.ListRoomTypes)
	api.Post("/rooms", roomHandlers.CreateRoom)
	api.Get("/rooms", roomHandlers.ListRooms)
	api.Post("/rate-plans", roomHandlers.CreateRatePlan)
	api.Get("/rate-plans", roomHandlers.ListRatePlans)

	return app, db, rdb, nil
}
