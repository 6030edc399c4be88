package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/example/mangiaebasta/internal/config"
	"github.com/example/mangiaebasta/internal/handlers"
	"github.com/example/mangiaebasta/internal/middleware"
)

// Register wires up all HTTP routes of the development backend.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, courier *handlers.Courier) {
	userHandler := handlers.NewUserHandler(db, cfg.Stub.Secret, courier)
	menuHandler := handlers.NewMenuHandler(db, courier)
	orderHandler := handlers.NewOrderHandler(db, courier)

	// Registration is the only call without a session.
	app.Post("/user", userHandler.Register)

	protected := app.Group("", middleware.SessionMiddleware(cfg.Stub.Secret))

	protected.Get("/user/:uid", userHandler.GetUser)
	protected.Put("/user/:uid", userHandler.UpdateUser)

	protected.Get("/menu", menuHandler.ListNearby)
	protected.Get("/menu/:mid", menuHandler.GetMenu)
	protected.Get("/menu/:mid/image", menuHandler.GetImage)
	protected.Post("/menu/:mid/buy", menuHandler.Buy)

	protected.Get("/order/:oid", orderHandler.GetOrder)
}

// NewApp builds the fiber app with the JSON error handler, panic recovery,
// the given middlewares and all routes.
func NewApp(db *gorm.DB, cfg *config.Config, courier *handlers.Courier, middlewares ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Mangia e Basta stub API",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	for _, m := range middlewares {
		app.Use(m)
	}

	Register(app, db, cfg, courier)
	return app
}
