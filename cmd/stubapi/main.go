package main

import (
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"

	"github.com/example/mangiaebasta/internal/config"
	"github.com/example/mangiaebasta/internal/database"
	"github.com/example/mangiaebasta/internal/handlers"
	"github.com/example/mangiaebasta/internal/logging"
	"github.com/example/mangiaebasta/internal/models"
	"github.com/example/mangiaebasta/internal/routes"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	db, err := database.Connect(cfg.Stub.DSN, cfg.DBLogLevel)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer database.Close(db)

	if err := database.Migrate(db, models.BackendTables()...); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	center := models.Location{Lat: cfg.Location.Latitude, Lng: cfg.Location.Longitude}
	if err := handlers.SeedMenus(db, center); err != nil {
		log.WithError(err).Fatal("failed to seed menus")
	}

	courier := handlers.NewCourier(cfg.Stub.Speed, nil)
	app := routes.NewApp(db, cfg, courier, logger.New())

	log.WithFields(logrus.Fields{"port": cfg.Stub.Port, "speed": cfg.Stub.Speed}).Info("starting stub api")
	if err := app.Listen(":" + cfg.Stub.Port); err != nil {
		log.WithError(err).Fatal("fiber.Listen error")
	}
}
