package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/benjamintowle04/ua-backend/internal/config"
	"github.com/benjamintowle04/ua-backend/internal/database"
	"github.com/benjamintowle04/ua-backend/internal/events"
	"github.com/benjamintowle04/ua-backend/internal/logger"
	"github.com/benjamintowle04/ua-backend/internal/routes"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.AppEnv)

	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(cfg.DBUrl); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.CloseDB()
	log.Info("Connected to PostgreSQL")

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPUrl != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPUrl, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to RabbitMQ")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Connected to RabbitMQ")
	}

	app := fiber.New()

	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	if err := routes.RegisterRoutes(app, cfg, database.DB, log, publisher); err != nil {
		log.WithError(err).Fatal("Failed to register routes")
	}

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Server failed to start")
	}
}
