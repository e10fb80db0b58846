package main

import (
	"log"

	"github.com/Eursukkul/booking-microservice/reservation-service/config"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/handler"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/rules"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/database"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/rabbitmq"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	schedule, err := rules.NewSchedule(cfg.OpensAt, cfg.ClosesAt, cfg.ClosedWeekday, cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid restaurant schedule: %v", err)
	}

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ publisher: announce reservation changes to other services
	var publisher service.EventPublisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
	} else {
		log.Println("RABBITMQ_URL not set, reservation events will not be published")
	}

	// Repository, with an optional Redis cache for day listings
	var reservationRepo repository.ReservationRepository = repository.NewReservationRepository(db)
	if rdb := database.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		defer rdb.Close()
		reservationRepo = repository.NewCachedReservationRepository(reservationRepo, rdb, cfg.CachePrefix, cfg.CacheTTL)
	}

	// Service
	reservationSvc := service.NewReservationService(reservationRepo, schedule, publisher)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestIDWithConfig(echoMw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d %s", v.Method, v.URI, v.Status, v.RequestID)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-service"})
	})

	handler.NewReservationHandler(reservationSvc).RegisterRoutes(e)

	log.Printf("Reservation Service starting on :%s (closed %ss, open %s-%s)", cfg.ServerPort, schedule.ClosedDay, cfg.OpensAt, cfg.ClosesAt)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
