package main

import (
	"context"
	"log"

	"github.com/karunavilla/booking-system/config"
	"github.com/karunavilla/booking-system/internal/handler"
	"github.com/karunavilla/booking-system/internal/middleware"
	"github.com/karunavilla/booking-system/internal/repository"
	"github.com/karunavilla/booking-system/internal/scheduler"
	"github.com/karunavilla/booking-system/internal/service"
	"github.com/karunavilla/booking-system/pkg/database"
	"github.com/karunavilla/booking-system/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// Optional event bus: the service runs standalone without one.
	var publisher *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		var err error
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	}

	// Repositories
	roomRepo := repository.NewRoomRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Service
	bookingSvc := service.NewBookingService(bookingRepo, roomRepo, guestRepo, publisher)

	// Expiry reconciler: periodically resets stale BOOKED display flags.
	reconciler := scheduler.NewReconciler(bookingRepo, roomRepo, cfg.ReconcileInterval, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reconciler.Start(ctx)
	defer reconciler.Stop()

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "booking-system"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler.NewBookingHandler(bookingSvc).RegisterRoutes(e)
	handler.NewRoomHandler(roomRepo).RegisterRoutes(e)

	log.Printf("Booking System starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
