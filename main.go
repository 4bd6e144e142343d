package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/MIN2MAX-M/student-reg/internal/config"
	"github.com/MIN2MAX-M/student-reg/internal/database"
	"github.com/MIN2MAX-M/student-reg/internal/handlers"
	"github.com/MIN2MAX-M/student-reg/internal/middleware"
	"github.com/MIN2MAX-M/student-reg/internal/repositories"
	"github.com/MIN2MAX-M/student-reg/internal/services"
	"github.com/MIN2MAX-M/student-reg/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// --- RabbitMQ (optional) ---
	// Event publishing is best-effort; a missing or unreachable broker must
	// not keep the API from serving requests.
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, student events disabled: %v", err)
		} else {
			defer mqClient.Close()
			events = mqClient

			// --- Start RabbitMQ Consumer in a Goroutine ---
			go func() {
				log.Println("Starting RabbitMQ consumer for student events...")
				if consumerErr := mqClient.ConsumeStudentEvents(rabbitmq.HandleStudentEvent); consumerErr != nil {
					log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
				}
			}()
		}
	}

	// --- Repositories and Services ---
	studentRepo := repositories.NewGORMStudentRepository(db)
	studentService := services.NewStudentService(studentRepo, events)

	// --- Handlers ---
	studentHandler := handlers.NewStudentHandler(studentService)
	publicHandler := handlers.NewPublicHandler(studentService)

	// --- Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))
	app.Use(logger.New())

	// --- API Routes ---
	adminRequired := middleware.AdminRequired(cfg.AdminAPIKey)
	studentHandler.RegisterRoutes(app, adminRequired)
	publicHandler.RegisterRoutes(app)

	// --- Health Check Endpoint ---
	// Liveness only; no store access.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
