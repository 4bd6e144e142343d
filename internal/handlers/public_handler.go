package handlers

import (
	"log"

	"github.com/MIN2MAX-M/student-reg/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PublicHandler exposes the unauthenticated self-registration endpoint. It
// goes through the same duplicate-safe writer as the admin routes, so a
// duplicate registration gets a 409 rather than a raw storage error.
type PublicHandler struct {
	service *services.StudentService
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(service *services.StudentService) *PublicHandler {
	return &PublicHandler{
		service: service,
	}
}

// RegisterRoutes registers the public routes with the Fiber app.
func (h *PublicHandler) RegisterRoutes(router fiber.Router) {
	publicRoutes := router.Group("/public")
	publicRoutes.Post("/register", h.HandleRegister)
}

// HandleRegister registers a student without requiring a credential.
func (h *PublicHandler) HandleRegister(c *fiber.Ctx) error {
	var input services.CreateStudentInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	student, err := h.service.Create(input)
	if err != nil {
		return writeError(c, "Could not register student", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student registered successfully",
		"student": student,
	})
}
