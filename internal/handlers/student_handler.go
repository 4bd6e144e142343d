package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/MIN2MAX-M/student-reg/internal/models"
	"github.com/MIN2MAX-M/student-reg/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StudentHandler handles HTTP requests for students.
type StudentHandler struct {
	service *services.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(service *services.StudentService) *StudentHandler {
	return &StudentHandler{
		service: service,
	}
}

// RegisterRoutes registers the student routes with the Fiber app. Reads are
// public; create, update and delete go through the adminRequired middleware.
func (h *StudentHandler) RegisterRoutes(router fiber.Router, adminRequired fiber.Handler) {
	studentRoutes := router.Group("/students")
	studentRoutes.Get("", h.HandleList)
	studentRoutes.Get("/:id", h.HandleGet)
	studentRoutes.Post("", adminRequired, h.HandleCreate)
	studentRoutes.Patch("/:id", adminRequired, h.HandleUpdate)
	studentRoutes.Delete("/:id", adminRequired, h.HandleDelete)
}

// HandleList lists students, optionally filtered by the q search parameter.
func (h *StudentHandler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultLimit)
	offset := c.QueryInt("offset", 0)
	q := c.Query("q")

	var (
		students []models.Student
		err      error
	)
	if q != "" {
		students, err = h.service.Search(q, limit, offset)
	} else {
		students, err = h.service.List(limit, offset)
	}
	if err != nil {
		log.Printf("Error listing students: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve students",
			"error":   err.Error(),
		})
	}
	return c.JSON(students)
}

// HandleGet retrieves a single student by ID.
func (h *StudentHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid student ID",
		})
	}

	student, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Student not found",
			})
		}
		log.Printf("Error getting student %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve student",
			"error":   err.Error(),
		})
	}
	return c.JSON(student)
}

// HandleCreate registers a new student.
func (h *StudentHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CreateStudentInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	student, err := h.service.Create(input)
	if err != nil {
		return writeError(c, "Could not create student", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// HandleUpdate applies a partial update to a student.
func (h *StudentHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid student ID",
		})
	}

	var patch services.UpdateStudentInput
	if err := c.BodyParser(&patch); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	student, err := h.service.Update(id, patch)
	if err != nil {
		return writeError(c, "Could not update student", err)
	}

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// HandleDelete removes a student. Deleting an already-gone student is a 404.
func (h *StudentHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid student ID",
		})
	}

	deleted, err := h.service.Delete(id)
	if err != nil {
		log.Printf("Error deleting student %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete student",
			"error":   err.Error(),
		})
	}
	if deleted == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Student not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Student deleted successfully",
		"deleted": deleted,
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// writeError maps domain errors from the writer to HTTP status codes.
func writeError(c *fiber.Ctx, message string, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	case errors.Is(err, services.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Student not found",
		})
	default:
		log.Printf("%s: %v", message, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}
