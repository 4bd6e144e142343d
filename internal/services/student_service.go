package services

import (
	"errors"
	"log"

	"github.com/MIN2MAX-M/student-reg/internal/models"
	"github.com/MIN2MAX-M/student-reg/internal/normalize"
	"github.com/MIN2MAX-M/student-reg/internal/repositories"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	// DefaultLimit is used when a caller does not supply a page size.
	DefaultLimit = 50
	// MaxLimit bounds the page size for list and search.
	MaxLimit = 200
)

var validate = validator.New()

// EventPublisher publishes student lifecycle events. Publishing is
// best-effort: failures are logged, never surfaced to the caller.
type EventPublisher interface {
	PublishStudentEvent(event string, payload map[string]interface{}) error
}

// CreateStudentInput is the full set of fields for a new student. Validation
// runs after normalization, so padded or mixed-case input is acceptable.
type CreateStudentInput struct {
	FirstName string  `json:"first_name" validate:"required,max=80"`
	LastName  string  `json:"last_name" validate:"required,max=80"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Age       *int    `json:"age" validate:"omitempty,gte=0,lte=130"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
}

// UpdateStudentInput is a sparse patch: nil fields are left untouched. A
// supplied field that normalizes to empty is treated as absent.
type UpdateStudentInput struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=80"`
	LastName  *string `json:"last_name" validate:"omitempty,max=80"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Age       *int    `json:"age" validate:"omitempty,gte=0,lte=130"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
}

// ValidateCreate normalizes and validates create input without touching the
// store, so it can back the CLI's dry-run mode.
func ValidateCreate(in CreateStudentInput) (CreateStudentInput, error) {
	in.FirstName = normalize.Text(in.FirstName)
	in.LastName = normalize.Text(in.LastName)
	in.Email = normalize.Email(in.Email)
	in.Phone = normalize.TextPtr(in.Phone)
	in.Address = normalize.TextPtr(in.Address)

	if err := validate.Struct(in); err != nil {
		return in, newValidationError(err)
	}
	return in, nil
}

// ValidateUpdate normalizes and validates a patch without touching the store.
func ValidateUpdate(patch UpdateStudentInput) (UpdateStudentInput, error) {
	patch.FirstName = normalize.TextPtr(patch.FirstName)
	patch.LastName = normalize.TextPtr(patch.LastName)
	patch.Email = normalize.EmailPtr(patch.Email)
	patch.Phone = normalize.TextPtr(patch.Phone)
	patch.Address = normalize.TextPtr(patch.Address)

	if err := validate.Struct(patch); err != nil {
		return patch, newValidationError(err)
	}
	return patch, nil
}

// StudentService implements the duplicate-safe create/update flow shared by
// the HTTP API and the admin CLI. The pre-check against an existing email is
// advisory; the store's unique constraint remains the final arbiter, and a
// late constraint violation is translated to ErrDuplicateEmail.
type StudentService struct {
	repo   repositories.StudentRepository
	events EventPublisher
}

// NewStudentService creates a new StudentService. events may be nil, in which
// case no lifecycle events are published.
func NewStudentService(repo repositories.StudentRepository, events EventPublisher) *StudentService {
	return &StudentService{
		repo:   repo,
		events: events,
	}
}

// Create registers a new student and returns the persisted record including
// the store-assigned identifier and timestamps.
func (s *StudentService) Create(in CreateStudentInput) (*models.Student, error) {
	in, err := ValidateCreate(in)
	if err != nil {
		return nil, err
	}

	// Friendly fast path; two writers can still pass this simultaneously.
	if _, err := s.repo.GetByEmail(in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	student := &models.Student{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Age:       in.Age,
		Address:   in.Address,
	}
	if err := s.repo.Create(student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent writer won the race between pre-check and insert.
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.publish("student.created", student)
	return student, nil
}

// Get retrieves a single student by ID.
func (s *StudentService) Get(id uint) (*models.Student, error) {
	student, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

// List returns students ordered by ascending ID.
func (s *StudentService) List(limit, offset int) ([]models.Student, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.List(limit, offset)
}

// Search matches q case-insensitively against name, email, phone and address.
func (s *StudentService) Search(q string, limit, offset int) ([]models.Student, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.Search(normalize.Text(q), limit, offset)
}

// Update applies a sparse patch to the student with the given ID. An empty
// effective patch returns the record unchanged without issuing a write, and
// setting the email to its current value is a no-op for that field.
func (s *StudentService) Update(id uint, patch UpdateStudentInput) (*models.Student, error) {
	patch, err := ValidateUpdate(patch)
	if err != nil {
		return nil, err
	}

	current, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.FirstName != nil {
		fields["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		fields["last_name"] = *patch.LastName
	}
	if patch.Phone != nil {
		fields["phone"] = *patch.Phone
	}
	if patch.Age != nil {
		fields["age"] = *patch.Age
	}
	if patch.Address != nil {
		fields["address"] = *patch.Address
	}
	if patch.Email != nil && *patch.Email != current.Email {
		// The email actually changes; pre-check against other records.
		other, err := s.repo.GetByEmail(*patch.Email)
		if err == nil && other.ID != id {
			return nil, ErrDuplicateEmail
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		fields["email"] = *patch.Email
	}

	if len(fields) == 0 {
		return current, nil
	}

	updated, err := s.repo.Update(id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.publish("student.updated", updated)
	return updated, nil
}

// Delete removes the student with the given ID and reports the number of
// removed rows (0 or 1).
func (s *StudentService) Delete(id uint) (int64, error) {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.publish("student.deleted", &models.Student{ID: id})
	}
	return deleted, nil
}

func (s *StudentService) publish(event string, student *models.Student) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"id":    student.ID,
		"email": student.Email,
	}
	if err := s.events.PublishStudentEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for student %d: %v", event, student.ID, err)
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
