package repositories

import (
	"fmt"
	"strings"

	"github.com/MIN2MAX-M/student-reg/internal/models"

	"gorm.io/gorm"
)

// GORMStudentRepository is a GORM implementation of StudentRepository.
//
// The database must be opened with TranslateError enabled so that
// unique-constraint violations surface as gorm.ErrDuplicatedKey regardless of
// the underlying driver. Not-found and duplicate-key errors are wrapped with
// %w so callers can inspect them with errors.Is.
type GORMStudentRepository struct {
	db *gorm.DB
}

// NewGORMStudentRepository creates a new instance of GORMStudentRepository.
func NewGORMStudentRepository(db *gorm.DB) *GORMStudentRepository {
	return &GORMStudentRepository{
		db: db,
	}
}

// Create inserts a new student. The store assigns the ID and timestamps.
func (r *GORMStudentRepository) Create(student *models.Student) error {
	if err := r.db.Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// GetByID retrieves a student by their ID.
func (r *GORMStudentRepository) GetByID(id uint) (*models.Student, error) {
	var student models.Student
	if err := r.db.First(&student, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get student by ID %d: %w", id, err)
	}
	return &student, nil
}

// GetByEmail retrieves a student by normalized email.
func (r *GORMStudentRepository) GetByEmail(email string) (*models.Student, error) {
	var student models.Student
	if err := r.db.First(&student, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to get student by email %s: %w", email, err)
	}
	return &student, nil
}

// List returns students ordered by ascending ID.
func (r *GORMStudentRepository) List(limit, offset int) ([]models.Student, error) {
	var students []models.Student
	err := r.db.Order("id").Limit(limit).Offset(offset).Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// Search matches the query case-insensitively as a substring against name,
// email, phone and address, OR-ed across fields. Results are ordered by
// ascending ID.
func (r *GORMStudentRepository) Search(q string, limit, offset int) ([]models.Student, error) {
	like := "%" + strings.ToLower(q) + "%"
	var students []models.Student
	err := r.db.
		Where("lower(first_name) LIKE ?", like).
		Or("lower(last_name) LIKE ?", like).
		Or("lower(email) LIKE ?", like).
		Or("lower(phone) LIKE ?", like).
		Or("lower(address) LIKE ?", like).
		Order("id").Limit(limit).Offset(offset).
		Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	return students, nil
}

// Update applies a sparse set of column updates to the student with the given
// ID and returns the reloaded row. GORM refreshes updated_at as part of the
// write.
func (r *GORMStudentRepository) Update(id uint, fields map[string]interface{}) (*models.Student, error) {
	res := r.db.Model(&models.Student{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update student %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("student %d not found for update: %w", id, gorm.ErrRecordNotFound)
	}
	return r.GetByID(id)
}

// Delete removes the student with the given ID and reports how many rows were
// removed (0 or 1), so callers can distinguish "already gone" from "removed".
func (r *GORMStudentRepository) Delete(id uint) (int64, error) {
	res := r.db.Delete(&models.Student{}, "id = ?", id)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete student %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
