package repositories

import (
	"github.com/MIN2MAX-M/student-reg/internal/models"
)

// StudentRepository defines the interface for student data access.
type StudentRepository interface {
	Create(student *models.Student) error
	GetByID(id uint) (*models.Student, error)
	GetByEmail(email string) (*models.Student, error)
	List(limit, offset int) ([]models.Student, error)
	Search(q string, limit, offset int) ([]models.Student, error)
	Update(id uint, fields map[string]interface{}) (*models.Student, error)
	Delete(id uint) (int64, error)
}
