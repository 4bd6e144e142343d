package models

import "time"

// Student represents a registered student. The unique index on Email is the
// final arbiter of uniqueness; application-level pre-checks are advisory.
type Student struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name" gorm:"type:varchar(80);not null;index:ix_students_name,priority:2"`
	LastName  string    `json:"last_name" gorm:"type:varchar(80);not null;index:ix_students_name,priority:1"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:varchar(32)"`
	Age       *int      `json:"age,omitempty"`
	Address   *string   `json:"address,omitempty" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName matches the schema owned by the migration tool.
func (Student) TableName() string {
	return "students"
}
