package services_test

import (
	"fmt"
	"testing"

	"github.com/MIN2MAX-M/student-reg/internal/models"
	"github.com/MIN2MAX-M/student-reg/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockStudentRepository is a mock implementation of repositories.StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(student *models.Student) error {
	args := m.Called(student)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByID(id uint) (*models.Student, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepository) GetByEmail(email string) (*models.Student, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepository) List(limit, offset int) ([]models.Student, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]models.Student), args.Error(1)
}

func (m *MockStudentRepository) Search(q string, limit, offset int) ([]models.Student, error) {
	args := m.Called(q, limit, offset)
	return args.Get(0).([]models.Student), args.Error(1)
}

func (m *MockStudentRepository) Update(id uint, fields map[string]interface{}) (*models.Student, error) {
	args := m.Called(id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepository) Delete(id uint) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishStudentEvent(event string, payload map[string]interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func notFoundErr() error {
	return fmt.Errorf("record missing: %w", gorm.ErrRecordNotFound)
}

func TestStudentService_Create_NormalizesAndPersists(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewStudentService(mockRepo, mockEvents)

	mockRepo.On("GetByEmail", "ann@example.com").Return(nil, notFoundErr()).Once()
	mockRepo.On("Create", mock.MatchedBy(func(st *models.Student) bool {
		return st.FirstName == "Ann" && st.LastName == "Lee" && st.Email == "ann@example.com"
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Student).ID = 1
	}).Return(nil).Once()
	mockEvents.On("PublishStudentEvent", "student.created", mock.Anything).Return(nil).Once()

	student, err := service.Create(services.CreateStudentInput{
		FirstName: "  Ann ",
		LastName:  "Lee",
		Email:     " Ann@Example.com ",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(1), student.ID)
	assert.Equal(t, "ann@example.com", student.Email)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestStudentService_Create_ValidationFailures(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	tooOld := 131
	cases := []services.CreateStudentInput{
		{FirstName: "   ", LastName: "Lee", Email: "ann@example.com"},
		{FirstName: "Ann", LastName: "", Email: "ann@example.com"},
		{FirstName: "Ann", LastName: "Lee", Email: "not-an-email"},
		{FirstName: "Ann", LastName: "Lee", Email: "   "},
		{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Age: &tooOld},
	}

	for _, in := range cases {
		student, err := service.Create(in)
		assert.Nil(t, student)

		var verr *services.ValidationError
		assert.ErrorAs(t, err, &verr, "input %+v should fail validation", in)
	}

	// Validation failures must never reach the repository.
	mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestStudentService_Create_DuplicatePreCheck(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	existing := &models.Student{ID: 7, Email: "ann@example.com"}
	mockRepo.On("GetByEmail", "ann@example.com").Return(existing, nil).Once()

	student, err := service.Create(services.CreateStudentInput{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ANN@EXAMPLE.COM",
	})

	assert.Nil(t, student)
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestStudentService_Create_LateConstraintViolation(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	// Pre-check passes, but a concurrent writer wins the race and the store
	// rejects the insert.
	mockRepo.On("GetByEmail", "ann@example.com").Return(nil, notFoundErr()).Once()
	mockRepo.On("Create", mock.Anything).
		Return(fmt.Errorf("insert failed: %w", gorm.ErrDuplicatedKey)).Once()

	student, err := service.Create(services.CreateStudentInput{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@example.com",
	})

	assert.Nil(t, student)
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)
}

func TestStudentService_Get(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	expected := &models.Student{ID: 1, FirstName: "Ann"}
	mockRepo.On("GetByID", uint(1)).Return(expected, nil).Once()

	student, err := service.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, expected, student)

	mockRepo.On("GetByID", uint(99)).Return(nil, notFoundErr()).Once()
	student, err = service.Get(99)
	assert.Nil(t, student)
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestStudentService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	mockRepo.On("GetByID", uint(99)).Return(nil, notFoundErr()).Once()

	name := "Ann"
	student, err := service.Update(99, services.UpdateStudentInput{FirstName: &name})
	assert.Nil(t, student)
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestStudentService_Update_EmptyPatchIsNoWrite(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	current := &models.Student{ID: 1, FirstName: "Ann", Email: "ann@example.com"}
	mockRepo.On("GetByID", uint(1)).Return(current, nil).Twice()

	// No fields at all.
	student, err := service.Update(1, services.UpdateStudentInput{})
	assert.NoError(t, err)
	assert.Equal(t, current, student)

	// Whitespace-only fields normalize to absent.
	blank := "   "
	student, err = service.Update(1, services.UpdateStudentInput{FirstName: &blank})
	assert.NoError(t, err)
	assert.Equal(t, current, student)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestStudentService_Update_OwnEmailIsNoOp(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	current := &models.Student{ID: 1, FirstName: "Ann", Email: "ann@example.com"}
	mockRepo.On("GetByID", uint(1)).Return(current, nil).Once()

	// Other fields still apply; email is dropped from the write, so no
	// uniqueness pre-check happens.
	updated := &models.Student{ID: 1, FirstName: "Anne", Email: "ann@example.com"}
	mockRepo.On("Update", uint(1), map[string]interface{}{"first_name": "Anne"}).
		Return(updated, nil).Once()

	sameEmail := "ANN@Example.com"
	newFirst := "Anne"
	student, err := service.Update(1, services.UpdateStudentInput{
		FirstName: &newFirst,
		Email:     &sameEmail,
	})

	assert.NoError(t, err)
	assert.Equal(t, updated, student)
	mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestStudentService_Update_EmailChangeChecksOtherRecords(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	current := &models.Student{ID: 1, Email: "ann@example.com"}
	other := &models.Student{ID: 2, Email: "bob@example.com"}
	mockRepo.On("GetByID", uint(1)).Return(current, nil).Once()
	mockRepo.On("GetByEmail", "bob@example.com").Return(other, nil).Once()

	newEmail := "Bob@Example.com"
	student, err := service.Update(1, services.UpdateStudentInput{Email: &newEmail})
	assert.Nil(t, student)
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestStudentService_Update_LateConstraintViolation(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	current := &models.Student{ID: 1, Email: "ann@example.com"}
	mockRepo.On("GetByID", uint(1)).Return(current, nil).Once()
	mockRepo.On("GetByEmail", "bob@example.com").Return(nil, notFoundErr()).Once()
	mockRepo.On("Update", uint(1), map[string]interface{}{"email": "bob@example.com"}).
		Return(nil, fmt.Errorf("update failed: %w", gorm.ErrDuplicatedKey)).Once()

	newEmail := "bob@example.com"
	student, err := service.Update(1, services.UpdateStudentInput{Email: &newEmail})
	assert.Nil(t, student)
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)
}

func TestStudentService_Delete(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewStudentService(mockRepo, mockEvents)

	mockRepo.On("Delete", uint(1)).Return(int64(1), nil).Once()
	mockEvents.On("PublishStudentEvent", "student.deleted", mock.Anything).Return(nil).Once()

	deleted, err := service.Delete(1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Deleting a missing student reports zero rows and publishes nothing.
	mockRepo.On("Delete", uint(99)).Return(int64(0), nil).Once()
	deleted, err = service.Delete(99)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestStudentService_List_ClampsLimit(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	mockRepo.On("List", services.DefaultLimit, 0).Return([]models.Student{}, nil).Once()
	_, err := service.List(0, -5)
	assert.NoError(t, err)

	mockRepo.On("List", services.MaxLimit, 10).Return([]models.Student{}, nil).Once()
	_, err = service.List(10000, 10)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestStudentService_Search_TrimsQuery(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	service := services.NewStudentService(mockRepo, nil)

	expected := []models.Student{{ID: 1, FirstName: "Ann"}}
	mockRepo.On("Search", "ann", 20, 0).Return(expected, nil).Once()

	students, err := service.Search("  ann ", 20, 0)
	assert.NoError(t, err)
	assert.Equal(t, expected, students)
	mockRepo.AssertExpectations(t)
}
