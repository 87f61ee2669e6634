package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"usersvc/internal/models"
	"usersvc/internal/repositories"
	"usersvc/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) ([]models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) Ping(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishUserEvent(event models.UserEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

var nopLog = zerolog.New(io.Discard)

func ptr[T any](v T) *T { return &v }

func aliceRequest() models.CreateUserRequest {
	return models.CreateUserRequest{Username: "alice", Email: "alice@example.com", Gender: models.GenderFemale, ProjectID: models.ProjectOne}
}

func storedAlice() *models.User {
	return &models.User{ID: "u1", Username: "alice", Email: "alice@example.com", Gender: models.GenderFemale, ProjectID: models.ProjectOne}
}

func TestUserService_CreateUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	service := services.NewUserService(mockRepo, publisher, nopLog)

	mockRepo.On("FindByEmail", "alice@example.com").Return([]models.User{}, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = "u1"
	}).Return(nil).Once()
	publisher.On("PublishUserEvent", mock.MatchedBy(func(e models.UserEvent) bool {
		return e.Type == models.UserCreated && e.UserID == "u1"
	})).Return(nil).Once()

	user, err := service.CreateUser(context.Background(), aliceRequest())
	require.NoError(t, err)
	assert.Equal(t, storedAlice(), user)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUserService_CreateUser_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, nil, nopLog)

	req := aliceRequest()
	req.Username = "   "
	req.Email = "nope"

	_, err := service.CreateUser(context.Background(), req)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "email")
	mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything)
}

func TestUserService_CreateUser_EmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, nil, nopLog)

	mockRepo.On("FindByEmail", "alice@example.com").Return([]models.User{*storedAlice()}, nil).Once()
	_, err := service.CreateUser(context.Background(), aliceRequest())
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)

	// A concurrent insert that wins the race is caught by the unique index.
	mockRepo.On("FindByEmail", "alice@example.com").Return([]models.User{}, nil).Once()
	mockRepo.On("Create", mock.Anything).Return(fmt.Errorf("failed to create user: %w", repositories.ErrDuplicateEmail)).Once()
	_, err = service.CreateUser(context.Background(), aliceRequest())
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateUser_StoreFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, nil, nopLog)

	mockRepo.On("FindByEmail", "alice@example.com").Return(nil, errors.New("connection reset")).Once()
	_, err := service.CreateUser(context.Background(), aliceRequest())
	var derr *services.DependencyError
	assert.ErrorAs(t, err, &derr)
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateUser_PublishFailureIgnored(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	service := services.NewUserService(mockRepo, publisher, nopLog)

	mockRepo.On("FindByEmail", mock.Anything).Return([]models.User{}, nil).Once()
	mockRepo.On("Create", mock.Anything).Return(nil).Once()
	publisher.On("PublishUserEvent", mock.Anything).Return(errors.New("broker down")).Once()

	_, err := service.CreateUser(context.Background(), aliceRequest())
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestUserService_GetAllUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, nil, nopLog)

	expected := []models.User{*storedAlice()}
	mockRepo.On("GetAll").Return(expected, nil).Once()
	users, err := service.GetAllUsers(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, expected, users)

	mockRepo.On("GetAll").Return(nil, errors.New("quota exceeded")).Once()
	_, err = service.GetAllUsers(context.Background())
	var derr *services.DependencyError
	assert.ErrorAs(t, err, &derr)
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUserByID(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, nil, nopLog)

	mockRepo.On("GetByID", "u1").Return(storedAlice(), nil).Once()
	user, err := service.GetUserByID(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, storedAlice(), user)

	mockRepo.On("GetByID", "u9").Return(nil, fmt.Errorf("user with ID u9: %w", repositories.ErrNotFound)).Once()
	_, err = service.GetUserByID(context.Background(), "u9")
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	_, err = service.GetUserByID(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUser_EmptyPatch(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, nil, nopLog)

	_, err := service.UpdateUser(context.Background(), "u1", models.UpdateUserRequest{})
	assert.ErrorIs(t, err, services.ErrEmptyPatch)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestUserService_UpdateUser_PartialPatch(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	service := services.NewUserService(mockRepo, publisher, nopLog)

	mockRepo.On("GetByID", "u1").Return(storedAlice(), nil).Once()
	mockRepo.On("Update", "u1", map[string]interface{}{"project_id": models.ProjectTwo}).Return(nil).Once()
	publisher.On("PublishUserEvent", mock.MatchedBy(func(e models.UserEvent) bool {
		return e.Type == models.UserUpdated && e.User != nil && e.User.ProjectID == models.ProjectTwo
	})).Return(nil).Once()

	user, err := service.UpdateUser(context.Background(), "u1", models.UpdateUserRequest{ProjectID: ptr(models.ProjectTwo)})
	require.NoError(t, err)
	expected := storedAlice()
	expected.ProjectID = models.ProjectTwo
	assert.Equal(t, expected, user)
	mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUserService_UpdateUser_OwnEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, nil, nopLog)

	mockRepo.On("GetByID", "u1").Return(storedAlice(), nil).Once()
	mockRepo.On("FindByEmail", "alice@example.com").Return([]models.User{*storedAlice()}, nil).Once()
	mockRepo.On("Update", "u1", map[string]interface{}{"email": "alice@example.com"}).Return(nil).Once()

	user, err := service.UpdateUser(context.Background(), "u1", models.UpdateUserRequest{Email: ptr("alice@example.com")})
	require.NoError(t, err)
	assert.Equal(t, storedAlice(), user)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUser_EmailCollision(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, nil, nopLog)

	bob := models.User{ID: "u2", Username: "bob", Email: "bob@example.com", Gender: models.GenderMale, ProjectID: models.ProjectTwo}
	mockRepo.On("GetByID", "u1").Return(storedAlice(), nil).Once()
	mockRepo.On("FindByEmail", "bob@example.com").Return([]models.User{bob}, nil).Once()

	_, err := service.UpdateUser(context.Background(), "u1", models.UpdateUserRequest{Email: ptr("bob@example.com")})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUser_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, nil, nopLog)

	mockRepo.On("GetByID", "u9").Return(nil, fmt.Errorf("user with ID u9: %w", repositories.ErrNotFound)).Once()
	_, err := service.UpdateUser(context.Background(), "u9", models.UpdateUserRequest{Username: ptr("bob")})
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUser_InvalidField(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, nil, nopLog)

	_, err := service.UpdateUser(context.Background(), "u1", models.UpdateUserRequest{Gender: ptr(models.Gender("robot"))})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"gender": "must be one of: male, female"}, verr.Fields)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestUserService_DeleteUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	service := services.NewUserService(mockRepo, publisher, nopLog)

	mockRepo.On("GetByID", "u1").Return(storedAlice(), nil).Once()
	mockRepo.On("Delete", "u1").Return(nil).Once()
	publisher.On("PublishUserEvent", mock.MatchedBy(func(e models.UserEvent) bool {
		return e.Type == models.UserDeleted && e.UserID == "u1" && e.User == nil
	})).Return(nil).Once()
	assert.NoError(t, service.DeleteUser(context.Background(), "u1"))

	mockRepo.On("GetByID", "u9").Return(nil, fmt.Errorf("user with ID u9: %w", repositories.ErrNotFound)).Once()
	assert.ErrorIs(t, service.DeleteUser(context.Background(), "u9"), services.ErrUserNotFound)
	mockRepo.AssertNotCalled(t, "Delete", "u9")

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}
