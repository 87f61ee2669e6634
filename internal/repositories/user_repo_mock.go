package repositories

import (
	"context"
	"fmt"
	"sync"

	"usersvc/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// It enforces email uniqueness the same way the unique index does.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// GetAll returns all users.
func (r *MockUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		userList = append(userList, u)
	}
	return userList, nil
}

// GetByID returns a user by its ID.
func (r *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

// FindByEmail returns users whose email matches exactly.
func (r *MockUserRepository) FindByEmail(ctx context.Context, email string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []models.User
	for _, u := range r.users {
		if u.Email == email {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

// Create adds a new user.
func (r *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return fmt.Errorf("failed to create user: %w", ErrDuplicateEmail)
	}
	user.ID = uuid.New().String()
	r.users[user.ID] = *user
	return nil
}

// Update applies fields to an existing user.
func (r *MockUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	for k, v := range fields {
		switch k {
		case "username":
			user.Username = v.(string)
		case "email":
			email := v.(string)
			if r.emailTaken(email, id) {
				return fmt.Errorf("failed to update user %s: %w", id, ErrDuplicateEmail)
			}
			user.Email = email
		case "gender":
			user.Gender = v.(models.Gender)
		case "project_id":
			user.ProjectID = v.(models.ProjectID)
		default:
			return fmt.Errorf("unknown user field %q", k)
		}
	}
	r.users[id] = user
	return nil
}

// Delete removes a user by its ID.
func (r *MockUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

// Ping always succeeds.
func (r *MockUserRepository) Ping(ctx context.Context) error {
	return nil
}

// emailTaken must be called with r.mu held.
func (r *MockUserRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
