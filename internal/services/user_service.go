package services

import (
	"context"
	"errors"
	"time"

	"usersvc/internal/models"
	"usersvc/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// EventPublisher receives user lifecycle events. Publishing is best-effort.
type EventPublisher interface {
	PublishUserEvent(event models.UserEvent) error
}

// UserService holds the CRUD rules for user records.
type UserService struct {
	repo      repositories.UserRepository
	validate  *validator.Validate
	publisher EventPublisher
	log       zerolog.Logger
}

// NewUserService creates a new UserService. publisher may be nil.
func NewUserService(repo repositories.UserRepository, publisher EventPublisher, log zerolog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		validate:  models.NewValidator(),
		publisher: publisher,
		log:       log,
	}
}

// CreateUser validates req, checks that its email is unused and inserts it.
func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, newValidationError(err)
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, &DependencyError{Op: "find users by email", Err: err}
	}
	if len(existing) > 0 {
		return nil, ErrEmailTaken
	}

	user := req.ToUser()
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, &DependencyError{Op: "create user", Err: err}
	}

	s.publish(models.UserCreated, user.ID, user)
	return user, nil
}

// GetAllUsers returns every user in store order.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, &DependencyError{Op: "list users", Err: err}
	}
	return users, nil
}

// GetUserByID returns the user with the given ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, ErrUserNotFound
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, &DependencyError{Op: "get user", Err: err}
	}
	return user, nil
}

// UpdateUser applies the present fields of req to the user with the given
// ID and returns the resulting record. An empty patch is rejected before
// the store is touched.
func (s *UserService) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	if req.IsEmpty() {
		return nil, ErrEmptyPatch
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, newValidationError(err)
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		matches, err := s.repo.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, &DependencyError{Op: "find users by email", Err: err}
		}
		for _, m := range matches {
			if m.ID != id {
				return nil, ErrEmailTaken
			}
		}
	}

	if err := s.repo.Update(ctx, id, req.Fields()); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, &DependencyError{Op: "update user", Err: err}
	}

	req.Apply(user)
	s.publish(models.UserUpdated, id, user)
	return user, nil
}

// DeleteUser removes the user with the given ID.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return &DependencyError{Op: "delete user", Err: err}
	}
	s.publish(models.UserDeleted, id, nil)
	return nil
}

// StoreHealthy reports whether the record store answers a ping.
func (s *UserService) StoreHealthy(ctx context.Context) bool {
	return s.repo.Ping(ctx) == nil
}

func (s *UserService) publish(typ models.UserEventType, id string, user *models.User) {
	if s.publisher == nil {
		return
	}
	event := models.UserEvent{
		Type:       typ,
		UserID:     id,
		User:       user,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishUserEvent(event); err != nil {
		s.log.Warn().Err(err).Str("event", string(typ)).Str("user_id", id).Msg("failed to publish user event")
	}
}
