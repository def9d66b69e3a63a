package store

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"github.com/Tristal25/watchlist/pkg/models"
)

const maxNameLen = 20

// UserStore persists accounts.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore on the given database handle.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// ByUsername returns the user with the given login handle, or ErrNotFound.
func (s *UserStore) ByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return &user, nil
}

// ByID returns the user with the given id, or ErrNotFound.
func (s *UserStore) ByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// Exists reports whether a user with the given username is registered.
func (s *UserStore) Exists(username string) (bool, error) {
	var count int
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return count > 0, nil
}

// Count returns the total number of registered users.
func (s *UserStore) Count() (int, error) {
	var count int
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// First returns the earliest-created user, or ErrNotFound when the table
// is empty. Used for the page title fallback and the admin bootstrap.
func (s *UserStore) First() (*models.User, error) {
	var user models.User
	err := s.db.First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get first user: %w", err)
	}
	return &user, nil
}

// Create inserts a new user. The caller is responsible for having hashed
// the password via models.User.SetPassword.
func (s *UserStore) Create(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Save persists changes to an existing user.
func (s *UserStore) Save(user *models.User) error {
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// UpdateName changes the display name of the user with the given id.
// The name must be non-empty and at most 20 characters.
func (s *UserStore) UpdateName(id uint, name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(name) > maxNameLen {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("must be at most %d characters", maxNameLen)}
	}
	user, err := s.ByID(id)
	if err != nil {
		return err
	}
	user.Name = name
	return s.Save(user)
}
