package store

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"github.com/Tristal25/watchlist/pkg/models"
)

const (
	maxTitleLen = 60
	yearLen     = 4
)

// MovieStore persists watchlist entries. Id-based operations do not check
// ownership; listing is the only owner-scoped access path.
type MovieStore struct {
	db *gorm.DB
}

// NewMovieStore creates a MovieStore on the given database handle.
func NewMovieStore(db *gorm.DB) *MovieStore {
	return &MovieStore{db: db}
}

func validateMovie(title, year string) error {
	if title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len(title) > maxTitleLen {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", maxTitleLen)}
	}
	if year == "" {
		return &ValidationError{Field: "year", Reason: "must not be empty"}
	}
	if len(year) != yearLen {
		return &ValidationError{Field: "year", Reason: fmt.Sprintf("must be exactly %d characters", yearLen)}
	}
	return nil
}

// ListAll returns every movie regardless of owner.
func (s *MovieStore) ListAll() ([]models.Movie, error) {
	var movies []models.Movie
	if err := s.db.Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// ListByOwner returns the movies owned by username.
func (s *MovieStore) ListByOwner(username string) ([]models.Movie, error) {
	var movies []models.Movie
	if err := s.db.Where("username = ?", username).Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies for %q: %w", username, err)
	}
	return movies, nil
}

// Create validates title and year and inserts a new movie owned by owner.
func (s *MovieStore) Create(title, year, owner string) (*models.Movie, error) {
	if err := validateMovie(title, year); err != nil {
		return nil, err
	}
	movie := models.Movie{Title: title, Year: year, Username: owner}
	if err := s.db.Create(&movie).Error; err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}
	return &movie, nil
}

// Get returns the movie with the given id, or ErrNotFound.
func (s *MovieStore) Get(id uint) (*models.Movie, error) {
	var movie models.Movie
	err := s.db.First(&movie, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return &movie, nil
}

// Update validates and replaces the title and year of the movie with the
// given id. The owner field is left untouched.
func (s *MovieStore) Update(id uint, title, year string) (*models.Movie, error) {
	if err := validateMovie(title, year); err != nil {
		return nil, err
	}
	movie, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	movie.Title = title
	movie.Year = year
	if err := s.db.Save(movie).Error; err != nil {
		return nil, fmt.Errorf("failed to update movie %d: %w", id, err)
	}
	return movie, nil
}

// Delete permanently removes the movie with the given id, or returns
// ErrNotFound.
func (s *MovieStore) Delete(id uint) error {
	movie, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(movie).Error; err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", id, err)
	}
	return nil
}
