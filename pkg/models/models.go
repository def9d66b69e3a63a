package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account that can sign in and own watchlist entries.
// PasswordHash only ever holds a bcrypt hash, never the plaintext.
type User struct {
	ID           uint      `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:20" json:"name"`
	Username     string    `gorm:"unique" json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Movie is a single watchlist entry. Username records the owning account's
// handle; it is set when the entry is created and never reassigned.
type Movie struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Title     string    `gorm:"size:60" json:"title"`
	Year      string    `gorm:"size:4" json:"year"`
	Username  string    `gorm:"index" json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword replaces the stored hash with a bcrypt hash of plaintext.
func (u *User) SetPassword(plaintext string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// ValidatePassword reports whether candidate matches the stored hash.
// False for any mismatch, including when no hash has been set. bcrypt's
// comparison is safe against timing attacks.
func (u *User) ValidatePassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}
