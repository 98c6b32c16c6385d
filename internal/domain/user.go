package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrEmailRequired is returned when a user is created without an email address.
var ErrEmailRequired = errors.New("users must have an email address")

// User is the domain model for account holders. Every recipe, tag and
// ingredient row carries the id of exactly one User.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail lowercases the domain segment of an email address while
// preserving the case of the local part. The split happens on the last '@'
// so quoted local parts containing '@' keep their domain handling intact.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email, nil
	}
	return email[:at+1] + strings.ToLower(email[at+1:]), nil
}
