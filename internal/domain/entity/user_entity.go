package entity

import (
	"time"
)

// User is the aggregate root for the legacy plan.
// Passwords are stored as bcrypt hashes in Password field.
// IsDeceased starts false and is only ever flipped to true by plan execution.
type User struct {
	ID         int64
	Email      string
	Password   string
	Name       string
	IsDeceased bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
