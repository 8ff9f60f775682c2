package entity

import "time"

// TrustedContact is a person allowed to act as executor for the owning user.
// More than one contact may be primary.
type TrustedContact struct {
	ID           int64
	UserID       int64
	Name         string
	Relationship string
	Email        string
	IsPrimary    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
