package models

import "time"

// Profile holds the mutable identity fields of a user. One row per
// user, created at signup. Email is sourced from the users table and
// is read-only here.
type Profile struct {
	UserID    string
	FullName  *string
	AvatarURL *string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
