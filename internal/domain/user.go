package domain

import "time"

// User is an administrator account. SchoolID is set only for school admins.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	SchoolID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
