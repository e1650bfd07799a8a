package domain

import "time"

// Classroom belongs to exactly one school; its name is unique within it.
type Classroom struct {
	ID        string
	SchoolID  string
	Name      string
	Capacity  int
	Resources []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
