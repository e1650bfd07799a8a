package domain

import "time"

// StudentStatus represents enrollment lifecycle states.
type StudentStatus string

const (
	StudentStatusEnrolled    StudentStatus = "ENROLLED"
	StudentStatusTransferred StudentStatus = "TRANSFERRED"
	StudentStatusInactive    StudentStatus = "INACTIVE"
)

// Student belongs to one school; StudentNumber is unique within it.
type Student struct {
	ID            string
	SchoolID      string
	ClassroomID   *string
	FirstName     string
	LastName      string
	DOB           *time.Time
	StudentNumber string
	Status        StudentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
