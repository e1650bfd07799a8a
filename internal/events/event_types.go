package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSuperadminRegistered EventType = "superadmin_registered"
	EventSchoolCreated        EventType = "school_created"
	EventSchoolDeleted        EventType = "school_deleted"
	EventSchoolAdminCreated   EventType = "school_admin_created"
	EventStudentTransferred   EventType = "student_transferred"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SchoolID  string    `json:"school_id,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// New stamps an event with an ID and the current time.
func New(eventType EventType, schoolID, actorID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SchoolID:  schoolID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserCreatedPayload accompanies superadmin_registered and school_admin_created.
type UserCreatedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// SchoolPayload accompanies school_created and school_deleted.
type SchoolPayload struct {
	Name string `json:"name"`
}

// StudentTransferredPayload payload.
type StudentTransferredPayload struct {
	StudentID       string  `json:"student_id"`
	FromSchoolID    string  `json:"from_school_id"`
	ToSchoolID      string  `json:"to_school_id"`
	ToClassroomID   *string `json:"to_classroom_id,omitempty"`
	FromClassroomID *string `json:"from_classroom_id,omitempty"`
}
