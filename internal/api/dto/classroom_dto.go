package dto

import (
	"time"

	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/service"
)

// CreateClassroomRequest payload for new classrooms.
type CreateClassroomRequest struct {
	Name      string   `json:"name" validate:"notblank,required,max=100"`
	Capacity  *int     `json:"capacity" validate:"omitempty,min=0"`
	Resources []string `json:"resources" validate:"omitempty,dive,notblank"`
}

// UpdateClassroomRequest changes only the fields present. An empty
// resources array clears the list.
type UpdateClassroomRequest struct {
	Name      *string  `json:"name" validate:"omitempty,notblank,max=100"`
	Capacity  *int     `json:"capacity" validate:"omitempty,min=0"`
	Resources []string `json:"resources" validate:"omitempty,dive,notblank"`
}

// ClassroomResponse is the public view of a classroom.
type ClassroomResponse struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"schoolId"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Resources []string  `json:"resources"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r CreateClassroomRequest) Input() service.ClassroomInput {
	in := service.ClassroomInput{Name: r.Name, Resources: r.Resources}
	if r.Capacity != nil {
		in.Capacity = *r.Capacity
	}
	return in
}

func (r UpdateClassroomRequest) Patch() service.ClassroomPatch {
	return service.ClassroomPatch{Name: r.Name, Capacity: r.Capacity, Resources: r.Resources}
}

func NewClassroomResponse(c *domain.Classroom) ClassroomResponse {
	resources := c.Resources
	if resources == nil {
		resources = []string{}
	}
	return ClassroomResponse{
		ID:        c.ID,
		SchoolID:  c.SchoolID,
		Name:      c.Name,
		Capacity:  c.Capacity,
		Resources: resources,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
