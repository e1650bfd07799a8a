package dto

import (
	"time"

	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/service"
)

// DateLayout is the wire format of a date of birth.
const DateLayout = "2006-01-02"

// CreateStudentRequest payload for new students.
type CreateStudentRequest struct {
	FirstName     string  `json:"firstName" validate:"notblank,required,max=100"`
	LastName      string  `json:"lastName" validate:"notblank,required,max=100"`
	StudentNumber string  `json:"studentNumber" validate:"notblank,required,max=50"`
	DOB           *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	ClassroomID   *string `json:"classroomId"`
	Status        string  `json:"status" validate:"omitempty,oneof=ENROLLED TRANSFERRED INACTIVE"`
}

// UpdateStudentRequest changes only the fields present. An empty
// classroomId removes the classroom assignment.
type UpdateStudentRequest struct {
	FirstName     *string `json:"firstName" validate:"omitempty,notblank,max=100"`
	LastName      *string `json:"lastName" validate:"omitempty,notblank,max=100"`
	StudentNumber *string `json:"studentNumber" validate:"omitempty,notblank,max=50"`
	DOB           *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	ClassroomID   *string `json:"classroomId"`
	Status        *string `json:"status" validate:"omitempty,oneof=ENROLLED TRANSFERRED INACTIVE"`
}

// EnrollRequest optionally names the classroom to enroll into.
type EnrollRequest struct {
	ClassroomID *string `json:"classroomId"`
}

// TransferRequest moves a student to another school.
type TransferRequest struct {
	ToSchoolID    string  `json:"toSchoolId" validate:"notblank,required"`
	ToClassroomID *string `json:"toClassroomId"`
}

// StudentResponse is the public view of a student.
type StudentResponse struct {
	ID            string               `json:"id"`
	SchoolID      string               `json:"schoolId"`
	ClassroomID   *string              `json:"classroomId"`
	FirstName     string               `json:"firstName"`
	LastName      string               `json:"lastName"`
	DOB           *string              `json:"dob"`
	StudentNumber string               `json:"studentNumber"`
	Status        domain.StudentStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func (r CreateStudentRequest) Input() service.StudentInput {
	return service.StudentInput{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		StudentNumber: r.StudentNumber,
		DOB:           parseDate(r.DOB),
		ClassroomID:   r.ClassroomID,
		Status:        domain.StudentStatus(r.Status),
	}
}

func (r UpdateStudentRequest) Patch() service.StudentPatch {
	patch := service.StudentPatch{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		StudentNumber: r.StudentNumber,
		DOB:           parseDate(r.DOB),
		ClassroomID:   r.ClassroomID,
	}
	if r.Status != nil {
		status := domain.StudentStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

func NewStudentResponse(s *domain.Student) StudentResponse {
	resp := StudentResponse{
		ID:            s.ID,
		SchoolID:      s.SchoolID,
		ClassroomID:   s.ClassroomID,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		StudentNumber: s.StudentNumber,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.DOB != nil {
		dob := s.DOB.Format(DateLayout)
		resp.DOB = &dob
	}
	return resp
}

// parseDate expects a value already checked by the datetime rule.
func parseDate(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, *value)
	if err != nil {
		return nil
	}
	return &t
}
