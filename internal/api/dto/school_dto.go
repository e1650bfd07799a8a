package dto

import (
	"time"

	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/service"
)

// CreateSchoolRequest payload for new schools.
type CreateSchoolRequest struct {
	Name    string `json:"name" validate:"notblank,required,max=200"`
	Address string `json:"address" validate:"omitempty,max=500"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
}

// UpdateSchoolRequest changes only the fields present.
type UpdateSchoolRequest struct {
	Name    *string `json:"name" validate:"omitempty,notblank,max=200"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
}

// SchoolResponse is the public view of a school.
type SchoolResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r CreateSchoolRequest) Input() service.SchoolInput {
	return service.SchoolInput{Name: r.Name, Address: r.Address, Phone: r.Phone}
}

func (r UpdateSchoolRequest) Patch() service.SchoolPatch {
	return service.SchoolPatch{Name: r.Name, Address: r.Address, Phone: r.Phone}
}

func NewSchoolResponse(s *domain.School) SchoolResponse {
	return SchoolResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
