package service

import (
	"context"
	"strings"

	"github.com/spec-kit/school-service/internal/cache"
	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/events"
	"github.com/spec-kit/school-service/internal/repository"
	apperrors "github.com/spec-kit/school-service/pkg/util"
)

// SchoolInput describes school creation.
type SchoolInput struct {
	Name    string
	Address string
	Phone   string
}

// SchoolPatch carries the fields to change; nil leaves a field untouched.
type SchoolPatch struct {
	Name    *string
	Address *string
	Phone   *string
}

// SchoolService manages tenants.
type SchoolService struct {
	schools    repository.SchoolRepository
	dispatcher events.Dispatcher
}

// NewSchoolService builds the service.
func NewSchoolService(schools repository.SchoolRepository, dispatcher events.Dispatcher) *SchoolService {
	return &SchoolService{schools: schools, dispatcher: dispatcher}
}

func (s *SchoolService) Create(ctx context.Context, actor domain.Principal, in SchoolInput) (*domain.School, error) {
	school := &domain.School{
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedBy: actor.UserID(),
	}
	if err := s.schools.Create(ctx, school); err != nil {
		return nil, storeError(err, "School")
	}
	s.publish(ctx, events.New(events.EventSchoolCreated, school.ID, actor.UserID(), events.SchoolPayload{Name: school.Name}))
	return school, nil
}

func (s *SchoolService) Get(ctx context.Context, id string) (*domain.School, error) {
	school, err := s.schools.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "School")
	}
	return school, nil
}

func (s *SchoolService) List(ctx context.Context, opts domain.ListOptions) (domain.Page[domain.School], error) {
	return fetchPage(ctx, opts, s.schools.List, s.schools.Count)
}

func (s *SchoolService) Update(ctx context.Context, id string, patch SchoolPatch) (*domain.School, error) {
	school, err := s.schools.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "School")
	}
	if patch.Name != nil {
		school.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Address != nil {
		school.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.Phone != nil {
		school.Phone = strings.TrimSpace(*patch.Phone)
	}
	if err := s.schools.Update(ctx, school); err != nil {
		return nil, storeError(err, "School")
	}
	return school, nil
}

// Delete removes the school with its classrooms and students and detaches
// its admins.
func (s *SchoolService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	school, err := s.schools.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "School")
	}
	if err := s.schools.Delete(ctx, id); err != nil {
		return storeError(err, "School")
	}
	s.publish(ctx, events.New(events.EventSchoolDeleted, id, actor.UserID(), events.SchoolPayload{Name: school.Name}))
	return nil
}

func (s *SchoolService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, event)
	}
}

// requireSchool fails with NOT_FOUND unless schoolID exists.
func requireSchool(ctx context.Context, schools cache.SchoolLookup, schoolID string) error {
	exists, err := schools.Exists(ctx, schoolID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !exists {
		return apperrors.NewNotFound("School")
	}
	return nil
}
