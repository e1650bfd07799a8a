package service

import (
	"context"
	"strings"

	"github.com/spec-kit/school-service/internal/cache"
	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/repository"
)

// ClassroomInput describes classroom creation.
type ClassroomInput struct {
	Name      string
	Capacity  int
	Resources []string
}

// ClassroomPatch carries the fields to change; nil leaves a field untouched.
type ClassroomPatch struct {
	Name      *string
	Capacity  *int
	Resources []string
}

// ClassroomService manages classrooms inside a school.
type ClassroomService struct {
	classrooms repository.ClassroomRepository
	schools    cache.SchoolLookup
}

// NewClassroomService builds the service.
func NewClassroomService(classrooms repository.ClassroomRepository, schools cache.SchoolLookup) *ClassroomService {
	return &ClassroomService{classrooms: classrooms, schools: schools}
}

func (s *ClassroomService) Create(ctx context.Context, schoolID string, in ClassroomInput) (*domain.Classroom, error) {
	if err := requireSchool(ctx, s.schools, schoolID); err != nil {
		return nil, err
	}
	classroom := &domain.Classroom{
		SchoolID:  schoolID,
		Name:      strings.TrimSpace(in.Name),
		Capacity:  in.Capacity,
		Resources: in.Resources,
	}
	if err := s.classrooms.Create(ctx, classroom); err != nil {
		return nil, storeError(err, "School")
	}
	return classroom, nil
}

func (s *ClassroomService) Get(ctx context.Context, schoolID, id string) (*domain.Classroom, error) {
	if err := requireSchool(ctx, s.schools, schoolID); err != nil {
		return nil, err
	}
	classroom, err := s.classrooms.GetByID(ctx, schoolID, id)
	if err != nil {
		return nil, storeError(err, "Classroom")
	}
	return classroom, nil
}

func (s *ClassroomService) List(ctx context.Context, schoolID string, opts domain.ListOptions) (domain.Page[domain.Classroom], error) {
	if err := requireSchool(ctx, s.schools, schoolID); err != nil {
		return domain.Page[domain.Classroom]{}, err
	}
	list := func(ctx context.Context, o domain.ListOptions) ([]domain.Classroom, error) {
		return s.classrooms.List(ctx, schoolID, o)
	}
	count := func(ctx context.Context, o domain.ListOptions) (int, error) {
		return s.classrooms.Count(ctx, schoolID, o)
	}
	return fetchPage(ctx, opts, list, count)
}

func (s *ClassroomService) Update(ctx context.Context, schoolID, id string, patch ClassroomPatch) (*domain.Classroom, error) {
	classroom, err := s.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		classroom.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Capacity != nil {
		classroom.Capacity = *patch.Capacity
	}
	if patch.Resources != nil {
		classroom.Resources = patch.Resources
	}
	if err := s.classrooms.Update(ctx, classroom); err != nil {
		return nil, storeError(err, "Classroom")
	}
	return classroom, nil
}

// Delete removes the classroom; its students stay in the school unassigned.
func (s *ClassroomService) Delete(ctx context.Context, schoolID, id string) error {
	if err := requireSchool(ctx, s.schools, schoolID); err != nil {
		return err
	}
	return storeError(s.classrooms.Delete(ctx, schoolID, id), "Classroom")
}
