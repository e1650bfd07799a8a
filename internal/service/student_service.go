package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/school-service/internal/cache"
	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/events"
	"github.com/spec-kit/school-service/internal/repository"
)

// StudentInput describes student creation. An empty Status means ENROLLED.
type StudentInput struct {
	FirstName     string
	LastName      string
	StudentNumber string
	DOB           *time.Time
	ClassroomID   *string
	Status        domain.StudentStatus
}

// StudentPatch carries the fields to change; nil leaves a field untouched.
// A ClassroomID pointing at "" removes the classroom assignment.
type StudentPatch struct {
	FirstName     *string
	LastName      *string
	StudentNumber *string
	DOB           *time.Time
	ClassroomID   *string
	Status        *domain.StudentStatus
}

// StudentService manages students inside a school.
type StudentService struct {
	students   repository.StudentRepository
	classrooms repository.ClassroomRepository
	schools    cache.SchoolLookup
	dispatcher events.Dispatcher
}

// StudentDependencies bundles repositories for the student service.
type StudentDependencies struct {
	Students   repository.StudentRepository
	Classrooms repository.ClassroomRepository
	Schools    cache.SchoolLookup
	Dispatcher events.Dispatcher
}

// NewStudentService builds the service.
func NewStudentService(deps StudentDependencies) *StudentService {
	return &StudentService{
		students:   deps.Students,
		classrooms: deps.Classrooms,
		schools:    deps.Schools,
		dispatcher: deps.Dispatcher,
	}
}

func (s *StudentService) Create(ctx context.Context, schoolID string, in StudentInput) (*domain.Student, error) {
	if err := requireSchool(ctx, s.schools, schoolID); err != nil {
		return nil, err
	}
	classroomID := normalizeRef(in.ClassroomID)
	if err := s.requireClassroom(ctx, schoolID, classroomID); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.StudentStatusEnrolled
	}

	student := &domain.Student{
		SchoolID:      schoolID,
		ClassroomID:   classroomID,
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		DOB:           in.DOB,
		StudentNumber: strings.TrimSpace(in.StudentNumber),
		Status:        status,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, storeError(err, "School")
	}
	return student, nil
}

func (s *StudentService) Get(ctx context.Context, schoolID, id string) (*domain.Student, error) {
	if err := requireSchool(ctx, s.schools, schoolID); err != nil {
		return nil, err
	}
	student, err := s.students.GetByID(ctx, schoolID, id)
	if err != nil {
		return nil, storeError(err, "Student")
	}
	return student, nil
}

// List pages through a school's students; opts.Query matches names and
// student number.
func (s *StudentService) List(ctx context.Context, schoolID string, opts domain.ListOptions) (domain.Page[domain.Student], error) {
	if err := requireSchool(ctx, s.schools, schoolID); err != nil {
		return domain.Page[domain.Student]{}, err
	}
	opts.Query = strings.TrimSpace(opts.Query)
	list := func(ctx context.Context, o domain.ListOptions) ([]domain.Student, error) {
		return s.students.List(ctx, schoolID, o)
	}
	count := func(ctx context.Context, o domain.ListOptions) (int, error) {
		return s.students.Count(ctx, schoolID, o)
	}
	return fetchPage(ctx, opts, list, count)
}

func (s *StudentService) Update(ctx context.Context, schoolID, id string, patch StudentPatch) (*domain.Student, error) {
	student, err := s.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	if patch.FirstName != nil {
		student.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		student.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.StudentNumber != nil {
		student.StudentNumber = strings.TrimSpace(*patch.StudentNumber)
	}
	if patch.DOB != nil {
		student.DOB = patch.DOB
	}
	if patch.Status != nil {
		student.Status = *patch.Status
	}
	if patch.ClassroomID != nil {
		student.ClassroomID = normalizeRef(patch.ClassroomID)
		if err := s.requireClassroom(ctx, schoolID, student.ClassroomID); err != nil {
			return nil, err
		}
	}
	if err := s.students.Update(ctx, student); err != nil {
		return nil, storeError(err, "Student")
	}
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, schoolID, id string) error {
	if err := requireSchool(ctx, s.schools, schoolID); err != nil {
		return err
	}
	return storeError(s.students.Delete(ctx, schoolID, id), "Student")
}

// Enroll marks the student ENROLLED in classroomID, or in no classroom when
// classroomID is nil.
func (s *StudentService) Enroll(ctx context.Context, schoolID, id string, classroomID *string) (*domain.Student, error) {
	student, err := s.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	ref := normalizeRef(classroomID)
	if err := s.requireClassroom(ctx, schoolID, ref); err != nil {
		return nil, err
	}
	student.ClassroomID = ref
	student.Status = domain.StudentStatusEnrolled
	if err := s.students.Update(ctx, student); err != nil {
		return nil, storeError(err, "Student")
	}
	return student, nil
}

// Transfer moves the student to toSchoolID and marks them TRANSFERRED.
// Without a destination classroom the student arrives unassigned.
func (s *StudentService) Transfer(ctx context.Context, actor domain.Principal, schoolID, id, toSchoolID string, toClassroomID *string) (*domain.Student, error) {
	student, err := s.Get(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	if err := requireSchool(ctx, s.schools, toSchoolID); err != nil {
		return nil, err
	}
	toClassroom := normalizeRef(toClassroomID)
	if err := s.requireClassroom(ctx, toSchoolID, toClassroom); err != nil {
		return nil, err
	}

	payload := events.StudentTransferredPayload{
		StudentID:       student.ID,
		FromSchoolID:    schoolID,
		ToSchoolID:      toSchoolID,
		FromClassroomID: student.ClassroomID,
		ToClassroomID:   toClassroom,
	}
	student.SchoolID = toSchoolID
	student.ClassroomID = toClassroom
	student.Status = domain.StudentStatusTransferred
	if err := s.students.Update(ctx, student); err != nil {
		return nil, storeError(err, "Student")
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventStudentTransferred, toSchoolID, actor.UserID(), payload))
	}
	return student, nil
}

// requireClassroom checks that a non-nil classroomID belongs to schoolID.
func (s *StudentService) requireClassroom(ctx context.Context, schoolID string, classroomID *string) error {
	if classroomID == nil {
		return nil
	}
	if _, err := s.classrooms.GetByID(ctx, schoolID, *classroomID); err != nil {
		return storeError(err, "Classroom")
	}
	return nil
}

// normalizeRef maps a blank identifier to nil.
func normalizeRef(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
