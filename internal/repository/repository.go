package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/school-service/internal/domain"
)

// Unique constraints reported through DuplicateError.
const (
	ConstraintUserEmail        = "users_email_key"
	ConstraintSingleSuperadmin = "users_single_superadmin"
	ConstraintClassroomName    = "classrooms_school_id_name_key"
	ConstraintStudentNumber    = "students_school_id_student_number_key"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate matches every DuplicateError.
	ErrDuplicate = errors.New("repository: duplicate")
)

// DuplicateError reports a unique constraint violation.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("repository: duplicate value violates %s", e.Constraint)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// UserRepository defines persistence access for administrator accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByRole(ctx context.Context, role domain.Role) (bool, error)
}

// SchoolRepository defines persistence access for schools. Deleting a school
// detaches its admins and removes its classrooms and students.
type SchoolRepository interface {
	Create(ctx context.Context, school *domain.School) error
	GetByID(ctx context.Context, id string) (*domain.School, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, school *domain.School) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts domain.ListOptions) ([]domain.School, error)
	Count(ctx context.Context, opts domain.ListOptions) (int, error)
}

// ClassroomRepository defines persistence access for classrooms, always
// addressed within a school.
type ClassroomRepository interface {
	Create(ctx context.Context, classroom *domain.Classroom) error
	GetByID(ctx context.Context, schoolID, id string) (*domain.Classroom, error)
	Update(ctx context.Context, classroom *domain.Classroom) error
	Delete(ctx context.Context, schoolID, id string) error
	List(ctx context.Context, schoolID string, opts domain.ListOptions) ([]domain.Classroom, error)
	Count(ctx context.Context, schoolID string, opts domain.ListOptions) (int, error)
}

// StudentRepository defines persistence access for students. Update addresses
// the row by ID only so a transfer can move it to another school.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, schoolID, id string) (*domain.Student, error)
	Update(ctx context.Context, student *domain.Student) error
	Delete(ctx context.Context, schoolID, id string) error
	List(ctx context.Context, schoolID string, opts domain.ListOptions) ([]domain.Student, error)
	Count(ctx context.Context, schoolID string, opts domain.ListOptions) (int, error)
}

// Store bundles the repositories behind one backend.
type Store struct {
	Users      UserRepository
	Schools    SchoolRepository
	Classrooms ClassroomRepository
	Students   StudentRepository
}

// mapError translates driver errors into the package sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &DuplicateError{Constraint: pgErr.ConstraintName}
		case "23503", "22P02":
			// Dangling reference or an identifier that is not a UUID.
			return ErrNotFound
		}
	}
	return err
}
