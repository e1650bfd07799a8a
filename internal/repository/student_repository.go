package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/school-service/internal/domain"
)

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository returns a Postgres-backed implementation.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

const studentColumns = `id, school_id, classroom_id, first_name, last_name, dob, student_number, status, created_at, updated_at`

// studentSearch matches $2 against names and student number, case-insensitively.
const studentSearch = `($2 = '' OR first_name ILIKE '%' || $2 || '%'
        OR last_name ILIKE '%' || $2 || '%'
        OR student_number ILIKE '%' || $2 || '%')`

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	const query = `
        INSERT INTO students (school_id, classroom_id, first_name, last_name, dob, student_number, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return mapError(r.pool.QueryRow(ctx, query,
		student.SchoolID,
		student.ClassroomID,
		student.FirstName,
		student.LastName,
		student.DOB,
		student.StudentNumber,
		student.Status,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt))
}

func (r *studentRepository) GetByID(ctx context.Context, schoolID, id string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id=$1 AND school_id=$2`

	student, err := scanStudent(r.pool.QueryRow(ctx, query, id, schoolID))
	if err != nil {
		return nil, mapError(err)
	}
	return student, nil
}

func (r *studentRepository) Update(ctx context.Context, student *domain.Student) error {
	const query = `
        UPDATE students SET school_id=$1, classroom_id=$2, first_name=$3, last_name=$4,
            dob=$5, student_number=$6, status=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`

	return mapError(r.pool.QueryRow(ctx, query,
		student.SchoolID,
		student.ClassroomID,
		student.FirstName,
		student.LastName,
		student.DOB,
		student.StudentNumber,
		student.Status,
		student.ID,
	).Scan(&student.UpdatedAt))
}

func (r *studentRepository) Delete(ctx context.Context, schoolID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id=$1 AND school_id=$2`, id, schoolID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *studentRepository) List(ctx context.Context, schoolID string, opts domain.ListOptions) ([]domain.Student, error) {
	opts = opts.Normalize()
	query := `SELECT ` + studentColumns + ` FROM students
        WHERE school_id=$1 AND ` + studentSearch + `
        ORDER BY created_at DESC, id DESC
        LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, schoolID, opts.Query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	students := make([]domain.Student, 0, opts.Limit)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *student)
	}
	return students, rows.Err()
}

func (r *studentRepository) Count(ctx context.Context, schoolID string, opts domain.ListOptions) (int, error) {
	query := `SELECT COUNT(*) FROM students WHERE school_id=$1 AND ` + studentSearch

	var total int
	if err := r.pool.QueryRow(ctx, query, schoolID, opts.Query).Scan(&total); err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var student domain.Student
	if err := row.Scan(
		&student.ID,
		&student.SchoolID,
		&student.ClassroomID,
		&student.FirstName,
		&student.LastName,
		&student.DOB,
		&student.StudentNumber,
		&student.Status,
		&student.CreatedAt,
		&student.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &student, nil
}
