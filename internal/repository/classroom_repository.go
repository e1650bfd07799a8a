package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/school-service/internal/domain"
)

type classroomRepository struct {
	pool *pgxpool.Pool
}

// NewClassroomRepository returns a Postgres-backed implementation.
func NewClassroomRepository(pool *pgxpool.Pool) ClassroomRepository {
	return &classroomRepository{pool: pool}
}

const classroomColumns = `id, school_id, name, capacity, resources, created_at, updated_at`

func (r *classroomRepository) Create(ctx context.Context, classroom *domain.Classroom) error {
	const query = `
        INSERT INTO classrooms (school_id, name, capacity, resources)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return mapError(r.pool.QueryRow(ctx, query,
		classroom.SchoolID,
		classroom.Name,
		classroom.Capacity,
		nonNil(classroom.Resources),
	).Scan(&classroom.ID, &classroom.CreatedAt, &classroom.UpdatedAt))
}

func (r *classroomRepository) GetByID(ctx context.Context, schoolID, id string) (*domain.Classroom, error) {
	query := `SELECT ` + classroomColumns + ` FROM classrooms WHERE id=$1 AND school_id=$2`

	classroom, err := scanClassroom(r.pool.QueryRow(ctx, query, id, schoolID))
	if err != nil {
		return nil, mapError(err)
	}
	return classroom, nil
}

func (r *classroomRepository) Update(ctx context.Context, classroom *domain.Classroom) error {
	const query = `
        UPDATE classrooms SET name=$1, capacity=$2, resources=$3, updated_at=NOW()
        WHERE id=$4 AND school_id=$5
        RETURNING updated_at`

	return mapError(r.pool.QueryRow(ctx, query,
		classroom.Name,
		classroom.Capacity,
		nonNil(classroom.Resources),
		classroom.ID,
		classroom.SchoolID,
	).Scan(&classroom.UpdatedAt))
}

func (r *classroomRepository) Delete(ctx context.Context, schoolID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM classrooms WHERE id=$1 AND school_id=$2`, id, schoolID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *classroomRepository) List(ctx context.Context, schoolID string, opts domain.ListOptions) ([]domain.Classroom, error) {
	opts = opts.Normalize()
	query := `SELECT ` + classroomColumns + ` FROM classrooms
        WHERE school_id=$1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')
        ORDER BY created_at DESC, id DESC
        LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, schoolID, opts.Query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	classrooms := make([]domain.Classroom, 0, opts.Limit)
	for rows.Next() {
		classroom, err := scanClassroom(rows)
		if err != nil {
			return nil, err
		}
		classrooms = append(classrooms, *classroom)
	}
	return classrooms, rows.Err()
}

func (r *classroomRepository) Count(ctx context.Context, schoolID string, opts domain.ListOptions) (int, error) {
	const query = `
        SELECT COUNT(*) FROM classrooms
        WHERE school_id=$1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')`

	var total int
	if err := r.pool.QueryRow(ctx, query, schoolID, opts.Query).Scan(&total); err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

func scanClassroom(row pgx.Row) (*domain.Classroom, error) {
	var classroom domain.Classroom
	if err := row.Scan(
		&classroom.ID,
		&classroom.SchoolID,
		&classroom.Name,
		&classroom.Capacity,
		&classroom.Resources,
		&classroom.CreatedAt,
		&classroom.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &classroom, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
