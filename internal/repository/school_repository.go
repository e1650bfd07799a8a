package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/school-service/internal/domain"
)

type schoolRepository struct {
	pool *pgxpool.Pool
}

// NewSchoolRepository returns a Postgres-backed implementation.
func NewSchoolRepository(pool *pgxpool.Pool) SchoolRepository {
	return &schoolRepository{pool: pool}
}

const schoolColumns = `id, name, address, phone, created_by, created_at, updated_at`

func (r *schoolRepository) Create(ctx context.Context, school *domain.School) error {
	const query = `
        INSERT INTO schools (name, address, phone, created_by)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return mapError(r.pool.QueryRow(ctx, query,
		school.Name,
		school.Address,
		school.Phone,
		school.CreatedBy,
	).Scan(&school.ID, &school.CreatedAt, &school.UpdatedAt))
}

func (r *schoolRepository) GetByID(ctx context.Context, id string) (*domain.School, error) {
	query := `SELECT ` + schoolColumns + ` FROM schools WHERE id=$1`

	school, err := scanSchool(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return school, nil
}

func (r *schoolRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM schools WHERE id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		if err = mapError(err); err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *schoolRepository) Update(ctx context.Context, school *domain.School) error {
	const query = `
        UPDATE schools SET name=$1, address=$2, phone=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	return mapError(r.pool.QueryRow(ctx, query,
		school.Name,
		school.Address,
		school.Phone,
		school.ID,
	).Scan(&school.UpdatedAt))
}

func (r *schoolRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM schools WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *schoolRepository) List(ctx context.Context, opts domain.ListOptions) ([]domain.School, error) {
	opts = opts.Normalize()
	query := `SELECT ` + schoolColumns + ` FROM schools
        WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, opts.Query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	schools := make([]domain.School, 0, opts.Limit)
	for rows.Next() {
		school, err := scanSchool(rows)
		if err != nil {
			return nil, err
		}
		schools = append(schools, *school)
	}
	return schools, rows.Err()
}

func (r *schoolRepository) Count(ctx context.Context, opts domain.ListOptions) (int, error) {
	const query = `SELECT COUNT(*) FROM schools WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := r.pool.QueryRow(ctx, query, opts.Query).Scan(&total); err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

func scanSchool(row pgx.Row) (*domain.School, error) {
	var school domain.School
	if err := row.Scan(
		&school.ID,
		&school.Name,
		&school.Address,
		&school.Phone,
		&school.CreatedBy,
		&school.CreatedAt,
		&school.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &school, nil
}
