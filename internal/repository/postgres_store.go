package repository

import "github.com/jackc/pgx/v5/pgxpool"

// NewPostgresStore wires every repository to pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:      NewUserRepository(pool),
		Schools:    NewSchoolRepository(pool),
		Classrooms: NewClassroomRepository(pool),
		Students:   NewStudentRepository(pool),
	}
}
