package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/persistence"
	"github.com/spec-kit/school-service/internal/repository"
)

// setupPostgres starts a PostgreSQL container with the schema applied.
// Tests are skipped if no container runtime is available.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("school_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))
	// A second run must be a no-op.
	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))
	return pool
}

func TestPostgresStore(t *testing.T) {
	pool := setupPostgres(t)
	runStoreContract(t, repository.NewPostgresStore(pool))
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, repository.NewMemoryStore())
}

// runStoreContract exercises the rules both backends must enforce.
func runStoreContract(t *testing.T, store *repository.Store) {
	ctx := context.Background()

	root := &domain.User{Email: "root@example.com", PasswordHash: "x", Role: domain.RoleSuperadmin}
	require.NoError(t, store.Users.Create(ctx, root))
	assert.NotEmpty(t, root.ID)

	exists, err := store.Users.ExistsByRole(ctx, domain.RoleSuperadmin)
	require.NoError(t, err)
	assert.True(t, exists)

	var dup *repository.DuplicateError
	err = store.Users.Create(ctx, &domain.User{Email: "second@example.com", PasswordHash: "x", Role: domain.RoleSuperadmin})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, repository.ConstraintSingleSuperadmin, dup.Constraint)

	school := &domain.School{Name: "North", CreatedBy: root.ID}
	require.NoError(t, store.Schools.Create(ctx, school))
	other := &domain.School{Name: "South", CreatedBy: root.ID}
	require.NoError(t, store.Schools.Create(ctx, other))

	admin := &domain.User{Email: "admin@example.com", PasswordHash: "x", Role: domain.RoleSchoolAdmin, SchoolID: &school.ID}
	require.NoError(t, store.Users.Create(ctx, admin))
	err = store.Users.Create(ctx, &domain.User{Email: "admin@example.com", PasswordHash: "y", Role: domain.RoleSchoolAdmin, SchoolID: &school.ID})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, repository.ConstraintUserEmail, dup.Constraint)

	found, err := store.Users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, found.SchoolID)
	assert.Equal(t, school.ID, *found.SchoolID)

	room := &domain.Classroom{SchoolID: school.ID, Name: "1A", Capacity: 25, Resources: []string{"projector"}}
	require.NoError(t, store.Classrooms.Create(ctx, room))
	err = store.Classrooms.Create(ctx, &domain.Classroom{SchoolID: school.ID, Name: "1A"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	require.NoError(t, store.Classrooms.Create(ctx, &domain.Classroom{SchoolID: other.ID, Name: "1A"}))

	_, err = store.Classrooms.GetByID(ctx, other.ID, room.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dob := time.Date(2012, 3, 4, 0, 0, 0, 0, time.UTC)
	ada := &domain.Student{
		SchoolID: school.ID, ClassroomID: &room.ID, FirstName: "Ada", LastName: "Lovelace",
		DOB: &dob, StudentNumber: "S-001", Status: domain.StudentStatusEnrolled,
	}
	require.NoError(t, store.Students.Create(ctx, ada))
	require.NoError(t, store.Students.Create(ctx, &domain.Student{
		SchoolID: school.ID, FirstName: "Alan", LastName: "Turing", StudentNumber: "S-002", Status: domain.StudentStatusEnrolled,
	}))
	err = store.Students.Create(ctx, &domain.Student{
		SchoolID: school.ID, FirstName: "Eve", LastName: "X", StudentNumber: "S-001", Status: domain.StudentStatusEnrolled,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	opts := domain.ListOptions{Query: "LOVE"}
	students, err := store.Students.List(ctx, school.ID, opts)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, ada.ID, students[0].ID)
	require.NotNil(t, students[0].DOB)
	assert.Equal(t, "2012-03-04", students[0].DOB.Format("2006-01-02"))

	total, err := store.Students.Count(ctx, school.ID, domain.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	page, err := store.Students.List(ctx, school.ID, domain.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "S-002", page[0].StudentNumber, "newest first")

	// Deleting a classroom unassigns its students.
	require.NoError(t, store.Classrooms.Delete(ctx, school.ID, room.ID))
	got, err := store.Students.GetByID(ctx, school.ID, ada.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ClassroomID)

	// Deleting a school detaches admins and removes its rows.
	require.NoError(t, store.Schools.Delete(ctx, school.ID))
	found, err = store.Users.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Nil(t, found.SchoolID)

	_, err = store.Students.GetByID(ctx, school.ID, ada.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	left, err := store.Classrooms.Count(ctx, school.ID, domain.ListOptions{})
	require.NoError(t, err)
	assert.Zero(t, left)

	assert.True(t, errors.Is(store.Schools.Delete(ctx, school.ID), repository.ErrNotFound))
	exists, err = store.Schools.Exists(ctx, school.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
