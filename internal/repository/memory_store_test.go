package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/repository"
)

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	school := &domain.School{Name: "North"}
	require.NoError(t, store.Schools.Create(ctx, school))
	room := &domain.Classroom{SchoolID: school.ID, Name: "1A", Resources: []string{"board"}}
	require.NoError(t, store.Classrooms.Create(ctx, room))

	got, err := store.Classrooms.GetByID(ctx, school.ID, room.ID)
	require.NoError(t, err)
	got.Resources[0] = "changed"

	again, err := store.Classrooms.GetByID(ctx, school.ID, room.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"board"}, again.Resources)
}

func TestMemoryStore_ForeignKeys(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	missing := "00000000-0000-0000-0000-000000000000"
	err := store.Users.Create(ctx, &domain.User{Email: "a@example.com", Role: domain.RoleSchoolAdmin, SchoolID: &missing})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Classrooms.Create(ctx, &domain.Classroom{SchoolID: missing, Name: "1A"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryStore_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Users.Create(ctx, &domain.User{Email: "root@example.com", Role: domain.RoleSuperadmin})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	}
	assert.Equal(t, 1, created)
}
