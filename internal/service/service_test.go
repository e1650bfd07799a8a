package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/school-service/internal/auth"
	"github.com/spec-kit/school-service/internal/domain"
	"github.com/spec-kit/school-service/internal/events"
	"github.com/spec-kit/school-service/internal/repository"
	apperrors "github.com/spec-kit/school-service/pkg/util"
)

type fixture struct {
	store      *repository.Store
	tokens     *auth.TokenCodec
	dispatcher events.Dispatcher
	auth       *AuthService
	schools    *SchoolService
	classrooms *ClassroomService
	students   *StudentService
	published  []events.EventType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      repository.NewMemoryStore(),
		tokens:     auth.NewTokenCodec("test-secret", 60),
		dispatcher: events.NewInMemoryDispatcher(nil),
	}
	for _, et := range AuditedEvents {
		f.dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			f.published = append(f.published, e.Type)
			return nil
		})
	}
	f.auth = NewAuthService(AuthDependencies{
		Users:      f.store.Users,
		Schools:    f.store.Schools,
		Tokens:     f.tokens,
		BcryptCost: bcrypt.MinCost,
		Dispatcher: f.dispatcher,
	})
	f.schools = NewSchoolService(f.store.Schools, f.dispatcher)
	f.classrooms = NewClassroomService(f.store.Classrooms, f.store.Schools)
	f.students = NewStudentService(StudentDependencies{
		Students:   f.store.Students,
		Classrooms: f.store.Classrooms,
		Schools:    f.store.Schools,
		Dispatcher: f.dispatcher,
	})
	return f
}

var superadmin = domain.NewPrincipal("root", domain.RoleSuperadmin, "")

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperrors.ToDomainError(err).Code)
}

func TestAuthService_RegisterSuperadminOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.RegisterSuperadmin(ctx, "  Root@Example.COM ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", res.User.Email)
	assert.Equal(t, domain.RoleSuperadmin, res.User.Role)

	claims, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleSuperadmin, claims.Role)

	_, err = f.auth.RegisterSuperadmin(ctx, "other@example.com", "password123")
	requireCode(t, err, CodeSuperadminExists)
	assert.Equal(t, []events.EventType{events.EventSuperadminRegistered}, f.published)
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.RegisterSuperadmin(ctx, "root@example.com", "password123")
	require.NoError(t, err)

	res, err := f.auth.Login(ctx, "ROOT@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = f.auth.Login(ctx, "root@example.com", "wrong-password")
	requireCode(t, err, CodeInvalidCredentials)
	_, err = f.auth.Login(ctx, "nobody@example.com", "password123")
	requireCode(t, err, CodeInvalidCredentials)
}

func TestAuthService_CreateSchoolAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.CreateSchoolAdmin(ctx, superadmin, "missing", "a@example.com", "password123")
	requireCode(t, err, apperrors.CodeNotFound)

	school, err := f.schools.Create(ctx, superadmin, SchoolInput{Name: "North"})
	require.NoError(t, err)

	admin, err := f.auth.CreateSchoolAdmin(ctx, superadmin, school.ID, "a@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, admin.SchoolID)
	assert.Equal(t, school.ID, *admin.SchoolID)

	_, err = f.auth.CreateSchoolAdmin(ctx, superadmin, school.ID, "A@Example.com", "password123")
	requireCode(t, err, CodeEmailExists)

	res, err := f.auth.Login(ctx, "a@example.com", "password123")
	require.NoError(t, err)
	claims, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, school.ID, claims.SchoolID)
}

func TestSchoolService_ListPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.schools.Create(ctx, superadmin, SchoolInput{Name: fmt.Sprintf("School %d", i)})
		require.NoError(t, err)
	}

	page, err := f.schools.List(ctx, domain.ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "School 3", page.Items[0].Name)

	page, err = f.schools.List(ctx, domain.ListOptions{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPageLimit, page.Limit)
	assert.Len(t, page.Items, 5)
}

func TestSchoolService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	school, err := f.schools.Create(ctx, superadmin, SchoolInput{Name: "North"})
	require.NoError(t, err)
	admin, err := f.auth.CreateSchoolAdmin(ctx, superadmin, school.ID, "a@example.com", "password123")
	require.NoError(t, err)
	_, err = f.classrooms.Create(ctx, school.ID, ClassroomInput{Name: "1A"})
	require.NoError(t, err)
	_, err = f.students.Create(ctx, school.ID, StudentInput{FirstName: "Ada", LastName: "L", StudentNumber: "S1"})
	require.NoError(t, err)

	require.NoError(t, f.schools.Delete(ctx, superadmin, school.ID))

	stored, err := f.store.Users.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.SchoolID)

	_, err = f.classrooms.List(ctx, school.ID, domain.ListOptions{})
	requireCode(t, err, apperrors.CodeNotFound)
	assert.Contains(t, f.published, events.EventSchoolDeleted)

	requireCode(t, f.schools.Delete(ctx, superadmin, school.ID), apperrors.CodeNotFound)
}

func TestClassroomService_DuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	north, err := f.schools.Create(ctx, superadmin, SchoolInput{Name: "North"})
	require.NoError(t, err)
	south, err := f.schools.Create(ctx, superadmin, SchoolInput{Name: "South"})
	require.NoError(t, err)

	_, err = f.classrooms.Create(ctx, north.ID, ClassroomInput{Name: "1A", Capacity: 30, Resources: []string{"projector"}})
	require.NoError(t, err)
	_, err = f.classrooms.Create(ctx, north.ID, ClassroomInput{Name: "1A"})
	requireCode(t, err, CodeDuplicate)

	// Names are unique per school only.
	_, err = f.classrooms.Create(ctx, south.ID, ClassroomInput{Name: "1A"})
	require.NoError(t, err)
}

func TestStudentService_ClassroomMustBelongToSchool(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	north, err := f.schools.Create(ctx, superadmin, SchoolInput{Name: "North"})
	require.NoError(t, err)
	south, err := f.schools.Create(ctx, superadmin, SchoolInput{Name: "South"})
	require.NoError(t, err)
	southRoom, err := f.classrooms.Create(ctx, south.ID, ClassroomInput{Name: "2B"})
	require.NoError(t, err)

	_, err = f.students.Create(ctx, north.ID, StudentInput{
		FirstName: "Ada", LastName: "L", StudentNumber: "S1", ClassroomID: &southRoom.ID,
	})
	requireCode(t, err, apperrors.CodeNotFound)

	student, err := f.students.Create(ctx, north.ID, StudentInput{FirstName: "Ada", LastName: "L", StudentNumber: "S1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StudentStatusEnrolled, student.Status)

	_, err = f.students.Create(ctx, north.ID, StudentInput{FirstName: "Bob", LastName: "M", StudentNumber: "S1"})
	requireCode(t, err, CodeDuplicate)
}

func TestStudentService_SearchAndEnroll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	school, err := f.schools.Create(ctx, superadmin, SchoolInput{Name: "North"})
	require.NoError(t, err)
	room, err := f.classrooms.Create(ctx, school.ID, ClassroomInput{Name: "1A"})
	require.NoError(t, err)

	inactive := domain.StudentStatusInactive
	ada, err := f.students.Create(ctx, school.ID, StudentInput{FirstName: "Ada", LastName: "Lovelace", StudentNumber: "S1", Status: inactive})
	require.NoError(t, err)
	_, err = f.students.Create(ctx, school.ID, StudentInput{FirstName: "Alan", LastName: "Turing", StudentNumber: "S2"})
	require.NoError(t, err)

	page, err := f.students.List(ctx, school.ID, domain.ListOptions{Query: "love"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, ada.ID, page.Items[0].ID)

	enrolled, err := f.students.Enroll(ctx, school.ID, ada.ID, &room.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StudentStatusEnrolled, enrolled.Status)
	require.NotNil(t, enrolled.ClassroomID)
	assert.Equal(t, room.ID, *enrolled.ClassroomID)

	// Removing the classroom unassigns the student.
	require.NoError(t, f.classrooms.Delete(ctx, school.ID, room.ID))
	got, err := f.students.Get(ctx, school.ID, ada.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ClassroomID)
}

func TestStudentService_Transfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	north, err := f.schools.Create(ctx, superadmin, SchoolInput{Name: "North"})
	require.NoError(t, err)
	south, err := f.schools.Create(ctx, superadmin, SchoolInput{Name: "South"})
	require.NoError(t, err)
	southRoom, err := f.classrooms.Create(ctx, south.ID, ClassroomInput{Name: "2B"})
	require.NoError(t, err)
	student, err := f.students.Create(ctx, north.ID, StudentInput{FirstName: "Ada", LastName: "L", StudentNumber: "S1"})
	require.NoError(t, err)

	_, err = f.students.Transfer(ctx, superadmin, north.ID, student.ID, "missing", nil)
	requireCode(t, err, apperrors.CodeNotFound)

	moved, err := f.students.Transfer(ctx, superadmin, north.ID, student.ID, south.ID, &southRoom.ID)
	require.NoError(t, err)
	assert.Equal(t, south.ID, moved.SchoolID)
	assert.Equal(t, domain.StudentStatusTransferred, moved.Status)

	_, err = f.students.Get(ctx, north.ID, student.ID)
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = f.students.Get(ctx, south.ID, student.ID)
	require.NoError(t, err)
	assert.Contains(t, f.published, events.EventStudentTransferred)
}
