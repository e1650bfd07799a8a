package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/school-service/internal/domain"
)

// memoryDB keeps every table behind one lock so cross-table rules (cascades,
// per-school uniqueness) apply atomically. Each order slice holds IDs in
// insertion order.
type memoryDB struct {
	mu  sync.RWMutex
	now func() time.Time

	users          map[string]domain.User
	schools        map[string]domain.School
	schoolOrder    []string
	classrooms     map[string]domain.Classroom
	classroomOrder []string
	students       map[string]domain.Student
	studentOrder   []string
}

// NewMemoryStore returns a process-local Store that enforces the same
// uniqueness and cascade rules as the Postgres schema.
func NewMemoryStore() *Store {
	db := &memoryDB{
		now:        time.Now,
		users:      make(map[string]domain.User),
		schools:    make(map[string]domain.School),
		classrooms: make(map[string]domain.Classroom),
		students:   make(map[string]domain.Student),
	}
	return &Store{
		Users:      memoryUsers{db},
		Schools:    memorySchools{db},
		Classrooms: memoryClassrooms{db},
		Students:   memoryStudents{db},
	}
}

func newID() string { return uuid.NewString() }

func removeID(order []string, id string) []string {
	if i := slices.Index(order, id); i >= 0 {
		return slices.Delete(order, i, i+1)
	}
	return order
}

// page walks order newest first, keeps entries accepted by match and
// returns the requested window together with the total match count.
func page[T any](order []string, rows map[string]T, opts domain.ListOptions, match func(T) bool) ([]T, int) {
	opts = opts.Normalize()
	items := make([]T, 0)
	total := 0
	for i := len(order) - 1; i >= 0; i-- {
		row := rows[order[i]]
		if !match(row) {
			continue
		}
		if total >= opts.Offset && len(items) < opts.Limit {
			items = append(items, row)
		}
		total++
	}
	return items, total
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

type memoryUsers struct{ db *memoryDB }

func (r memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.users {
		if existing.Email == user.Email {
			return &DuplicateError{Constraint: ConstraintUserEmail}
		}
		if user.Role == domain.RoleSuperadmin && existing.Role == domain.RoleSuperadmin {
			return &DuplicateError{Constraint: ConstraintSingleSuperadmin}
		}
	}
	if user.SchoolID != nil {
		if _, ok := r.db.schools[*user.SchoolID]; !ok {
			return ErrNotFound
		}
	}

	now := r.db.now()
	user.ID = newID()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	stored.SchoolID = clonePtr(user.SchoolID)
	r.db.users[user.ID] = stored
	return nil
}

func (r memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	user, ok := r.db.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user.SchoolID = clonePtr(user.SchoolID)
	return &user, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if user.Email == email {
			user.SchoolID = clonePtr(user.SchoolID)
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryUsers) ExistsByRole(_ context.Context, role domain.Role) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if user.Role == role {
			return true, nil
		}
	}
	return false, nil
}

type memorySchools struct{ db *memoryDB }

func (r memorySchools) Create(_ context.Context, school *domain.School) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	school.ID = newID()
	school.CreatedAt, school.UpdatedAt = now, now
	r.db.schools[school.ID] = *school
	r.db.schoolOrder = append(r.db.schoolOrder, school.ID)
	return nil
}

func (r memorySchools) GetByID(_ context.Context, id string) (*domain.School, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	school, ok := r.db.schools[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &school, nil
}

func (r memorySchools) Exists(_ context.Context, id string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ok := r.db.schools[id]
	return ok, nil
}

func (r memorySchools) Update(_ context.Context, school *domain.School) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.schools[school.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = school.Name
	existing.Address = school.Address
	existing.Phone = school.Phone
	existing.UpdatedAt = r.db.now()
	r.db.schools[school.ID] = existing
	*school = existing
	return nil
}

func (r memorySchools) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.schools[id]; !ok {
		return ErrNotFound
	}
	delete(r.db.schools, id)
	r.db.schoolOrder = removeID(r.db.schoolOrder, id)

	for userID, user := range r.db.users {
		if user.SchoolID != nil && *user.SchoolID == id {
			user.SchoolID = nil
			r.db.users[userID] = user
		}
	}
	for roomID, room := range r.db.classrooms {
		if room.SchoolID == id {
			delete(r.db.classrooms, roomID)
			r.db.classroomOrder = removeID(r.db.classroomOrder, roomID)
		}
	}
	for studentID, student := range r.db.students {
		if student.SchoolID == id {
			delete(r.db.students, studentID)
			r.db.studentOrder = removeID(r.db.studentOrder, studentID)
		}
	}
	return nil
}

func (r memorySchools) List(_ context.Context, opts domain.ListOptions) ([]domain.School, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items, _ := page(r.db.schoolOrder, r.db.schools, opts, schoolMatcher(opts.Query))
	return items, nil
}

func (r memorySchools) Count(_ context.Context, opts domain.ListOptions) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, total := page(r.db.schoolOrder, r.db.schools, opts, schoolMatcher(opts.Query))
	return total, nil
}

func schoolMatcher(q string) func(domain.School) bool {
	return func(s domain.School) bool { return q == "" || containsFold(s.Name, q) }
}

type memoryClassrooms struct{ db *memoryDB }

// nameTaken reports whether another classroom in schoolID already uses name.
func (r memoryClassrooms) nameTaken(schoolID, name, exceptID string) bool {
	for id, room := range r.db.classrooms {
		if id != exceptID && room.SchoolID == schoolID && room.Name == name {
			return true
		}
	}
	return false
}

func (r memoryClassrooms) Create(_ context.Context, classroom *domain.Classroom) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.schools[classroom.SchoolID]; !ok {
		return ErrNotFound
	}
	if r.nameTaken(classroom.SchoolID, classroom.Name, "") {
		return &DuplicateError{Constraint: ConstraintClassroomName}
	}

	now := r.db.now()
	classroom.ID = newID()
	classroom.CreatedAt, classroom.UpdatedAt = now, now
	classroom.Resources = nonNil(slices.Clone(classroom.Resources))
	r.db.classrooms[classroom.ID] = cloneClassroom(*classroom)
	r.db.classroomOrder = append(r.db.classroomOrder, classroom.ID)
	return nil
}

func (r memoryClassrooms) GetByID(_ context.Context, schoolID, id string) (*domain.Classroom, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	room, ok := r.db.classrooms[id]
	if !ok || room.SchoolID != schoolID {
		return nil, ErrNotFound
	}
	room = cloneClassroom(room)
	return &room, nil
}

func (r memoryClassrooms) Update(_ context.Context, classroom *domain.Classroom) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.classrooms[classroom.ID]
	if !ok || existing.SchoolID != classroom.SchoolID {
		return ErrNotFound
	}
	if r.nameTaken(classroom.SchoolID, classroom.Name, classroom.ID) {
		return &DuplicateError{Constraint: ConstraintClassroomName}
	}
	existing.Name = classroom.Name
	existing.Capacity = classroom.Capacity
	existing.Resources = nonNil(slices.Clone(classroom.Resources))
	existing.UpdatedAt = r.db.now()
	r.db.classrooms[classroom.ID] = existing
	*classroom = cloneClassroom(existing)
	return nil
}

func (r memoryClassrooms) Delete(_ context.Context, schoolID, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	room, ok := r.db.classrooms[id]
	if !ok || room.SchoolID != schoolID {
		return ErrNotFound
	}
	delete(r.db.classrooms, id)
	r.db.classroomOrder = removeID(r.db.classroomOrder, id)

	for studentID, student := range r.db.students {
		if student.ClassroomID != nil && *student.ClassroomID == id {
			student.ClassroomID = nil
			r.db.students[studentID] = student
		}
	}
	return nil
}

func (r memoryClassrooms) List(_ context.Context, schoolID string, opts domain.ListOptions) ([]domain.Classroom, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items, _ := page(r.db.classroomOrder, r.db.classrooms, opts, classroomMatcher(schoolID, opts.Query))
	for i := range items {
		items[i] = cloneClassroom(items[i])
	}
	return items, nil
}

func (r memoryClassrooms) Count(_ context.Context, schoolID string, opts domain.ListOptions) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, total := page(r.db.classroomOrder, r.db.classrooms, opts, classroomMatcher(schoolID, opts.Query))
	return total, nil
}

func classroomMatcher(schoolID, q string) func(domain.Classroom) bool {
	return func(c domain.Classroom) bool {
		return c.SchoolID == schoolID && (q == "" || containsFold(c.Name, q))
	}
}

type memoryStudents struct{ db *memoryDB }

func (r memoryStudents) numberTaken(schoolID, number, exceptID string) bool {
	for id, student := range r.db.students {
		if id != exceptID && student.SchoolID == schoolID && student.StudentNumber == number {
			return true
		}
	}
	return false
}

// references checks the foreign keys of student.
func (r memoryStudents) references(student *domain.Student) error {
	if _, ok := r.db.schools[student.SchoolID]; !ok {
		return ErrNotFound
	}
	if student.ClassroomID != nil {
		if _, ok := r.db.classrooms[*student.ClassroomID]; !ok {
			return ErrNotFound
		}
	}
	return nil
}

func (r memoryStudents) Create(_ context.Context, student *domain.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.references(student); err != nil {
		return err
	}
	if r.numberTaken(student.SchoolID, student.StudentNumber, "") {
		return &DuplicateError{Constraint: ConstraintStudentNumber}
	}

	now := r.db.now()
	student.ID = newID()
	student.CreatedAt, student.UpdatedAt = now, now
	r.db.students[student.ID] = cloneStudent(*student)
	r.db.studentOrder = append(r.db.studentOrder, student.ID)
	return nil
}

func (r memoryStudents) GetByID(_ context.Context, schoolID, id string) (*domain.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	student, ok := r.db.students[id]
	if !ok || student.SchoolID != schoolID {
		return nil, ErrNotFound
	}
	student = cloneStudent(student)
	return &student, nil
}

func (r memoryStudents) Update(_ context.Context, student *domain.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.students[student.ID]
	if !ok {
		return ErrNotFound
	}
	if err := r.references(student); err != nil {
		return err
	}
	if r.numberTaken(student.SchoolID, student.StudentNumber, student.ID) {
		return &DuplicateError{Constraint: ConstraintStudentNumber}
	}
	updated := cloneStudent(*student)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.db.now()
	r.db.students[student.ID] = updated
	*student = cloneStudent(updated)
	return nil
}

func (r memoryStudents) Delete(_ context.Context, schoolID, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	student, ok := r.db.students[id]
	if !ok || student.SchoolID != schoolID {
		return ErrNotFound
	}
	delete(r.db.students, id)
	r.db.studentOrder = removeID(r.db.studentOrder, id)
	return nil
}

func (r memoryStudents) List(_ context.Context, schoolID string, opts domain.ListOptions) ([]domain.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items, _ := page(r.db.studentOrder, r.db.students, opts, studentMatcher(schoolID, opts.Query))
	for i := range items {
		items[i] = cloneStudent(items[i])
	}
	return items, nil
}

func (r memoryStudents) Count(_ context.Context, schoolID string, opts domain.ListOptions) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, total := page(r.db.studentOrder, r.db.students, opts, studentMatcher(schoolID, opts.Query))
	return total, nil
}

func studentMatcher(schoolID, q string) func(domain.Student) bool {
	return func(s domain.Student) bool {
		if s.SchoolID != schoolID {
			return false
		}
		return q == "" ||
			containsFold(s.FirstName, q) ||
			containsFold(s.LastName, q) ||
			containsFold(s.StudentNumber, q)
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneClassroom(c domain.Classroom) domain.Classroom {
	c.Resources = slices.Clone(c.Resources)
	return c
}

func cloneStudent(s domain.Student) domain.Student {
	s.ClassroomID = clonePtr(s.ClassroomID)
	s.DOB = clonePtr(s.DOB)
	return s
}
