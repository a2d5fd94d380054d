package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/repository"
	"github.com/drcvmx/school-system/internal/scope"
)

// 内存版 Repository 实现，供 Service 层测试使用。
// 各 mock 暴露 xxxErr 注入字段，用于模拟多步流程中的局部失败。

func newTestRepo() (*repository.Repository, *mockStore) {
	store := &mockStore{
		accounts:    make(map[string]*model.Account),
		users:       make(map[string]*model.User),
		students:    make(map[string]*model.Student),
		teachers:    make(map[string]*model.Teacher),
		subjects:    make(map[string]*model.Subject),
		groups:      make(map[string]*model.Group),
		cycles:      make(map[string]*model.SchoolCycle),
		periods:     make(map[string]*model.EvaluationPeriod),
		assignments: make(map[string]*model.Assignment),
		grades:      make(map[string]*model.Grade),
	}
	repo := &repository.Repository{
		Account:    &mockAccountRepo{store: store},
		User:       &mockUserRepo{store: store},
		Student:    &mockStudentRepo{store: store},
		Teacher:    &mockTeacherRepo{store: store},
		Subject:    &mockSubjectRepo{store: store},
		Group:      &mockGroupRepo{store: store},
		Cycle:      &mockCycleRepo{store: store},
		Period:     &mockPeriodRepo{store: store},
		Assignment: &mockAssignmentRepo{store: store},
		Grade:      &mockGradeRepo{store: store},
	}
	return repo, store
}

type mockStore struct {
	accounts    map[string]*model.Account
	users       map[string]*model.User
	students    map[string]*model.Student
	teachers    map[string]*model.Teacher
	subjects    map[string]*model.Subject
	groups      map[string]*model.Group
	cycles      map[string]*model.SchoolCycle
	periods     map[string]*model.EvaluationPeriod
	assignments map[string]*model.Assignment
	grades      map[string]*model.Grade

	userCreateErr    error
	userDeleteErr    error
	studentCreateErr error
	studentDeleteErr error
	teacherCreateErr error
	teacherDeleteErr error
}

// ── Account ──

type mockAccountRepo struct{ store *mockStore }

func (m *mockAccountRepo) Create(_ context.Context, account *model.Account) error {
	if account.AccountID == "" {
		account.AccountID = uuid.NewString()
	}
	m.store.accounts[account.AccountID] = account
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	if account, ok := m.store.accounts[id]; ok {
		return account, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, account := range m.store.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	account, ok := m.store.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	account.PasswordHash = passwordHash
	return nil
}

// ── User ──

type mockUserRepo struct{ store *mockStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.store.userCreateErr != nil {
		return m.store.userCreateErr
	}
	m.store.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if user, ok := m.store.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if m.store.userDeleteErr != nil {
		return m.store.userDeleteErr
	}
	delete(m.store.users, id)
	return nil
}

// ── Student ──

type mockStudentRepo struct{ store *mockStore }

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if m.store.studentCreateErr != nil {
		return m.store.studentCreateErr
	}
	if student.StudentID == "" {
		student.StudentID = uuid.NewString()
	}
	m.store.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if student, ok := m.store.students[id]; ok {
		return student, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUserID(_ context.Context, userID string) (*model.Student, error) {
	for _, student := range m.store.students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.store.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	if m.store.studentDeleteErr != nil {
		return m.store.studentDeleteErr
	}
	delete(m.store.students, id)
	return nil
}

func (m *mockStudentRepo) List(_ context.Context, f scope.Filter, _ *repository.StudentListFilters, offset, limit int) ([]model.Student, int64, error) {
	var out []model.Student
	for _, id := range sortedKeys(m.store.students) {
		if f.AllowsID(id) {
			out = append(out, *m.store.students[id])
		}
	}
	total := int64(len(out))
	out = page(out, offset, limit)
	return out, total, nil
}

func (m *mockStudentRepo) ListIDsByGroups(_ context.Context, groupIDs []string) ([]string, error) {
	allowed := make(map[string]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		allowed[id] = struct{}{}
	}
	var ids []string
	for _, id := range sortedKeys(m.store.students) {
		student := m.store.students[id]
		if student.GroupID == nil {
			continue
		}
		if _, ok := allowed[*student.GroupID]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockStudentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.store.students)), nil
}

// ── Teacher ──

type mockTeacherRepo struct{ store *mockStore }

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	if m.store.teacherCreateErr != nil {
		return m.store.teacherCreateErr
	}
	if teacher.TeacherID == "" {
		teacher.TeacherID = uuid.NewString()
	}
	m.store.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	if teacher, ok := m.store.teachers[id]; ok {
		return teacher, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByUserID(_ context.Context, userID string) (*model.Teacher, error) {
	for _, teacher := range m.store.teachers {
		if teacher.UserID == userID {
			return teacher, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *model.Teacher) error {
	m.store.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id string) error {
	if m.store.teacherDeleteErr != nil {
		return m.store.teacherDeleteErr
	}
	delete(m.store.teachers, id)
	return nil
}

func (m *mockTeacherRepo) List(_ context.Context, f scope.Filter, _ string, offset, limit int) ([]model.Teacher, int64, error) {
	var out []model.Teacher
	for _, id := range sortedKeys(m.store.teachers) {
		if f.AllowsID(id) {
			out = append(out, *m.store.teachers[id])
		}
	}
	total := int64(len(out))
	out = page(out, offset, limit)
	return out, total, nil
}

func (m *mockTeacherRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.store.teachers)), nil
}

// ── Subject ──

type mockSubjectRepo struct{ store *mockStore }

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	if subject.SubjectID == "" {
		subject.SubjectID = uuid.NewString()
	}
	m.store.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if subject, ok := m.store.subjects[id]; ok {
		return subject, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) Update(_ context.Context, subject *model.Subject) error {
	m.store.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string) error {
	delete(m.store.subjects, id)
	return nil
}

func (m *mockSubjectRepo) List(_ context.Context, f scope.Filter) ([]model.Subject, error) {
	var out []model.Subject
	for _, id := range sortedKeys(m.store.subjects) {
		if f.AllowsID(id) {
			out = append(out, *m.store.subjects[id])
		}
	}
	return out, nil
}

func (m *mockSubjectRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.store.subjects)), nil
}

// ── Group ──

type mockGroupRepo struct{ store *mockStore }

func (m *mockGroupRepo) Create(_ context.Context, group *model.Group) error {
	if group.GroupID == "" {
		group.GroupID = uuid.NewString()
	}
	m.store.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.Group, error) {
	if group, ok := m.store.groups[id]; ok {
		return group, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) Update(_ context.Context, group *model.Group) error {
	m.store.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id string) error {
	delete(m.store.groups, id)
	return nil
}

func (m *mockGroupRepo) List(_ context.Context, f scope.Filter, _ string) ([]model.Group, error) {
	var out []model.Group
	for _, id := range sortedKeys(m.store.groups) {
		if f.AllowsID(id) {
			out = append(out, *m.store.groups[id])
		}
	}
	return out, nil
}

func (m *mockGroupRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.store.groups)), nil
}

// ── Cycle ──

type mockCycleRepo struct{ store *mockStore }

func (m *mockCycleRepo) Create(_ context.Context, cycle *model.SchoolCycle) error {
	if cycle.SchoolCycleID == "" {
		cycle.SchoolCycleID = uuid.NewString()
	}
	m.store.cycles[cycle.SchoolCycleID] = cycle
	return nil
}

func (m *mockCycleRepo) GetByID(_ context.Context, id string) (*model.SchoolCycle, error) {
	if cycle, ok := m.store.cycles[id]; ok {
		return cycle, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) GetActive(_ context.Context) (*model.SchoolCycle, error) {
	for _, cycle := range m.store.cycles {
		if cycle.Active {
			return cycle, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) Update(_ context.Context, cycle *model.SchoolCycle) error {
	m.store.cycles[cycle.SchoolCycleID] = cycle
	return nil
}

func (m *mockCycleRepo) Delete(_ context.Context, id string) error {
	delete(m.store.cycles, id)
	return nil
}

func (m *mockCycleRepo) List(_ context.Context) ([]model.SchoolCycle, error) {
	var out []model.SchoolCycle
	for _, id := range sortedKeys(m.store.cycles) {
		out = append(out, *m.store.cycles[id])
	}
	return out, nil
}

func (m *mockCycleRepo) ClearActive(_ context.Context) error {
	for _, cycle := range m.store.cycles {
		cycle.Active = false
	}
	return nil
}

// ── Period ──

type mockPeriodRepo struct{ store *mockStore }

func (m *mockPeriodRepo) Create(_ context.Context, period *model.EvaluationPeriod) error {
	if period.PeriodID == "" {
		period.PeriodID = uuid.NewString()
	}
	m.store.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.EvaluationPeriod, error) {
	if period, ok := m.store.periods[id]; ok {
		return period, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) Update(_ context.Context, period *model.EvaluationPeriod) error {
	m.store.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) Delete(_ context.Context, id string) error {
	delete(m.store.periods, id)
	return nil
}

func (m *mockPeriodRepo) List(_ context.Context, cycleID string) ([]model.EvaluationPeriod, error) {
	var out []model.EvaluationPeriod
	for _, id := range sortedKeys(m.store.periods) {
		period := m.store.periods[id]
		if cycleID == "" || period.SchoolCycleID == cycleID {
			out = append(out, *period)
		}
	}
	return out, nil
}

// ── Assignment ──

type mockAssignmentRepo struct{ store *mockStore }

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		assignment.AssignmentID = uuid.NewString()
	}
	m.store.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if assignment, ok := m.store.assignments[id]; ok {
		return assignment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.store.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) List(_ context.Context, teacherID, groupID, cycleID string) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, id := range sortedKeys(m.store.assignments) {
		a := m.store.assignments[id]
		if teacherID != "" && a.TeacherID != teacherID {
			continue
		}
		if groupID != "" && a.GroupID != groupID {
			continue
		}
		if cycleID != "" && a.SchoolCycleID != cycleID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAssignmentRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.Assignment, error) {
	return m.List(ctx, teacherID, "", "")
}

func (m *mockAssignmentRepo) ListByGroup(ctx context.Context, groupID string) ([]model.Assignment, error) {
	return m.List(ctx, "", groupID, "")
}

// ── Grade ──

type mockGradeRepo struct{ store *mockStore }

func (m *mockGradeRepo) Create(_ context.Context, grade *model.Grade) error {
	if grade.GradeID == "" {
		grade.GradeID = uuid.NewString()
	}
	m.store.grades[grade.GradeID] = grade
	return nil
}

func (m *mockGradeRepo) GetByID(_ context.Context, id string) (*model.Grade, error) {
	if grade, ok := m.store.grades[id]; ok {
		return grade, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) Update(_ context.Context, grade *model.Grade) error {
	m.store.grades[grade.GradeID] = grade
	return nil
}

func (m *mockGradeRepo) Delete(_ context.Context, id string) error {
	delete(m.store.grades, id)
	return nil
}

func (m *mockGradeRepo) GetExisting(_ context.Context, studentID, assignmentID, periodID string) (*model.Grade, error) {
	for _, grade := range m.store.grades {
		if grade.StudentID == studentID && grade.AssignmentID == assignmentID && grade.PeriodID == periodID {
			return grade, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) ListRows(_ context.Context, f scope.Filter, filters repository.GradeRowFilters, offset, limit int) ([]model.StudentGradeRow, int64, error) {
	rows := m.rows(f)
	if filters.StudentID != "" {
		rows = filterRows(rows, func(r model.StudentGradeRow) bool { return r.StudentID == filters.StudentID })
	}
	if filters.PeriodID != "" {
		rows = filterRows(rows, func(r model.StudentGradeRow) bool { return r.PeriodID == filters.PeriodID })
	}
	total := int64(len(rows))
	rows = page(rows, offset, limit)
	return rows, total, nil
}

func (m *mockGradeRepo) ListReportRows(_ context.Context, f scope.Filter, _, _ string) ([]model.ReportCardRow, error) {
	var out []model.ReportCardRow
	for _, id := range sortedKeys(m.store.grades) {
		grade := m.store.grades[id]
		if !f.AllowsID(grade.StudentID) {
			continue
		}
		assignment := m.store.assignments[grade.AssignmentID]
		if assignment == nil {
			continue
		}
		value := grade.Value
		out = append(out, model.ReportCardRow{
			StudentID:      grade.StudentID,
			SubjectID:      assignment.SubjectID,
			SubjectAverage: &value,
		})
	}
	return out, nil
}

func (m *mockGradeRepo) RecentRows(_ context.Context, f scope.Filter, limit int) ([]model.StudentGradeRow, error) {
	rows := m.rows(f)
	return page(rows, 0, limit), nil
}

func (m *mockGradeRepo) SubjectAverage(_ context.Context, studentID, subjectID, _ string) (*float64, error) {
	var values []float64
	for _, grade := range m.store.grades {
		assignment := m.store.assignments[grade.AssignmentID]
		if assignment == nil || grade.StudentID != studentID || assignment.SubjectID != subjectID {
			continue
		}
		values = append(values, grade.Value)
	}
	return mean(values), nil
}

func (m *mockGradeRepo) OverallAverage(_ context.Context, studentID, _ string) (*float64, error) {
	bySubject := make(map[string][]float64)
	for _, grade := range m.store.grades {
		assignment := m.store.assignments[grade.AssignmentID]
		if assignment == nil || grade.StudentID != studentID {
			continue
		}
		bySubject[assignment.SubjectID] = append(bySubject[assignment.SubjectID], grade.Value)
	}
	var subjectAvgs []float64
	for _, values := range bySubject {
		if avg := mean(values); avg != nil {
			subjectAvgs = append(subjectAvgs, *avg)
		}
	}
	return mean(subjectAvgs), nil
}

func (m *mockGradeRepo) Count(_ context.Context, f scope.Filter) (int64, error) {
	return int64(len(m.rows(f))), nil
}

// rows 按谓词过滤成绩并投影为视图行；谓词列决定匹配字段
func (m *mockGradeRepo) rows(f scope.Filter) []model.StudentGradeRow {
	var out []model.StudentGradeRow
	for _, id := range sortedKeys(m.store.grades) {
		grade := m.store.grades[id]
		matchID := grade.StudentID
		if f.Column() == "assignment_id" {
			matchID = grade.AssignmentID
		}
		if !f.AllowsID(matchID) {
			continue
		}
		out = append(out, model.StudentGradeRow{
			ID:           grade.GradeID,
			StudentID:    grade.StudentID,
			AssignmentID: grade.AssignmentID,
			PeriodID:     grade.PeriodID,
			Value:        grade.Value,
			Notes:        grade.Notes,
		})
	}
	return out
}

// ── 工具函数 ──

func sortedKeys[V any](m map[string]*V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func filterRows(rows []model.StudentGradeRow, keep func(model.StudentGradeRow) bool) []model.StudentGradeRow {
	var out []model.StudentGradeRow
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}
