package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/repository"
	"github.com/drcvmx/school-system/internal/scope"
)

// ScopeService 按身份推导行级过滤谓词。
//
// 推导遵循 fail-closed：前置查询（授课关系、班级归属）结果为空时，
// 谓词收敛为匹配零行，而不是放开为匹配全部。
type ScopeService interface {
	// FilterFor 返回某资源上的行级过滤谓词。
	// students/teachers/subjects/groups 谓词作用于主键列 id，
	// grades 谓词作用于 student_id（学生）或 assignment_id（教师）。
	FilterFor(ctx context.Context, ident *scope.Identity, resource scope.Resource) (scope.Filter, error)

	// ReportCardFilter 返回成绩单视图上的谓词，作用于 student_id 列
	ReportCardFilter(ctx context.Context, ident *scope.Identity) (scope.Filter, error)
}

type scopeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScopeService 创建 ScopeService 实例
func NewScopeService(repo *repository.Repository, logger *zap.Logger) ScopeService {
	return &scopeService{repo: repo, logger: logger}
}

func (s *scopeService) FilterFor(ctx context.Context, ident *scope.Identity, resource scope.Resource) (scope.Filter, error) {
	switch ident.Role {
	case model.RoleAdmin:
		return scope.MatchAll(), nil
	case model.RoleTeacher:
		return s.teacherFilter(ctx, ident, resource)
	case model.RoleStudent:
		return s.studentFilter(ctx, ident, resource)
	}
	return scope.MatchNone(), nil
}

func (s *scopeService) teacherFilter(ctx context.Context, ident *scope.Identity, resource scope.Resource) (scope.Filter, error) {
	switch resource {
	case scope.ResourceTeachers:
		return scope.IDEq("id", ident.ProfileID), nil
	case scope.ResourceStudents:
		studentIDs, err := s.teacherStudentIDs(ctx, ident.ProfileID)
		if err != nil {
			return scope.MatchNone(), err
		}
		return scope.IDIn("id", studentIDs), nil
	case scope.ResourceSubjects, scope.ResourceGroups, scope.ResourceGrades:
		assignments, err := s.repo.Assignment.ListByTeacher(ctx, ident.ProfileID)
		if err != nil {
			return scope.MatchNone(), err
		}
		switch resource {
		case scope.ResourceSubjects:
			return scope.IDIn("id", uniqueIDs(assignments, func(a model.Assignment) string { return a.SubjectID })), nil
		case scope.ResourceGroups:
			return scope.IDIn("id", uniqueIDs(assignments, func(a model.Assignment) string { return a.GroupID })), nil
		default:
			return scope.IDIn("assignment_id", uniqueIDs(assignments, func(a model.Assignment) string { return a.AssignmentID })), nil
		}
	}
	return scope.MatchNone(), nil
}

func (s *scopeService) studentFilter(ctx context.Context, ident *scope.Identity, resource scope.Resource) (scope.Filter, error) {
	switch resource {
	case scope.ResourceStudents:
		return scope.IDEq("id", ident.ProfileID), nil
	case scope.ResourceGrades:
		return scope.IDEq("student_id", ident.ProfileID), nil
	case scope.ResourceTeachers:
		// 学生不可访问教师名录
		return scope.MatchNone(), nil
	case scope.ResourceSubjects, scope.ResourceGroups:
		groupID, err := s.studentGroupID(ctx, ident.ProfileID)
		if err != nil {
			return scope.MatchNone(), err
		}
		if resource == scope.ResourceGroups {
			return scope.IDEq("id", groupID), nil
		}
		if groupID == "" {
			// 未分班的学生看不到任何科目
			return scope.MatchNone(), nil
		}
		assignments, err := s.repo.Assignment.ListByGroup(ctx, groupID)
		if err != nil {
			return scope.MatchNone(), err
		}
		return scope.IDIn("id", uniqueIDs(assignments, func(a model.Assignment) string { return a.SubjectID })), nil
	}
	return scope.MatchNone(), nil
}

func (s *scopeService) ReportCardFilter(ctx context.Context, ident *scope.Identity) (scope.Filter, error) {
	switch ident.Role {
	case model.RoleAdmin:
		return scope.MatchAll(), nil
	case model.RoleStudent:
		return scope.IDEq("student_id", ident.ProfileID), nil
	case model.RoleTeacher:
		studentIDs, err := s.teacherStudentIDs(ctx, ident.ProfileID)
		if err != nil {
			return scope.MatchNone(), err
		}
		return scope.IDIn("student_id", studentIDs), nil
	}
	return scope.MatchNone(), nil
}

// teacherStudentIDs 教师可见学生集合：其授课班级内的全部学生
func (s *scopeService) teacherStudentIDs(ctx context.Context, teacherID string) ([]string, error) {
	assignments, err := s.repo.Assignment.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	groupIDs := uniqueIDs(assignments, func(a model.Assignment) string { return a.GroupID })
	if len(groupIDs) == 0 {
		return nil, nil
	}
	return s.repo.Student.ListIDsByGroups(ctx, groupIDs)
}

func (s *scopeService) studentGroupID(ctx context.Context, studentID string) (string, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if student.GroupID == nil {
		return "", nil
	}
	return *student.GroupID, nil
}

// uniqueIDs 从授课关系中提取去重后的 id 集合，保持首次出现顺序
func uniqueIDs(assignments []model.Assignment, pick func(model.Assignment) string) []string {
	seen := make(map[string]struct{}, len(assignments))
	var ids []string
	for _, a := range assignments {
		id := pick(a)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
