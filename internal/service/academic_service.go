package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/repository"
	"github.com/drcvmx/school-system/internal/scope"
)

var (
	// ErrSubjectNotFound 科目不存在或不在调用者可见范围内
	ErrSubjectNotFound = errors.New("科目不存在")
	// ErrGroupNotFound 班级不存在或不在调用者可见范围内
	ErrGroupNotFound = errors.New("班级不存在")
	// ErrCycleNotFound 学年周期不存在
	ErrCycleNotFound = errors.New("学年周期不存在")
	// ErrPeriodNotFound 评估周期不存在
	ErrPeriodNotFound = errors.New("评估周期不存在")
	// ErrAssignmentNotFound 授课分配不存在
	ErrAssignmentNotFound = errors.New("授课分配不存在")
	// ErrInvalidDateRange 结束日期早于开始日期
	ErrInvalidDateRange = errors.New("结束日期不能早于开始日期")
)

// AcademicService 学务管理服务：科目 / 班级 / 学年周期 / 评估周期 / 授课分配
type AcademicService interface {
	CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	UpdateSubject(ctx context.Context, id string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	DeleteSubject(ctx context.Context, id string) error
	ListSubjects(ctx context.Context, ident *scope.Identity) ([]dto.SubjectResponse, error)

	CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	UpdateGroup(ctx context.Context, id string, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error)
	DeleteGroup(ctx context.Context, id string) error
	ListGroups(ctx context.Context, ident *scope.Identity, cycleID string) ([]dto.GroupResponse, error)

	CreateCycle(ctx context.Context, req *dto.CreateCycleRequest) (*dto.CycleResponse, error)
	ActivateCycle(ctx context.Context, id string) (*dto.CycleResponse, error)
	ListCycles(ctx context.Context) ([]dto.CycleResponse, error)
	GetActiveCycle(ctx context.Context) (*dto.CycleResponse, error)

	CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest) (*dto.PeriodResponse, error)
	DeletePeriod(ctx context.Context, id string) error
	ListPeriods(ctx context.Context, cycleID string) ([]dto.PeriodResponse, error)

	CreateAssignment(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	DeleteAssignment(ctx context.Context, id string) error
	ListAssignments(ctx context.Context, ident *scope.Identity, teacherID, groupID, cycleID string) ([]dto.AssignmentResponse, error)
}

type academicService struct {
	repo   *repository.Repository
	scope  ScopeService
	logger *zap.Logger
}

// NewAcademicService 创建 AcademicService 实例
func NewAcademicService(repo *repository.Repository, scopeSvc ScopeService, logger *zap.Logger) AcademicService {
	return &academicService{repo: repo, scope: scopeSvc, logger: logger}
}

// ── 科目 ──

func (s *academicService) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	subject := &model.Subject{Name: req.Name, Credits: req.Credits}
	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		return nil, err
	}
	s.logger.Info("科目创建成功", zap.String("subject_id", subject.SubjectID), zap.String("name", subject.Name))
	return subjectToResponse(subject), nil
}

func (s *academicService) UpdateSubject(ctx context.Context, id string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := s.repo.Subject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Credits != nil {
		subject.Credits = *req.Credits
	}

	if err := s.repo.Subject.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subjectToResponse(subject), nil
}

func (s *academicService) DeleteSubject(ctx context.Context, id string) error {
	if _, err := s.repo.Subject.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}
	return s.repo.Subject.Delete(ctx, id)
}

func (s *academicService) ListSubjects(ctx context.Context, ident *scope.Identity) ([]dto.SubjectResponse, error) {
	f, err := s.scope.FilterFor(ctx, ident, scope.ResourceSubjects)
	if err != nil {
		return nil, err
	}

	subjects, err := s.repo.Subject.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		out = append(out, *subjectToResponse(&subjects[i]))
	}
	return out, nil
}

// ── 班级 ──

func (s *academicService) CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	if _, err := s.repo.Cycle.GetByID(ctx, req.SchoolCycleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}

	group := &model.Group{Grade: req.Grade, Section: req.Section, SchoolCycleID: req.SchoolCycleID}
	if err := s.repo.Group.Create(ctx, group); err != nil {
		return nil, err
	}
	s.logger.Info("班级创建成功", zap.String("group_id", group.GroupID), zap.String("label", group.Label()))
	return groupToResponse(group), nil
}

func (s *academicService) UpdateGroup(ctx context.Context, id string, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	if req.Grade != nil {
		group.Grade = *req.Grade
	}
	if req.Section != nil {
		group.Section = *req.Section
	}

	if err := s.repo.Group.Update(ctx, group); err != nil {
		return nil, err
	}
	return groupToResponse(group), nil
}

func (s *academicService) DeleteGroup(ctx context.Context, id string) error {
	if _, err := s.repo.Group.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	return s.repo.Group.Delete(ctx, id)
}

func (s *academicService) ListGroups(ctx context.Context, ident *scope.Identity, cycleID string) ([]dto.GroupResponse, error) {
	f, err := s.scope.FilterFor(ctx, ident, scope.ResourceGroups)
	if err != nil {
		return nil, err
	}

	groups, err := s.repo.Group.List(ctx, f, cycleID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, *groupToResponse(&groups[i]))
	}
	return out, nil
}

// ── 学年周期 ──

func (s *academicService) CreateCycle(ctx context.Context, req *dto.CreateCycleRequest) (*dto.CycleResponse, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, ErrInvalidDateRange
	}

	if req.Active {
		// 同一时间只允许一个激活周期
		if err := s.repo.Cycle.ClearActive(ctx); err != nil {
			return nil, err
		}
	}

	cycle := &model.SchoolCycle{Name: req.Name, StartDate: startDate, EndDate: endDate, Active: req.Active}
	if err := s.repo.Cycle.Create(ctx, cycle); err != nil {
		return nil, err
	}
	s.logger.Info("学年周期创建成功", zap.String("cycle_id", cycle.SchoolCycleID), zap.String("name", cycle.Name))
	return cycleToResponse(cycle), nil
}

func (s *academicService) ActivateCycle(ctx context.Context, id string) (*dto.CycleResponse, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}

	if err := s.repo.Cycle.ClearActive(ctx); err != nil {
		return nil, err
	}
	cycle.Active = true
	if err := s.repo.Cycle.Update(ctx, cycle); err != nil {
		return nil, err
	}

	s.logger.Info("学年周期已激活", zap.String("cycle_id", id))
	return cycleToResponse(cycle), nil
}

func (s *academicService) ListCycles(ctx context.Context) ([]dto.CycleResponse, error) {
	cycles, err := s.repo.Cycle.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CycleResponse, 0, len(cycles))
	for i := range cycles {
		out = append(out, *cycleToResponse(&cycles[i]))
	}
	return out, nil
}

func (s *academicService) GetActiveCycle(ctx context.Context) (*dto.CycleResponse, error) {
	cycle, err := s.repo.Cycle.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	return cycleToResponse(cycle), nil
}

// ── 评估周期 ──

func (s *academicService) CreatePeriod(ctx context.Context, req *dto.CreatePeriodRequest) (*dto.PeriodResponse, error) {
	if _, err := s.repo.Cycle.GetByID(ctx, req.SchoolCycleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, ErrInvalidDateRange
	}

	period := &model.EvaluationPeriod{
		Name:          req.Name,
		SchoolCycleID: req.SchoolCycleID,
		StartDate:     startDate,
		EndDate:       endDate,
	}
	if err := s.repo.Period.Create(ctx, period); err != nil {
		return nil, err
	}
	return periodToResponse(period), nil
}

func (s *academicService) DeletePeriod(ctx context.Context, id string) error {
	if _, err := s.repo.Period.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodNotFound
		}
		return err
	}
	return s.repo.Period.Delete(ctx, id)
}

func (s *academicService) ListPeriods(ctx context.Context, cycleID string) ([]dto.PeriodResponse, error) {
	periods, err := s.repo.Period.List(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		out = append(out, *periodToResponse(&periods[i]))
	}
	return out, nil
}

// ── 授课分配 ──

func (s *academicService) CreateAssignment(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	if _, err := s.repo.Teacher.GetByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Subject.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Group.GetByID(ctx, req.GroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	assignment := &model.Assignment{
		TeacherID:     req.TeacherID,
		SubjectID:     req.SubjectID,
		GroupID:       req.GroupID,
		SchoolCycleID: req.SchoolCycleID,
	}
	if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info("授课分配创建成功",
		zap.String("assignment_id", assignment.AssignmentID),
		zap.String("teacher_id", req.TeacherID),
		zap.String("subject_id", req.SubjectID),
		zap.String("group_id", req.GroupID))
	return assignmentToResponse(assignment), nil
}

func (s *academicService) DeleteAssignment(ctx context.Context, id string) error {
	if _, err := s.repo.Assignment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return s.repo.Assignment.Delete(ctx, id)
}

func (s *academicService) ListAssignments(ctx context.Context, ident *scope.Identity, teacherID, groupID, cycleID string) ([]dto.AssignmentResponse, error) {
	// 教师只能查询自己的授课分配
	if ident.Role == model.RoleTeacher {
		teacherID = ident.ProfileID
	}

	assignments, err := s.repo.Assignment.List(ctx, teacherID, groupID, cycleID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		out = append(out, *assignmentToResponse(&assignments[i]))
	}
	return out, nil
}

// ── 响应转换 ──

func subjectToResponse(subject *model.Subject) *dto.SubjectResponse {
	return &dto.SubjectResponse{ID: subject.SubjectID, Name: subject.Name, Credits: subject.Credits}
}

func groupToResponse(group *model.Group) *dto.GroupResponse {
	resp := &dto.GroupResponse{
		ID:      group.GroupID,
		Grade:   group.Grade,
		Section: group.Section,
		Label:   group.Label(),
	}
	if group.SchoolCycle != nil {
		resp.CycleLabel = group.SchoolCycle.Name
	}
	return resp
}

func cycleToResponse(cycle *model.SchoolCycle) *dto.CycleResponse {
	return &dto.CycleResponse{
		ID:        cycle.SchoolCycleID,
		Name:      cycle.Name,
		StartDate: cycle.StartDate.Format(dateLayout),
		EndDate:   cycle.EndDate.Format(dateLayout),
		Active:    cycle.Active,
	}
}

func periodToResponse(period *model.EvaluationPeriod) *dto.PeriodResponse {
	return &dto.PeriodResponse{
		ID:            period.PeriodID,
		Name:          period.Name,
		SchoolCycleID: period.SchoolCycleID,
		StartDate:     period.StartDate.Format(dateLayout),
		EndDate:       period.EndDate.Format(dateLayout),
	}
}

func assignmentToResponse(assignment *model.Assignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:            assignment.AssignmentID,
		TeacherID:     assignment.TeacherID,
		SubjectID:     assignment.SubjectID,
		GroupID:       assignment.GroupID,
		SchoolCycleID: assignment.SchoolCycleID,
	}
	if assignment.Teacher != nil {
		resp.Teacher = teacherToResponse(assignment.Teacher)
	}
	if assignment.Subject != nil {
		resp.Subject = subjectToResponse(assignment.Subject)
	}
	if assignment.Group != nil {
		resp.Group = groupToResponse(assignment.Group)
	}
	return resp
}
