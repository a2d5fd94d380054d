package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/repository"
	"github.com/drcvmx/school-system/internal/scope"
	"github.com/drcvmx/school-system/pkg/apperrors"
)

var (
	// ErrGradeNotFound 成绩不存在或不在调用者可见范围内
	ErrGradeNotFound = errors.New("成绩不存在")
	// ErrGradeExists 同一 学生×授课×周期 已有成绩
	ErrGradeExists = errors.New("该学生在此授课周期已有成绩")
	// ErrGradeForbidden 调用者无权操作该成绩
	ErrGradeForbidden = errors.New("无权操作该成绩")
)

// GradeService 成绩服务：所有写入都经由此处统一做范围校验、权限校验与审计落款
type GradeService interface {
	Create(ctx context.Context, ident *scope.Identity, req *dto.CreateGradeRequest) (*dto.GradeResponse, error)
	Update(ctx context.Context, ident *scope.Identity, id string, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error)
	Delete(ctx context.Context, ident *scope.Identity, id string) error
	List(ctx context.Context, ident *scope.Identity, req *dto.GradeListRequest) ([]dto.GradeRowResponse, int64, error)
	// SubjectAverage 某学生某科目在指定学年周期内的均分；无成绩返回 nil
	SubjectAverage(ctx context.Context, ident *scope.Identity, studentID, subjectID, cycleID string) (*float64, error)
	// OverallAverage 某学生在指定学年周期内的总均分（先按科目求均分再求均值）
	OverallAverage(ctx context.Context, ident *scope.Identity, studentID, cycleID string) (*float64, error)
}

type gradeService struct {
	repo   *repository.Repository
	scope  ScopeService
	logger *zap.Logger
}

// NewGradeService 创建 GradeService 实例
func NewGradeService(repo *repository.Repository, scopeSvc ScopeService, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, scope: scopeSvc, logger: logger}
}

func (s *gradeService) Create(ctx context.Context, ident *scope.Identity, req *dto.CreateGradeRequest) (*dto.GradeResponse, error) {
	if req.Value < 0 || req.Value > 10 {
		return nil, apperrors.ErrGradeOutOfRange
	}

	assignment, err := s.repo.Assignment.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	// 教师只能为自己的授课录入成绩
	if ident.Role == model.RoleTeacher && assignment.TeacherID != ident.ProfileID {
		return nil, ErrGradeForbidden
	}

	if _, err := s.repo.Grade.GetExisting(ctx, req.StudentID, req.AssignmentID, req.PeriodID); err == nil {
		return nil, ErrGradeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	operator := ident.UserID
	grade := &model.Grade{
		StudentID:    req.StudentID,
		AssignmentID: req.AssignmentID,
		PeriodID:     req.PeriodID,
		Value:        req.Value,
		Notes:        req.Notes,
	}
	grade.CreatedBy = &operator
	grade.UpdatedBy = &operator

	if err := s.repo.Grade.Create(ctx, grade); err != nil {
		return nil, err
	}

	s.logger.Info("成绩录入成功",
		zap.String("grade_id", grade.GradeID),
		zap.String("student_id", req.StudentID),
		zap.Float64("value", req.Value),
		zap.String("operator", operator))
	return gradeToResponse(grade), nil
}

func (s *gradeService) Update(ctx context.Context, ident *scope.Identity, id string, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error) {
	grade, err := s.loadAllowed(ctx, ident, id)
	if err != nil {
		return nil, err
	}

	if req.Value != nil {
		if *req.Value < 0 || *req.Value > 10 {
			return nil, apperrors.ErrGradeOutOfRange
		}
		grade.Value = *req.Value
	}
	if req.Notes != nil {
		grade.Notes = req.Notes
	}
	operator := ident.UserID
	grade.UpdatedBy = &operator

	if err := s.repo.Grade.Update(ctx, grade); err != nil {
		return nil, err
	}

	s.logger.Info("成绩更新成功", zap.String("grade_id", id), zap.String("operator", operator))
	return gradeToResponse(grade), nil
}

func (s *gradeService) Delete(ctx context.Context, ident *scope.Identity, id string) error {
	if _, err := s.loadAllowed(ctx, ident, id); err != nil {
		return err
	}

	if err := s.repo.Grade.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("成绩删除成功", zap.String("grade_id", id), zap.String("operator", ident.UserID))
	return nil
}

// loadAllowed 读取成绩并校验其落在调用者的成绩谓词内
func (s *gradeService) loadAllowed(ctx context.Context, ident *scope.Identity, id string) (*model.Grade, error) {
	grade, err := s.repo.Grade.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}

	f, err := s.scope.FilterFor(ctx, ident, scope.ResourceGrades)
	if err != nil {
		return nil, err
	}

	allowed := false
	switch f.Column() {
	case "student_id":
		allowed = f.AllowsID(grade.StudentID)
	default:
		allowed = f.AllowsID(grade.AssignmentID)
	}
	if !allowed {
		return nil, ErrGradeNotFound
	}
	return grade, nil
}

func (s *gradeService) List(ctx context.Context, ident *scope.Identity, req *dto.GradeListRequest) ([]dto.GradeRowResponse, int64, error) {
	f, err := s.scope.FilterFor(ctx, ident, scope.ResourceGrades)
	if err != nil {
		return nil, 0, err
	}

	filters := repository.GradeRowFilters{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		PeriodID:  req.PeriodID,
	}
	rows, total, err := s.repo.Grade.ListRows(ctx, f, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.GradeRowResponse, 0, len(rows))
	for i := range rows {
		out = append(out, gradeRowToResponse(&rows[i]))
	}
	return out, total, nil
}

func (s *gradeService) SubjectAverage(ctx context.Context, ident *scope.Identity, studentID, subjectID, cycleID string) (*float64, error) {
	if err := s.checkStudentVisible(ctx, ident, studentID); err != nil {
		return nil, err
	}
	return s.repo.Grade.SubjectAverage(ctx, studentID, subjectID, cycleID)
}

func (s *gradeService) OverallAverage(ctx context.Context, ident *scope.Identity, studentID, cycleID string) (*float64, error) {
	if err := s.checkStudentVisible(ctx, ident, studentID); err != nil {
		return nil, err
	}
	return s.repo.Grade.OverallAverage(ctx, studentID, cycleID)
}

func (s *gradeService) checkStudentVisible(ctx context.Context, ident *scope.Identity, studentID string) error {
	f, err := s.scope.FilterFor(ctx, ident, scope.ResourceStudents)
	if err != nil {
		return err
	}
	if !f.AllowsID(studentID) {
		return ErrStudentNotFound
	}
	return nil
}

func gradeToResponse(grade *model.Grade) *dto.GradeResponse {
	return &dto.GradeResponse{
		ID:           grade.GradeID,
		StudentID:    grade.StudentID,
		AssignmentID: grade.AssignmentID,
		PeriodID:     grade.PeriodID,
		Value:        grade.Value,
		Notes:        grade.Notes,
		CreatedBy:    grade.CreatedBy,
		UpdatedBy:    grade.UpdatedBy,
	}
}

func gradeRowToResponse(row *model.StudentGradeRow) dto.GradeRowResponse {
	return dto.GradeRowResponse{
		ID:          row.ID,
		StudentID:   row.StudentID,
		StudentName: row.StudentName,
		SubjectName: row.SubjectName,
		TeacherName: row.TeacherName,
		PeriodName:  row.PeriodName,
		GroupLabel:  row.GroupLabel,
		CycleLabel:  row.CycleLabel,
		Value:       row.Value,
		Notes:       row.Notes,
	}
}
