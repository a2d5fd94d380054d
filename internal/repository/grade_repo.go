package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/scope"
)

// GradeRowFilters 成绩视图查询的可选过滤条件
type GradeRowFilters struct {
	StudentID string
	SubjectID string
	GroupID   string
	PeriodID  string
}

// GradeRepository 成绩数据访问接口
type GradeRepository interface {
	Create(ctx context.Context, grade *model.Grade) error
	GetByID(ctx context.Context, id string) (*model.Grade, error)
	Update(ctx context.Context, grade *model.Grade) error
	Delete(ctx context.Context, id string) error
	GetExisting(ctx context.Context, studentID, assignmentID, periodID string) (*model.Grade, error)
	// ListRows 基于成绩明细视图查询，f 为身份作用域过滤器
	ListRows(ctx context.Context, f scope.Filter, filters GradeRowFilters, offset, limit int) ([]model.StudentGradeRow, int64, error)
	// ListReportRows 基于成绩单视图查询，f 作用于 student_id 列
	ListReportRows(ctx context.Context, f scope.Filter, cycleID, periodID string) ([]model.ReportCardRow, error)
	// RecentRows 返回最近录入的若干条成绩，供仪表盘展示
	RecentRows(ctx context.Context, f scope.Filter, limit int) ([]model.StudentGradeRow, error)
	SubjectAverage(ctx context.Context, studentID, subjectID, cycleID string) (*float64, error)
	OverallAverage(ctx context.Context, studentID, cycleID string) (*float64, error)
	Count(ctx context.Context, f scope.Filter) (int64, error)
}

type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo 创建 GradeRepository 实例
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) Create(ctx context.Context, grade *model.Grade) error {
	return wrapErr("grades", "create", r.db.WithContext(ctx).Create(grade).Error)
}

func (r *gradeRepo) GetByID(ctx context.Context, id string) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Assignment").
		Preload("Assignment.Subject").
		Preload("Period").
		Where("id = ?", id).
		First(&grade).Error
	if err != nil {
		return nil, wrapErr("grades", "get", err)
	}
	return &grade, nil
}

func (r *gradeRepo) Update(ctx context.Context, grade *model.Grade) error {
	return wrapErr("grades", "update", r.db.WithContext(ctx).Save(grade).Error)
}

func (r *gradeRepo) Delete(ctx context.Context, id string) error {
	return wrapErr("grades", "delete", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Grade{}).Error)
}

func (r *gradeRepo) GetExisting(ctx context.Context, studentID, assignmentID, periodID string) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND assignment_id = ? AND period_id = ?", studentID, assignmentID, periodID).
		First(&grade).Error
	if err != nil {
		return nil, wrapErr("grades", "get_existing", err)
	}
	return &grade, nil
}

func (r *gradeRepo) ListRows(ctx context.Context, f scope.Filter, filters GradeRowFilters, offset, limit int) ([]model.StudentGradeRow, int64, error) {
	query := f.Apply(r.db.WithContext(ctx).Model(&model.StudentGradeRow{}))
	if filters.StudentID != "" {
		query = query.Where("student_id = ?", filters.StudentID)
	}
	if filters.SubjectID != "" {
		query = query.Where("subject_id = ?", filters.SubjectID)
	}
	if filters.GroupID != "" {
		query = query.Where("group_id = ?", filters.GroupID)
	}
	if filters.PeriodID != "" {
		query = query.Where("period_id = ?", filters.PeriodID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapErr("student_grades_view", "count", err)
	}

	var rows []model.StudentGradeRow
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, 0, wrapErr("student_grades_view", "list", err)
	}
	return rows, total, nil
}

func (r *gradeRepo) ListReportRows(ctx context.Context, f scope.Filter, cycleID, periodID string) ([]model.ReportCardRow, error) {
	query := f.Apply(r.db.WithContext(ctx).Model(&model.ReportCardRow{}))
	if cycleID != "" {
		query = query.Where("school_cycle_id = ?", cycleID)
	}
	if periodID != "" {
		query = query.Where("period_id = ?", periodID)
	}

	var rows []model.ReportCardRow
	err := query.Order("student_name, subject_name").Find(&rows).Error
	if err != nil {
		return nil, wrapErr("report_card_view", "list", err)
	}
	return rows, nil
}

func (r *gradeRepo) RecentRows(ctx context.Context, f scope.Filter, limit int) ([]model.StudentGradeRow, error) {
	var rows []model.StudentGradeRow
	err := f.Apply(r.db.WithContext(ctx).Model(&model.StudentGradeRow{})).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, wrapErr("student_grades_view", "recent", err)
	}
	return rows, nil
}

func (r *gradeRepo) SubjectAverage(ctx context.Context, studentID, subjectID, cycleID string) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Raw("SELECT compute_student_subject_average(?, ?, ?)", studentID, subjectID, cycleID).
		Scan(&avg).Error
	if err != nil {
		return nil, wrapErr("grades", "subject_average", err)
	}
	return avg, nil
}

func (r *gradeRepo) OverallAverage(ctx context.Context, studentID, cycleID string) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Raw("SELECT compute_student_overall_average(?, ?)", studentID, cycleID).
		Scan(&avg).Error
	if err != nil {
		return nil, wrapErr("grades", "overall_average", err)
	}
	return avg, nil
}

func (r *gradeRepo) Count(ctx context.Context, f scope.Filter) (int64, error) {
	var total int64
	err := f.Apply(r.db.WithContext(ctx).Model(&model.Grade{})).Count(&total).Error
	return total, wrapErr("grades", "count", err)
}
