package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
)

// AssignmentRepository 授课关系数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, teacherID, groupID, cycleID string) ([]model.Assignment, error)
	// ListByTeacher 返回某教师的全部授课关系，供作用域推导使用
	ListByTeacher(ctx context.Context, teacherID string) ([]model.Assignment, error)
	// ListByGroup 返回某班级的全部授课关系，供作用域推导使用
	ListByGroup(ctx context.Context, groupID string) ([]model.Assignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return wrapErr("assignments", "create", r.db.WithContext(ctx).Create(assignment).Error)
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Subject").
		Preload("Group").
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, wrapErr("assignments", "get", err)
	}
	return &assignment, nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	return wrapErr("assignments", "delete", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Assignment{}).Error)
}

func (r *assignmentRepo) List(ctx context.Context, teacherID, groupID, cycleID string) ([]model.Assignment, error) {
	query := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Preload("Teacher").
		Preload("Subject").
		Preload("Group")
	if teacherID != "" {
		query = query.Where("teacher_id = ?", teacherID)
	}
	if groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}
	if cycleID != "" {
		query = query.Where("school_cycle_id = ?", cycleID)
	}

	var assignments []model.Assignment
	err := query.Find(&assignments).Error
	if err != nil {
		return nil, wrapErr("assignments", "list", err)
	}
	return assignments, nil
}

func (r *assignmentRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Find(&assignments).Error
	if err != nil {
		return nil, wrapErr("assignments", "list_by_teacher", err)
	}
	return assignments, nil
}

func (r *assignmentRepo) ListByGroup(ctx context.Context, groupID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Find(&assignments).Error
	if err != nil {
		return nil, wrapErr("assignments", "list_by_group", err)
	}
	return assignments, nil
}
