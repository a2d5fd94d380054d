package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/scope"
)

// StudentListFilters 学生列表的可选过滤条件（调用方追加，叠加在角色谓词之上）
type StudentListFilters struct {
	GroupID string
	Keyword string
}

// StudentRepository 学生档案数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByUserID(ctx context.Context, userID string) (*model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f scope.Filter, filters *StudentListFilters, offset, limit int) ([]model.Student, int64, error)
	ListIDsByGroups(ctx context.Context, groupIDs []string) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return wrapErr("students", "create", r.db.WithContext(ctx).Create(student).Error)
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Group.SchoolCycle").
		Where("id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, wrapErr("students", "get", err)
	}
	return &student, nil
}

func (r *studentRepo) GetByUserID(ctx context.Context, userID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("user_id = ?", userID).
		First(&student).Error
	if err != nil {
		return nil, wrapErr("students", "get", err)
	}
	return &student, nil
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return wrapErr("students", "update", r.db.WithContext(ctx).Save(student).Error)
}

func (r *studentRepo) Delete(ctx context.Context, id string) error {
	return wrapErr("students", "delete", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Student{}).Error)
}

func (r *studentRepo) List(ctx context.Context, f scope.Filter, filters *StudentListFilters, offset, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := f.Apply(r.db.WithContext(ctx).Model(&model.Student{}))

	if filters != nil {
		if filters.GroupID != "" {
			db = db.Where("group_id = ?", filters.GroupID)
		}
		if filters.Keyword != "" {
			kw := "%" + filters.Keyword + "%"
			db = db.Where("name ILIKE ? OR surname1 ILIKE ? OR national_id ILIKE ?", kw, kw, kw)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, wrapErr("students", "count", err)
	}

	if err := db.Preload("Group").Preload("Group.SchoolCycle").
		Offset(offset).Limit(limit).
		Order("surname1, name").
		Find(&students).Error; err != nil {
		return nil, 0, wrapErr("students", "list", err)
	}

	return students, total, nil
}

func (r *studentRepo) ListIDsByGroups(ctx context.Context, groupIDs []string) ([]string, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("group_id IN ?", groupIDs).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, wrapErr("students", "list", err)
	}
	return ids, nil
}

func (r *studentRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).Count(&total).Error
	return total, wrapErr("students", "count", err)
}
