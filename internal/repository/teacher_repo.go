package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/scope"
)

// TeacherRepository 教师档案数据访问接口
type TeacherRepository interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	GetByID(ctx context.Context, id string) (*model.Teacher, error)
	GetByUserID(ctx context.Context, userID string) (*model.Teacher, error)
	Update(ctx context.Context, teacher *model.Teacher) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f scope.Filter, keyword string, offset, limit int) ([]model.Teacher, int64, error)
	Count(ctx context.Context) (int64, error)
}

type teacherRepo struct {
	db *gorm.DB
}

// NewTeacherRepo 创建 TeacherRepository 实例
func NewTeacherRepo(db *gorm.DB) TeacherRepository {
	return &teacherRepo{db: db}
}

func (r *teacherRepo) Create(ctx context.Context, teacher *model.Teacher) error {
	return wrapErr("teachers", "create", r.db.WithContext(ctx).Create(teacher).Error)
}

func (r *teacherRepo) GetByID(ctx context.Context, id string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&teacher).Error
	if err != nil {
		return nil, wrapErr("teachers", "get", err)
	}
	return &teacher, nil
}

func (r *teacherRepo) GetByUserID(ctx context.Context, userID string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error
	if err != nil {
		return nil, wrapErr("teachers", "get", err)
	}
	return &teacher, nil
}

func (r *teacherRepo) Update(ctx context.Context, teacher *model.Teacher) error {
	return wrapErr("teachers", "update", r.db.WithContext(ctx).Save(teacher).Error)
}

func (r *teacherRepo) Delete(ctx context.Context, id string) error {
	return wrapErr("teachers", "delete", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Teacher{}).Error)
}

func (r *teacherRepo) List(ctx context.Context, f scope.Filter, keyword string, offset, limit int) ([]model.Teacher, int64, error) {
	var teachers []model.Teacher
	var total int64

	db := f.Apply(r.db.WithContext(ctx).Model(&model.Teacher{}))

	if keyword != "" {
		kw := "%" + keyword + "%"
		db = db.Where("name ILIKE ? OR surname1 ILIKE ?", kw, kw)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, wrapErr("teachers", "count", err)
	}

	if err := db.Offset(offset).Limit(limit).
		Order("surname1, name").
		Find(&teachers).Error; err != nil {
		return nil, 0, wrapErr("teachers", "list", err)
	}

	return teachers, total, nil
}

func (r *teacherRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Teacher{}).Count(&total).Error
	return total, wrapErr("teachers", "count", err)
}
