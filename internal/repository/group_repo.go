package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/scope"
)

// GroupRepository 班级数据访问接口
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f scope.Filter, cycleID string) ([]model.Group, error)
	Count(ctx context.Context) (int64, error)
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return wrapErr("groups", "create", r.db.WithContext(ctx).Create(group).Error)
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Preload("SchoolCycle").
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, wrapErr("groups", "get", err)
	}
	return &group, nil
}

func (r *groupRepo) Update(ctx context.Context, group *model.Group) error {
	return wrapErr("groups", "update", r.db.WithContext(ctx).Save(group).Error)
}

func (r *groupRepo) Delete(ctx context.Context, id string) error {
	return wrapErr("groups", "delete", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Group{}).Error)
}

func (r *groupRepo) List(ctx context.Context, f scope.Filter, cycleID string) ([]model.Group, error) {
	query := f.Apply(r.db.WithContext(ctx).Model(&model.Group{})).
		Preload("SchoolCycle")
	if cycleID != "" {
		query = query.Where("school_cycle_id = ?", cycleID)
	}

	var groups []model.Group
	err := query.Order("grade, section").Find(&groups).Error
	if err != nil {
		return nil, wrapErr("groups", "list", err)
	}
	return groups, nil
}

func (r *groupRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Group{}).Count(&total).Error
	return total, wrapErr("groups", "count", err)
}
