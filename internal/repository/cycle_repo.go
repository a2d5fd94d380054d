package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
)

// CycleRepository 学年周期数据访问接口
type CycleRepository interface {
	Create(ctx context.Context, cycle *model.SchoolCycle) error
	GetByID(ctx context.Context, id string) (*model.SchoolCycle, error)
	GetActive(ctx context.Context) (*model.SchoolCycle, error)
	Update(ctx context.Context, cycle *model.SchoolCycle) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.SchoolCycle, error)
	// ClearActive 取消所有周期的激活状态，供切换激活周期前调用
	ClearActive(ctx context.Context) error
}

type cycleRepo struct {
	db *gorm.DB
}

// NewCycleRepo 创建 CycleRepository 实例
func NewCycleRepo(db *gorm.DB) CycleRepository {
	return &cycleRepo{db: db}
}

func (r *cycleRepo) Create(ctx context.Context, cycle *model.SchoolCycle) error {
	return wrapErr("school_cycles", "create", r.db.WithContext(ctx).Create(cycle).Error)
}

func (r *cycleRepo) GetByID(ctx context.Context, id string) (*model.SchoolCycle, error) {
	var cycle model.SchoolCycle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cycle).Error
	if err != nil {
		return nil, wrapErr("school_cycles", "get", err)
	}
	return &cycle, nil
}

func (r *cycleRepo) GetActive(ctx context.Context) (*model.SchoolCycle, error) {
	var cycle model.SchoolCycle
	err := r.db.WithContext(ctx).Where("active = ?", true).First(&cycle).Error
	if err != nil {
		return nil, wrapErr("school_cycles", "get_active", err)
	}
	return &cycle, nil
}

func (r *cycleRepo) Update(ctx context.Context, cycle *model.SchoolCycle) error {
	return wrapErr("school_cycles", "update", r.db.WithContext(ctx).Save(cycle).Error)
}

func (r *cycleRepo) Delete(ctx context.Context, id string) error {
	return wrapErr("school_cycles", "delete", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SchoolCycle{}).Error)
}

func (r *cycleRepo) List(ctx context.Context) ([]model.SchoolCycle, error) {
	var cycles []model.SchoolCycle
	err := r.db.WithContext(ctx).Order("start_date DESC").Find(&cycles).Error
	if err != nil {
		return nil, wrapErr("school_cycles", "list", err)
	}
	return cycles, nil
}

func (r *cycleRepo) ClearActive(ctx context.Context) error {
	err := r.db.WithContext(ctx).Model(&model.SchoolCycle{}).
		Where("active = ?", true).
		Update("active", false).Error
	return wrapErr("school_cycles", "clear_active", err)
}
