package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
)

// PeriodRepository 评估阶段数据访问接口
type PeriodRepository interface {
	Create(ctx context.Context, period *model.EvaluationPeriod) error
	GetByID(ctx context.Context, id string) (*model.EvaluationPeriod, error)
	Update(ctx context.Context, period *model.EvaluationPeriod) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, cycleID string) ([]model.EvaluationPeriod, error)
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo 创建 PeriodRepository 实例
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) Create(ctx context.Context, period *model.EvaluationPeriod) error {
	return wrapErr("evaluation_periods", "create", r.db.WithContext(ctx).Create(period).Error)
}

func (r *periodRepo) GetByID(ctx context.Context, id string) (*model.EvaluationPeriod, error) {
	var period model.EvaluationPeriod
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&period).Error
	if err != nil {
		return nil, wrapErr("evaluation_periods", "get", err)
	}
	return &period, nil
}

func (r *periodRepo) Update(ctx context.Context, period *model.EvaluationPeriod) error {
	return wrapErr("evaluation_periods", "update", r.db.WithContext(ctx).Save(period).Error)
}

func (r *periodRepo) Delete(ctx context.Context, id string) error {
	return wrapErr("evaluation_periods", "delete", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.EvaluationPeriod{}).Error)
}

func (r *periodRepo) List(ctx context.Context, cycleID string) ([]model.EvaluationPeriod, error) {
	query := r.db.WithContext(ctx).Model(&model.EvaluationPeriod{})
	if cycleID != "" {
		query = query.Where("school_cycle_id = ?", cycleID)
	}

	var periods []model.EvaluationPeriod
	err := query.Order("start_date").Find(&periods).Error
	if err != nil {
		return nil, wrapErr("evaluation_periods", "list", err)
	}
	return periods, nil
}
