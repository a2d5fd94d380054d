package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/scope"
)

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f scope.Filter) ([]model.Subject, error)
	Count(ctx context.Context) (int64, error)
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return wrapErr("subjects", "create", r.db.WithContext(ctx).Create(subject).Error)
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subject).Error
	if err != nil {
		return nil, wrapErr("subjects", "get", err)
	}
	return &subject, nil
}

func (r *subjectRepo) Update(ctx context.Context, subject *model.Subject) error {
	return wrapErr("subjects", "update", r.db.WithContext(ctx).Save(subject).Error)
}

func (r *subjectRepo) Delete(ctx context.Context, id string) error {
	return wrapErr("subjects", "delete", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Subject{}).Error)
}

func (r *subjectRepo) List(ctx context.Context, f scope.Filter) ([]model.Subject, error) {
	var subjects []model.Subject
	err := f.Apply(r.db.WithContext(ctx).Model(&model.Subject{})).
		Order("name").
		Find(&subjects).Error
	if err != nil {
		return nil, wrapErr("subjects", "list", err)
	}
	return subjects, nil
}

func (r *subjectRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Subject{}).Count(&total).Error
	return total, wrapErr("subjects", "count", err)
}
