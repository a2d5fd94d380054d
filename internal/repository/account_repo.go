package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
)

// AccountRepository 认证账号数据访问接口
// 对应托管认证服务的账号存储，密码以 bcrypt 哈希落库
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepo 创建 AccountRepository 实例
func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	return wrapErr("auth_accounts", "create", r.db.WithContext(ctx).Create(account).Error)
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, wrapErr("auth_accounts", "get", err)
	}
	return &account, nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, wrapErr("auth_accounts", "get", err)
	}
	return &account, nil
}

func (r *accountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
	return wrapErr("auth_accounts", "update", err)
}
