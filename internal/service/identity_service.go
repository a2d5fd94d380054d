package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/repository"
	"github.com/drcvmx/school-system/internal/scope"
	"github.com/drcvmx/school-system/pkg/apperrors"
)

// IdentityService 身份解析服务。
// 把会话中的 user id 解析为带档案的完整身份，供受限查询显式传入。
type IdentityService interface {
	Resolve(ctx context.Context, userID string) (*scope.Identity, error)
}

type identityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewIdentityService 创建 IdentityService 实例
func NewIdentityService(repo *repository.Repository, logger *zap.Logger) IdentityService {
	return &identityService{repo: repo, logger: logger}
}

// Resolve 解析调用者身份。
// 会话有效但 users 表无记录时返回 ErrIdentityNotFound（账号开通不完整的残留），
// 角色要求档案但档案缺失时返回 ErrProfileMissing，两者都不得静默降级为 admin。
func (s *identityService) Resolve(ctx context.Context, userID string) (*scope.Identity, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("会话对应的用户记录不存在", zap.String("user_id", userID))
			return nil, apperrors.ErrIdentityNotFound
		}
		return nil, err
	}

	ident := &scope.Identity{UserID: user.UserID, Role: user.Role}
	if !user.Role.HasProfile() {
		return ident, nil
	}

	switch user.Role {
	case model.RoleTeacher:
		teacher, err := s.repo.Teacher.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("教师档案缺失", zap.String("user_id", userID))
				return nil, apperrors.ErrProfileMissing
			}
			return nil, err
		}
		ident.ProfileID = teacher.TeacherID
	case model.RoleStudent:
		student, err := s.repo.Student.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("学生档案缺失", zap.String("user_id", userID))
				return nil, apperrors.ErrProfileMissing
			}
			return nil, err
		}
		ident.ProfileID = student.StudentID
	}

	return ident, nil
}
