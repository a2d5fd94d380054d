package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/repository"
	"github.com/drcvmx/school-system/internal/scope"
	"github.com/drcvmx/school-system/pkg/apperrors"
)

// ErrTeacherNotFound 教师不存在或不在调用者可见范围内
var ErrTeacherNotFound = errors.New("教师不存在")

// TeacherService 教师管理服务接口
type TeacherService interface {
	Create(ctx context.Context, ident *scope.Identity, req *dto.CreateTeacherRequest) (*dto.TeacherResponse, error)
	Get(ctx context.Context, ident *scope.Identity, id string) (*dto.TeacherResponse, error)
	Update(ctx context.Context, ident *scope.Identity, id string, req *dto.UpdateTeacherRequest) (*dto.TeacherResponse, error)
	Delete(ctx context.Context, ident *scope.Identity, id string) error
	List(ctx context.Context, ident *scope.Identity, req *dto.TeacherListRequest) ([]dto.TeacherResponse, int64, error)
}

type teacherService struct {
	repo   *repository.Repository
	scope  ScopeService
	logger *zap.Logger
}

// NewTeacherService 创建 TeacherService 实例
func NewTeacherService(repo *repository.Repository, scopeSvc ScopeService, logger *zap.Logger) TeacherService {
	return &teacherService{repo: repo, scope: scopeSvc, logger: logger}
}

// Create 创建教师，开通流程与学生一致：认证账号 → 用户记录 → 教师档案
func (s *teacherService) Create(ctx context.Context, ident *scope.Identity, req *dto.CreateTeacherRequest) (*dto.TeacherResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.Account.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{Email: email, PasswordHash: string(hash)}
	if err := s.repo.Account.Create(ctx, account); err != nil {
		return nil, err
	}

	user := &model.User{UserID: account.AccountID, Email: email, Role: model.RoleTeacher}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("教师开通失败：users 记录写入失败，认证账号已创建",
			zap.String("account_id", account.AccountID), zap.Error(err))
		return nil, &apperrors.ProvisioningError{Step: "user", AccountID: account.AccountID, Err: err}
	}

	teacher := &model.Teacher{
		UserID:    account.AccountID,
		Name:      req.Name,
		Surname1:  req.Surname1,
		Surname2:  req.Surname2,
		Specialty: req.Specialty,
		Active:    true,
	}
	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		s.logger.Error("教师开通失败：教师档案写入失败，认证账号已创建",
			zap.String("account_id", account.AccountID), zap.Error(err))
		return nil, &apperrors.ProvisioningError{Step: "profile", AccountID: account.AccountID, Err: err}
	}

	s.logger.Info("教师创建成功",
		zap.String("teacher_id", teacher.TeacherID),
		zap.String("operator", ident.UserID))
	return teacherToResponse(teacher), nil
}

func (s *teacherService) Get(ctx context.Context, ident *scope.Identity, id string) (*dto.TeacherResponse, error) {
	f, err := s.scope.FilterFor(ctx, ident, scope.ResourceTeachers)
	if err != nil {
		return nil, err
	}
	if !f.AllowsID(id) {
		return nil, ErrTeacherNotFound
	}

	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	return teacherToResponse(teacher), nil
}

func (s *teacherService) Update(ctx context.Context, ident *scope.Identity, id string, req *dto.UpdateTeacherRequest) (*dto.TeacherResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		teacher.Name = *req.Name
	}
	if req.Surname1 != nil {
		teacher.Surname1 = *req.Surname1
	}
	if req.Surname2 != nil {
		teacher.Surname2 = req.Surname2
	}
	if req.Specialty != nil {
		teacher.Specialty = req.Specialty
	}
	if req.Active != nil {
		teacher.Active = *req.Active
	}

	if err := s.repo.Teacher.Update(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info("教师信息更新", zap.String("teacher_id", id), zap.String("operator", ident.UserID))
	return teacherToResponse(teacher), nil
}

// Delete 删除教师，两步：教师档案 → 用户记录，第一步失败立即中止
func (s *teacherService) Delete(ctx context.Context, ident *scope.Identity, id string) error {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}

	if err := s.repo.Teacher.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.repo.User.Delete(ctx, teacher.UserID); err != nil {
		s.logger.Error("教师档案已删除但用户记录删除失败",
			zap.String("teacher_id", id), zap.String("user_id", teacher.UserID), zap.Error(err))
		return err
	}

	s.logger.Info("教师删除成功", zap.String("teacher_id", id), zap.String("operator", ident.UserID))
	return nil
}

func (s *teacherService) List(ctx context.Context, ident *scope.Identity, req *dto.TeacherListRequest) ([]dto.TeacherResponse, int64, error) {
	f, err := s.scope.FilterFor(ctx, ident, scope.ResourceTeachers)
	if err != nil {
		return nil, 0, err
	}

	teachers, total, err := s.repo.Teacher.List(ctx, f, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		out = append(out, *teacherToResponse(&teachers[i]))
	}
	return out, total, nil
}

func teacherToResponse(teacher *model.Teacher) *dto.TeacherResponse {
	return &dto.TeacherResponse{
		ID:        teacher.TeacherID,
		UserID:    teacher.UserID,
		Name:      teacher.Name,
		Surname1:  teacher.Surname1,
		Surname2:  teacher.Surname2,
		Specialty: teacher.Specialty,
		Active:    teacher.Active,
	}
}
