package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/config"
	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/repository"
)

// SetupService 初始账号种子服务。
// 按固定清单开通演示账号，可重复调用：已存在的账号原样跳过。
type SetupService interface {
	ProvisionSeedAccounts(ctx context.Context) *dto.SetupUsersResponse
}

type seedAccount struct {
	Email     string
	Role      model.Role
	Name      string
	Surname1  string
	Specialty string // 仅教师
}

// seedAccounts 固定种子清单：1 管理员 + 3 教师 + 5 学生
var seedAccounts = []seedAccount{
	{Email: "admin@escuela.com", Role: model.RoleAdmin, Name: "Administrador", Surname1: "General"},
	{Email: "profe_math@escuela.com", Role: model.RoleTeacher, Name: "Carlos", Surname1: "Ramírez", Specialty: "Matemáticas"},
	{Email: "profe_ciencias@escuela.com", Role: model.RoleTeacher, Name: "Laura", Surname1: "Gómez", Specialty: "Ciencias"},
	{Email: "profe_historia@escuela.com", Role: model.RoleTeacher, Name: "Miguel", Surname1: "Torres", Specialty: "Historia"},
	{Email: "alumno1@escuela.com", Role: model.RoleStudent, Name: "Ana", Surname1: "García"},
	{Email: "alumno2@escuela.com", Role: model.RoleStudent, Name: "Luis", Surname1: "Martínez"},
	{Email: "alumno3@escuela.com", Role: model.RoleStudent, Name: "Sofía", Surname1: "Hernández"},
	{Email: "alumno4@escuela.com", Role: model.RoleStudent, Name: "Diego", Surname1: "López"},
	{Email: "alumno5@escuela.com", Role: model.RoleStudent, Name: "Valeria", Surname1: "Sánchez"},
}

type setupService struct {
	repo   *repository.Repository
	cfg    *config.SetupConfig
	logger *zap.Logger
}

// NewSetupService 创建 SetupService 实例
func NewSetupService(repo *repository.Repository, cfg *config.SetupConfig, logger *zap.Logger) SetupService {
	return &setupService{repo: repo, cfg: cfg, logger: logger}
}

// ProvisionSeedAccounts 逐个开通种子账号。
// 单个账号失败不中断整体流程，逐条记录状态；Success 表示没有任何 error 条目。
func (s *setupService) ProvisionSeedAccounts(ctx context.Context) *dto.SetupUsersResponse {
	resp := &dto.SetupUsersResponse{Success: true}

	for i, seed := range seedAccounts {
		result := s.provisionOne(ctx, i, seed)
		if result.Status == "error" {
			resp.Success = false
		}
		resp.Results = append(resp.Results, result)
	}

	s.logger.Info("种子账号处理完成", zap.Bool("success", resp.Success), zap.Int("count", len(resp.Results)))
	return resp
}

func (s *setupService) provisionOne(ctx context.Context, index int, seed seedAccount) dto.SetupAccountResult {
	existing, err := s.repo.Account.GetByEmail(ctx, seed.Email)
	if err == nil {
		return dto.SetupAccountResult{Email: seed.Email, Status: "already exists", ID: existing.AccountID}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SetupAccountResult{Email: seed.Email, Status: "error", Message: err.Error()}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return dto.SetupAccountResult{Email: seed.Email, Status: "error", Message: err.Error()}
	}

	account := &model.Account{Email: seed.Email, PasswordHash: string(hash)}
	if err := s.repo.Account.Create(ctx, account); err != nil {
		return dto.SetupAccountResult{Email: seed.Email, Status: "error", Message: err.Error()}
	}

	user := &model.User{UserID: account.AccountID, Email: seed.Email, Role: seed.Role}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("种子账号 users 记录写入失败，认证账号已创建",
			zap.String("email", seed.Email), zap.String("account_id", account.AccountID), zap.Error(err))
		return dto.SetupAccountResult{Email: seed.Email, Status: "error", Message: err.Error()}
	}

	switch seed.Role {
	case model.RoleTeacher:
		specialty := seed.Specialty
		teacher := &model.Teacher{
			UserID:    account.AccountID,
			Name:      seed.Name,
			Surname1:  seed.Surname1,
			Specialty: &specialty,
			Active:    true,
		}
		if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
			return dto.SetupAccountResult{Email: seed.Email, Status: "error", Message: err.Error()}
		}
	case model.RoleStudent:
		student := &model.Student{
			UserID:     account.AccountID,
			Name:       seed.Name,
			Surname1:   seed.Surname1,
			NationalID: fmt.Sprintf("SEED-%03d", index),
			BirthDate:  time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
			Active:     true,
		}
		if err := s.repo.Student.Create(ctx, student); err != nil {
			return dto.SetupAccountResult{Email: seed.Email, Status: "error", Message: err.Error()}
		}
	}

	s.logger.Info("种子账号创建成功", zap.String("email", seed.Email), zap.String("role", seed.Role.String()))
	return dto.SetupAccountResult{Email: seed.Email, Status: "created", ID: account.AccountID}
}
