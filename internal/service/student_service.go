package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/repository"
	"github.com/drcvmx/school-system/internal/scope"
	"github.com/drcvmx/school-system/pkg/apperrors"
)

var (
	// ErrStudentNotFound 学生不存在或不在调用者可见范围内
	ErrStudentNotFound = errors.New("学生不存在")
	// ErrEmailTaken 邮箱已被占用
	ErrEmailTaken = errors.New("邮箱已被占用")
)

const dateLayout = "2006-01-02"

// StudentService 学生管理服务接口
type StudentService interface {
	Create(ctx context.Context, ident *scope.Identity, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	Get(ctx context.Context, ident *scope.Identity, id string) (*dto.StudentResponse, error)
	Update(ctx context.Context, ident *scope.Identity, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Delete(ctx context.Context, ident *scope.Identity, id string) error
	List(ctx context.Context, ident *scope.Identity, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error)
}

type studentService struct {
	repo   *repository.Repository
	scope  ScopeService
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, scopeSvc ScopeService, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, scope: scopeSvc, logger: logger}
}

// Create 创建学生，三步开通：认证账号 → 用户记录 → 学生档案。
// 三步不在同一事务中：第一步成功后任何一步失败都返回 ProvisioningError，
// 已创建的认证账号保留原样，由管理员人工处理，不做自动补偿。
func (s *studentService) Create(ctx context.Context, ident *scope.Identity, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		// 未提供邮箱时按学籍号生成占位邮箱
		email = fmt.Sprintf("%s@escuela.com", strings.ToLower(req.NationalID))
	}

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

	user := &model.User{UserID: account.AccountID, Email: email, Role: model.RoleStudent}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("学生开通失败：users 记录写入失败，认证账号已创建",
			zap.String("account_id", account.AccountID), zap.Error(err))
		return nil, &apperrors.ProvisioningError{Step: "user", AccountID: account.AccountID, Err: err}
	}

	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		return nil, &apperrors.ProvisioningError{Step: "profile", AccountID: account.AccountID, Err: err}
	}

	student := &model.Student{
		UserID:     account.AccountID,
		Name:       req.Name,
		Surname1:   req.Surname1,
		Surname2:   req.Surname2,
		NationalID: req.NationalID,
		BirthDate:  birthDate,
		GroupID:    req.GroupID,
		Active:     true,
	}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		s.logger.Error("学生开通失败：学生档案写入失败，认证账号已创建",
			zap.String("account_id", account.AccountID), zap.Error(err))
		return nil, &apperrors.ProvisioningError{Step: "profile", AccountID: account.AccountID, Err: err}
	}

	s.logger.Info("学生创建成功",
		zap.String("student_id", student.StudentID),
		zap.String("operator", ident.UserID))
	return studentToResponse(student), nil
}

func (s *studentService) Get(ctx context.Context, ident *scope.Identity, id string) (*dto.StudentResponse, error) {
	f, err := s.scope.FilterFor(ctx, ident, scope.ResourceStudents)
	if err != nil {
		return nil, err
	}
	if !f.AllowsID(id) {
		return nil, ErrStudentNotFound
	}

	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return studentToResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, ident *scope.Identity, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Surname1 != nil {
		student.Surname1 = *req.Surname1
	}
	if req.Surname2 != nil {
		student.Surname2 = req.Surname2
	}
	if req.BirthDate != nil {
		birthDate, err := time.Parse(dateLayout, *req.BirthDate)
		if err != nil {
			return nil, err
		}
		student.BirthDate = birthDate
	}
	if req.GroupID != nil {
		student.GroupID = req.GroupID
	}
	if req.Active != nil {
		student.Active = *req.Active
	}

	if err := s.repo.Student.Update(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("学生信息更新", zap.String("student_id", id), zap.String("operator", ident.UserID))
	return studentToResponse(student), nil
}

// Delete 删除学生，两步：学生档案 → 用户记录，第一步失败立即中止。
// 认证账号不随删除清理，保留审计线索。
func (s *studentService) Delete(ctx context.Context, ident *scope.Identity, id string) error {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if err := s.repo.Student.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.repo.User.Delete(ctx, student.UserID); err != nil {
		s.logger.Error("学生档案已删除但用户记录删除失败",
			zap.String("student_id", id), zap.String("user_id", student.UserID), zap.Error(err))
		return err
	}

	s.logger.Info("学生删除成功", zap.String("student_id", id), zap.String("operator", ident.UserID))
	return nil
}

func (s *studentService) List(ctx context.Context, ident *scope.Identity, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
	f, err := s.scope.FilterFor(ctx, ident, scope.ResourceStudents)
	if err != nil {
		return nil, 0, err
	}

	filters := &repository.StudentListFilters{GroupID: req.GroupID, Keyword: req.Keyword}
	students, total, err := s.repo.Student.List(ctx, f, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, *studentToResponse(&students[i]))
	}
	return out, total, nil
}

func studentToResponse(student *model.Student) *dto.StudentResponse {
	resp := &dto.StudentResponse{
		ID:         student.StudentID,
		UserID:     student.UserID,
		Name:       student.Name,
		Surname1:   student.Surname1,
		Surname2:   student.Surname2,
		NationalID: student.NationalID,
		BirthDate:  student.BirthDate.Format(dateLayout),
		Active:     student.Active,
	}
	if student.Group != nil {
		resp.Group = groupToResponse(student.Group)
	}
	return resp
}
