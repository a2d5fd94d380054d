package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/repository"
	"github.com/drcvmx/school-system/pkg/jwt"
	"github.com/drcvmx/school-system/pkg/redis"
)

var (
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	// ErrPasswordMismatch 旧密码不正确
	ErrPasswordMismatch = errors.New("旧密码不正确")
	// ErrInvalidRefreshToken 刷新令牌无效或已登出
	ErrInvalidRefreshToken = errors.New("刷新令牌无效")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("用户不存在")
)

// AuthService 认证服务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	// ResetPassword 管理员重置某用户密码，返回临时密码
	ResetPassword(ctx context.Context, targetUserID string) (*dto.ResetPasswordResponse, error)
}

type authService struct {
	repo     *repository.Repository
	identity IdentityService
	jwtMgr   *jwt.Manager
	rdb      *redis.Client
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, identity IdentityService, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{repo: repo, identity: identity, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.repo.Account.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("登录密码校验失败", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.User.GetByID(ctx, account.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 有认证账号但无用户记录：开通流程残留，拒绝登录
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("用户登录成功", zap.String("user_id", user.UserID), zap.String("role", user.Role.String()))
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		// Redis 不可用时登出降级为仅客户端丢弃 Token
		s.logger.Warn("Redis 不可用，登出未写入黑名单", zap.String("user_id", claims.UserID))
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		return err
	}
	s.logger.Info("用户登出", zap.String("user_id", claims.UserID))
	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidRefreshToken
	}

	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if blacklisted {
			return nil, ErrInvalidRefreshToken
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	// 旧刷新令牌作废，防止重放
	if s.rdb != nil {
		_ = s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	}

	return s.issueTokens(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	resp := &dto.MeResponse{
		ID:    user.UserID,
		Email: user.Email,
		Role:  user.Role.String(),
	}

	ident, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp.ProfileID = ident.ProfileID

	switch user.Role {
	case model.RoleTeacher:
		if teacher, err := s.repo.Teacher.GetByID(ctx, ident.ProfileID); err == nil {
			resp.FullName = teacher.FullName()
		}
	case model.RoleStudent:
		if student, err := s.repo.Student.GetByID(ctx, ident.ProfileID); err == nil {
			resp.FullName = student.FullName()
		}
	}

	return resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	account, err := s.repo.Account.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.Account.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.logger.Info("用户修改密码", zap.String("user_id", userID))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, targetUserID string) (*dto.ResetPasswordResponse, error) {
	if _, err := s.repo.Account.GetByID(ctx, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	temp := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Account.UpdatePassword(ctx, targetUserID, string(hash)); err != nil {
		return nil, err
	}

	s.logger.Info("管理员重置用户密码", zap.String("target_user_id", targetUserID))
	return &dto.ResetPasswordResponse{TempPassword: temp}, nil
}

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role.String())
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role.String())
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User: dto.UserResponse{
			ID:    user.UserID,
			Email: user.Email,
			Role:  user.Role.String(),
		},
	}, nil
}
