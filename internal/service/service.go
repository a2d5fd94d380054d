package service

import (
	"go.uber.org/zap"

	"github.com/drcvmx/school-system/config"
	"github.com/drcvmx/school-system/internal/repository"
	"github.com/drcvmx/school-system/pkg/jwt"
	"github.com/drcvmx/school-system/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Identity IdentityService
	Scope    ScopeService
	Auth     AuthService
	Student  StudentService
	Teacher  TeacherService
	Academic AcademicService
	Grade    GradeService
	Report   ReportService
	Calendar CalendarService
	Setup    SetupService
}

// NewService 创建 Service 聚合并完成依赖装配
func NewService(repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Service {
	identity := NewIdentityService(repo, logger)
	scopeSvc := NewScopeService(repo, logger)

	return &Service{
		Identity: identity,
		Scope:    scopeSvc,
		Auth:     NewAuthService(repo, identity, jwtMgr, rdb, logger),
		Student:  NewStudentService(repo, scopeSvc, logger),
		Teacher:  NewTeacherService(repo, scopeSvc, logger),
		Academic: NewAcademicService(repo, scopeSvc, logger),
		Grade:    NewGradeService(repo, scopeSvc, logger),
		Report:   NewReportService(repo, scopeSvc, logger),
		Calendar: NewCalendarService(repo, logger),
		Setup:    NewSetupService(repo, &cfg.Setup, logger),
	}
}
