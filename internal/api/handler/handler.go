package handler

import "github.com/drcvmx/school-system/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Student  *StudentHandler
	Teacher  *TeacherHandler
	Academic *AcademicHandler
	Grade    *GradeHandler
	Report   *ReportHandler
	Calendar *CalendarHandler
	Setup    *SetupHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Student:  NewStudentHandler(svc.Student, svc.Identity),
		Teacher:  NewTeacherHandler(svc.Teacher, svc.Identity),
		Academic: NewAcademicHandler(svc.Academic, svc.Identity),
		Grade:    NewGradeHandler(svc.Grade, svc.Identity),
		Report:   NewReportHandler(svc.Report, svc.Identity),
		Calendar: NewCalendarHandler(svc.Calendar),
		Setup:    NewSetupHandler(svc.Setup),
	}
}
