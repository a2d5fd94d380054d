package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/model"
	"github.com/drcvmx/school-system/internal/report"
	"github.com/drcvmx/school-system/internal/repository"
	"github.com/drcvmx/school-system/internal/scope"
)

// ReportService 成绩单与仪表盘服务
type ReportService interface {
	// ReportCards 装配调用者可见学生的成绩单
	ReportCards(ctx context.Context, ident *scope.Identity, cycleID string) ([]report.ReportCard, error)
	// ExportXLSX 将成绩单导出为 Excel 文件
	ExportXLSX(ctx context.Context, ident *scope.Identity, cycleID string) ([]byte, error)
	// ExportPDF PDF 导出占位实现
	ExportPDF(ctx context.Context, ident *scope.Identity, studentID string) *dto.PDFExportResponse
	Dashboard(ctx context.Context, ident *scope.Identity) (*dto.DashboardResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	scope  ScopeService
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, scopeSvc ScopeService, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, scope: scopeSvc, logger: logger}
}

func (s *reportService) ReportCards(ctx context.Context, ident *scope.Identity, cycleID string) ([]report.ReportCard, error) {
	f, err := s.scope.ReportCardFilter(ctx, ident)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Grade.ListReportRows(ctx, f, cycleID, "")
	if err != nil {
		return nil, err
	}
	return report.Assemble(rows), nil
}

func (s *reportService) ExportXLSX(ctx context.Context, ident *scope.Identity, cycleID string) ([]byte, error) {
	cards, err := s.ReportCards(ctx, ident, cycleID)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Boletas"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	headers := []string{"学生", "班级", "学年", "科目", "均分", "是否及格", "总均分"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, h)
	}

	rowIdx := 2
	for _, card := range cards {
		for _, subject := range card.Subjects {
			file.SetCellValue(sheet, fmt.Sprintf("A%d", rowIdx), card.StudentName)
			file.SetCellValue(sheet, fmt.Sprintf("B%d", rowIdx), card.GroupLabel)
			file.SetCellValue(sheet, fmt.Sprintf("C%d", rowIdx), card.CycleLabel)
			file.SetCellValue(sheet, fmt.Sprintf("D%d", rowIdx), subject.SubjectName)
			if subject.Average != nil {
				file.SetCellValue(sheet, fmt.Sprintf("E%d", rowIdx), *subject.Average)
				if report.IsPassing(*subject.Average) {
					file.SetCellValue(sheet, fmt.Sprintf("F%d", rowIdx), "及格")
				} else {
					file.SetCellValue(sheet, fmt.Sprintf("F%d", rowIdx), "不及格")
				}
			} else {
				file.SetCellValue(sheet, fmt.Sprintf("E%d", rowIdx), "—")
			}
			if card.OverallAverage != nil {
				file.SetCellValue(sheet, fmt.Sprintf("G%d", rowIdx), *card.OverallAverage)
			}
			rowIdx++
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}

	s.logger.Info("成绩单 Excel 导出完成",
		zap.Int("card_count", len(cards)),
		zap.String("operator", ident.UserID))
	return buf.Bytes(), nil
}

func (s *reportService) ExportPDF(ctx context.Context, ident *scope.Identity, studentID string) *dto.PDFExportResponse {
	// PDF 渲染尚未接入，先返回固定提示，接口形态保持稳定
	return &dto.PDFExportResponse{
		Success: false,
		Message: "PDF 导出暂未开放，请使用 Excel 导出",
	}
}

func (s *reportService) Dashboard(ctx context.Context, ident *scope.Identity) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{}

	studentFilter, err := s.scope.FilterFor(ctx, ident, scope.ResourceStudents)
	if err != nil {
		return nil, err
	}
	gradeFilter, err := s.scope.FilterFor(ctx, ident, scope.ResourceGrades)
	if err != nil {
		return nil, err
	}

	if ident.Role == model.RoleAdmin {
		if resp.StudentCount, err = s.repo.Student.Count(ctx); err != nil {
			return nil, err
		}
		if resp.TeacherCount, err = s.repo.Teacher.Count(ctx); err != nil {
			return nil, err
		}
		if resp.SubjectCount, err = s.repo.Subject.Count(ctx); err != nil {
			return nil, err
		}
		if resp.GroupCount, err = s.repo.Group.Count(ctx); err != nil {
			return nil, err
		}
	} else {
		resp.StudentCount = int64(len(studentFilter.IDs()))
		subjectFilter, err := s.scope.FilterFor(ctx, ident, scope.ResourceSubjects)
		if err != nil {
			return nil, err
		}
		resp.SubjectCount = int64(len(subjectFilter.IDs()))
		groupFilter, err := s.scope.FilterFor(ctx, ident, scope.ResourceGroups)
		if err != nil {
			return nil, err
		}
		resp.GroupCount = int64(len(groupFilter.IDs()))
	}

	recent, err := s.repo.Grade.RecentRows(ctx, gradeFilter, 5)
	if err != nil {
		return nil, err
	}
	resp.RecentGrades = make([]dto.GradeRowResponse, 0, len(recent))
	for i := range recent {
		resp.RecentGrades = append(resp.RecentGrades, gradeRowToResponse(&recent[i]))
	}

	// 学生仪表盘展示其最佳科目
	if ident.Role == model.RoleStudent {
		f, err := s.scope.ReportCardFilter(ctx, ident)
		if err != nil {
			return nil, err
		}
		rows, err := s.repo.Grade.ListReportRows(ctx, f, "", "")
		if err != nil {
			return nil, err
		}
		cards := report.Assemble(rows)
		if len(cards) > 0 {
			var known []report.SubjectAverage
			for _, subject := range cards[0].Subjects {
				if subject.Average != nil {
					known = append(known, report.SubjectAverage{
						SubjectID:   subject.SubjectID,
						SubjectName: subject.SubjectName,
						Average:     *subject.Average,
					})
				}
			}
			resp.BestSubject = report.BestSubject(known)
		}
	}

	return resp, nil
}
