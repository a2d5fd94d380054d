package dto

import "github.com/drcvmx/school-system/internal/report"

// ── 成绩单 / 仪表盘 DTO ──

// ReportCardListRequest 成绩单查询参数
type ReportCardListRequest struct {
	SchoolCycleID string `form:"school_cycle_id" binding:"omitempty,uuid"`
}

// PDFExportResponse 成绩单 PDF 导出响应（当前为桩实现）
type PDFExportResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DashboardResponse 仪表盘统计响应
type DashboardResponse struct {
	StudentCount int64                   `json:"student_count"`
	TeacherCount int64                   `json:"teacher_count"`
	SubjectCount int64                   `json:"subject_count"`
	GroupCount   int64                   `json:"group_count"`
	RecentGrades []GradeRowResponse      `json:"recent_grades"`
	BestSubject  *report.SubjectAverage  `json:"best_subject,omitempty"`
}
