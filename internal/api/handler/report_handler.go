package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drcvmx/school-system/internal/service"
	"github.com/drcvmx/school-system/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 成绩单与看板 HTTP 处理器
type ReportHandler struct {
	reportSvc   service.ReportService
	identitySvc service.IdentityService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService, identitySvc service.IdentityService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, identitySvc: identitySvc}
}

// ReportCards 查询成绩单（按调用者可见范围过滤）
// GET /api/v1/report-cards
func (h *ReportHandler) ReportCards(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	cards, err := h.reportSvc.ReportCards(c.Request.Context(), ident, c.Query("school_cycle_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, cards)
}

// ExportXLSX 导出成绩单 Excel 文件
// GET /api/v1/report-cards/export/xlsx
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	data, err := h.reportSvc.ExportXLSX(c.Request.Context(), ident, c.Query("school_cycle_id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	filename := fmt.Sprintf("boletas-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, xlsxContentType, data)
}

// ExportPDF PDF 导出占位端点
// GET /api/v1/report-cards/export/pdf
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	result := h.reportSvc.ExportPDF(c.Request.Context(), ident, c.Query("student_id"))
	response.OK(c, result)
}

// Dashboard 角色看板汇总
// GET /api/v1/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	data, err := h.reportSvc.Dashboard(c.Request.Context(), ident)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, data)
}
