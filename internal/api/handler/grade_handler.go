package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/service"
	"github.com/drcvmx/school-system/pkg/apperrors"
	"github.com/drcvmx/school-system/pkg/response"
)

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	gradeSvc    service.GradeService
	identitySvc service.IdentityService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService, identitySvc service.IdentityService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc, identitySvc: identitySvc}
}

// Create 录入成绩
// POST /api/v1/grades
func (h *GradeHandler) Create(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.gradeSvc.Create(c.Request.Context(), ident, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrGradeOutOfRange):
			response.BadRequest(c, 14001, "成绩必须在 0 到 10 之间")
		case errors.Is(err, service.ErrGradeExists):
			response.Conflict(c, 14002, "该学生在此授课周期已有成绩")
		case errors.Is(err, service.ErrGradeForbidden):
			response.Forbidden(c, 14003, "无权为该授课录入成绩")
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.NotFound(c, 13005, "授课分配不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// Update 更新成绩
// PUT /api/v1/grades/:id
func (h *GradeHandler) Update(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.gradeSvc.Update(c.Request.Context(), ident, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrGradeOutOfRange):
			response.BadRequest(c, 14001, "成绩必须在 0 到 10 之间")
		case errors.Is(err, service.ErrGradeNotFound):
			response.NotFound(c, 14004, "成绩不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Delete 删除成绩
// DELETE /api/v1/grades/:id
func (h *GradeHandler) Delete(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	if err := h.gradeSvc.Delete(c.Request.Context(), ident, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrGradeNotFound) {
			response.NotFound(c, 14004, "成绩不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// List 分页查询成绩明细（按调用者可见范围过滤）
// GET /api/v1/grades
func (h *GradeHandler) List(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	var req dto.GradeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.gradeSvc.List(c.Request.Context(), ident, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// SubjectAverage 查询某学生某科目均分
// GET /api/v1/grades/averages/subject
func (h *GradeHandler) SubjectAverage(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	avg, err := h.gradeSvc.SubjectAverage(c.Request.Context(), ident,
		c.Query("student_id"), c.Query("subject_id"), c.Query("school_cycle_id"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12003, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}

	// 无成绩时 average 为 null，与 0 分严格区分
	response.OK(c, gin.H{"average": avg})
}

// OverallAverage 查询某学生总均分
// GET /api/v1/grades/averages/overall
func (h *GradeHandler) OverallAverage(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	avg, err := h.gradeSvc.OverallAverage(c.Request.Context(), ident,
		c.Query("student_id"), c.Query("school_cycle_id"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12003, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"average": avg})
}
