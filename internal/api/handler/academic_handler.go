package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/service"
	"github.com/drcvmx/school-system/pkg/response"
)

// AcademicHandler 学务模块 HTTP 处理器：科目 / 班级 / 学年周期 / 评估周期 / 授课分配
type AcademicHandler struct {
	academicSvc service.AcademicService
	identitySvc service.IdentityService
}

// NewAcademicHandler 创建 AcademicHandler
func NewAcademicHandler(academicSvc service.AcademicService, identitySvc service.IdentityService) *AcademicHandler {
	return &AcademicHandler{academicSvc: academicSvc, identitySvc: identitySvc}
}

// academicNotFound 学务模块"不存在"类错误与文案的映射，未命中返回 false
func academicNotFound(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 13001, "科目不存在")
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 13002, "班级不存在")
	case errors.Is(err, service.ErrCycleNotFound):
		response.NotFound(c, 13003, "学年周期不存在")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 13004, "评估周期不存在")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 13005, "授课分配不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 12004, "教师不存在")
	default:
		return false
	}
	return true
}

// ── 科目 ──

// CreateSubject 创建科目
// POST /api/v1/subjects
func (h *AcademicHandler) CreateSubject(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.academicSvc.CreateSubject(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// UpdateSubject 更新科目
// PUT /api/v1/subjects/:id
func (h *AcademicHandler) UpdateSubject(c *gin.Context) {
	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.academicSvc.UpdateSubject(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// DeleteSubject 删除科目
// DELETE /api/v1/subjects/:id
func (h *AcademicHandler) DeleteSubject(c *gin.Context) {
	if err := h.academicSvc.DeleteSubject(c.Request.Context(), c.Param("id")); err != nil {
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// ListSubjects 查询科目列表（按调用者可见范围过滤）
// GET /api/v1/subjects
func (h *AcademicHandler) ListSubjects(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	list, err := h.academicSvc.ListSubjects(c.Request.Context(), ident)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ── 班级 ──

// CreateGroup 创建班级
// POST /api/v1/groups
func (h *AcademicHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.academicSvc.CreateGroup(c.Request.Context(), &req)
	if err != nil {
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// UpdateGroup 更新班级
// PUT /api/v1/groups/:id
func (h *AcademicHandler) UpdateGroup(c *gin.Context) {
	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.academicSvc.UpdateGroup(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// DeleteGroup 删除班级
// DELETE /api/v1/groups/:id
func (h *AcademicHandler) DeleteGroup(c *gin.Context) {
	if err := h.academicSvc.DeleteGroup(c.Request.Context(), c.Param("id")); err != nil {
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// ListGroups 查询班级列表（按调用者可见范围过滤）
// GET /api/v1/groups
func (h *AcademicHandler) ListGroups(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	list, err := h.academicSvc.ListGroups(c.Request.Context(), ident, c.Query("school_cycle_id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ── 学年周期 ──

// CreateCycle 创建学年周期
// POST /api/v1/school-cycles
func (h *AcademicHandler) CreateCycle(c *gin.Context) {
	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.academicSvc.CreateCycle(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			response.BadRequest(c, 13006, "结束日期不能早于开始日期")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// ActivateCycle 激活学年周期（同时取消其余周期的激活状态）
// PUT /api/v1/school-cycles/:id/activate
func (h *AcademicHandler) ActivateCycle(c *gin.Context) {
	result, err := h.academicSvc.ActivateCycle(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// ListCycles 查询学年周期列表
// GET /api/v1/school-cycles
func (h *AcademicHandler) ListCycles(c *gin.Context) {
	list, err := h.academicSvc.ListCycles(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// GetActiveCycle 查询当前激活的学年周期
// GET /api/v1/school-cycles/active
func (h *AcademicHandler) GetActiveCycle(c *gin.Context) {
	result, err := h.academicSvc.GetActiveCycle(c.Request.Context())
	if err != nil {
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// ── 评估周期 ──

// CreatePeriod 创建评估周期
// POST /api/v1/evaluation-periods
func (h *AcademicHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.academicSvc.CreatePeriod(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			response.BadRequest(c, 13006, "结束日期不能早于开始日期")
			return
		}
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// DeletePeriod 删除评估周期
// DELETE /api/v1/evaluation-periods/:id
func (h *AcademicHandler) DeletePeriod(c *gin.Context) {
	if err := h.academicSvc.DeletePeriod(c.Request.Context(), c.Param("id")); err != nil {
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// ListPeriods 查询评估周期列表（可按学年周期过滤）
// GET /api/v1/evaluation-periods
func (h *AcademicHandler) ListPeriods(c *gin.Context) {
	list, err := h.academicSvc.ListPeriods(c.Request.Context(), c.Query("school_cycle_id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ── 授课分配 ──

// CreateAssignment 创建授课分配
// POST /api/v1/assignments
func (h *AcademicHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.academicSvc.CreateAssignment(c.Request.Context(), &req)
	if err != nil {
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// DeleteAssignment 删除授课分配
// DELETE /api/v1/assignments/:id
func (h *AcademicHandler) DeleteAssignment(c *gin.Context) {
	if err := h.academicSvc.DeleteAssignment(c.Request.Context(), c.Param("id")); err != nil {
		if !academicNotFound(c, err) {
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// ListAssignments 查询授课分配列表
// GET /api/v1/assignments
func (h *AcademicHandler) ListAssignments(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	list, err := h.academicSvc.ListAssignments(c.Request.Context(), ident,
		c.Query("teacher_id"), c.Query("group_id"), c.Query("school_cycle_id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}
