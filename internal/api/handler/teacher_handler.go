package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/service"
	"github.com/drcvmx/school-system/pkg/apperrors"
	"github.com/drcvmx/school-system/pkg/response"
)

// TeacherHandler 教师模块 HTTP 处理器
type TeacherHandler struct {
	teacherSvc  service.TeacherService
	identitySvc service.IdentityService
}

// NewTeacherHandler 创建 TeacherHandler
func NewTeacherHandler(teacherSvc service.TeacherService, identitySvc service.IdentityService) *TeacherHandler {
	return &TeacherHandler{teacherSvc: teacherSvc, identitySvc: identitySvc}
}

// Create 创建教师（含认证账号开通）
// POST /api/v1/teachers
func (h *TeacherHandler) Create(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	var req dto.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.teacherSvc.Create(c.Request.Context(), ident, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, 12001, "邮箱已被占用")
			return
		}
		var provErr *apperrors.ProvisioningError
		if errors.As(err, &provErr) {
			response.ErrorWithDetails(c, 500, 12002, "账号开通不完整，请联系管理员处理", provErr.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Get 查询教师详情
// GET /api/v1/teachers/:id
func (h *TeacherHandler) Get(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	result, err := h.teacherSvc.Get(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			response.NotFound(c, 12004, "教师不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 更新教师信息
// PUT /api/v1/teachers/:id
func (h *TeacherHandler) Update(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	var req dto.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.teacherSvc.Update(c.Request.Context(), ident, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			response.NotFound(c, 12004, "教师不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Delete 删除教师（档案 + 用户记录）
// DELETE /api/v1/teachers/:id
func (h *TeacherHandler) Delete(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	if err := h.teacherSvc.Delete(c.Request.Context(), ident, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			response.NotFound(c, 12004, "教师不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// List 分页查询教师列表（管理员全量，教师仅本人）
// GET /api/v1/teachers
func (h *TeacherHandler) List(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	var req dto.TeacherListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.teacherSvc.List(c.Request.Context(), ident, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}
