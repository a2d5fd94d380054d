package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/drcvmx/school-system/internal/dto"
	"github.com/drcvmx/school-system/internal/service"
	"github.com/drcvmx/school-system/pkg/apperrors"
	"github.com/drcvmx/school-system/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
type StudentHandler struct {
	studentSvc  service.StudentService
	identitySvc service.IdentityService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService, identitySvc service.IdentityService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc, identitySvc: identitySvc}
}

// Create 创建学生（含认证账号开通）
// POST /api/v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studentSvc.Create(c.Request.Context(), ident, &req)
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

// Get 查询学生详情
// GET /api/v1/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	result, err := h.studentSvc.Get(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12003, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 更新学生信息
// PUT /api/v1/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.studentSvc.Update(c.Request.Context(), ident, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12003, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Delete 删除学生（档案 + 用户记录）
// DELETE /api/v1/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	if err := h.studentSvc.Delete(c.Request.Context(), ident, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.NotFound(c, 12003, "学生不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// List 分页查询学生列表（按调用者可见范围过滤）
// GET /api/v1/students
func (h *StudentHandler) List(c *gin.Context) {
	ident, ok := MustResolveIdentity(c, h.identitySvc)
	if !ok {
		return
	}

	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.studentSvc.List(c.Request.Context(), ident, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}
