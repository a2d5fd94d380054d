package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drcvmx/school-system/internal/service"
	"github.com/drcvmx/school-system/pkg/response"
)

// SetupHandler 初始化演示账号 HTTP 处理器
type SetupHandler struct {
	setupSvc service.SetupService
}

// NewSetupHandler 创建 SetupHandler
func NewSetupHandler(setupSvc service.SetupService) *SetupHandler {
	return &SetupHandler{setupSvc: setupSvc}
}

// ProvisionSeedAccounts 幂等开通预置演示账号
// POST /api/v1/admin/setup-users
func (h *SetupHandler) ProvisionSeedAccounts(c *gin.Context) {
	result := h.setupSvc.ProvisionSeedAccounts(c.Request.Context())
	response.OK(c, result)
}
