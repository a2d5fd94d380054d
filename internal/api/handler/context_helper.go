package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/drcvmx/school-system/internal/scope"
	"github.com/drcvmx/school-system/internal/service"
	"github.com/drcvmx/school-system/pkg/apperrors"
	"github.com/drcvmx/school-system/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustResolveIdentity 解析当前会话的完整身份（含档案 id）。
// 身份不存在按 401 处理；档案缺失属数据完整性问题，按 500 处理。
// 调用方应在 ok=false 时直接 return。
func MustResolveIdentity(c *gin.Context, identitySvc service.IdentityService) (*scope.Identity, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return nil, false
	}

	ident, err := identitySvc.Resolve(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrIdentityNotFound) {
			response.Unauthorized(c, 10002, "用户身份不存在")
			return nil, false
		}
		response.InternalError(c)
		return nil, false
	}
	return ident, true
}
