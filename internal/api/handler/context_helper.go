package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

// 中间件写入 gin.Context 的键
const (
	CtxUserID         = "user_id"
	CtxRole           = "role"
	CtxTokenID        = "jti"
	CtxTokenExpiresAt = "token_expires_at"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(CtxUserID)
	if s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	s := c.GetString(CtxRole)
	if s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// OptionalCaller 可选认证路由上的调用方；未登录时均为空串
func OptionalCaller(c *gin.Context) (userID, role string) {
	return c.GetString(CtxUserID), c.GetString(CtxRole)
}

// mustGetToken 当前 Access Token 的 JTI 与过期时间，供登出使用
func mustGetToken(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(CtxTokenID)
	exp := c.GetTime(CtxTokenExpiresAt)
	if jti == "" || exp.IsZero() {
		response.Unauthorized(c, "未认证")
		return "", time.Time{}, false
	}
	return jti, exp, true
}
