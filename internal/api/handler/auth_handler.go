package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greatson79/test1-lms-sub000/internal/dto"
	"github.com/greatson79/test1-lms-sub000/internal/service"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 注册学员或讲师账号
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "AUTH_FETCH_ERROR")
		return
	}

	response.Created(c, user)
}

// Login 用户登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "AUTH_FETCH_ERROR")
		return
	}

	response.OK(c, result)
}

// RefreshToken 刷新 Token
// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "AUTH_FETCH_ERROR")
		return
	}

	response.OK(c, result)
}

// Logout 用户登出，当前 Access Token 加入黑名单
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp, ok := mustGetToken(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		respondError(c, err, "AUTH_FETCH_ERROR")
		return
	}

	response.NoContent(c)
}

// Me 当前登录用户
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "USER_FETCH_ERROR")
		return
	}

	response.OK(c, user)
}
