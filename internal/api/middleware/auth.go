package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greatson79/test1-lms-sub000/internal/api/handler"
	"github.com/greatson79/test1-lms-sub000/internal/service"
	"github.com/greatson79/test1-lms-sub000/pkg/jwt"
	"github.com/greatson79/test1-lms-sub000/pkg/redis"
	"github.com/greatson79/test1-lms-sub000/pkg/response"
)

// AccountChecker 校验 Token 持有者的账号状态，由 service.AuthService 实现
type AccountChecker interface {
	CheckAccount(ctx context.Context, userID string) error
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// rdb 为 nil 时跳过黑名单检查；accounts 为 nil 时跳过账号状态检查
// 账号被限制后，未过期的 Access Token 也立即失效
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, accounts AccountChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, jwtMgr)
		if !ok {
			response.Unauthorized(c, "缺少或无效的认证信息")
			c.Abort()
			return
		}

		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis 出错时降级放行
				logger.Warn("检查 Token 黑名单失败", zap.Error(err))
			} else if blacklisted {
				response.Unauthorized(c, "Token 已注销")
				c.Abort()
				return
			}
		}

		if accounts != nil {
			err := accounts.CheckAccount(c.Request.Context(), claims.UserID)
			switch {
			case err == nil:
			case errors.Is(err, service.ErrAccountRestricted):
				response.Forbidden(c, "ACCOUNT_RESTRICTED", "账号已被限制")
				c.Abort()
				return
			case errors.Is(err, service.ErrUserNotFound):
				response.Unauthorized(c, "用户不存在")
				c.Abort()
				return
			default:
				// 数据库出错时降级放行，与黑名单一致
				logger.Warn("检查账号状态失败", zap.String("user_id", claims.UserID), zap.Error(err))
			}
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth 可选认证：携带合法 Token 时注入用户信息，否则按匿名访问
func OptionalAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, jwtMgr); ok {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(handler.CtxRole)
		if userRole == "" {
			response.Unauthorized(c, "未认证")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "FORBIDDEN", "无权限访问")
		c.Abort()
	}
}

func parseBearer(c *gin.Context, jwtMgr *jwt.Manager) (*jwt.Claims, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, false
	}

	claims, err := jwtMgr.ParseToken(parts[1])
	if err != nil || claims.TokenType != jwt.TokenTypeAccess {
		return nil, false
	}
	return claims, true
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(handler.CtxUserID, claims.UserID)
	c.Set(handler.CtxRole, claims.Role)
	c.Set(handler.CtxTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(handler.CtxTokenExpiresAt, claims.ExpiresAt.Time)
	}
}
