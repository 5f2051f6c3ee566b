package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求追踪 ID 的请求/响应头，CORS 中同样放行与暴露
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey = "request_id"
	// 外部传入的 ID 超长或含非常规字符时重新生成，避免污染访问日志
	requestIDMaxLen = 64
)

// RequestID 请求追踪 ID 中间件
// 网关 / 前端传入的 X-Request-ID 合法时沿用，否则生成 UUID；
// 结果写入 gin.Context 供访问日志与 panic 日志关联，并回写到响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if !validRequestID(rid) {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header(RequestIDHeader, rid)

		c.Next()
	}
}

// GetRequestID 读取当前请求的追踪 ID；未经过 RequestID 中间件时为空
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// validRequestID 仅接受 [A-Za-z0-9._-]
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > requestIDMaxLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		ch := rid[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_' || ch == '.':
		default:
			return false
		}
	}
	return true
}
