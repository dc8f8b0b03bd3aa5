package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey 请求ID在gin上下文中的键
const requestIDKey = "request_id"

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// RequestID 请求ID中间件
// 为每个请求生成唯一ID，用于日志关联；客户端已携带时沿用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID 从gin上下文中获取请求ID
func GetRequestID(c *gin.Context) string {
	if v, exists := c.Get(requestIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
