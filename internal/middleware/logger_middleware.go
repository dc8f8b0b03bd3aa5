// Package middleware 提供HTTP中间件
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/xuanbo/easyshare/internal/logger"
)

// LoggerMiddleware 日志中间件
type LoggerMiddleware struct {
	logger *logrus.Logger
}

// NewLoggerMiddleware 创建日志中间件实例
func NewLoggerMiddleware() *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger.GetLogger(),
	}
}

// RequestLogger 请求日志中间件
// 记录每个HTTP请求的方法、路径、状态码和耗时
func (m *LoggerMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// 处理请求
		c.Next()

		// WebSocket升级成功后连接被劫持，不再记录响应日志
		if c.Writer.Status() == 101 {
			return
		}

		latency := time.Since(start)
		m.logger.WithFields(logrus.Fields{
			"request_id": GetRequestID(c),
			"status":     c.Writer.Status(),
			"latency":    latency.String(),
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       path,
			"raw_query":  raw,
			"error":      c.Errors.String(),
		}).Info("HTTP请求")
	}
}
