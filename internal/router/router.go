// Package router 负责路由和中间件装配
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/xuanbo/easyshare/config"
	"github.com/xuanbo/easyshare/internal/handler"
	"github.com/xuanbo/easyshare/internal/middleware"
	"github.com/xuanbo/easyshare/internal/notify"
	"github.com/xuanbo/easyshare/internal/service/storage"
	"github.com/xuanbo/easyshare/internal/web"
)

// Router 路由配置
type Router struct {
	engine *gin.Engine
}

// NewRouter 创建路由实例
func NewRouter(cfg *config.Config, fileService storage.FileService, hub *notify.Hub) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// 初始化处理器
	fileHandler := handler.NewFileHandler(fileService, hub, cfg.Server.PublicBaseURL)
	wsHandler := handler.NewWSHandler(hub)

	// 使用中间件
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.NewLoggerMiddleware().RequestLogger())

	// 配置CORS，局域网共享场景下对所有来源开放
	// OPTIONS预检请求由中间件直接短路返回
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        86400,
	}))

	// 首页
	engine.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML())
	})

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Service is running",
		})
	})

	// API路由组
	api := engine.Group("/api")
	{
		api.POST("/upload", fileHandler.UploadFile)
		api.GET("/files", fileHandler.ListFiles)
	}

	// 静态下载，存储名直接作为路径参数
	engine.GET(storage.DownloadRoutePrefix+"/:name", fileHandler.DownloadFile)

	// 文件变更通知通道
	engine.GET("/ws", wsHandler.HandleNotify)

	return &Router{engine: engine}
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
