// EasyShare 局域网文件共享服务
// 文件上传后保存到本地目录，通过WebSocket向所有在线客户端推送更新通知
package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"

	"github.com/xuanbo/easyshare/config"
	"github.com/xuanbo/easyshare/internal/logger"
	"github.com/xuanbo/easyshare/internal/notify"
	"github.com/xuanbo/easyshare/internal/router"
	"github.com/xuanbo/easyshare/internal/service/storage"
	watcherservice "github.com/xuanbo/easyshare/internal/service/watcher"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}

	// 初始化文件存储服务
	fileService, err := storage.NewFileService(cfg.Storage)
	if err != nil {
		logger.Fatalf("初始化文件存储服务失败: %v", err)
	}

	// 初始化通知通道
	hub := notify.NewHub()

	// 初始化目录监听服务
	dirWatcher := watcherservice.NewDirWatcherService(fileService.Dir(), hub)
	watcherCtx, cancelWatcher := context.WithCancel(context.Background())
	defer cancelWatcher()
	if err := dirWatcher.Start(watcherCtx); err != nil {
		// 监听失败不致命，上传触发的广播不受影响
		logger.Warnf("启动目录监听服务失败: %v", err)
	}

	// 初始化路由
	r := router.NewRouter(cfg, fileService, hub)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r.GetEngine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 启动服务器
	go func() {
		var err error
		if cfg.Server.EnableHTTPS {
			srv.TLSConfig = &tls.Config{
				NextProtos: []string{"h2", "http/1.1"},
			}
			if cfg.Server.EnableHTTP2 {
				if err := http2.ConfigureServer(srv, &http2.Server{}); err != nil {
					logger.Fatalf("配置HTTP/2失败: %v", err)
				}
			}
			logger.Infof("HTTPS服务器启动在 %s (HTTP/2: %v)", cfg.Server.Addr(), cfg.Server.EnableHTTP2)
			err = srv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			logger.Infof("HTTP服务器启动在 %s，存储目录: %s", cfg.Server.Addr(), fileService.Dir())
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")

	// 停止目录监听
	cancelWatcher()
	if err := dirWatcher.Stop(); err != nil {
		logger.Errorf("停止目录监听服务失败: %v", err)
	}

	// 断开所有通知连接
	hub.Close()

	// 优雅关闭服务器
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("服务器强制关闭: %v", err)
	}

	logger.Info("服务器已退出")
}
