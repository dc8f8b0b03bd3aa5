// Package watcher 提供存储目录监听服务
// 监听存储目录的文件增删（例如运维直接往目录里放文件或清理文件），
// 合并短时间内的连续变化后向通知通道广播一次files:updated事件
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/xuanbo/easyshare/internal/logger"
	"github.com/xuanbo/easyshare/internal/service/storage"
)

// defaultDebounce 变化事件的合并窗口
const defaultDebounce = 500 * time.Millisecond

// Broadcaster 通知广播接口
// 只声明本服务需要的方法，便于测试时注入假实现
type Broadcaster interface {
	BroadcastFilesUpdated(latest *storage.FileDescriptor)
}

// DirWatcherService 存储目录监听服务接口
type DirWatcherService interface {
	// Start 启动监听服务
	// 参数:
	//   ctx - 上下文，用于控制服务生命周期
	// 返回:
	//   error - 启动失败时返回错误
	Start(ctx context.Context) error

	// Stop 停止监听服务，等待工作协程退出
	Stop() error
}

// dirWatcherService 存储目录监听服务实现
type dirWatcherService struct {
	dir         string          // 被监听的存储目录
	broadcaster Broadcaster     // 通知广播器
	debounce    time.Duration   // 事件合并窗口
	watcher     *fsnotify.Watcher
	stopChan    chan struct{}   // 停止信号通道
	wg          sync.WaitGroup  // 等待工作协程退出
	isRunning   bool            // 服务运行状态
	mu          sync.Mutex      // 保护运行状态
}

// NewDirWatcherService 创建存储目录监听服务实例
func NewDirWatcherService(dir string, broadcaster Broadcaster) DirWatcherService {
	return &dirWatcherService{
		dir:         dir,
		broadcaster: broadcaster,
		debounce:    defaultDebounce,
		stopChan:    make(chan struct{}),
	}
}

// Start 启动监听服务
func (s *dirWatcherService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("目录监听服务已在运行")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件系统监听器失败: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("监听目录 %s 失败: %w", s.dir, err)
	}

	s.watcher = watcher
	s.isRunning = true

	s.wg.Add(1)
	go s.watchLoop(ctx)

	logger.Infof("目录监听服务已启动，监听目录: %s", s.dir)
	return nil
}

// Stop 停止监听服务
func (s *dirWatcherService) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	return s.watcher.Close()
}

// watchLoop 监听事件主循环
// 收到相关事件后重置合并定时器，窗口内没有新事件时广播一次
func (s *dirWatcherService) watchLoop(ctx context.Context) {
	defer s.wg.Done()

	timer := time.NewTimer(s.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !s.relevant(event) {
				continue
			}
			logger.Debugf("目录变化: %s %s", event.Op, event.Name)
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.debounce)
			pending = true
		case <-timer.C:
			pending = false
			logger.Infof("存储目录发生变化，广播文件更新事件")
			s.broadcaster.BroadcastFilesUpdated(nil)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("目录监听错误: %v", err)
		}
	}
}

// relevant 判断事件是否值得广播
// 只关心文件的出现和消失；隐藏文件（含上传临时文件）忽略
func (s *dirWatcherService) relevant(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}
