// Package notify 实现文件变更通知通道
// 维护所有存活的WebSocket连接，在上传或客户端请求刷新时
// 向全部连接广播files:updated事件；不做消息排队、重试和补发，
// 广播时不在线的客户端通过重连或主动拉取列表来同步状态
package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xuanbo/easyshare/internal/i18n"
	"github.com/xuanbo/easyshare/internal/logger"
	"github.com/xuanbo/easyshare/internal/service/storage"
)

// writeTimeout 单次发送的超时时间，避免被无响应的客户端阻塞
const writeTimeout = 10 * time.Second

// client 单个通知连接
type client struct {
	conn *websocket.Conn
	// gorilla/websocket同一时刻只允许一个writer，
	// 广播和读循环里的错误回复都可能写同一连接
	writeMu sync.Mutex
}

// send 向该连接发送一个事件
func (c *client) send(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub 通知连接注册表
// 连接建立时登记、断开或发送失败时移除；广播按接入顺序逐个发送，
// 单个连接的失败只影响它自己
type Hub struct {
	mu       sync.RWMutex
	clients  []*client
	upgrader websocket.Upgrader
}

// NewHub 创建通知注册表实例
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// 与HTTP接口一致，允许任意来源
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection 处理新的WebSocket连接
// 升级成功后立即发送connection:ack，随后在当前goroutine里
// 循环读取客户端消息，直到连接关闭
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("WebSocket升级失败: %v", err)
		return
	}

	c := &client{conn: conn}
	h.add(c)
	logger.Infof("通知客户端接入: %s，当前连接数: %d", conn.RemoteAddr(), h.ClientCount())

	ack := Event{
		Type: EventConnectionAck,
		Payload: AckPayload{
			Message:     i18n.T("ws_connected"),
			ConnectedAt: time.Now(),
		},
	}
	if err := c.send(ack); err != nil {
		logger.Warnf("发送连接确认失败: %v", err)
		h.remove(c)
		return
	}

	h.readLoop(c)
}

// readLoop 读取并分发客户端消息
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			logger.Infof("通知客户端断开: %s", c.conn.RemoteAddr())
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != MessageFilesRefresh {
			// 格式错误只回复发送方，不触发广播
			h.replyError(c)
			continue
		}

		// 客户端请求刷新：向所有连接广播，而不只是请求方
		h.BroadcastFilesUpdated(nil)
	}
}

// replyError 向单个连接回复错误事件
func (h *Hub) replyError(c *client) {
	event := Event{
		Type:    EventError,
		Payload: ErrorPayload{Message: i18n.T("ws_bad_message")},
	}
	if err := c.send(event); err != nil {
		logger.Warnf("回复错误事件失败: %v", err)
	}
}

// BroadcastFilesUpdated 向所有存活连接广播文件更新事件
// latest为触发广播的文件描述符，客户端请求刷新时传nil
// 发送失败的连接被记录日志并移除，不影响其余连接
func (h *Hub) BroadcastFilesUpdated(latest *storage.FileDescriptor) {
	event := Event{
		Type: EventFilesUpdated,
		Payload: FilesUpdatedPayload{
			Latest:      latest,
			RefreshedAt: time.Now(),
		},
	}

	// 先拍快照，发送期间不持有注册表锁，
	// 容忍广播过程中有连接接入或断开
	h.mu.RLock()
	targets := make([]*client, len(h.clients))
	copy(targets, h.clients)
	h.mu.RUnlock()

	var failed []*client
	for _, c := range targets {
		if err := c.send(event); err != nil {
			logger.Warnf("向 %s 广播失败: %v", c.conn.RemoteAddr(), err)
			failed = append(failed, c)
		}
	}

	for _, c := range failed {
		h.remove(c)
	}
}

// ClientCount 返回当前存活连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close 关闭所有连接，用于服务退出时的清理
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = nil
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
}

// add 登记新连接，保持接入顺序
func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients = append(h.clients, c)
}

// remove 移除并关闭连接，重复移除是安全的
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	for i, existing := range h.clients {
		if existing == c {
			h.clients = append(h.clients[:i], h.clients[i+1:]...)
			break
		}
	}
	h.mu.Unlock()

	_ = c.conn.Close()
}
