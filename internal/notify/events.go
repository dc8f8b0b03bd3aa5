package notify

import (
	"time"

	"github.com/xuanbo/easyshare/internal/service/storage"
)

// 服务端推送的事件类型
const (
	// EventConnectionAck 连接建立确认，每个新连接收到一次
	EventConnectionAck = "connection:ack"
	// EventFilesUpdated 文件集合发生变化，客户端应重新拉取列表
	EventFilesUpdated = "files:updated"
	// EventError 客户端消息格式错误，仅回复发送方
	EventError = "error"
)

// MessageFilesRefresh 客户端请求重新广播文件更新事件
const MessageFilesRefresh = "files:refresh"

// Event 通知通道的统一事件结构，双向均为JSON文本帧
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// AckPayload 连接确认事件的负载
type AckPayload struct {
	Message     string    `json:"message"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// FilesUpdatedPayload 文件更新事件的负载
// Latest为触发本次广播的文件；客户端主动请求刷新时为null
type FilesUpdatedPayload struct {
	Latest      *storage.FileDescriptor `json:"latest"`
	RefreshedAt time.Time               `json:"refreshedAt"`
}

// ErrorPayload 错误事件的负载
type ErrorPayload struct {
	Message string `json:"message"`
}

// clientMessage 客户端发来的消息，只关心type字段
type clientMessage struct {
	Type string `json:"type"`
}
