package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xuanbo/easyshare/internal/notify"
)

// WSHandler 通知通道处理器
type WSHandler struct {
	hub *notify.Hub
}

// NewWSHandler 创建通知通道处理器实例
func NewWSHandler(hub *notify.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// HandleNotify 处理WebSocket连接升级
// 升级成功后连接交由Hub管理，直到客户端断开
func (h *WSHandler) HandleNotify(c *gin.Context) {
	h.hub.HandleConnection(c.Writer, c.Request)
}
