// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 事件流路由
package router

import (
	"github.com/gin-gonic/gin"

	"project_chat_server/internal/handler"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由（需要认证）
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", handler.WsConnectHandler) // 事件推送流
}
