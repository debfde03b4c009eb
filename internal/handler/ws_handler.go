// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 事件流的接入请求
package handler

import (
	ws "project_chat_server/internal/gateway/websocket"
	"project_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// WsConnectHandler WebSocket 事件流接入
// GET /ws
// 将 HTTP 连接升级为 WebSocket 并注册到推送网关，
// 身份来自 JWT 中间件写入的请求上下文
func WsConnectHandler(c *gin.Context) {
	userId, _ := Principal(c)
	if userId == "" {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "未认证的连接"))
		return
	}

	gateway := ws.GetGateway()
	if gateway == nil {
		HandleError(c, errorx.ErrServerBusy)
		return
	}
	gateway.Register(c, userId)
}
