// Package router 提供 HTTP 路由注册
// 本文件定义输入状态与在线状态的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPresenceRoutes 注册在场状态相关路由（需要认证）
func (rt *Router) RegisterPresenceRoutes(rg *gin.RouterGroup) {
	// 输入状态挂在群组资源下
	rg.POST("/groups/:id/typing", rt.handlers.Presence.SetTyping) // 开始/停止输入
	rg.GET("/groups/:id/typing", rt.handlers.Presence.ListTyping) // 正在输入的用户

	// 在线状态挂在用户资源下
	rg.POST("/users/:id/online-status", rt.handlers.Presence.SetOnlineStatus) // 上报在线状态
	rg.GET("/users/:id/online-status", rt.handlers.Presence.GetOnlineStatus)  // 查询在线状态
}
