// Package router 提供 HTTP 路由注册
// 本文件定义消息生命周期与已读回执的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册消息相关路由（需要认证）
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messages := rg.Group("/messages")
	{
		// ===== 消息生命周期 =====
		messages.POST("", rt.handlers.Message.SendMessage)          // 发送消息
		messages.GET("", rt.handlers.Message.ListMessages)          // 分页拉取（读即已读）
		messages.PUT("/:id", rt.handlers.Message.EditMessage)       // 编辑（15 分钟窗口）
		messages.DELETE("/:id", rt.handlers.Message.DeleteMessage)  // 删除（发送者 1 小时，管理员不限）
		messages.POST("/forward", rt.handlers.Message.ForwardMessage) // 批量转发
		messages.GET("/search", rt.handlers.Message.SearchMessages)   // 群内搜索

		// ===== 已读回执与送达状态 =====
		messages.POST("/:id/read", rt.handlers.Receipt.MarkRead)      // 显式标记已读
		messages.GET("/:id/info", rt.handlers.Receipt.GetMessageInfo) // 送达状态三分组

		// ===== 收藏 =====
		messages.POST("/:id/star", rt.handlers.Preference.StarMessage)     // 收藏消息
		messages.DELETE("/:id/star", rt.handlers.Preference.UnstarMessage) // 取消收藏
	}
}
