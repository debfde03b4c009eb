// Package router 提供 HTTP 路由注册
// 本文件定义群组生命周期与成员管理的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterGroupRoutes 注册群组相关路由（需要认证）
func (rt *Router) RegisterGroupRoutes(rg *gin.RouterGroup) {
	groups := rg.Group("/groups")
	{
		// ===== 群组生命周期 =====
		groups.POST("", rt.handlers.Group.CreateGroup)       // 创建群组
		groups.GET("", rt.handlers.Group.ListGroups)         // 列出项目内群组
		groups.PUT("/:id", rt.handlers.Group.UpdateGroup)    // 更新群组信息
		groups.DELETE("/:id", rt.handlers.Group.DeleteGroup) // 软删除群组

		// ===== 成员管理（部分成功批量操作）=====
		groups.GET("/:id/members", rt.handlers.Group.ListMembers)      // 群成员列表
		groups.POST("/:id/members", rt.handlers.Group.AddMembers)      // 批量添加成员
		groups.DELETE("/:id/members", rt.handlers.Group.RemoveMembers) // 批量移除成员
	}
}
