// Package router 提供 HTTP 路由注册
// 本文件定义免打扰/归档/拉黑/收藏列表的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPreferenceRoutes 注册用户偏好相关路由（需要认证）
func (rt *Router) RegisterPreferenceRoutes(rg *gin.RouterGroup) {
	// 免打扰与归档挂在群组资源下
	rg.POST("/groups/:id/mute", rt.handlers.Preference.MuteGroup)        // 设置免打扰
	rg.DELETE("/groups/:id/mute", rt.handlers.Preference.UnmuteGroup)    // 取消免打扰
	rg.POST("/groups/:id/archive", rt.handlers.Preference.ArchiveGroup)  // 归档群组
	rg.DELETE("/groups/:id/archive", rt.handlers.Preference.UnarchiveGroup) // 取消归档
	rg.GET("/groups/:id/starred", rt.handlers.Preference.GetStarredMessages) // 收藏列表

	// 拉黑挂在用户资源下（单向）
	rg.POST("/users/:id/block", rt.handlers.Preference.BlockUser)     // 拉黑用户
	rg.DELETE("/users/:id/block", rt.handlers.Preference.UnblockUser) // 取消拉黑
}
