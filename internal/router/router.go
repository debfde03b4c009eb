// Package router 提供 HTTP 路由注册
// 本文件定义路由管理器，聚合各模块的路由注册
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project_chat_server/internal/handler"
	"project_chat_server/internal/infrastructure/middleware"
	"project_chat_server/pkg/errorx"
)

// Router 路由管理器
// 持有 Handler 聚合，按模块注册路由
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 业务路由统一挂在 JWT 认证之后；开启 405 识别，
// 动词用错返回 MethodNotAllowed 而不是 404
func (rt *Router) RegisterRoutes(engine *gin.Engine) {
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"code": errorx.CodeMethodNotAllowed,
			"msg":  errorx.ErrMethodNotAllowed.Msg,
			"data": nil,
		})
	})
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code": errorx.CodeNotFound,
			"msg":  "请求的资源不存在",
			"data": nil,
		})
	})

	authed := engine.Group("", middleware.JWTAuth())
	rt.RegisterGroupRoutes(authed)
	rt.RegisterMessageRoutes(authed)
	rt.RegisterPresenceRoutes(authed)
	rt.RegisterPreferenceRoutes(authed)
	rt.RegisterWebSocketRoutes(authed)
}
