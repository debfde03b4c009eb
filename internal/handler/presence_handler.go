// Package handler 提供 HTTP 请求处理器
// 本文件处理输入状态与在线状态的 API 请求
package handler

import (
	"project_chat_server/internal/dto/request"
	"project_chat_server/internal/service"
	"project_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// 在线状态只能本人上报
var errServerOnlyOwnStatus = errorx.New(errorx.CodeAccessDenied, "只能上报自己的在线状态")

// PresenceHandler 在场状态请求处理器
type PresenceHandler struct {
	presenceSvc service.PresenceService
}

// NewPresenceHandler 创建在场状态处理器实例
func NewPresenceHandler(presenceSvc service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceSvc: presenceSvc}
}

// SetTyping 设置输入状态
// POST /groups/:id/typing
// 请求体: request.TypingRequest
// 响应: nil
func (h *PresenceHandler) SetTyping(c *gin.Context) {
	var req request.TypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	if err := h.presenceSvc.SetTyping(userId, role, c.Param("id"), *req.IsTyping); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ListTyping 列出群内正在输入的用户
// GET /groups/:id/typing
// 响应: respond.TypingRespond
func (h *PresenceHandler) ListTyping(c *gin.Context) {
	userId, role := Principal(c)
	data, err := h.presenceSvc.ListTyping(userId, role, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SetOnlineStatus 上报在线状态
// POST /users/:id/online-status
// 请求体: request.OnlineStatusRequest
// 响应: nil
// 只允许为自己上报，路径中的用户必须是当前用户
func (h *PresenceHandler) SetOnlineStatus(c *gin.Context) {
	var req request.OnlineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, _ := Principal(c)
	if c.Param("id") != userId {
		HandleError(c, errServerOnlyOwnStatus)
		return
	}
	if err := h.presenceSvc.SetOnline(userId, *req.IsOnline); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetOnlineStatus 查询在线状态
// GET /users/:id/online-status
// 响应: respond.OnlineStatusRespond
func (h *PresenceHandler) GetOnlineStatus(c *gin.Context) {
	data, err := h.presenceSvc.GetOnlineStatus(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
