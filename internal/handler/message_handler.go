// Package handler 提供 HTTP 请求处理器
// 本文件处理消息生命周期的 API 请求
package handler

import (
	"project_chat_server/internal/dto/request"
	"project_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建消息处理器实例
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// SendMessage 发送消息
// POST /messages
// 请求体: request.SendMessageRequest
// 响应: respond.MessageRespond (201)
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.messageSvc.SendMessage(userId, role, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// ListMessages 分页拉取群消息
// GET /messages?group_id=xxx&page=1&limit=20
// 响应: respond.MessagePageRespond
func (h *MessageHandler) ListMessages(c *gin.Context) {
	var req request.GetMessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.messageSvc.ListMessages(userId, role, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// EditMessage 编辑消息
// PUT /messages/:id
// 请求体: request.EditMessageRequest
// 响应: respond.MessageRespond
func (h *MessageHandler) EditMessage(c *gin.Context) {
	var req request.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.messageSvc.EditMessage(userId, role, c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteMessage 删除消息
// DELETE /messages/:id
// 响应: nil
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userId, role := Principal(c)
	if err := h.messageSvc.DeleteMessage(userId, role, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ForwardMessage 批量转发消息（部分成功）
// POST /messages/forward
// 请求体: request.ForwardMessageRequest
// 响应: respond.ForwardRespond
func (h *MessageHandler) ForwardMessage(c *gin.Context) {
	var req request.ForwardMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.messageSvc.ForwardMessage(userId, role, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SearchMessages 群内消息搜索
// GET /messages/search?group_id=xxx&keyword=xxx
// 响应: []respond.MessageRespond
func (h *MessageHandler) SearchMessages(c *gin.Context) {
	var req request.SearchMessageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.messageSvc.SearchMessages(userId, role, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
