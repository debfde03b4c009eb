// Package handler 提供 HTTP 请求处理器
// 本文件处理已读回执与送达状态的 API 请求
package handler

import (
	"project_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ReceiptHandler 已读回执请求处理器
type ReceiptHandler struct {
	receiptSvc service.ReceiptService
}

// NewReceiptHandler 创建已读回执处理器实例
func NewReceiptHandler(receiptSvc service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptSvc: receiptSvc}
}

// MarkRead 显式标记消息已读（幂等）
// POST /messages/:id/read
// 响应: nil
func (h *ReceiptHandler) MarkRead(c *gin.Context) {
	userId, _ := Principal(c)
	if err := h.receiptSvc.MarkRead(userId, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetMessageInfo 查询消息送达状态三分组
// GET /messages/:id/info
// 响应: respond.MessageInfoRespond
func (h *ReceiptHandler) GetMessageInfo(c *gin.Context) {
	userId, role := Principal(c)
	data, err := h.receiptSvc.GetMessageInfo(userId, role, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
