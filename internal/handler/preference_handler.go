// Package handler 提供 HTTP 请求处理器
// 本文件处理免打扰/归档/拉黑/收藏的 API 请求
package handler

import (
	"project_chat_server/internal/dto/request"
	"project_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// PreferenceHandler 用户偏好请求处理器
type PreferenceHandler struct {
	preferenceSvc service.PreferenceService
}

// NewPreferenceHandler 创建用户偏好处理器实例
func NewPreferenceHandler(preferenceSvc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferenceSvc: preferenceSvc}
}

// MuteGroup 设置群免打扰
// POST /groups/:id/mute
// 请求体: request.MuteGroupRequest
// 响应: respond.MuteRespond
func (h *PreferenceHandler) MuteGroup(c *gin.Context) {
	var req request.MuteGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.preferenceSvc.MuteGroup(userId, role, c.Param("id"), req.DurationSeconds)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UnmuteGroup 取消群免打扰
// DELETE /groups/:id/mute
// 响应: nil
func (h *PreferenceHandler) UnmuteGroup(c *gin.Context) {
	userId, role := Principal(c)
	if err := h.preferenceSvc.UnmuteGroup(userId, role, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ArchiveGroup 归档群组
// POST /groups/:id/archive
// 响应: nil
func (h *PreferenceHandler) ArchiveGroup(c *gin.Context) {
	userId, role := Principal(c)
	if err := h.preferenceSvc.ArchiveGroup(userId, role, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UnarchiveGroup 取消归档
// DELETE /groups/:id/archive
// 响应: nil
func (h *PreferenceHandler) UnarchiveGroup(c *gin.Context) {
	userId, role := Principal(c)
	if err := h.preferenceSvc.UnarchiveGroup(userId, role, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// BlockUser 拉黑用户（单向）
// POST /users/:id/block
// 响应: nil
func (h *PreferenceHandler) BlockUser(c *gin.Context) {
	userId, _ := Principal(c)
	if err := h.preferenceSvc.BlockUser(userId, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UnblockUser 取消拉黑
// DELETE /users/:id/block
// 响应: nil
func (h *PreferenceHandler) UnblockUser(c *gin.Context) {
	userId, _ := Principal(c)
	if err := h.preferenceSvc.UnblockUser(userId, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// StarMessage 收藏消息
// POST /messages/:id/star
// 响应: nil
func (h *PreferenceHandler) StarMessage(c *gin.Context) {
	userId, role := Principal(c)
	if err := h.preferenceSvc.StarMessage(userId, role, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UnstarMessage 取消收藏
// DELETE /messages/:id/star
// 响应: nil
func (h *PreferenceHandler) UnstarMessage(c *gin.Context) {
	userId, _ := Principal(c)
	if err := h.preferenceSvc.UnstarMessage(userId, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetStarredMessages 列出用户在某群的收藏消息
// GET /groups/:id/starred
// 响应: []respond.MessageRespond
func (h *PreferenceHandler) GetStarredMessages(c *gin.Context) {
	userId, role := Principal(c)
	data, err := h.preferenceSvc.GetStarredMessages(userId, role, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
