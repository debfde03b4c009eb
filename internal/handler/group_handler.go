// Package handler 提供 HTTP 请求处理器
// 本文件处理群组生命周期与成员管理的 API 请求
package handler

import (
	"project_chat_server/internal/dto/request"
	"project_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// GroupHandler 群组请求处理器
// 通过构造函数注入 GroupService，遵循依赖倒置原则
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建群组处理器实例
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// CreateGroup 创建群组
// POST /groups
// 请求体: request.CreateGroupRequest
// 响应: respond.GroupSummaryRespond (201)
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req request.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.groupSvc.CreateGroup(userId, role, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// ListGroups 列出项目内群组
// GET /groups?project_id=xxx
// 响应: []respond.GroupSummaryRespond
func (h *GroupHandler) ListGroups(c *gin.Context) {
	var req request.GetGroupListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.groupSvc.ListGroups(userId, role, req.ProjectId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateGroup 更新群组信息
// PUT /groups/:id
// 请求体: request.UpdateGroupRequest
// 响应: respond.GroupSummaryRespond
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	var req request.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.groupSvc.UpdateGroup(userId, role, c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteGroup 软删除群组
// DELETE /groups/:id
// 响应: nil
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	userId, role := Principal(c)
	if err := h.groupSvc.DeleteGroup(userId, role, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ListMembers 列出群成员
// GET /groups/:id/members
// 响应: []respond.GetGroupMemberRespond
func (h *GroupHandler) ListMembers(c *gin.Context) {
	userId, role := Principal(c)
	data, err := h.groupSvc.ListMembers(userId, role, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// AddMembers 批量添加群成员（部分成功）
// POST /groups/:id/members
// 请求体: request.ChangeGroupMembersRequest
// 响应: respond.MemberChangeRespond
func (h *GroupHandler) AddMembers(c *gin.Context) {
	var req request.ChangeGroupMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.groupSvc.AddMembers(userId, role, c.Param("id"), req.TargetIds())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RemoveMembers 批量移除群成员（部分成功，创建者按项拒绝）
// DELETE /groups/:id/members
// 请求体: request.ChangeGroupMembersRequest
// 响应: respond.MemberChangeRespond
func (h *GroupHandler) RemoveMembers(c *gin.Context) {
	var req request.ChangeGroupMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId, role := Principal(c)
	data, err := h.groupSvc.RemoveMembers(userId, role, c.Param("id"), req.TargetIds())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
