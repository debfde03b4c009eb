// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"project_chat_server/internal/dto/request"
	"project_chat_server/internal/dto/respond"
)

// AccessService 访问控制接口
// 纯读查询，无副作用；授权性质的查询只返回 false，不返回错误
type AccessService interface {
	// CanAccessProject 判断用户能否访问项目
	// 按序短路判定：管理员兜底 → 成员/创建者合并查询
	// 创建者回退保留给早于成员表的存量项目，属有意冗余
	CanAccessProject(userId, role, projectUuid string) (bool, error)
	// CanAccessGroup 判断用户能否访问群组
	// 管理员兜底，否则要求存活的成员记录；群级没有创建者回退
	CanAccessGroup(userId, role, groupUuid string) (bool, error)
}

// GroupService 群组业务接口
// 处理群组生命周期与成员集合
type GroupService interface {
	// CreateGroup 创建群组并从项目成员播种群成员
	CreateGroup(userId, role string, req request.CreateGroupRequest) (*respond.GroupSummaryRespond, error)
	// UpdateGroup 更新群组信息，重名校验排除自身
	UpdateGroup(userId, role, groupUuid string, req request.UpdateGroupRequest) (*respond.GroupSummaryRespond, error)
	// DeleteGroup 软删除群组，仅创建者或管理员可操作，不级联消息与成员
	DeleteGroup(userId, role, groupUuid string) error
	// ListGroups 列出项目内活跃群组摘要，新群在前
	ListGroups(userId, role, projectUuid string) ([]respond.GroupSummaryRespond, error)
	// ListMembers 列出群成员，按加入时间升序
	ListMembers(userId, role, groupUuid string) ([]respond.GetGroupMemberRespond, error)
	// AddMembers 批量添加成员，逐项判定、部分成功
	AddMembers(userId, role, groupUuid string, targetIds []string) (*respond.MemberChangeRespond, error)
	// RemoveMembers 批量移除成员，创建者按项拒绝
	RemoveMembers(userId, role, groupUuid string, targetIds []string) (*respond.MemberChangeRespond, error)
}

// MessageService 消息业务接口
// 消息生命周期：created → [edited]* → [deleted]，deleted 为终态
type MessageService interface {
	// SendMessage 发送消息
	SendMessage(userId, role string, req request.SendMessageRequest) (*respond.MessageRespond, error)
	// ListMessages 分页拉取消息并附带回复预览
	// 副作用：为请求者标记返回消息已读并推进 last_read_at
	ListMessages(userId, role string, req request.GetMessageListRequest) (*respond.MessagePageRespond, error)
	// EditMessage 编辑消息，仅发送者、仅文本、仅编辑窗口内
	EditMessage(userId, role, messageId string, req request.EditMessageRequest) (*respond.MessageRespond, error)
	// DeleteMessage 删除消息，管理员无条件，发送者限删除窗口内
	DeleteMessage(userId, role, messageId string) error
	// ForwardMessage 批量转发，逐目标判定、部分成功
	ForwardMessage(userId, role string, req request.ForwardMessageRequest) (*respond.ForwardRespond, error)
	// SearchMessages 群内文本搜索，新消息在前
	SearchMessages(userId, role string, req request.SearchMessageRequest) ([]respond.MessageRespond, error)
}

// ReceiptService 已读回执业务接口
// 送达状态是派生值：非发送者在群成员有回执为 read，否则 delivered
type ReceiptService interface {
	// MarkRead 标记已读，幂等；发送者本人调用是无操作
	MarkRead(userId, messageId string) error
	// GetMessageInfo 查询消息的 read/delivered/pending 三分组
	GetMessageInfo(userId, role, messageId string) (*respond.MessageInfoRespond, error)
}

// PresenceService 在场状态业务接口
// 输入状态带 TTL，过期判定在读取时完成
type PresenceService interface {
	// SetTyping 设置/清除输入状态
	SetTyping(userId, role, groupUuid string, isTyping bool) error
	// ListTyping 列出群内正在输入的用户，排除请求者
	ListTyping(userId, role, groupUuid string) (*respond.TypingRespond, error)
	// SweepExpiredTyping 回收已过期的输入状态行，返回清理行数
	SweepExpiredTyping() (int64, error)
	// SetOnline 上报在线状态
	SetOnline(userId string, isOnline bool) error
	// GetOnlineStatus 查询在线状态，无记录视为离线
	GetOnlineStatus(targetUserId string) (*respond.OnlineStatusRespond, error)
}

// PreferenceService 用户偏好业务接口
// 免打扰/归档/拉黑/收藏是纯用户侧叠加视图，不影响核心不变式
type PreferenceService interface {
	// MuteGroup 设置免打扰至 now+duration
	MuteGroup(userId, role, groupUuid string, durationSeconds int64) (*respond.MuteRespond, error)
	// UnmuteGroup 取消免打扰（幂等）
	UnmuteGroup(userId, role, groupUuid string) error
	// ArchiveGroup 归档群组，重复归档返回 Conflict
	ArchiveGroup(userId, role, groupUuid string) error
	// UnarchiveGroup 取消归档，未归档返回 NotFound
	UnarchiveGroup(userId, role, groupUuid string) error
	// BlockUser 拉黑用户（单向），拉黑自己返回 Validation，重复返回 Conflict
	BlockUser(userId, targetId string) error
	// UnblockUser 取消拉黑，未拉黑返回 NotFound
	UnblockUser(userId, targetId string) error
	// StarMessage 收藏消息，重复返回 Conflict
	StarMessage(userId, role, messageId string) error
	// UnstarMessage 取消收藏，未收藏返回 NotFound
	UnstarMessage(userId, messageId string) error
	// GetStarredMessages 列出用户在某群的收藏消息，排除已删除消息
	GetStarredMessages(userId, role, groupUuid string) ([]respond.MessageRespond, error)
}
