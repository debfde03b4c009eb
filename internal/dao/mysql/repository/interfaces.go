// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"database/sql"
	"errors"
	"time"

	"project_chat_server/internal/model"
	"project_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// ==================== 错误包装辅助函数 ====================

// wrapDBError 包装数据库错误
// 根据错误类型返回不同的错误码：
//   - ErrRecordNotFound -> CodeNotFound
//   - ErrDuplicatedKey  -> CodeConflict（唯一索引让并发重复插入安全失败）
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Wrap(err, errorx.CodeConflict, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

// wrapDBErrorf 包装数据库错误（支持格式化消息）
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Wrapf(err, errorx.CodeConflict, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}

// ==================== Repository 接口定义 ====================

// ProjectRepository 项目数据访问接口
// 项目记录由宿主应用维护，这里只做只读查询
type ProjectRepository interface {
	// FindByUuid 根据 UUID 查找项目
	FindByUuid(uuid string) (*model.Project, error)
	// HasAccess 判断用户是否可访问项目
	// 单条 union 查询：项目成员行 OR 项目创建者（历史数据兜底，必须保留）
	HasAccess(projectUuid, userUuid string) (bool, error)
	// FindMemberIds 查找项目的所有成员 UUID（含创建者）
	FindMemberIds(projectUuid string) ([]string, error)
}

// UserRepository 用户数据访问接口（只读，展示信息）
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
}

// GroupRepository 群组数据访问接口
type GroupRepository interface {
	// FindByUuid 根据 UUID 查找群组（不含软删除）
	FindByUuid(uuid string) (*model.GroupInfo, error)
	// ExistsActiveName 检查项目内是否已存在同名活跃群组（区分大小写）
	// excludeUuid 非空时排除指定群组自身（用于更新时查重）
	ExistsActiveName(projectUuid, name, excludeUuid string) (bool, error)
	// Create 创建群组
	Create(group *model.GroupInfo) error
	// Update 更新群组信息（全字段更新）
	Update(group *model.GroupInfo) error
	// SoftDeleteByUuid 软删除群组（不级联消息和成员）
	SoftDeleteByUuid(uuid string) error
	// GetGroupSummaries 查询项目内的群组概要（活跃成员数 + 最近消息时间）
	// 按群组创建时间倒序
	GetGroupSummaries(projectUuid string) ([]GroupSummary, error)
}

// GroupMemberRepository 群成员数据访问接口
type GroupMemberRepository interface {
	// FindLive 查找活跃成员关系（软删除视为不存在）
	FindLive(groupUuid, userUuid string) (*model.GroupMember, error)
	// CreateIfAbsent 幂等插入成员，已存在活跃行时不重复插入
	// 返回是否实际插入
	CreateIfAbsent(member *model.GroupMember) (bool, error)
	// SoftDelete 移除成员（软删除）
	SoftDelete(groupUuid, userUuid string) error
	// FindMembersWithUserInfo 查询群成员详情（关联用户表），按加入时间升序
	FindMembersWithUserInfo(groupUuid string) ([]GroupMemberWithUserInfo, error)
	// FindMemberIds 查询群的所有活跃成员 UUID
	FindMemberIds(groupUuid string) ([]string, error)
	// UpdateLastReadAt 推进成员的最近已读时间
	UpdateLastReadAt(groupUuid, userUuid string, t time.Time) error
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// FindByUuid 根据雪花 ID 查找消息（不含软删除）
	FindByUuid(uuid int64) (*model.Message, error)
	// FindByUuids 批量查找消息（用于回复父消息补全）
	FindByUuids(uuids []int64) ([]model.Message, error)
	// Create 插入消息
	Create(message *model.Message) error
	// Update 更新消息（编辑）
	Update(message *model.Message) error
	// SoftDeleteByUuid 软删除消息，内容保留作审计
	SoftDeleteByUuid(uuid int64) error
	// FindPageByGroup 按时间顺序分页查询群消息，返回列表和总数
	FindPageByGroup(groupUuid string, offset, limit int) ([]model.Message, int64, error)
	// SearchInGroup 在群内按内容子串搜索文本/回复消息，最新在前
	SearchInGroup(groupUuid, keyword string, limit int) ([]model.Message, error)
}

// ReadReceiptRepository 已读回执数据访问接口
type ReadReceiptRepository interface {
	// CreateIgnoreDuplicate 插入回执，(message, user) 已存在时静默忽略
	CreateIgnoreDuplicate(receipt *model.MessageReadReceipt) error
	// FindByMessageUuid 查询某条消息的全部回执
	FindByMessageUuid(messageUuid int64) ([]model.MessageReadReceipt, error)
}

// PresenceRepository 输入状态与在线状态数据访问接口
type PresenceRepository interface {
	// UpsertTyping 写入/刷新输入状态（唯一键 group+user）
	UpsertTyping(groupUuid, userUuid string, expiresAt time.Time) error
	// DeleteTyping 删除输入状态（物理删除）
	DeleteTyping(groupUuid, userUuid string) error
	// FindLiveTypingUserIds 查询群内未过期的输入用户（expires_at > now）
	FindLiveTypingUserIds(groupUuid string, now time.Time) ([]string, error)
	// DeleteExpiredTyping 清理已过期的输入状态行
	// 读取路径靠查询谓词判过期，这里只做存储回收，由后台定时任务调用
	DeleteExpiredTyping(before time.Time) (int64, error)
	// UpsertOnline 写入/刷新在线状态
	UpsertOnline(userUuid string, isOnline int8, lastSeen time.Time) error
	// FindOnline 查询在线状态，无记录返回 NotFound
	FindOnline(userUuid string) (*model.UserOnlineStatus, error)
}

// PreferenceRepository 用户偏好叠加层数据访问接口
// 免打扰/归档/拉黑/收藏，均为纯用户侧视图
type PreferenceRepository interface {
	// UpsertMute 写入/刷新免打扰记录
	UpsertMute(record *model.GroupMuteRecord) error
	// DeleteMute 删除免打扰记录（幂等）
	DeleteMute(groupUuid, userUuid string) error
	// FindMutedUserIds 查询群内当前处于免打扰中的用户（muted_until > now）
	FindMutedUserIds(groupUuid string, now time.Time) ([]string, error)

	// CreateArchive 创建归档记录，重复创建返回 Conflict
	CreateArchive(record *model.GroupArchiveRecord) error
	// DeleteArchive 删除归档记录，返回删除行数
	DeleteArchive(groupUuid, userUuid string) (int64, error)

	// CreateBlock 创建拉黑记录，重复创建返回 Conflict
	CreateBlock(record *model.UserBlockRecord) error
	// DeleteBlock 删除拉黑记录，返回删除行数
	DeleteBlock(userUuid, blockedUuid string) (int64, error)

	// CreateStar 创建收藏记录，重复创建返回 Conflict
	CreateStar(record *model.StarredMessage) error
	// DeleteStar 删除收藏记录，返回删除行数
	DeleteStar(userUuid string, messageUuid int64) (int64, error)
	// FindStarredMessages 查询用户在某群的收藏消息（排除已软删除的消息）
	FindStarredMessages(userUuid, groupUuid string) ([]model.Message, error)
}

// ==================== 复合结构 ====================

// GroupSummary 群组概要（列表展示用）
// last_message_at 取群内最近一条未删除消息的时间，用于"最近活跃"排序
type GroupSummary struct {
	Uuid          string       `json:"uuid"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Avatar        string       `json:"avatar"`
	CreatorId     string       `json:"creatorId"`
	MemberCnt     int64        `json:"memberCnt"`
	CreatedAt     time.Time    `json:"createdAt"`
	LastMessageAt sql.NullTime `json:"lastMessageAt"`
}

// GroupMemberWithUserInfo 群成员详细信息（含用户资料）
type GroupMemberWithUserInfo struct {
	UserId   string    `json:"userId"`
	Nickname string    `json:"nickname"`
	Avatar   string    `json:"avatar"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB
	Project     ProjectRepository
	User        UserRepository
	Group       GroupRepository
	GroupMember GroupMemberRepository
	Message     MessageRepository
	ReadReceipt ReadReceiptRepository
	Presence    PresenceRepository
	Preference  PreferenceRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		Project:     NewProjectRepository(db),
		User:        NewUserRepository(db),
		Group:       NewGroupRepository(db),
		GroupMember: NewGroupMemberRepository(db),
		Message:     NewMessageRepository(db),
		ReadReceipt: NewReadReceiptRepository(db),
		Presence:    NewPresenceRepository(db),
		Preference:  NewPreferenceRepository(db),
	}
}

// NewTestRepositories 用注入的实现组装聚合（单元测试用，无事务环境）
func NewTestRepositories(project ProjectRepository, user UserRepository, group GroupRepository,
	member GroupMemberRepository, message MessageRepository, receipt ReadReceiptRepository,
	presence PresenceRepository, preference PreferenceRepository) *Repositories {
	return &Repositories{
		Project:     project,
		User:        user,
		Group:       group,
		GroupMember: member,
		Message:     message,
		ReadReceipt: receipt,
		Presence:    presence,
		Preference:  preference,
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// fn: 事务执行函数，接收事务内的 Repositories 实例
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		// 无事务环境（内存实现的单元测试）直接执行
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
