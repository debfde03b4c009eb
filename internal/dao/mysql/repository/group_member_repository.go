// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupMemberRepository 接口，处理群成员相关的数据库操作
package repository

import (
	"errors"
	"time"

	"project_chat_server/internal/model"

	"gorm.io/gorm"
)

// groupMemberRepository GroupMemberRepository 接口的实现
type groupMemberRepository struct {
	db *gorm.DB
}

// NewGroupMemberRepository 创建 GroupMemberRepository 实例
func NewGroupMemberRepository(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepository{db: db}
}

// FindLive 查找活跃成员关系
// 软删除（已退出/被移除）的行视为不存在
func (r *groupMemberRepository) FindLive(groupUuid, userUuid string) (*model.GroupMember, error) {
	var member model.GroupMember
	if err := r.db.Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).First(&member).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群成员 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return &member, nil
}

// CreateIfAbsent 幂等插入成员
// 建群播种与补种创建者时调用，重复候选静默跳过；
// 并发下预检查可能双双通过，此时插入撞 (group, user, delete_mark)
// 唯一索引，按"已存在"处理
func (r *groupMemberRepository) CreateIfAbsent(member *model.GroupMember) (bool, error) {
	var count int64
	if err := r.db.Model(&model.GroupMember{}).
		Where("group_uuid = ? AND user_uuid = ?", member.GroupUuid, member.UserUuid).
		Count(&count).Error; err != nil {
		return false, wrapDBError(err, "查询群成员")
	}
	if count > 0 {
		return false, nil
	}
	if err := r.db.Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, wrapDBError(err, "创建群成员")
	}
	return true, nil
}

// SoftDelete 移除成员（软删除，保留历史行）
// delete_mark 写入行 ID，同一用户之后可以重新入群
func (r *groupMemberRepository) SoftDelete(groupUuid, userUuid string) error {
	if err := r.db.Model(&model.GroupMember{}).
		Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		Updates(map[string]any{
			"deleted_at":  time.Now(),
			"delete_mark": gorm.Expr("id"),
		}).Error; err != nil {
		return wrapDBErrorf(err, "删除群成员 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return nil
}

// FindMembersWithUserInfo 查询群成员详情（含用户基本资料）
// LEFT JOIN user_info 补全昵称头像，按加入时间升序
func (r *groupMemberRepository) FindMembersWithUserInfo(groupUuid string) ([]GroupMemberWithUserInfo, error) {
	var members []GroupMemberWithUserInfo
	if err := r.db.Table("group_member").
		Select("group_member.user_uuid AS user_id, user_info.nickname, user_info.avatar, group_member.created_at AS joined_at").
		Joins("LEFT JOIN user_info ON group_member.user_uuid = user_info.uuid").
		Where("group_member.group_uuid = ? AND group_member.deleted_at IS NULL", groupUuid).
		Order("group_member.created_at ASC").
		Scan(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群成员详情 group_uuid=%s", groupUuid)
	}
	return members, nil
}

// FindMemberIds 查询群的所有活跃成员 UUID
func (r *groupMemberRepository) FindMemberIds(groupUuid string) ([]string, error) {
	var memberIds []string
	if err := r.db.Model(&model.GroupMember{}).
		Where("group_uuid = ?", groupUuid).
		Pluck("user_uuid", &memberIds).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群成员ID group_uuid=%s", groupUuid)
	}
	return memberIds, nil
}

// UpdateLastReadAt 推进成员的最近已读时间
func (r *groupMemberRepository) UpdateLastReadAt(groupUuid, userUuid string, t time.Time) error {
	if err := r.db.Model(&model.GroupMember{}).
		Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		Update("last_read_at", t).Error; err != nil {
		return wrapDBErrorf(err, "更新已读时间 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return nil
}
