// Package repository 提供数据访问层的具体实现
// 本文件实现 PreferenceRepository 接口：免打扰/归档/拉黑/收藏
// 四类记录都是纯用户侧叠加视图，唯一索引兜底并发重复插入
package repository

import (
	"time"

	"project_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// preferenceRepository PreferenceRepository 接口的实现
type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository 创建 PreferenceRepository 实例
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// ==================== 免打扰 ====================

// UpsertMute 写入/刷新免打扰记录
// 重复设置只刷新 muted_until
func (r *preferenceRepository) UpsertMute(record *model.GroupMuteRecord) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_uuid"}, {Name: "user_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"muted_until", "updated_at"}),
	}).Create(record).Error; err != nil {
		return wrapDBErrorf(err, "写入免打扰 group_uuid=%s user_uuid=%s", record.GroupUuid, record.UserUuid)
	}
	return nil
}

// DeleteMute 删除免打扰记录（幂等）
func (r *preferenceRepository) DeleteMute(groupUuid, userUuid string) error {
	if err := r.db.Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		Delete(&model.GroupMuteRecord{}).Error; err != nil {
		return wrapDBErrorf(err, "删除免打扰 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return nil
}

// FindMutedUserIds 查询群内当前处于免打扰中的用户
// 事件发布时用于拆分收件人，通知服务据此跳过免打扰成员
func (r *preferenceRepository) FindMutedUserIds(groupUuid string, now time.Time) ([]string, error) {
	var userIds []string
	if err := r.db.Model(&model.GroupMuteRecord{}).
		Where("group_uuid = ? AND muted_until > ?", groupUuid, now).
		Pluck("user_uuid", &userIds).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询免打扰成员 group_uuid=%s", groupUuid)
	}
	return userIds, nil
}

// ==================== 归档 ====================

// CreateArchive 创建归档记录
// 已存在时唯一索引触发 Conflict，由上层映射为 409
func (r *preferenceRepository) CreateArchive(record *model.GroupArchiveRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return wrapDBErrorf(err, "创建归档 group_uuid=%s user_uuid=%s", record.GroupUuid, record.UserUuid)
	}
	return nil
}

// DeleteArchive 删除归档记录，返回删除行数（0 行由上层解释为 NotFound）
func (r *preferenceRepository) DeleteArchive(groupUuid, userUuid string) (int64, error) {
	result := r.db.Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		Delete(&model.GroupArchiveRecord{})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "删除归档 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return result.RowsAffected, nil
}

// ==================== 拉黑 ====================

// CreateBlock 创建拉黑记录（单向）
func (r *preferenceRepository) CreateBlock(record *model.UserBlockRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return wrapDBErrorf(err, "创建拉黑 user_uuid=%s blocked_uuid=%s", record.UserUuid, record.BlockedUuid)
	}
	return nil
}

// DeleteBlock 删除拉黑记录，返回删除行数
func (r *preferenceRepository) DeleteBlock(userUuid, blockedUuid string) (int64, error) {
	result := r.db.Where("user_uuid = ? AND blocked_uuid = ?", userUuid, blockedUuid).
		Delete(&model.UserBlockRecord{})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "删除拉黑 user_uuid=%s blocked_uuid=%s", userUuid, blockedUuid)
	}
	return result.RowsAffected, nil
}

// ==================== 收藏 ====================

// CreateStar 创建收藏记录
func (r *preferenceRepository) CreateStar(record *model.StarredMessage) error {
	if err := r.db.Create(record).Error; err != nil {
		return wrapDBErrorf(err, "创建收藏 user_uuid=%s message_uuid=%d", record.UserUuid, record.MessageUuid)
	}
	return nil
}

// DeleteStar 删除收藏记录，返回删除行数
func (r *preferenceRepository) DeleteStar(userUuid string, messageUuid int64) (int64, error) {
	result := r.db.Where("user_uuid = ? AND message_uuid = ?", userUuid, messageUuid).
		Delete(&model.StarredMessage{})
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "删除收藏 user_uuid=%s message_uuid=%d", userUuid, messageUuid)
	}
	return result.RowsAffected, nil
}

// FindStarredMessages 查询用户在某群的收藏消息
// JOIN message 并过滤软删除行：收藏后被删除的消息不再出现在列表里
func (r *preferenceRepository) FindStarredMessages(userUuid, groupUuid string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Table("message").
		Select("message.*").
		Joins("INNER JOIN starred_message ON starred_message.message_uuid = message.uuid").
		Where("starred_message.user_uuid = ? AND starred_message.group_uuid = ? AND message.deleted_at IS NULL",
			userUuid, groupUuid).
		Order("starred_message.created_at DESC").
		Scan(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询收藏消息 user_uuid=%s group_uuid=%s", userUuid, groupUuid)
	}
	return messages, nil
}
