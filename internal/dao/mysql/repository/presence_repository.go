// Package repository 提供数据访问层的具体实现
// 本文件实现 PresenceRepository 接口，处理输入状态与在线状态
package repository

import (
	"time"

	"project_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// presenceRepository PresenceRepository 接口的实现
type presenceRepository struct {
	db *gorm.DB
}

// NewPresenceRepository 创建 PresenceRepository 实例
func NewPresenceRepository(db *gorm.DB) PresenceRepository {
	return &presenceRepository{db: db}
}

// UpsertTyping 写入/刷新输入状态
// (group, user) 唯一索引上冲突时只刷新过期时间，保证至多一条活跃行
func (r *presenceRepository) UpsertTyping(groupUuid, userUuid string, expiresAt time.Time) error {
	record := model.TypingStatus{
		GroupUuid: groupUuid,
		UserUuid:  userUuid,
		ExpiresAt: expiresAt,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_uuid"}, {Name: "user_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"expires_at", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return wrapDBErrorf(err, "写入输入状态 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return nil
}

// DeleteTyping 删除输入状态（物理删除，幂等）
func (r *presenceRepository) DeleteTyping(groupUuid, userUuid string) error {
	if err := r.db.Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		Delete(&model.TypingStatus{}).Error; err != nil {
		return wrapDBErrorf(err, "删除输入状态 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return nil
}

// FindLiveTypingUserIds 查询群内未过期的输入用户
// 过期判定完全依赖查询谓词，不依赖后台清理
func (r *presenceRepository) FindLiveTypingUserIds(groupUuid string, now time.Time) ([]string, error) {
	var userIds []string
	if err := r.db.Model(&model.TypingStatus{}).
		Where("group_uuid = ? AND expires_at > ?", groupUuid, now).
		Pluck("user_uuid", &userIds).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询输入状态 group_uuid=%s", groupUuid)
	}
	return userIds, nil
}

// DeleteExpiredTyping 清理已过期的输入状态行
// 仅存储卫生，正确性不依赖此操作
func (r *presenceRepository) DeleteExpiredTyping(before time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", before).Delete(&model.TypingStatus{})
	if result.Error != nil {
		return 0, wrapDBError(result.Error, "清理过期输入状态")
	}
	return result.RowsAffected, nil
}

// UpsertOnline 写入/刷新在线状态
func (r *presenceRepository) UpsertOnline(userUuid string, isOnline int8, lastSeen time.Time) error {
	record := model.UserOnlineStatus{
		UserUuid:   userUuid,
		IsOnline:   isOnline,
		LastSeenAt: lastSeen,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_online", "last_seen_at", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return wrapDBErrorf(err, "写入在线状态 user_uuid=%s", userUuid)
	}
	return nil
}

// FindOnline 查询在线状态
// 无记录返回 NotFound，由调用方解释为"从未观测到，视为离线"
func (r *presenceRepository) FindOnline(userUuid string) (*model.UserOnlineStatus, error) {
	var status model.UserOnlineStatus
	if err := r.db.Where("user_uuid = ?", userUuid).First(&status).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询在线状态 user_uuid=%s", userUuid)
	}
	return &status, nil
}
