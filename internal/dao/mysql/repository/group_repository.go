// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupRepository 接口，处理群组相关的数据库操作
package repository

import (
	"time"

	"project_chat_server/internal/model"

	"gorm.io/gorm"
)

// groupRepository GroupRepository 接口的实现
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository 创建 GroupRepository 实例
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// FindByUuid 根据 UUID 查找群组
// GORM 默认查询条件排除软删除行，软删除的群组对外即"不存在"
func (r *groupRepository) FindByUuid(uuid string) (*model.GroupInfo, error) {
	var group model.GroupInfo
	if err := r.db.First(&group, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群组 uuid=%s", uuid)
	}
	return &group, nil
}

// ExistsActiveName 检查项目内是否已存在同名活跃群组
// BINARY 比较保证区分大小写（MySQL 默认排序规则不区分）；
// 软删除的群组不参与查重，名称可以复用
func (r *groupRepository) ExistsActiveName(projectUuid, name, excludeUuid string) (bool, error) {
	var count int64
	query := r.db.Model(&model.GroupInfo{}).
		Where("project_uuid = ? AND BINARY name = ?", projectUuid, name)
	if excludeUuid != "" {
		query = query.Where("uuid <> ?", excludeUuid)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "查重群组名 project_uuid=%s name=%s", projectUuid, name)
	}
	return count > 0, nil
}

// Create 创建群组
func (r *groupRepository) Create(group *model.GroupInfo) error {
	if err := r.db.Create(group).Error; err != nil {
		return wrapDBError(err, "创建群组")
	}
	return nil
}

// Update 更新群组信息（全字段更新）
func (r *groupRepository) Update(group *model.GroupInfo) error {
	if err := r.db.Save(group).Error; err != nil {
		return wrapDBError(err, "更新群组")
	}
	return nil
}

// SoftDeleteByUuid 软删除群组
// 不级联删除消息和成员行，历史数据保留；
// delete_mark 写入行 ID，为 (project_uuid, name) 腾出唯一键
func (r *groupRepository) SoftDeleteByUuid(uuid string) error {
	if err := r.db.Model(&model.GroupInfo{}).Where("uuid = ?", uuid).
		Updates(map[string]any{
			"deleted_at":  time.Now(),
			"delete_mark": gorm.Expr("id"),
		}).Error; err != nil {
		return wrapDBErrorf(err, "删除群组 uuid=%s", uuid)
	}
	return nil
}

// GetGroupSummaries 查询项目内的群组概要
// 子查询统计活跃成员数和最近一条未删除消息的时间，按群创建时间倒序
func (r *groupRepository) GetGroupSummaries(projectUuid string) ([]GroupSummary, error) {
	var summaries []GroupSummary
	err := r.db.Table("group_info").
		Select(`group_info.uuid, group_info.name, group_info.description, group_info.avatar,
			group_info.creator_id, group_info.created_at,
			(SELECT COUNT(*) FROM group_member WHERE group_member.group_uuid = group_info.uuid AND group_member.deleted_at IS NULL) AS member_cnt,
			(SELECT MAX(message.created_at) FROM message WHERE message.group_uuid = group_info.uuid AND message.deleted_at IS NULL) AS last_message_at`).
		Where("group_info.project_uuid = ? AND group_info.deleted_at IS NULL", projectUuid).
		Order("group_info.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询群组概要 project_uuid=%s", projectUuid)
	}
	return summaries, nil
}
