// Package repository 提供数据访问层的具体实现
// 本文件实现 MessageRepository 接口，处理消息相关的数据库操作
package repository

import (
	"project_chat_server/internal/model"

	"gorm.io/gorm"
)

// messageRepository MessageRepository 接口的实现
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建 MessageRepository 实例
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// FindByUuid 根据雪花 ID 查找消息
// 软删除的消息对常规读取即"不存在"
func (r *messageRepository) FindByUuid(uuid int64) (*model.Message, error) {
	var message model.Message
	if err := r.db.First(&message, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 uuid=%d", uuid)
	}
	return &message, nil
}

// FindByUuids 批量查找消息
// 回复消息列表展示时一次性补全所有父消息，缺失的父消息由调用方渲染为"不可用"
func (r *messageRepository) FindByUuids(uuids []int64) ([]model.Message, error) {
	var messages []model.Message
	if len(uuids) == 0 {
		return messages, nil
	}
	if err := r.db.Where("uuid IN ?", uuids).Find(&messages).Error; err != nil {
		return nil, wrapDBError(err, "批量查询消息")
	}
	return messages, nil
}

// Create 插入消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// Update 更新消息（编辑场景，全字段更新）
func (r *messageRepository) Update(message *model.Message) error {
	if err := r.db.Save(message).Error; err != nil {
		return wrapDBError(err, "更新消息")
	}
	return nil
}

// SoftDeleteByUuid 软删除消息
// 内容保留作审计，常规读取全部排除
func (r *messageRepository) SoftDeleteByUuid(uuid int64) error {
	if err := r.db.Where("uuid = ?", uuid).Delete(&model.Message{}).Error; err != nil {
		return wrapDBErrorf(err, "删除消息 uuid=%d", uuid)
	}
	return nil
}

// FindPageByGroup 按时间顺序分页查询群消息
// 返回消息列表和未删除消息总数（分页元数据用）
func (r *messageRepository) FindPageByGroup(groupUuid string, offset, limit int) ([]model.Message, int64, error) {
	var messages []model.Message
	var total int64

	if offset < 0 {
		offset = 0
	}

	if err := r.db.Model(&model.Message{}).
		Where("group_uuid = ?", groupUuid).
		Count(&total).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "查询消息总数 group_uuid=%s", groupUuid)
	}

	if err := r.db.Where("group_uuid = ?", groupUuid).
		Order("created_at ASC, uuid ASC").
		Offset(offset).Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, 0, wrapDBErrorf(err, "分页查询消息 group_uuid=%s", groupUuid)
	}

	return messages, total, nil
}

// SearchInGroup 在群内按内容子串搜索
// 只匹配文本和回复消息的内容，最新在前，结果数由调用方限定
func (r *messageRepository) SearchInGroup(groupUuid, keyword string, limit int) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("group_uuid = ? AND type IN ? AND content LIKE ?",
		groupUuid, []int8{model.MessageTypeText, model.MessageTypeReply}, "%"+keyword+"%").
		Order("created_at DESC, uuid DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "搜索消息 group_uuid=%s", groupUuid)
	}
	return messages, nil
}
