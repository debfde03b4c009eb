// Package repository 提供数据访问层的具体实现
// 本文件实现 ReadReceiptRepository 接口，已读回执只插入不更新不删除
package repository

import (
	"project_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// readReceiptRepository ReadReceiptRepository 接口的实现
type readReceiptRepository struct {
	db *gorm.DB
}

// NewReadReceiptRepository 创建 ReadReceiptRepository 实例
func NewReadReceiptRepository(db *gorm.DB) ReadReceiptRepository {
	return &readReceiptRepository{db: db}
}

// CreateIgnoreDuplicate 插入回执
// (message, user) 唯一索引 + ON CONFLICT DO NOTHING 实现幂等：
// 重复标记已读是无操作而非错误，并发重复插入也安全
func (r *readReceiptRepository) CreateIgnoreDuplicate(receipt *model.MessageReadReceipt) error {
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(receipt).Error; err != nil {
		return wrapDBErrorf(err, "创建已读回执 message_uuid=%d user_uuid=%s", receipt.MessageUuid, receipt.UserUuid)
	}
	return nil
}

// FindByMessageUuid 查询某条消息的全部回执
func (r *readReceiptRepository) FindByMessageUuid(messageUuid int64) ([]model.MessageReadReceipt, error) {
	var receipts []model.MessageReadReceipt
	if err := r.db.Where("message_uuid = ?", messageUuid).Find(&receipts).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询已读回执 message_uuid=%d", messageUuid)
	}
	return receipts, nil
}
