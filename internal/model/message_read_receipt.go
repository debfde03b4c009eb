package model

import (
	"time"

	"gorm.io/gorm"
)

// MessageReadReceipt 已读回执表
// 每个 (message, user) 至多一行，靠唯一索引兜底并发重复插入；
// 不会为消息发送者自己创建；创建后不再更新或删除
type MessageReadReceipt struct {
	gorm.Model
	MessageUuid int64     `gorm:"column:message_uuid;type:bigint;uniqueIndex:idx_receipt_message_user;not null;comment:消息ID"`
	UserUuid    string    `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_receipt_message_user;not null;comment:用户uuid"`
	ReadAt      time.Time `gorm:"column:read_at;not null;comment:已读时间"`
}

func (MessageReadReceipt) TableName() string {
	return "message_read_receipt"
}
