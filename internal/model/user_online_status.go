package model

import (
	"time"

	"gorm.io/gorm"
)

// UserOnlineStatus 在线状态表
// 每次心跳 upsert；没有记录表示"从未观测到"，读取时按离线处理
type UserOnlineStatus struct {
	gorm.Model
	UserUuid   string    `gorm:"column:user_uuid;type:char(20);uniqueIndex;not null;comment:用户uuid"`
	IsOnline   int8      `gorm:"column:is_online;default:0;comment:是否在线，0.否，1.是"`
	LastSeenAt time.Time `gorm:"column:last_seen_at;not null;comment:最近活跃时间"`
}

func (UserOnlineStatus) TableName() string {
	return "user_online_status"
}
