package model

import "time"

// TypingStatus 输入状态表（临时性数据）
// 每个 (group, user) 至多一条活跃记录；expires_at 已过期的行
// 对所有读取方视为不存在（懒过期，读取侧过滤），
// 物理清理只为存储卫生，不影响正确性。
// 停止输入为物理删除，因此不使用软删除字段，
// 避免软删除行与唯一索引冲突
type TypingStatus struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	GroupUuid string    `gorm:"column:group_uuid;type:char(20);uniqueIndex:idx_typing_group_user;not null;comment:群组uuid"`
	UserUuid  string    `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_typing_group_user;not null;comment:用户uuid"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null;comment:过期时间"`
}

func (TypingStatus) TableName() string {
	return "typing_status"
}
