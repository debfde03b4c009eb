package model

import "time"

// GroupMuteRecord 群免打扰记录
// 纯用户侧叠加视图，不影响消息/群组核心不变量；
// muted_until = 设置时间 + 时长，到期后读取方自行忽略。
// 取消免打扰为物理删除（与唯一索引配合保证幂等 upsert）
type GroupMuteRecord struct {
	ID         uint      `gorm:"primarykey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	GroupUuid  string    `gorm:"column:group_uuid;type:char(20);uniqueIndex:idx_mute_group_user;not null;comment:群组uuid"`
	UserUuid   string    `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_mute_group_user;not null;comment:用户uuid"`
	MutedUntil time.Time `gorm:"column:muted_until;not null;comment:免打扰截止时间"`
}

func (GroupMuteRecord) TableName() string {
	return "group_mute_record"
}
