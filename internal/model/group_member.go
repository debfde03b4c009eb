package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// GroupMember 群成员关联表
// CreatedAt 即加入时间；移除成员为软删除。
// 唯一索引 (group_uuid, user_uuid, delete_mark) 只约束活跃行：
// 活跃行 delete_mark 恒为 0，软删除时写入行 ID 腾出唯一键，
// 并发重复加入靠该索引安全失败。
// 群创建者的成员行不允许通过移除接口删除
type GroupMember struct {
	gorm.Model
	GroupUuid        string       `gorm:"column:group_uuid;type:char(20);uniqueIndex:idx_member_group_user,priority:1;not null;comment:群组uuid"`
	UserUuid         string       `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_member_group_user,priority:2;index;not null;comment:用户uuid"`
	DeleteMark       uint         `gorm:"column:delete_mark;uniqueIndex:idx_member_group_user,priority:3;default:0;not null;comment:软删除标记，活跃行为0，删除时写入行ID"`
	LastReadAt       sql.NullTime `gorm:"column:last_read_at;comment:最近已读时间"`
	ShowReadReceipts int8         `gorm:"column:show_read_receipts;default:1;comment:是否展示已读回执，0.否，1.是"`
}

func (GroupMember) TableName() string {
	return "group_member"
}
