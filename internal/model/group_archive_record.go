package model

import "time"

// GroupArchiveRecord 群归档记录（用户侧叠加视图）
// 取消归档为物理删除
type GroupArchiveRecord struct {
	ID        uint   `gorm:"primarykey"`
	CreatedAt time.Time
	GroupUuid string `gorm:"column:group_uuid;type:char(20);uniqueIndex:idx_archive_group_user;not null;comment:群组uuid"`
	UserUuid  string `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_archive_group_user;not null;comment:用户uuid"`
}

func (GroupArchiveRecord) TableName() string {
	return "group_archive_record"
}
