package model

import "time"

// StarredMessage 消息收藏记录（用户侧叠加视图）
// 冗余 group_uuid 以支持按群查询收藏列表；取消收藏为物理删除
type StarredMessage struct {
	ID          uint   `gorm:"primarykey"`
	CreatedAt   time.Time
	UserUuid    string `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_star_user_message;not null;comment:用户uuid"`
	MessageUuid int64  `gorm:"column:message_uuid;type:bigint;uniqueIndex:idx_star_user_message;not null;comment:消息ID"`
	GroupUuid   string `gorm:"column:group_uuid;type:char(20);index;not null;comment:群组uuid"`
}

func (StarredMessage) TableName() string {
	return "starred_message"
}
