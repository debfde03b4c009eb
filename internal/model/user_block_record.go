package model

import "time"

// UserBlockRecord 用户拉黑记录
// 单向关系：A 拉黑 B 不意味着 B 拉黑 A。
// 拉黑不回溯隐藏历史消息，只约束后续交互（产品层面确认过的行为）。
// 取消拉黑为物理删除
type UserBlockRecord struct {
	ID          uint   `gorm:"primarykey"`
	CreatedAt   time.Time
	UserUuid    string `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_block_user_target;not null;comment:发起拉黑的用户uuid"`
	BlockedUuid string `gorm:"column:blocked_uuid;type:char(20);uniqueIndex:idx_block_user_target;not null;comment:被拉黑用户uuid"`
}

func (UserBlockRecord) TableName() string {
	return "user_block_record"
}
