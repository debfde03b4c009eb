package model

import "gorm.io/gorm"

// GroupInfo 群组表
// 群组名称在同一项目内对"活跃"群组唯一，
// name 列用 utf8mb4_bin 排序规则，索引与比较都区分大小写。
// 唯一索引 (project_uuid, name, delete_mark) 只约束活跃行：
// 活跃行 delete_mark 恒为 0，软删除时写入行 ID 腾出唯一键，
// 名称随之可以复用，行数据保留
type GroupInfo struct {
	gorm.Model
	Uuid        string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:群组唯一id"`
	Name        string `gorm:"column:name;type:varchar(50) COLLATE utf8mb4_bin;uniqueIndex:idx_project_name,priority:2;not null;comment:群名称"`
	Description string `gorm:"column:description;type:varchar(500);comment:群描述"`
	ProjectUuid string `gorm:"column:project_uuid;type:char(20);uniqueIndex:idx_project_name,priority:1;not null;comment:所属项目uuid"`
	CreatorId   string `gorm:"column:creator_id;type:char(20);not null;comment:创建者uuid"`
	Avatar      string `gorm:"column:avatar;type:varchar(255);comment:群头像"`
	DeleteMark  uint   `gorm:"column:delete_mark;uniqueIndex:idx_project_name,priority:3;default:0;not null;comment:软删除标记，活跃行为0，删除时写入行ID"`
	Status      int8   `gorm:"column:status;default:0;comment:状态，0.正常，1.禁用"`
}

func (GroupInfo) TableName() string {
	return "group_info"
}
