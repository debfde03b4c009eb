package model

import "gorm.io/gorm"

// Project 项目表
// 项目本身由宿主应用管理，这里只保留群聊子系统需要的字段：
// 权限判定（creator_id 为历史数据兜底）与成员播种
type Project struct {
	gorm.Model
	Uuid      string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:项目唯一id"`
	Name      string `gorm:"column:name;type:varchar(50);not null;comment:项目名称"`
	CreatorId string `gorm:"column:creator_id;type:char(20);not null;comment:项目创建者uuid"`
	Status    int8   `gorm:"column:status;default:0;comment:状态，0.正常，1.禁用"`
}

func (Project) TableName() string {
	return "project"
}
