package model

import "gorm.io/gorm"

// ProjectMember 项目成员关联表
// 早期项目只记录 creator_id 而没有成员行，权限判定时
// 仍需兜底检查 project.creator_id，见 access 服务
type ProjectMember struct {
	gorm.Model
	ProjectUuid string `gorm:"column:project_uuid;type:char(20);uniqueIndex:idx_project_user;not null;comment:项目uuid"`
	UserUuid    string `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_project_user;not null;comment:用户uuid"`
}

func (ProjectMember) TableName() string {
	return "project_member"
}
