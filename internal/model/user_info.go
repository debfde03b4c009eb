package model

import "gorm.io/gorm"

// UserInfo 用户信息表
// 注册、登录、凭证管理均在上游身份服务完成，
// 这里仅冗余展示所需的昵称与头像
type UserInfo struct {
	gorm.Model
	Uuid     string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:用户唯一id"`
	Nickname string `gorm:"column:nickname;type:varchar(20);not null;comment:昵称"`
	Avatar   string `gorm:"column:avatar;type:varchar(255);comment:头像"`
	Status   int8   `gorm:"column:status;default:0;comment:状态，0.正常，1.禁用"`
}

func (UserInfo) TableName() string {
	return "user_info"
}
