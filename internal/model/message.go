// Package model 定义数据库实体模型
// 本文件定义消息模型，消息的生命周期：created → [edited]* → [deleted]
// edited 与 deleted 是相互独立的标记，消息可先编辑后删除；deleted 为终态
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Message 消息表
// 回复与转发引用只在创建时校验一次（必须指向同群的未删除消息），
// 之后源消息被删除产生的悬挂引用在读取时渲染为"消息不可用"
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识，雪花算法生成的 int64
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// GroupUuid 消息所属群组
	GroupUuid string `gorm:"column:group_uuid;index;type:char(20);not null;comment:群组uuid"`

	// SendId 发送者 UUID
	SendId string `gorm:"column:send_id;index;type:char(20);not null;comment:发送者uuid"`

	// SendName / SendAvatar 发送者昵称与头像
	// 冗余存储，避免每次查询消息时都要关联用户表
	SendName   string `gorm:"column:send_name;type:varchar(20);not null;comment:发送者昵称"`
	SendAvatar string `gorm:"column:send_avatar;type:varchar(255);comment:发送者头像"`

	// Type 消息类型
	// 0=文本, 1=语音, 2=回复
	// 转发消息保留源消息类型，通过 forwarded_from_uuid 标记
	Type int8 `gorm:"column:type;not null;comment:消息类型，0.文本，1.语音，2.回复"`

	// Content 消息文本内容，非文本类型可为空
	Content string `gorm:"column:content;type:TEXT;comment:消息内容"`

	// VoiceUrl 语音文件引用
	// 文件本体由外部存储服务保存，这里只存引用路径
	VoiceUrl string `gorm:"column:voice_url;type:varchar(255);comment:语音文件引用"`

	// VoiceDuration 语音时长（秒）
	VoiceDuration int `gorm:"column:voice_duration;default:0;comment:语音时长（秒）"`

	// ReplyToUuid 回复的目标消息，自引用且仅一层
	// 0 表示非回复消息
	ReplyToUuid int64 `gorm:"column:reply_to_uuid;type:bigint;default:0;comment:回复目标消息ID"`

	// ForwardedFromUuid 转发来源（始终指向最初的原始消息，跨多次转发保留）
	// 0 表示非转发消息
	ForwardedFromUuid int64 `gorm:"column:forwarded_from_uuid;type:bigint;default:0;comment:转发来源消息ID"`

	// Edited 编辑标记与时间
	Edited   int8         `gorm:"column:edited;default:0;comment:是否已编辑，0.否，1.是"`
	EditedAt sql.NullTime `gorm:"column:edited_at;comment:编辑时间"`
}

func (Message) TableName() string {
	return "message"
}

// 消息类型常量
const (
	MessageTypeText  int8 = 0 // 文本
	MessageTypeVoice int8 = 1 // 语音
	MessageTypeReply int8 = 2 // 回复
)

// IsTextual 判断消息内容是否参与搜索/编辑（文本与回复）
func (m *Message) IsTextual() bool {
	return m.Type == MessageTypeText || m.Type == MessageTypeReply
}
