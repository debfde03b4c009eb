package respond

// ReplyPreviewRespond 回复消息携带的父消息预览
// 父消息被删除后 available=false，其余字段为空
type ReplyPreviewRespond struct {
	Uuid      string `json:"uuid"`
	SendId    string `json:"send_id,omitempty"`
	SendName  string `json:"send_name,omitempty"`
	Type      int8   `json:"type"`
	Content   string `json:"content,omitempty"`
	Available bool   `json:"available"`
}

// MessageRespond 消息响应
// uuid / forwarded_from 为雪花 int64，JSON 中用字符串传输
// 使用位置:
//   - internal/service/message/service.go: SendMessage, ListMessages, EditMessage,
//     ForwardMessage, SearchMessages
//   - internal/service/preference/service.go: GetStarredMessages
type MessageRespond struct {
	Uuid          string               `json:"uuid"`
	GroupId       string               `json:"group_id"`
	SendId        string               `json:"send_id"`
	SendName      string               `json:"send_name"`
	SendAvatar    string               `json:"send_avatar"`
	Type          int8                 `json:"type"`
	Content       string               `json:"content"`
	VoiceUrl      string               `json:"voice_file_path,omitempty"`
	VoiceDuration int                  `json:"voice_duration,omitempty"`
	ReplyTo       *ReplyPreviewRespond `json:"reply_to,omitempty"`
	ForwardedFrom string               `json:"forwarded_from,omitempty"`
	Edited        bool                 `json:"edited"`
	EditedAt      string               `json:"edited_at,omitempty"`
	CreatedAt     string               `json:"created_at"`
}
