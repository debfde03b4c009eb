package request

// SendMessageRequest 发送消息请求
// 消息 ID 为雪花 int64，JSON 中统一用字符串传输避免前端精度丢失
// 使用位置:
//   - internal/handler/message_handler.go: SendMessage
//   - internal/service/message/service.go: SendMessage
type SendMessageRequest struct {
	GroupId          string `json:"group_id" binding:"required"`
	Type             int8   `json:"message_type"`
	Content          string `json:"content"`
	VoiceUrl         string `json:"voice_file_path"`
	VoiceDuration    int    `json:"voice_duration"`
	ReplyToMessageId string `json:"reply_to_message_id"`
}
