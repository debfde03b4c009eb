package request

// ForwardMessageRequest 转发消息请求
// 使用位置:
//   - internal/handler/message_handler.go: ForwardMessage
//   - internal/service/message/service.go: ForwardMessage
type ForwardMessageRequest struct {
	MessageId      string   `json:"message_id" binding:"required"`
	TargetGroupIds []string `json:"target_group_ids" binding:"required,min=1"`
}
