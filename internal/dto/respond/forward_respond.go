package respond

// ForwardedMessageRespond 转发成功的目标群及新消息 ID
type ForwardedMessageRespond struct {
	GroupId   string `json:"group_id"`
	MessageId string `json:"message_id"`
}

// ForwardErrorRespond 转发失败的目标群及原因
type ForwardErrorRespond struct {
	GroupId string `json:"group_id"`
	Reason  string `json:"reason"`
}

// ForwardRespond 批量转发的部分成功结果
// 使用位置:
//   - internal/service/message/service.go: ForwardMessage
type ForwardRespond struct {
	ForwardedCount int                       `json:"forwarded_count"`
	Messages       []ForwardedMessageRespond `json:"messages"`
	Errors         []ForwardErrorRespond     `json:"errors"`
}
