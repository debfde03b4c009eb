package request

// TypingRequest 设置输入状态请求
// is_typing 用指针承接，保证 false 也能通过 required 校验
// 使用位置:
//   - internal/handler/presence_handler.go: SetTyping
type TypingRequest struct {
	IsTyping *bool `json:"is_typing" binding:"required"`
}
