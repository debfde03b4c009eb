package respond

// TypingRespond 正在输入的用户列表（不含请求者本人）
// 使用位置:
//   - internal/service/presence/service.go: ListTyping
type TypingRespond struct {
	UserIds []string `json:"user_ids"`
}
