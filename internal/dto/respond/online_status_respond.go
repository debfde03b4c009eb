package respond

// OnlineStatusRespond 在线状态响应
// 从未上报过状态的用户返回 is_online=false 且 last_seen_at 为空
// 使用位置:
//   - internal/service/presence/service.go: GetOnlineStatus
type OnlineStatusRespond struct {
	UserId     string `json:"user_id"`
	IsOnline   bool   `json:"is_online"`
	LastSeenAt string `json:"last_seen_at,omitempty"`
}
