package request

// OnlineStatusRequest 上报在线状态请求
// 使用位置:
//   - internal/handler/presence_handler.go: SetOnlineStatus
type OnlineStatusRequest struct {
	IsOnline *bool `json:"is_online" binding:"required"`
}
