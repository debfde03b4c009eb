package request

// MuteGroupRequest 设置群免打扰请求
// 使用位置:
//   - internal/handler/preference_handler.go: MuteGroup
type MuteGroupRequest struct {
	DurationSeconds int64 `json:"duration_seconds" binding:"required,gt=0"`
}
