package respond

// MuteRespond 设置免打扰后的生效截止时间
// 使用位置:
//   - internal/service/preference/service.go: MuteGroup
type MuteRespond struct {
	GroupId    string `json:"group_id"`
	MutedUntil string `json:"muted_until"`
}
