package respond

// GetGroupMemberRespond 群成员列表响应（按加入时间升序）
// 使用位置:
//   - internal/service/group/service.go: ListMembers
type GetGroupMemberRespond struct {
	UserId   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	JoinedAt string `json:"joined_at"`
}
