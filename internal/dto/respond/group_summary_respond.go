package respond

// GroupSummaryRespond 群组摘要响应
// member_cnt 为实时成员数，last_message_at 为最近一条未删除消息的时间（可为空）
// 使用位置:
//   - internal/service/group/service.go: ListGroups, CreateGroup, UpdateGroup
type GroupSummaryRespond struct {
	Uuid          string `json:"uuid"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Avatar        string `json:"avatar"`
	CreatorId     string `json:"creator_id"`
	MemberCnt     int    `json:"member_cnt"`
	CreatedAt     string `json:"created_at"`
	LastMessageAt string `json:"last_message_at,omitempty"`
}
