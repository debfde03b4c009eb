package respond

// MemberOutcomeError 批量成员操作中单个用户的失败说明
type MemberOutcomeError struct {
	UserId string `json:"user_id"`
	Reason string `json:"reason"`
}

// MemberChangeRespond 批量添加/移除成员的部分成功结果
// 整批在一个事务内提交，但逐项独立判定：
// count 为实际生效数，errors 列出每个被跳过用户及原因
// 使用位置:
//   - internal/service/group/service.go: AddMembers, RemoveMembers
type MemberChangeRespond struct {
	Count  int                  `json:"count"`
	Errors []MemberOutcomeError `json:"errors"`
}
