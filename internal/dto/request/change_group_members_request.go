package request

// ChangeGroupMembersRequest 批量添加/移除群成员请求
// 单个 user_id 与批量 user_ids 二选一，至少提供一个
// 使用位置:
//   - internal/handler/group_handler.go: AddMembers, RemoveMembers
//   - internal/service/group/service.go: AddMembers, RemoveMembers
type ChangeGroupMembersRequest struct {
	UserId  string   `json:"user_id"`
	UserIds []string `json:"user_ids"`
}

// TargetIds 合并单个与批量字段，去除重复后返回
func (r *ChangeGroupMembersRequest) TargetIds() []string {
	seen := make(map[string]struct{}, len(r.UserIds)+1)
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	add(r.UserId)
	for _, id := range r.UserIds {
		add(id)
	}
	return ids
}
