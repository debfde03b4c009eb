package request

// UpdateGroupRequest 更新群组信息请求
// 指针字段区分"未传"与"传了空值"，未传的字段不更新
// 使用位置:
//   - internal/handler/group_handler.go: UpdateGroup
//   - internal/service/group/service.go: UpdateGroup
type UpdateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
}
