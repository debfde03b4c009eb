package request

// GetGroupListRequest 获取项目群组列表请求
// 使用位置:
//   - internal/handler/group_handler.go: ListGroups
type GetGroupListRequest struct {
	ProjectId string `json:"project_id" form:"project_id" binding:"required"`
}
