package request

// GetMessageListRequest 分页拉取群消息请求
// 使用位置:
//   - internal/handler/message_handler.go: ListMessages
type GetMessageListRequest struct {
	GroupId string `json:"group_id" form:"group_id" binding:"required"`
	Page    int    `json:"page" form:"page"`
	Limit   int    `json:"limit" form:"limit"`
}
