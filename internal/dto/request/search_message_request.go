package request

// SearchMessageRequest 群内消息搜索请求
// 使用位置:
//   - internal/handler/message_handler.go: SearchMessages
type SearchMessageRequest struct {
	GroupId string `json:"group_id" form:"group_id" binding:"required"`
	Keyword string `json:"keyword" form:"keyword" binding:"required"`
}
