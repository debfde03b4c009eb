package respond

// PaginationRespond 分页元数据
type PaginationRespond struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// MessagePageRespond 分页消息列表响应（按时间升序）
// 使用位置:
//   - internal/service/message/service.go: ListMessages
type MessagePageRespond struct {
	Messages   []MessageRespond  `json:"messages"`
	Pagination PaginationRespond `json:"pagination"`
}
