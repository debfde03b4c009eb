package respond

// ReadEntryRespond 已读成员及其回执时间
type ReadEntryRespond struct {
	UserId string `json:"user_id"`
	ReadAt string `json:"read_at"`
}

// MessageInfoRespond 消息送达状态响应
// 每个非发送者在群成员按回执有无划入 read / delivered，
// pending 在当前派生规则下恒为空，保留字段形状以兼容将来的送达确认
// 使用位置:
//   - internal/service/receipt/service.go: GetMessageInfo
type MessageInfoRespond struct {
	Read      []ReadEntryRespond `json:"read"`
	Delivered []string           `json:"delivered"`
	Pending   []string           `json:"pending"`
}
