package constants

import "time"

const (
	CHANNEL_SIZE = 100 // 事件通道大小

	EDIT_WINDOW   = 15 * time.Minute // 消息编辑窗口，超过（严格大于）即拒绝
	DELETE_WINDOW = time.Hour        // 发送者删除消息窗口，管理员不受限

	TYPING_TTL            = 30 * time.Second // 输入状态存活时间，读取时按 expires_at 过滤
	TYPING_SWEEP_INTERVAL = 10 * time.Minute // 过期输入状态行的后台回收间隔

	SEARCH_MIN_QUERY_LEN = 2   // 搜索关键字最小长度（去除首尾空白后）
	SEARCH_MAX_RESULTS   = 100 // 搜索结果上限

	DEFAULT_PAGE_SIZE = 20  // 消息分页默认每页数量
	MAX_PAGE_SIZE     = 100 // 消息分页每页数量上限

	CACHE_TIMEOUT = 10 * time.Minute // 展示类缓存过期时间

	TIME_FORMAT = "2006-01-02 15:04:05" // 响应中的时间展示格式
)

// 角色常量
// 身份校验由外部完成，本服务只消费 {user_id, role}
const (
	ROLE_ADMIN  = "admin"  // 特权角色，拥有全局覆盖权限
	ROLE_MEMBER = "member" // 普通成员
)
