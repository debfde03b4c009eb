// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"project_chat_server/internal/dao/mysql/repository"
	myredis "project_chat_server/internal/dao/redis"
	"project_chat_server/internal/infrastructure/mq"
	"project_chat_server/internal/service/access"
	"project_chat_server/internal/service/group"
	"project_chat_server/internal/service/message"
	"project_chat_server/internal/service/preference"
	"project_chat_server/internal/service/presence"
	"project_chat_server/internal/service/receipt"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过 service.Svc 访问各个 Service
type Services struct {
	Access     AccessService     // 访问控制 Service
	Group      GroupService      // 群组 Service
	Message    MessageService    // 消息 Service
	Receipt    ReceiptService    // 已读回执 Service
	Presence   PresenceService   // 在场状态 Service
	Preference PreferenceService // 用户偏好 Service
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 接收 Repository 聚合、缓存服务与事件代理
//  2. 先创建 AccessService，其余 Service 注入它做访问判定
//  3. 返回 Services 聚合
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, broker mq.EventBroker) *Services {
	accessSvc := access.NewAccessService(repos)
	groupSvc := group.NewGroupService(repos, accessSvc, cache, broker)
	messageSvc := message.NewMessageService(repos, accessSvc, broker)
	receiptSvc := receipt.NewReceiptService(repos, accessSvc)
	presenceSvc := presence.NewPresenceService(repos, accessSvc)
	preferenceSvc := preference.NewPreferenceService(repos, accessSvc)

	return &Services{
		Access:     accessSvc,
		Group:      groupSvc,
		Message:    messageSvc,
		Receipt:    receiptSvc,
		Presence:   presenceSvc,
		Preference: preferenceSvc,
	}
}

// Svc 全局 Services 实例
// Handler 层通过 service.Svc.Group.CreateGroup() 等方式调用
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository / Redis / MQ 初始化之后
func InitServices(repos *repository.Repositories, cache myredis.AsyncCacheService, broker mq.EventBroker) {
	Svc = NewServices(repos, cache, broker)
}
