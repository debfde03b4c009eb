// Package presence 实现在场状态业务逻辑
// 输入状态带 TTL，过期判定在读取时用查询谓词完成，
// 不依赖后台清理；在线状态逐次上报覆盖
package presence

import (
	"time"

	"go.uber.org/zap"

	"project_chat_server/internal/dao/mysql/repository"
	"project_chat_server/internal/dto/respond"
	"project_chat_server/pkg/constants"
	"project_chat_server/pkg/errorx"
)

// AccessChecker 访问判定依赖（由 access 包实现）
type AccessChecker interface {
	RequireGroupAccess(userId, role, groupUuid string) error
}

// presenceService 在场状态业务逻辑实现
type presenceService struct {
	repos  *repository.Repositories
	access AccessChecker
	now    func() time.Time
}

// NewPresenceService 构造函数，注入所有依赖
func NewPresenceService(repos *repository.Repositories, access AccessChecker) *presenceService {
	return &presenceService{
		repos:  repos,
		access: access,
		now:    time.Now,
	}
}

// SetTyping 设置/清除输入状态
// 开始输入时覆盖写入 expires_at = now + TTL 的指示行，
// 停止输入时物理删除；(group, user) 至多一条存活行
func (p *presenceService) SetTyping(userId, role, groupUuid string, isTyping bool) error {
	if err := p.access.RequireGroupAccess(userId, role, groupUuid); err != nil {
		return err
	}

	if isTyping {
		if err := p.repos.Presence.UpsertTyping(groupUuid, userId, p.now().Add(constants.TYPING_TTL)); err != nil {
			zap.L().Error("upsert typing error", zap.Error(err))
			return err
		}
		return nil
	}
	if err := p.repos.Presence.DeleteTyping(groupUuid, userId); err != nil {
		zap.L().Error("delete typing error", zap.Error(err))
		return err
	}
	return nil
}

// ListTyping 列出群内正在输入的用户
// 排除请求者本人；过期行被查询谓词过滤，即使尚未物理删除
func (p *presenceService) ListTyping(userId, role, groupUuid string) (*respond.TypingRespond, error) {
	if err := p.access.RequireGroupAccess(userId, role, groupUuid); err != nil {
		return nil, err
	}

	userIds, err := p.repos.Presence.FindLiveTypingUserIds(groupUuid, p.now())
	if err != nil {
		zap.L().Error("find typing users error", zap.Error(err))
		return nil, err
	}

	rsp := &respond.TypingRespond{UserIds: make([]string, 0, len(userIds))}
	for _, id := range userIds {
		if id != userId {
			rsp.UserIds = append(rsp.UserIds, id)
		}
	}
	return rsp, nil
}

// SweepExpiredTyping 回收已过期的输入状态行
// 读取正确性靠查询谓词保证，这里只是防止停止输入时
// 未发显式清除的行无限堆积，由后台定时任务调用
func (p *presenceService) SweepExpiredTyping() (int64, error) {
	removed, err := p.repos.Presence.DeleteExpiredTyping(p.now())
	if err != nil {
		zap.L().Error("sweep expired typing error", zap.Error(err))
		return 0, err
	}
	return removed, nil
}

// SetOnline 上报在线状态，逐次覆盖 last_seen
func (p *presenceService) SetOnline(userId string, isOnline bool) error {
	var flag int8
	if isOnline {
		flag = 1
	}
	if err := p.repos.Presence.UpsertOnline(userId, flag, p.now()); err != nil {
		zap.L().Error("upsert online status error", zap.Error(err))
		return err
	}
	return nil
}

// GetOnlineStatus 查询在线状态
// 从未上报过的用户按离线处理，不是错误
func (p *presenceService) GetOnlineStatus(targetUserId string) (*respond.OnlineStatusRespond, error) {
	status, err := p.repos.Presence.FindOnline(targetUserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return &respond.OnlineStatusRespond{UserId: targetUserId, IsOnline: false}, nil
		}
		zap.L().Error("find online status error", zap.Error(err))
		return nil, err
	}

	return &respond.OnlineStatusRespond{
		UserId:     targetUserId,
		IsOnline:   status.IsOnline == 1,
		LastSeenAt: status.LastSeenAt.Format(constants.TIME_FORMAT),
	}, nil
}
