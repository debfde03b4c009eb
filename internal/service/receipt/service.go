// Package receipt 实现已读回执业务逻辑
// 送达状态是派生值：对消息的每个非发送者在群成员，
// 有回执行即 read，否则 delivered（在群即可拉取，没有独立的
// 送达确认步骤）。pending 分组在此派生规则下恒为空，保留形状
// 以兼容将来的送达确认，不要自行发明确认步骤
package receipt

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"project_chat_server/internal/dao/mysql/repository"
	"project_chat_server/internal/dto/respond"
	"project_chat_server/internal/model"
	"project_chat_server/pkg/constants"
	"project_chat_server/pkg/errorx"
)

// AccessChecker 访问判定依赖（由 access 包实现）
type AccessChecker interface {
	RequireGroupAccess(userId, role, groupUuid string) error
}

// receiptService 已读回执业务逻辑实现
type receiptService struct {
	repos  *repository.Repositories
	access AccessChecker
	now    func() time.Time
}

// NewReceiptService 构造函数，注入所有依赖
func NewReceiptService(repos *repository.Repositories, access AccessChecker) *receiptService {
	return &receiptService{
		repos:  repos,
		access: access,
		now:    time.Now,
	}
}

// MarkRead 标记消息已读
// 幂等：同一 (message, user) 重复标记是无操作而非错误；
// 发送者本人调用整体无操作；成功标记后推进群 last_read_at
func (r *receiptService) MarkRead(userId, messageId string) error {
	uuid, err := strconv.ParseInt(messageId, 10, 64)
	if err != nil {
		return errorx.New(errorx.CodeInvalidParam, "消息 ID 非法")
	}

	msg, err := r.repos.Message.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.Newf(errorx.CodeNotFound, "消息 %s 不存在", messageId)
		}
		return err
	}

	// 发送者不给自己建回执
	if msg.SendId == userId {
		return nil
	}

	if err := r.repos.ReadReceipt.CreateIgnoreDuplicate(&model.MessageReadReceipt{
		MessageUuid: uuid,
		UserUuid:    userId,
		ReadAt:      r.now(),
	}); err != nil {
		zap.L().Error("create read receipt error", zap.Error(err))
		return err
	}

	if err := r.repos.GroupMember.UpdateLastReadAt(msg.GroupUuid, userId, r.now()); err != nil {
		zap.L().Error("advance last_read_at error", zap.Error(err))
	}
	return nil
}

// GetMessageInfo 查询消息的送达状态三分组
// 每个非发送者在群成员恰好落入 read / delivered / pending 之一，
// 已退群的用户完全不出现在任何分组
func (r *receiptService) GetMessageInfo(userId, role, messageId string) (*respond.MessageInfoRespond, error) {
	uuid, err := strconv.ParseInt(messageId, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息 ID 非法")
	}

	msg, err := r.repos.Message.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "消息 %s 不存在", messageId)
		}
		return nil, err
	}

	if err := r.access.RequireGroupAccess(userId, role, msg.GroupUuid); err != nil {
		return nil, err
	}

	memberIds, err := r.repos.GroupMember.FindMemberIds(msg.GroupUuid)
	if err != nil {
		zap.L().Error("find member ids error", zap.Error(err))
		return nil, err
	}

	receipts, err := r.repos.ReadReceipt.FindByMessageUuid(uuid)
	if err != nil {
		zap.L().Error("find read receipts error", zap.Error(err))
		return nil, err
	}
	readAt := make(map[string]time.Time, len(receipts))
	for _, receipt := range receipts {
		readAt[receipt.UserUuid] = receipt.ReadAt
	}

	rsp := &respond.MessageInfoRespond{
		Read:      make([]respond.ReadEntryRespond, 0),
		Delivered: make([]string, 0),
		Pending:   make([]string, 0),
	}
	for _, memberId := range memberIds {
		if memberId == msg.SendId {
			continue
		}
		if t, ok := readAt[memberId]; ok {
			rsp.Read = append(rsp.Read, respond.ReadEntryRespond{
				UserId: memberId,
				ReadAt: t.Format(constants.TIME_FORMAT),
			})
		} else {
			rsp.Delivered = append(rsp.Delivered, memberId)
		}
	}
	return rsp, nil
}
