// Package message 实现消息业务逻辑
// 消息生命周期：created → [edited]* → [deleted]
// edited 与 deleted 相互独立，deleted 为终态
package message

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"project_chat_server/internal/dao/mysql/repository"
	"project_chat_server/internal/dto/request"
	"project_chat_server/internal/dto/respond"
	"project_chat_server/internal/infrastructure/mq"
	"project_chat_server/internal/model"
	"project_chat_server/pkg/constants"
	"project_chat_server/pkg/errorx"
	"project_chat_server/pkg/util/snowflake"
)

// AccessChecker 访问判定依赖（由 access 包实现）
type AccessChecker interface {
	CanAccessGroup(userId, role, groupUuid string) (bool, error)
	RequireGroupAccess(userId, role, groupUuid string) error
}

// messageService 消息业务逻辑实现
type messageService struct {
	repos  *repository.Repositories
	access AccessChecker
	broker mq.EventBroker
	now    func() time.Time
}

// NewMessageService 构造函数，注入所有依赖
func NewMessageService(repos *repository.Repositories, access AccessChecker, broker mq.EventBroker) *messageService {
	return &messageService{
		repos:  repos,
		access: access,
		broker: broker,
		now:    time.Now,
	}
}

// SendMessage 发送消息
// 校验：类型合法；文本/回复要求非空内容；语音要求文件引用；
// 回复引用必须指向同群未删除消息（仅创建时校验一次，
// 之后父消息被删除产生的悬挂引用在读取时渲染为不可用）
func (m *messageService) SendMessage(userId, role string, req request.SendMessageRequest) (*respond.MessageRespond, error) {
	if err := m.access.RequireGroupAccess(userId, role, req.GroupId); err != nil {
		return nil, err
	}

	if req.Type != model.MessageTypeText && req.Type != model.MessageTypeVoice && req.Type != model.MessageTypeReply {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "不支持的消息类型 %d", req.Type)
	}

	content := strings.TrimSpace(req.Content)
	switch req.Type {
	case model.MessageTypeText, model.MessageTypeReply:
		if content == "" {
			return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
		}
	case model.MessageTypeVoice:
		if req.VoiceUrl == "" {
			return nil, errorx.New(errorx.CodeInvalidParam, "语音消息缺少文件引用")
		}
	}

	var replyTo int64
	if req.Type == model.MessageTypeReply && req.ReplyToMessageId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "回复消息缺少回复目标")
	}
	if req.ReplyToMessageId != "" {
		parsed, err := strconv.ParseInt(req.ReplyToMessageId, 10, 64)
		if err != nil {
			return nil, errorx.New(errorx.CodeInvalidParam, "回复目标消息 ID 非法")
		}
		parent, err := m.repos.Message.FindByUuid(parsed)
		if err != nil || parent.GroupUuid != req.GroupId {
			return nil, errorx.New(errorx.CodeInvalidParam, "回复的消息不存在或不在本群")
		}
		replyTo = parsed
	}

	sendName, sendAvatar := m.senderDisplay(userId)
	msg := model.Message{
		Uuid:          snowflake.GenerateID(),
		GroupUuid:     req.GroupId,
		SendId:        userId,
		SendName:      sendName,
		SendAvatar:    sendAvatar,
		Type:          req.Type,
		Content:       content,
		VoiceUrl:      req.VoiceUrl,
		VoiceDuration: req.VoiceDuration,
		ReplyToUuid:   replyTo,
	}

	if err := m.repos.Message.Create(&msg); err != nil {
		zap.L().Error("create message error", zap.Error(err))
		return nil, err
	}

	m.publishMessageSent(&msg)

	return m.buildRespond(&msg), nil
}

// ListMessages 分页拉取群消息（时间升序）
// 回复消息补全父消息预览；副作用：为请求者对返回的每条
// 非本人消息写入已读回执，并推进 last_read_at ——
// 读即已读是列表端点的契约，另有显式标记端点做定向确认
func (m *messageService) ListMessages(userId, role string, req request.GetMessageListRequest) (*respond.MessagePageRespond, error) {
	if err := m.access.RequireGroupAccess(userId, role, req.GroupId); err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = constants.DEFAULT_PAGE_SIZE
	}
	if limit > constants.MAX_PAGE_SIZE {
		limit = constants.MAX_PAGE_SIZE
	}

	messages, total, err := m.repos.Message.FindPageByGroup(req.GroupId, (page-1)*limit, limit)
	if err != nil {
		zap.L().Error("find message page error", zap.Error(err))
		return nil, err
	}

	parents := m.loadReplyParents(messages)

	rsp := &respond.MessagePageRespond{
		Messages: make([]respond.MessageRespond, 0, len(messages)),
		Pagination: respond.PaginationRespond{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}
	for i := range messages {
		item := m.buildRespond(&messages[i])
		if messages[i].ReplyToUuid != 0 {
			item.ReplyTo = buildReplyPreview(messages[i].ReplyToUuid, parents)
		}
		rsp.Messages = append(rsp.Messages, *item)
	}

	m.markPageRead(userId, req.GroupId, messages)

	return rsp, nil
}

// EditMessage 编辑消息
// 仅发送者、仅文本类型、仅创建后 15 分钟内（严格大于即拒绝，
// 硬性截止而非建议值）
func (m *messageService) EditMessage(userId, role, messageId string, req request.EditMessageRequest) (*respond.MessageRespond, error) {
	uuid, err := strconv.ParseInt(messageId, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息 ID 非法")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}

	msg, err := m.repos.Message.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "消息 %s 不存在", messageId)
		}
		return nil, err
	}

	if msg.SendId != userId {
		return nil, errorx.New(errorx.CodeAccessDenied, "只有发送者可以编辑消息")
	}
	if msg.Type != model.MessageTypeText {
		return nil, errorx.New(errorx.CodeAccessDenied, "只有文本消息可以编辑")
	}
	if m.now().Sub(msg.CreatedAt) > constants.EDIT_WINDOW {
		return nil, errorx.New(errorx.CodeAccessDenied, "已超过编辑时限")
	}

	msg.Content = content
	msg.Edited = 1
	msg.EditedAt.Time = m.now()
	msg.EditedAt.Valid = true

	if err := m.repos.Message.Update(msg); err != nil {
		zap.L().Error("update message error", zap.Error(err))
		return nil, err
	}
	return m.buildRespond(msg), nil
}

// DeleteMessage 软删除消息
// 管理员无条件删除；发送者限创建后 1 小时内；
// 其他人任何时候都拒绝。内容保留作审计，正常读取全部排除
func (m *messageService) DeleteMessage(userId, role, messageId string) error {
	uuid, err := strconv.ParseInt(messageId, 10, 64)
	if err != nil {
		return errorx.New(errorx.CodeInvalidParam, "消息 ID 非法")
	}

	msg, err := m.repos.Message.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.Newf(errorx.CodeNotFound, "消息 %s 不存在", messageId)
		}
		return err
	}

	if role != constants.ROLE_ADMIN {
		if msg.SendId != userId {
			return errorx.New(errorx.CodeAccessDenied, "只有发送者或管理员可以删除消息")
		}
		if m.now().Sub(msg.CreatedAt) > constants.DELETE_WINDOW {
			return errorx.New(errorx.CodeAccessDenied, "已超过删除时限")
		}
	}

	if err := m.repos.Message.SoftDeleteByUuid(uuid); err != nil {
		zap.L().Error("delete message error", zap.Error(err))
		return err
	}
	return nil
}

// ForwardMessage 批量转发消息
// 源消息只加载一次；逐目标独立判定成员资格，部分成功，
// 整批在一个事务内提交。forwarded_from 始终指向最初的
// 原始消息，跨多次转发保留
func (m *messageService) ForwardMessage(userId, role string, req request.ForwardMessageRequest) (*respond.ForwardRespond, error) {
	uuid, err := strconv.ParseInt(req.MessageId, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息 ID 非法")
	}

	source, err := m.repos.Message.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "消息 %s 不存在", req.MessageId)
		}
		return nil, err
	}

	if err := m.access.RequireGroupAccess(userId, role, source.GroupUuid); err != nil {
		return nil, err
	}

	// 转发链始终回指最初的原始消息
	forwardedFrom := source.Uuid
	if source.ForwardedFromUuid != 0 {
		forwardedFrom = source.ForwardedFromUuid
	}

	sendName, sendAvatar := m.senderDisplay(userId)

	rsp := &respond.ForwardRespond{
		Messages: make([]respond.ForwardedMessageRespond, 0),
		Errors:   make([]respond.ForwardErrorRespond, 0),
	}
	var forwarded []*model.Message

	err = m.repos.Transaction(func(txRepos *repository.Repositories) error {
		for _, target := range req.TargetGroupIds {
			if _, err := txRepos.Group.FindByUuid(target); err != nil {
				rsp.Errors = append(rsp.Errors, respond.ForwardErrorRespond{GroupId: target, Reason: "群组不存在"})
				continue
			}

			ok, err := m.access.CanAccessGroup(userId, role, target)
			if err != nil {
				rsp.Errors = append(rsp.Errors, respond.ForwardErrorRespond{GroupId: target, Reason: "权限查询失败"})
				zap.L().Error("forward access check error", zap.Error(err), zap.String("group_uuid", target))
				continue
			}
			if !ok {
				rsp.Errors = append(rsp.Errors, respond.ForwardErrorRespond{GroupId: target, Reason: "不是目标群成员"})
				continue
			}

			clone := model.Message{
				Uuid:              snowflake.GenerateID(),
				GroupUuid:         target,
				SendId:            userId,
				SendName:          sendName,
				SendAvatar:        sendAvatar,
				Type:              source.Type,
				Content:           source.Content,
				VoiceUrl:          source.VoiceUrl,
				VoiceDuration:     source.VoiceDuration,
				ForwardedFromUuid: forwardedFrom,
			}
			if err := txRepos.Message.Create(&clone); err != nil {
				rsp.Errors = append(rsp.Errors, respond.ForwardErrorRespond{GroupId: target, Reason: "转发失败"})
				zap.L().Error("forward insert error", zap.Error(err), zap.String("group_uuid", target))
				continue
			}

			rsp.ForwardedCount++
			rsp.Messages = append(rsp.Messages, respond.ForwardedMessageRespond{
				GroupId:   target,
				MessageId: strconv.FormatInt(clone.Uuid, 10),
			})
			forwarded = append(forwarded, &clone)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, msg := range forwarded {
		m.publishMessageSent(msg)
	}
	return rsp, nil
}

// SearchMessages 群内文本搜索
// 仅文本/回复内容参与匹配，最新在前，结果封顶
func (m *messageService) SearchMessages(userId, role string, req request.SearchMessageRequest) ([]respond.MessageRespond, error) {
	if err := m.access.RequireGroupAccess(userId, role, req.GroupId); err != nil {
		return nil, err
	}

	keyword := strings.TrimSpace(req.Keyword)
	if len([]rune(keyword)) < constants.SEARCH_MIN_QUERY_LEN {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "搜索关键字至少 %d 个字符", constants.SEARCH_MIN_QUERY_LEN)
	}

	messages, err := m.repos.Message.SearchInGroup(req.GroupId, keyword, constants.SEARCH_MAX_RESULTS)
	if err != nil {
		zap.L().Error("search messages error", zap.Error(err))
		return nil, err
	}

	parents := m.loadReplyParents(messages)

	rsp := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		item := m.buildRespond(&messages[i])
		if messages[i].ReplyToUuid != 0 {
			item.ReplyTo = buildReplyPreview(messages[i].ReplyToUuid, parents)
		}
		rsp = append(rsp, *item)
	}
	return rsp, nil
}

// ==================== 内部辅助 ====================

// senderDisplay 查询发送者展示信息，查不到时退回 UUID
func (m *messageService) senderDisplay(userId string) (name, avatar string) {
	user, err := m.repos.User.FindByUuid(userId)
	if err != nil {
		if !errorx.IsNotFound(err) {
			zap.L().Error("find sender info error", zap.Error(err))
		}
		return userId, ""
	}
	return user.Nickname, user.Avatar
}

// loadReplyParents 批量加载回复消息的父消息
// 已删除的父消息不在结果里，预览渲染为不可用
func (m *messageService) loadReplyParents(messages []model.Message) map[int64]*model.Message {
	var uuids []int64
	seen := make(map[int64]struct{})
	for i := range messages {
		if id := messages[i].ReplyToUuid; id != 0 {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				uuids = append(uuids, id)
			}
		}
	}
	if len(uuids) == 0 {
		return nil
	}

	parents, err := m.repos.Message.FindByUuids(uuids)
	if err != nil {
		zap.L().Error("load reply parents error", zap.Error(err))
		return nil
	}
	result := make(map[int64]*model.Message, len(parents))
	for i := range parents {
		result[parents[i].Uuid] = &parents[i]
	}
	return result
}

// buildReplyPreview 构建回复预览，父消息缺失时标记不可用
func buildReplyPreview(parentUuid int64, parents map[int64]*model.Message) *respond.ReplyPreviewRespond {
	parent, ok := parents[parentUuid]
	if !ok || parent == nil {
		return &respond.ReplyPreviewRespond{
			Uuid:      strconv.FormatInt(parentUuid, 10),
			Available: false,
		}
	}
	return &respond.ReplyPreviewRespond{
		Uuid:      strconv.FormatInt(parent.Uuid, 10),
		SendId:    parent.SendId,
		SendName:  parent.SendName,
		Type:      parent.Type,
		Content:   parent.Content,
		Available: true,
	}
}

// markPageRead 列表副作用：写入已读回执并推进 last_read_at
// 回执插入幂等，发送者本人的消息跳过
func (m *messageService) markPageRead(userId, groupUuid string, messages []model.Message) {
	marked := false
	for i := range messages {
		if messages[i].SendId == userId {
			continue
		}
		if err := m.repos.ReadReceipt.CreateIgnoreDuplicate(&model.MessageReadReceipt{
			MessageUuid: messages[i].Uuid,
			UserUuid:    userId,
			ReadAt:      m.now(),
		}); err != nil {
			zap.L().Error("mark read error", zap.Error(err), zap.Int64("message_uuid", messages[i].Uuid))
			continue
		}
		marked = true
	}
	if marked {
		if err := m.repos.GroupMember.UpdateLastReadAt(groupUuid, userId, m.now()); err != nil {
			zap.L().Error("advance last_read_at error", zap.Error(err))
		}
	}
}

// publishMessageSent 发布消息发送事件
// recipients 为除发送者外的在群成员，muted 单列免打扰用户
func (m *messageService) publishMessageSent(msg *model.Message) {
	if m.broker == nil {
		return
	}

	memberIds, err := m.repos.GroupMember.FindMemberIds(msg.GroupUuid)
	if err != nil {
		zap.L().Error("find member ids error", zap.Error(err))
		return
	}
	recipients := make([]string, 0, len(memberIds))
	for _, id := range memberIds {
		if id != msg.SendId {
			recipients = append(recipients, id)
		}
	}

	muted, err := m.repos.Preference.FindMutedUserIds(msg.GroupUuid, m.now())
	if err != nil {
		zap.L().Error("find muted user ids error", zap.Error(err))
		muted = nil
	}

	event := &mq.ChatEvent{
		Type:       mq.EventMessageSent,
		GroupId:    msg.GroupUuid,
		MessageId:  strconv.FormatInt(msg.Uuid, 10),
		ActorId:    msg.SendId,
		Recipients: recipients,
		Muted:      muted,
		OccurredAt: m.now(),
	}
	if err := m.broker.Publish(context.Background(), event); err != nil {
		zap.L().Error("publish message sent event error", zap.Error(err))
	}
}

// buildRespond 将消息模型转换为响应结构
func (m *messageService) buildRespond(msg *model.Message) *respond.MessageRespond {
	rsp := &respond.MessageRespond{
		Uuid:          strconv.FormatInt(msg.Uuid, 10),
		GroupId:       msg.GroupUuid,
		SendId:        msg.SendId,
		SendName:      msg.SendName,
		SendAvatar:    msg.SendAvatar,
		Type:          msg.Type,
		Content:       msg.Content,
		VoiceUrl:      msg.VoiceUrl,
		VoiceDuration: msg.VoiceDuration,
		Edited:        msg.Edited == 1,
		CreatedAt:     msg.CreatedAt.Format(constants.TIME_FORMAT),
	}
	if msg.ForwardedFromUuid != 0 {
		rsp.ForwardedFrom = strconv.FormatInt(msg.ForwardedFromUuid, 10)
	}
	if msg.EditedAt.Valid {
		rsp.EditedAt = msg.EditedAt.Time.Format(constants.TIME_FORMAT)
	}
	return rsp
}
