// Package preference 实现用户偏好业务逻辑
// 免打扰/归档/拉黑/收藏是纯用户侧叠加视图，不触碰消息与群组
// 的核心不变式。拉黑是单向的，且不回溯隐藏历史消息——
// 只约束后续交互，这是确认过的产品决策
package preference

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

// preferenceService 用户偏好业务逻辑实现
type preferenceService struct {
	repos  *repository.Repositories
	access AccessChecker
	now    func() time.Time
}

// NewPreferenceService 构造函数，注入所有依赖
func NewPreferenceService(repos *repository.Repositories, access AccessChecker) *preferenceService {
	return &preferenceService{
		repos:  repos,
		access: access,
		now:    time.Now,
	}
}

// MuteGroup 设置免打扰至 now + duration
// 重复设置刷新截止时间
func (p *preferenceService) MuteGroup(userId, role, groupUuid string, durationSeconds int64) (*respond.MuteRespond, error) {
	if err := p.access.RequireGroupAccess(userId, role, groupUuid); err != nil {
		return nil, err
	}
	if durationSeconds <= 0 {
		return nil, errorx.New(errorx.CodeInvalidParam, "免打扰时长必须大于 0")
	}

	until := p.now().Add(time.Duration(durationSeconds) * time.Second)
	if err := p.repos.Preference.UpsertMute(&model.GroupMuteRecord{
		GroupUuid:  groupUuid,
		UserUuid:   userId,
		MutedUntil: until,
	}); err != nil {
		zap.L().Error("upsert mute error", zap.Error(err))
		return nil, err
	}

	return &respond.MuteRespond{
		GroupId:    groupUuid,
		MutedUntil: until.Format(constants.TIME_FORMAT),
	}, nil
}

// UnmuteGroup 取消免打扰（幂等）
func (p *preferenceService) UnmuteGroup(userId, role, groupUuid string) error {
	if err := p.access.RequireGroupAccess(userId, role, groupUuid); err != nil {
		return err
	}
	if err := p.repos.Preference.DeleteMute(groupUuid, userId); err != nil {
		zap.L().Error("delete mute error", zap.Error(err))
		return err
	}
	return nil
}

// ArchiveGroup 归档群组，重复归档返回 Conflict
func (p *preferenceService) ArchiveGroup(userId, role, groupUuid string) error {
	if err := p.access.RequireGroupAccess(userId, role, groupUuid); err != nil {
		return err
	}
	if err := p.repos.Preference.CreateArchive(&model.GroupArchiveRecord{
		GroupUuid: groupUuid,
		UserUuid:  userId,
	}); err != nil {
		if errorx.GetCode(err) == errorx.CodeConflict {
			return errorx.Newf(errorx.CodeConflict, "群组 %s 已归档", groupUuid)
		}
		zap.L().Error("create archive error", zap.Error(err))
		return err
	}
	return nil
}

// UnarchiveGroup 取消归档，未归档返回 NotFound
func (p *preferenceService) UnarchiveGroup(userId, role, groupUuid string) error {
	if err := p.access.RequireGroupAccess(userId, role, groupUuid); err != nil {
		return err
	}
	rows, err := p.repos.Preference.DeleteArchive(groupUuid, userId)
	if err != nil {
		zap.L().Error("delete archive error", zap.Error(err))
		return err
	}
	if rows == 0 {
		return errorx.Newf(errorx.CodeNotFound, "群组 %s 未归档", groupUuid)
	}
	return nil
}

// BlockUser 拉黑用户
// 单向：A 拉黑 B 不意味着 B 拉黑 A；拉黑自己是参数错误
func (p *preferenceService) BlockUser(userId, targetId string) error {
	if userId == targetId {
		return errorx.New(errorx.CodeInvalidParam, "不能拉黑自己")
	}

	if _, err := p.repos.User.FindByUuid(targetId); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.Newf(errorx.CodeNotFound, "用户 %s 不存在", targetId)
		}
		return err
	}

	if err := p.repos.Preference.CreateBlock(&model.UserBlockRecord{
		UserUuid:    userId,
		BlockedUuid: targetId,
	}); err != nil {
		if errorx.GetCode(err) == errorx.CodeConflict {
			return errorx.Newf(errorx.CodeConflict, "已拉黑用户 %s", targetId)
		}
		zap.L().Error("create block error", zap.Error(err))
		return err
	}
	return nil
}

// UnblockUser 取消拉黑，未拉黑返回 NotFound
func (p *preferenceService) UnblockUser(userId, targetId string) error {
	rows, err := p.repos.Preference.DeleteBlock(userId, targetId)
	if err != nil {
		zap.L().Error("delete block error", zap.Error(err))
		return err
	}
	if rows == 0 {
		return errorx.Newf(errorx.CodeNotFound, "未拉黑用户 %s", targetId)
	}
	return nil
}

// StarMessage 收藏消息，重复收藏返回 Conflict
func (p *preferenceService) StarMessage(userId, role, messageId string) error {
	uuid, err := strconv.ParseInt(messageId, 10, 64)
	if err != nil {
		return errorx.New(errorx.CodeInvalidParam, "消息 ID 非法")
	}

	msg, err := p.repos.Message.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.Newf(errorx.CodeNotFound, "消息 %s 不存在", messageId)
		}
		return err
	}

	if err := p.access.RequireGroupAccess(userId, role, msg.GroupUuid); err != nil {
		return err
	}

	if err := p.repos.Preference.CreateStar(&model.StarredMessage{
		UserUuid:    userId,
		MessageUuid: uuid,
		GroupUuid:   msg.GroupUuid,
	}); err != nil {
		if errorx.GetCode(err) == errorx.CodeConflict {
			return errorx.Newf(errorx.CodeConflict, "已收藏消息 %s", messageId)
		}
		zap.L().Error("create star error", zap.Error(err))
		return err
	}
	return nil
}

// UnstarMessage 取消收藏，未收藏返回 NotFound
func (p *preferenceService) UnstarMessage(userId, messageId string) error {
	uuid, err := strconv.ParseInt(messageId, 10, 64)
	if err != nil {
		return errorx.New(errorx.CodeInvalidParam, "消息 ID 非法")
	}

	rows, err := p.repos.Preference.DeleteStar(userId, uuid)
	if err != nil {
		zap.L().Error("delete star error", zap.Error(err))
		return err
	}
	if rows == 0 {
		return errorx.Newf(errorx.CodeNotFound, "未收藏消息 %s", messageId)
	}
	return nil
}

// GetStarredMessages 列出用户在某群的收藏消息
// 收藏后被删除的消息不再出现
func (p *preferenceService) GetStarredMessages(userId, role, groupUuid string) ([]respond.MessageRespond, error) {
	if err := p.access.RequireGroupAccess(userId, role, groupUuid); err != nil {
		return nil, err
	}

	messages, err := p.repos.Preference.FindStarredMessages(userId, groupUuid)
	if err != nil {
		zap.L().Error("find starred messages error", zap.Error(err))
		return nil, err
	}

	rsp := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		msg := &messages[i]
		item := respond.MessageRespond{
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
			item.ForwardedFrom = strconv.FormatInt(msg.ForwardedFromUuid, 10)
		}
		if msg.EditedAt.Valid {
			item.EditedAt = msg.EditedAt.Time.Format(constants.TIME_FORMAT)
		}
		rsp = append(rsp, item)
	}
	return rsp, nil
}
