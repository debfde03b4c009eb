// Package group 实现群组业务逻辑
// 群组生命周期（创建/更新/软删除）与成员集合（批量添加/移除）
package group

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"project_chat_server/internal/dao/mysql/repository"
	myredis "project_chat_server/internal/dao/redis"
	"project_chat_server/internal/dto/request"
	"project_chat_server/internal/dto/respond"
	"project_chat_server/internal/infrastructure/mq"
	"project_chat_server/internal/model"
	"project_chat_server/pkg/constants"
	"project_chat_server/pkg/errorx"
	"project_chat_server/pkg/util/random"
)

// AccessChecker 访问判定依赖（由 access 包实现）
type AccessChecker interface {
	CanAccessProject(userId, role, projectUuid string) (bool, error)
	CanAccessGroup(userId, role, groupUuid string) (bool, error)
	RequireGroupAccess(userId, role, groupUuid string) error
}

// groupService 群组业务逻辑实现
// 通过构造函数注入 Repository、访问判定、缓存与事件代理
type groupService struct {
	repos  *repository.Repositories
	access AccessChecker
	cache  myredis.AsyncCacheService
	broker mq.EventBroker
	now    func() time.Time
}

// NewGroupService 构造函数，注入所有依赖
func NewGroupService(repos *repository.Repositories, access AccessChecker,
	cache myredis.AsyncCacheService, broker mq.EventBroker) *groupService {
	return &groupService{
		repos:  repos,
		access: access,
		cache:  cache,
		broker: broker,
		now:    time.Now,
	}
}

// CreateGroup 创建群组
// 同一事务内完成四步：建群、从项目成员播种群成员、
// 补入项目创建者、补入操作者本人；后三步均为幂等插入，
// 任何一步失败整体回滚
func (g *groupService) CreateGroup(userId, role string, req request.CreateGroupRequest) (*respond.GroupSummaryRespond, error) {
	project, err := g.repos.Project.FindByUuid(req.ProjectId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "项目 %s 不存在", req.ProjectId)
		}
		return nil, err
	}

	ok, err := g.access.CanAccessProject(userId, role, req.ProjectId)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorx.Newf(errorx.CodeAccessDenied, "无权访问项目 %s", req.ProjectId)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "群组名称不能为空")
	}

	exists, err := g.repos.Group.ExistsActiveName(req.ProjectId, name, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errorx.Newf(errorx.CodeConflict, "项目内已存在同名群组 %s", name)
	}

	group := model.GroupInfo{
		Uuid:        fmt.Sprintf("G%s", random.GetNowAndLenRandomString(11)),
		Name:        name,
		Description: req.Description,
		ProjectUuid: req.ProjectId,
		CreatorId:   userId,
		Avatar:      req.Avatar,
	}

	var memberCnt int
	err = g.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Group.Create(&group); err != nil {
			zap.L().Error("create group error", zap.Error(err))
			return err
		}

		// 播种成员：项目现有成员 + 项目创建者 + 操作者本人
		seedIds, err := txRepos.Project.FindMemberIds(req.ProjectId)
		if err != nil {
			return err
		}
		seedIds = append(seedIds, project.CreatorId, userId)

		seen := make(map[string]struct{}, len(seedIds))
		for _, uid := range seedIds {
			if uid == "" {
				continue
			}
			if _, dup := seen[uid]; dup {
				continue
			}
			seen[uid] = struct{}{}

			inserted, err := txRepos.GroupMember.CreateIfAbsent(&model.GroupMember{
				GroupUuid: group.Uuid,
				UserUuid:  uid,
			})
			if err != nil {
				zap.L().Error("seed group member error", zap.Error(err), zap.String("user_uuid", uid))
				return err
			}
			if inserted {
				memberCnt++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.invalidateGroupCaches(req.ProjectId, group.Uuid)

	return &respond.GroupSummaryRespond{
		Uuid:        group.Uuid,
		Name:        group.Name,
		Description: group.Description,
		Avatar:      group.Avatar,
		CreatorId:   group.CreatorId,
		MemberCnt:   memberCnt,
		CreatedAt:   group.CreatedAt.Format(constants.TIME_FORMAT),
	}, nil
}

// UpdateGroup 更新群组信息
// 改名时重新校验项目内唯一性，排除自身
func (g *groupService) UpdateGroup(userId, role, groupUuid string, req request.UpdateGroupRequest) (*respond.GroupSummaryRespond, error) {
	group, err := g.repos.Group.FindByUuid(groupUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "群组 %s 不存在", groupUuid)
		}
		return nil, err
	}

	ok, err := g.access.CanAccessGroup(userId, role, groupUuid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorx.Newf(errorx.CodeAccessDenied, "无权访问群组 %s", groupUuid)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errorx.New(errorx.CodeInvalidParam, "群组名称不能为空")
		}
		exists, err := g.repos.Group.ExistsActiveName(group.ProjectUuid, name, groupUuid)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errorx.Newf(errorx.CodeConflict, "项目内已存在同名群组 %s", name)
		}
		group.Name = name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.Avatar != nil {
		group.Avatar = *req.Avatar
	}

	if err := g.repos.Group.Update(group); err != nil {
		zap.L().Error("update group error", zap.Error(err))
		return nil, err
	}

	g.invalidateGroupCaches(group.ProjectUuid, groupUuid)

	memberIds, err := g.repos.GroupMember.FindMemberIds(groupUuid)
	if err != nil {
		return nil, err
	}
	return &respond.GroupSummaryRespond{
		Uuid:        group.Uuid,
		Name:        group.Name,
		Description: group.Description,
		Avatar:      group.Avatar,
		CreatorId:   group.CreatorId,
		MemberCnt:   len(memberIds),
		CreatedAt:   group.CreatedAt.Format(constants.TIME_FORMAT),
	}, nil
}

// DeleteGroup 软删除群组
// 仅群创建者或管理员可解散；不级联消息与成员，行保留
func (g *groupService) DeleteGroup(userId, role, groupUuid string) error {
	group, err := g.repos.Group.FindByUuid(groupUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.Newf(errorx.CodeNotFound, "群组 %s 不存在", groupUuid)
		}
		return err
	}

	if role != constants.ROLE_ADMIN && group.CreatorId != userId {
		return errorx.Newf(errorx.CodeAccessDenied, "只有群创建者或管理员可以解散群组 %s", groupUuid)
	}

	if err := g.repos.Group.SoftDeleteByUuid(groupUuid); err != nil {
		zap.L().Error("delete group error", zap.Error(err))
		return err
	}

	g.invalidateGroupCaches(group.ProjectUuid, groupUuid)
	return nil
}

// ListGroups 列出项目内活跃群组摘要
// 展示型读路径，走缓存旁路：命中直接返回，未命中查库后异步回填
func (g *groupService) ListGroups(userId, role, projectUuid string) ([]respond.GroupSummaryRespond, error) {
	ok, err := g.access.CanAccessProject(userId, role, projectUuid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorx.Newf(errorx.CodeAccessDenied, "无权访问项目 %s", projectUuid)
	}

	cacheKey := "group_list_" + projectUuid
	if g.cache != nil {
		cached, err := g.cache.Get(context.Background(), cacheKey)
		if err == nil && cached != "" {
			var rsp []respond.GroupSummaryRespond
			if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
				return rsp, nil
			}
			zap.L().Error("unmarshal group list cache error", zap.Error(err))
		} else if err != nil {
			zap.L().Error("redis get error", zap.Error(err))
		}
	}

	summaries, err := g.repos.Group.GetGroupSummaries(projectUuid)
	if err != nil {
		zap.L().Error("find group summaries error", zap.Error(err))
		return nil, err
	}

	// len=0 初始化，保证序列化为 [] 而不是 null
	rsp := make([]respond.GroupSummaryRespond, 0, len(summaries))
	for _, s := range summaries {
		item := respond.GroupSummaryRespond{
			Uuid:        s.Uuid,
			Name:        s.Name,
			Description: s.Description,
			Avatar:      s.Avatar,
			CreatorId:   s.CreatorId,
			MemberCnt:   int(s.MemberCnt),
			CreatedAt:   s.CreatedAt.Format(constants.TIME_FORMAT),
		}
		if s.LastMessageAt.Valid {
			item.LastMessageAt = s.LastMessageAt.Time.Format(constants.TIME_FORMAT)
		}
		rsp = append(rsp, item)
	}

	if g.cache != nil {
		if data, err := json.Marshal(rsp); err == nil {
			g.cache.SubmitTask(func() {
				if err := g.cache.Set(context.Background(), cacheKey, string(data), constants.CACHE_TIMEOUT); err != nil {
					zap.L().Error("set group list cache error", zap.Error(err))
				}
			})
		}
	}
	return rsp, nil
}

// ListMembers 列出群成员，按加入时间升序
func (g *groupService) ListMembers(userId, role, groupUuid string) ([]respond.GetGroupMemberRespond, error) {
	if err := g.access.RequireGroupAccess(userId, role, groupUuid); err != nil {
		return nil, err
	}

	cacheKey := "group_members_" + groupUuid
	if g.cache != nil {
		cached, err := g.cache.Get(context.Background(), cacheKey)
		if err == nil && cached != "" {
			var rsp []respond.GetGroupMemberRespond
			if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
				return rsp, nil
			}
			zap.L().Error("unmarshal group member cache error", zap.Error(err))
		} else if err != nil {
			zap.L().Error("redis get error", zap.Error(err))
		}
	}

	members, err := g.repos.GroupMember.FindMembersWithUserInfo(groupUuid)
	if err != nil {
		zap.L().Error("find group members error", zap.Error(err))
		return nil, err
	}

	rsp := make([]respond.GetGroupMemberRespond, 0, len(members))
	for _, m := range members {
		rsp = append(rsp, respond.GetGroupMemberRespond{
			UserId:   m.UserId,
			Nickname: m.Nickname,
			Avatar:   m.Avatar,
			JoinedAt: m.JoinedAt.Format(constants.TIME_FORMAT),
		})
	}

	if g.cache != nil {
		if data, err := json.Marshal(rsp); err == nil {
			g.cache.SubmitTask(func() {
				if err := g.cache.Set(context.Background(), cacheKey, string(data), constants.CACHE_TIMEOUT); err != nil {
					zap.L().Error("set group member cache error", zap.Error(err))
				}
			})
		}
	}
	return rsp, nil
}

// AddMembers 批量添加群成员
// 整批一个事务，逐项独立判定（已是成员 / 无项目权限 / 插入失败），
// 部分成功是设计行为：单个坏项不拖垮整批
func (g *groupService) AddMembers(userId, role, groupUuid string, targetIds []string) (*respond.MemberChangeRespond, error) {
	group, err := g.repos.Group.FindByUuid(groupUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "群组 %s 不存在", groupUuid)
		}
		return nil, err
	}

	ok, err := g.access.CanAccessGroup(userId, role, groupUuid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorx.Newf(errorx.CodeAccessDenied, "无权访问群组 %s", groupUuid)
	}

	if len(targetIds) == 0 {
		return nil, errorx.New(errorx.CodeInvalidParam, "成员列表不能为空")
	}

	rsp := &respond.MemberChangeRespond{Errors: make([]respond.MemberOutcomeError, 0)}
	var addedIds []string

	err = g.repos.Transaction(func(txRepos *repository.Repositories) error {
		for _, target := range targetIds {
			if _, err := txRepos.GroupMember.FindLive(groupUuid, target); err == nil {
				rsp.Errors = append(rsp.Errors, respond.MemberOutcomeError{UserId: target, Reason: "已是群成员"})
				continue
			} else if !errorx.IsNotFound(err) {
				rsp.Errors = append(rsp.Errors, respond.MemberOutcomeError{UserId: target, Reason: "成员查询失败"})
				zap.L().Error("member lookup error", zap.Error(err), zap.String("user_uuid", target))
				continue
			}

			hasProject, err := txRepos.Project.HasAccess(group.ProjectUuid, target)
			if err != nil {
				rsp.Errors = append(rsp.Errors, respond.MemberOutcomeError{UserId: target, Reason: "项目权限查询失败"})
				zap.L().Error("project access lookup error", zap.Error(err), zap.String("user_uuid", target))
				continue
			}
			if !hasProject {
				rsp.Errors = append(rsp.Errors, respond.MemberOutcomeError{UserId: target, Reason: "无项目访问权限"})
				continue
			}

			inserted, err := txRepos.GroupMember.CreateIfAbsent(&model.GroupMember{
				GroupUuid: groupUuid,
				UserUuid:  target,
			})
			if err != nil {
				rsp.Errors = append(rsp.Errors, respond.MemberOutcomeError{UserId: target, Reason: "添加失败"})
				zap.L().Error("insert member error", zap.Error(err), zap.String("user_uuid", target))
				continue
			}
			if inserted {
				rsp.Count++
				addedIds = append(addedIds, target)
			} else {
				rsp.Errors = append(rsp.Errors, respond.MemberOutcomeError{UserId: target, Reason: "已是群成员"})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.invalidateGroupCaches(group.ProjectUuid, groupUuid)
	g.publishMemberAdded(groupUuid, userId, addedIds)

	return rsp, nil
}

// RemoveMembers 批量移除群成员
// 与 AddMembers 相同的部分成功契约；群创建者永远不能被移除，
// 按项拒绝并说明原因，而不是整批失败
func (g *groupService) RemoveMembers(userId, role, groupUuid string, targetIds []string) (*respond.MemberChangeRespond, error) {
	group, err := g.repos.Group.FindByUuid(groupUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.Newf(errorx.CodeNotFound, "群组 %s 不存在", groupUuid)
		}
		return nil, err
	}

	ok, err := g.access.CanAccessGroup(userId, role, groupUuid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorx.Newf(errorx.CodeAccessDenied, "无权访问群组 %s", groupUuid)
	}

	if len(targetIds) == 0 {
		return nil, errorx.New(errorx.CodeInvalidParam, "成员列表不能为空")
	}

	rsp := &respond.MemberChangeRespond{Errors: make([]respond.MemberOutcomeError, 0)}

	err = g.repos.Transaction(func(txRepos *repository.Repositories) error {
		for _, target := range targetIds {
			if target == group.CreatorId {
				rsp.Errors = append(rsp.Errors, respond.MemberOutcomeError{UserId: target, Reason: "群创建者不能被移除"})
				continue
			}

			if _, err := txRepos.GroupMember.FindLive(groupUuid, target); err != nil {
				if errorx.IsNotFound(err) {
					rsp.Errors = append(rsp.Errors, respond.MemberOutcomeError{UserId: target, Reason: "不是群成员"})
				} else {
					rsp.Errors = append(rsp.Errors, respond.MemberOutcomeError{UserId: target, Reason: "成员查询失败"})
					zap.L().Error("member lookup error", zap.Error(err), zap.String("user_uuid", target))
				}
				continue
			}

			if err := txRepos.GroupMember.SoftDelete(groupUuid, target); err != nil {
				rsp.Errors = append(rsp.Errors, respond.MemberOutcomeError{UserId: target, Reason: "移除失败"})
				zap.L().Error("remove member error", zap.Error(err), zap.String("user_uuid", target))
				continue
			}
			rsp.Count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.invalidateGroupCaches(group.ProjectUuid, groupUuid)
	return rsp, nil
}

// invalidateGroupCaches 异步失效群组相关缓存
func (g *groupService) invalidateGroupCaches(projectUuid, groupUuid string) {
	if g.cache == nil {
		return
	}
	g.cache.SubmitTask(func() {
		patterns := []string{"group_list_" + projectUuid, "group_members_" + groupUuid}
		if err := g.cache.DeleteByPatterns(context.Background(), patterns); err != nil {
			zap.L().Error("invalidate group cache error", zap.Error(err))
		}
	})
}

// publishMemberAdded 发布成员加入事件
// 免打扰名单一并带上，通知服务据此跳过推送
func (g *groupService) publishMemberAdded(groupUuid, actorId string, addedIds []string) {
	if g.broker == nil || len(addedIds) == 0 {
		return
	}
	muted, err := g.repos.Preference.FindMutedUserIds(groupUuid, g.now())
	if err != nil {
		zap.L().Error("find muted user ids error", zap.Error(err))
		muted = nil
	}
	event := &mq.ChatEvent{
		Type:       mq.EventMemberAdded,
		GroupId:    groupUuid,
		ActorId:    actorId,
		Recipients: addedIds,
		Muted:      muted,
		OccurredAt: g.now(),
	}
	if err := g.broker.Publish(context.Background(), event); err != nil {
		zap.L().Error("publish member added event error", zap.Error(err))
	}
}
