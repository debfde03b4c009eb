// Package access 实现访问控制业务逻辑
// 所有业务操作的第一道关卡：群组/项目级别的访问判定
package access

import (
	"go.uber.org/zap"

	"project_chat_server/internal/dao/mysql/repository"
	"project_chat_server/pkg/constants"
	"project_chat_server/pkg/errorx"
)

// accessService 访问控制实现
// 纯读查询，无副作用
type accessService struct {
	repos *repository.Repositories
}

// NewAccessService 构造函数，注入 Repository 依赖
func NewAccessService(repos *repository.Repositories) *accessService {
	return &accessService{repos: repos}
}

// CanAccessProject 判断用户能否访问项目
// 规则按序短路评估：
//  1. 管理员角色全局放行
//  2. 项目成员行 OR 项目创建者（合并为一次查询）
//
// 创建者回退服务于早于成员表的存量项目，是有意保留的冗余规则，
// 不要将其合并进成员判定
func (a *accessService) CanAccessProject(userId, role, projectUuid string) (bool, error) {
	if role == constants.ROLE_ADMIN {
		return true, nil
	}

	ok, err := a.repos.Project.HasAccess(projectUuid, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return false, nil
		}
		zap.L().Error("project access check error", zap.Error(err))
		return false, err
	}
	return ok, nil
}

// CanAccessGroup 判断用户能否访问群组
// 管理员兜底，否则要求存活的成员记录。
// 群级判定没有创建者回退（与项目级不同），缺行即拒绝
func (a *accessService) CanAccessGroup(userId, role, groupUuid string) (bool, error) {
	if role == constants.ROLE_ADMIN {
		return true, nil
	}

	_, err := a.repos.GroupMember.FindLive(groupUuid, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return false, nil
		}
		zap.L().Error("group access check error", zap.Error(err))
		return false, err
	}
	return true, nil
}

// RequireGroupAccess 查找群组并校验访问权
// 群不存在/已删除返回 NotFound，无权限返回 AccessDenied
// 各业务 Service 的公共前置步骤
func (a *accessService) RequireGroupAccess(userId, role, groupUuid string) error {
	if _, err := a.repos.Group.FindByUuid(groupUuid); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.Newf(errorx.CodeNotFound, "群组 %s 不存在", groupUuid)
		}
		return err
	}

	ok, err := a.CanAccessGroup(userId, role, groupUuid)
	if err != nil {
		return err
	}
	if !ok {
		return errorx.Newf(errorx.CodeAccessDenied, "无权访问群组 %s", groupUuid)
	}
	return nil
}
