// Package repository 提供数据访问层的具体实现
// 本文件实现 ProjectRepository 接口，处理项目相关的只读查询
package repository

import (
	"project_chat_server/internal/model"

	"gorm.io/gorm"
)

// projectRepository ProjectRepository 接口的实现
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建 ProjectRepository 实例
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// FindByUuid 根据 UUID 查找项目
func (r *projectRepository) FindByUuid(uuid string) (*model.Project, error) {
	var project model.Project
	if err := r.db.First(&project, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询项目 uuid=%s", uuid)
	}
	return &project, nil
}

// HasAccess 判断用户是否可访问项目
// 一条查询同时覆盖成员行和 creator_id 兜底：
// 早期项目没有显式成员行，只能靠 creator_id 判定，
// 这个冗余是为迁移期数据保留的，不要简化掉
func (r *projectRepository) HasAccess(projectUuid, userUuid string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Project{}).
		Where("uuid = ? AND deleted_at IS NULL", projectUuid).
		Where("creator_id = ? OR EXISTS (SELECT 1 FROM project_member WHERE project_member.project_uuid = project.uuid AND project_member.user_uuid = ? AND project_member.deleted_at IS NULL)",
			userUuid, userUuid).
		Count(&count).Error
	if err != nil {
		return false, wrapDBErrorf(err, "查询项目访问权限 project_uuid=%s user_uuid=%s", projectUuid, userUuid)
	}
	return count > 0, nil
}

// FindMemberIds 查找项目的所有成员 UUID（含创建者，去重）
// 用于建群时播种群成员
func (r *projectRepository) FindMemberIds(projectUuid string) ([]string, error) {
	var memberIds []string
	if err := r.db.Model(&model.ProjectMember{}).
		Distinct("user_uuid").
		Where("project_uuid = ?", projectUuid).
		Pluck("user_uuid", &memberIds).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询项目成员 project_uuid=%s", projectUuid)
	}
	return memberIds, nil
}
