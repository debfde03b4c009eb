package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"project_chat_server/internal/mocks"
	"project_chat_server/internal/model"
	"project_chat_server/pkg/errorx"
)

// newTestService 预置项目 P001（创建者 u1，成员行仅 u2）
// 和群 G001（创建者 u1，成员行仅 u2）
func newTestService() (*accessService, *mocks.MemoryStore) {
	store := mocks.NewMemoryStore()

	store.Projects = append(store.Projects, model.Project{Uuid: "P001", Name: "演示项目", CreatorId: "u1"})
	store.ProjectMembers = append(store.ProjectMembers, model.ProjectMember{ProjectUuid: "P001", UserUuid: "u2"})
	store.Groups = append(store.Groups, model.GroupInfo{Uuid: "G001", Name: "日常群", ProjectUuid: "P001", CreatorId: "u1"})
	store.GroupMembers = append(store.GroupMembers, model.GroupMember{GroupUuid: "G001", UserUuid: "u2"})

	return NewAccessService(store.Repositories()), store
}

func TestCanAccessProject(t *testing.T) {
	svc, _ := newTestService()

	// 管理员全局放行，甚至对不存在的项目
	ok, err := svc.CanAccessProject("anyone", "admin", "P404")
	require.NoError(t, err)
	require.True(t, ok)

	// 成员行
	ok, err = svc.CanAccessProject("u2", "member", "P001")
	require.NoError(t, err)
	require.True(t, ok)

	// 创建者回退：没有成员行的存量项目创建者仍可访问
	ok, err = svc.CanAccessProject("u1", "member", "P001")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.CanAccessProject("u9", "member", "P001")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCanAccessGroupNoCreatorFallback(t *testing.T) {
	svc, _ := newTestService()

	// 群级判定只认存活的成员行，创建者没有回退待遇
	ok, err := svc.CanAccessGroup("u1", "member", "G001")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.CanAccessGroup("u2", "member", "G001")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.CanAccessGroup("u1", "admin", "G001")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCanAccessGroupAfterRemoval(t *testing.T) {
	svc, store := newTestService()

	require.NoError(t, store.Repositories().GroupMember.SoftDelete("G001", "u2"))

	ok, err := svc.CanAccessGroup("u2", "member", "G001")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRequireGroupAccess(t *testing.T) {
	svc, store := newTestService()

	err := svc.RequireGroupAccess("u2", "member", "G404")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	err = svc.RequireGroupAccess("u9", "member", "G001")
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))

	require.NoError(t, svc.RequireGroupAccess("u2", "member", "G001"))

	// 软删除的群对所有人都是 NotFound，管理员也一样
	require.NoError(t, store.Repositories().Group.SoftDeleteByUuid("G001"))
	err = svc.RequireGroupAccess("u1", "admin", "G001")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}
