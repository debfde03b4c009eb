package group

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"project_chat_server/internal/dto/request"
	"project_chat_server/internal/mocks"
	"project_chat_server/internal/model"
	"project_chat_server/internal/service/access"
	"project_chat_server/pkg/errorx"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// newTestService 组装内存仓储上的群组服务
// 预置项目 P001：创建者 u1，成员 u1/u2/u3
func newTestService() (*groupService, *mocks.MemoryStore) {
	store := mocks.NewMemoryStore()
	store.Now = func() time.Time { return baseTime }

	store.Projects = append(store.Projects, model.Project{Uuid: "P001", Name: "演示项目", CreatorId: "u1"})
	for _, uid := range []string{"u1", "u2", "u3"} {
		store.ProjectMembers = append(store.ProjectMembers, model.ProjectMember{ProjectUuid: "P001", UserUuid: uid})
	}
	store.Users = append(store.Users,
		model.UserInfo{Uuid: "u1", Nickname: "张三"},
		model.UserInfo{Uuid: "u2", Nickname: "李四"},
		model.UserInfo{Uuid: "u3", Nickname: "王五"},
	)

	repos := store.Repositories()
	svc := NewGroupService(repos, access.NewAccessService(repos), nil, nil)
	svc.now = store.Now
	return svc, store
}

func TestCreateGroupSeedsProjectMembers(t *testing.T) {
	svc, store := newTestService()

	rsp, err := svc.CreateGroup("u2", "member", request.CreateGroupRequest{
		ProjectId: "P001",
		Name:      "后端小组",
	})
	require.NoError(t, err)
	require.Equal(t, "后端小组", rsp.Name)
	require.Equal(t, "u2", rsp.CreatorId)
	// 项目成员 u1/u2/u3 全部入群，创建者与项目创建者去重
	require.Equal(t, 3, rsp.MemberCnt)
	require.Len(t, store.GroupMembers, 3)
}

func TestCreateGroupNameReuseAfterSoftDelete(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.CreateGroup("u1", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "QA 小组"})
	require.NoError(t, err)

	// 活跃同名被拒
	_, err = svc.CreateGroup("u2", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "QA 小组"})
	require.Error(t, err)
	require.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	// 大小写不同视为不同名称
	_, err = svc.CreateGroup("u2", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "qa 小组"})
	require.NoError(t, err)

	// 软删除后名称可复用
	require.NoError(t, svc.DeleteGroup("u1", "member", first.Uuid))
	_, err = svc.CreateGroup("u2", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "QA 小组"})
	require.NoError(t, err)
}

func TestCreateGroupValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateGroup("u1", "member", request.CreateGroupRequest{ProjectId: "P404", Name: "无主群"})
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	_, err = svc.CreateGroup("u9", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "外人建群"})
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))

	_, err = svc.CreateGroup("u1", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "   "})
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	// 管理员无须项目成员身份
	_, err = svc.CreateGroup("admin1", "admin", request.CreateGroupRequest{ProjectId: "P001", Name: "管理群"})
	require.NoError(t, err)
}

func TestUpdateGroupPartialAndRenameConflict(t *testing.T) {
	svc, _ := newTestService()

	a, err := svc.CreateGroup("u1", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "群A"})
	require.NoError(t, err)
	b, err := svc.CreateGroup("u1", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "群B"})
	require.NoError(t, err)

	// 改成别人的名字冲突
	nameA := "群A"
	_, err = svc.UpdateGroup("u1", "member", b.Uuid, request.UpdateGroupRequest{Name: &nameA})
	require.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	// 改回自己的名字不算冲突（排除自身）
	nameB := "群B"
	desc := "仅更新描述"
	rsp, err := svc.UpdateGroup("u1", "member", b.Uuid, request.UpdateGroupRequest{Name: &nameB, Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "群B", rsp.Name)
	require.Equal(t, "仅更新描述", rsp.Description)

	// 未提供的字段保持不变
	rsp, err = svc.UpdateGroup("u1", "member", a.Uuid, request.UpdateGroupRequest{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "群A", rsp.Name)
}

func TestAddMembersPartialSuccess(t *testing.T) {
	svc, store := newTestService()

	g, err := svc.CreateGroup("u2", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "发布群"})
	require.NoError(t, err)

	// u4 建群之后才加入项目，尚不在群里
	store.ProjectMembers = append(store.ProjectMembers, model.ProjectMember{ProjectUuid: "P001", UserUuid: "u4"})

	rsp, err := svc.AddMembers("u2", "member", g.Uuid, []string{"u4", "u3", "u9"})
	require.NoError(t, err)
	require.Equal(t, 1, rsp.Count)
	require.Len(t, rsp.Errors, 2)

	reasons := make(map[string]string)
	for _, e := range rsp.Errors {
		reasons[e.UserId] = e.Reason
	}
	require.Equal(t, "已是群成员", reasons["u3"])
	require.Equal(t, "无项目访问权限", reasons["u9"])
}

func TestRemoveMembersProtectsCreator(t *testing.T) {
	svc, _ := newTestService()

	g, err := svc.CreateGroup("u2", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "临时群"})
	require.NoError(t, err)

	rsp, err := svc.RemoveMembers("u2", "member", g.Uuid, []string{"u2", "u3", "u9"})
	require.NoError(t, err)
	require.Equal(t, 1, rsp.Count)
	require.Len(t, rsp.Errors, 2)

	reasons := make(map[string]string)
	for _, e := range rsp.Errors {
		reasons[e.UserId] = e.Reason
	}
	require.Equal(t, "群创建者不能被移除", reasons["u2"])
	require.Equal(t, "不是群成员", reasons["u9"])

	// u3 被移除后对群不可见
	_, err = svc.ListMembers("u3", "member", g.Uuid)
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))
}

func TestListGroupsAndMembers(t *testing.T) {
	svc, _ := newTestService()

	g, err := svc.CreateGroup("u1", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "日常群"})
	require.NoError(t, err)

	_, err = svc.ListGroups("u9", "member", "P001")
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))

	groups, err := svc.ListGroups("u3", "member", "P001")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, 3, groups[0].MemberCnt)

	members, err := svc.ListMembers("u3", "member", g.Uuid)
	require.NoError(t, err)
	require.Len(t, members, 3)
	nicknames := make(map[string]string)
	for _, m := range members {
		nicknames[m.UserId] = m.Nickname
	}
	require.Equal(t, "张三", nicknames["u1"])
	require.Equal(t, "王五", nicknames["u3"])
}

func TestDeleteGroupRequiresCreatorOrAdmin(t *testing.T) {
	svc, _ := newTestService()

	g, err := svc.CreateGroup("u2", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "评审群"})
	require.NoError(t, err)

	// 普通成员不能解散别人建的群
	err = svc.DeleteGroup("u3", "member", g.Uuid)
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))

	groups, err := svc.ListGroups("u3", "member", "P001")
	require.NoError(t, err)
	require.Len(t, groups, 1)

	// 管理员无须创建者身份
	require.NoError(t, svc.DeleteGroup("admin1", "admin", g.Uuid))
}

func TestDeleteGroupHidesFromList(t *testing.T) {
	svc, _ := newTestService()

	g, err := svc.CreateGroup("u1", "member", request.CreateGroupRequest{ProjectId: "P001", Name: "短命群"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGroup("u1", "member", g.Uuid))

	groups, err := svc.ListGroups("u1", "member", "P001")
	require.NoError(t, err)
	require.Empty(t, groups)

	// 已删群的操作一律 NotFound
	err = svc.DeleteGroup("u1", "member", g.Uuid)
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}
