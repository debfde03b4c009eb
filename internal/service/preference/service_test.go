package preference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"project_chat_server/internal/mocks"
	"project_chat_server/internal/model"
	"project_chat_server/internal/service/access"
	"project_chat_server/pkg/constants"
	"project_chat_server/pkg/errorx"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// newTestService 预置群 G001（成员 u1/u2）、用户 u1/u2/u3 和消息 9001
func newTestService() (*preferenceService, *mocks.MemoryStore) {
	store := mocks.NewMemoryStore()
	store.Now = func() time.Time { return baseTime }

	store.Users = append(store.Users,
		model.UserInfo{Uuid: "u1", Nickname: "张三"},
		model.UserInfo{Uuid: "u2", Nickname: "李四"},
		model.UserInfo{Uuid: "u3", Nickname: "王五"},
	)
	store.Groups = append(store.Groups, model.GroupInfo{Uuid: "G001", Name: "日常群", ProjectUuid: "P001", CreatorId: "u1"})
	for _, uid := range []string{"u1", "u2"} {
		store.GroupMembers = append(store.GroupMembers, model.GroupMember{GroupUuid: "G001", UserUuid: uid})
	}
	store.Messages = append(store.Messages, model.Message{
		Uuid:      9001,
		GroupUuid: "G001",
		SendId:    "u1",
		Type:      model.MessageTypeText,
		Content:   "收藏我",
		Model:     gorm.Model{CreatedAt: baseTime},
	})

	repos := store.Repositories()
	svc := NewPreferenceService(repos, access.NewAccessService(repos))
	svc.now = store.Now
	return svc, store
}

func TestMuteGroupRefreshesDeadline(t *testing.T) {
	svc, store := newTestService()

	rsp, err := svc.MuteGroup("u1", "member", "G001", 3600)
	require.NoError(t, err)
	require.Equal(t, baseTime.Add(time.Hour).Format(constants.TIME_FORMAT), rsp.MutedUntil)

	// 重复设置刷新截止时间而不是报错
	rsp, err = svc.MuteGroup("u1", "member", "G001", 7200)
	require.NoError(t, err)
	require.Equal(t, baseTime.Add(2*time.Hour).Format(constants.TIME_FORMAT), rsp.MutedUntil)
	require.Len(t, store.Mutes, 1)

	muted, err := store.Repositories().Preference.FindMutedUserIds("G001", baseTime)
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, muted)

	// 到期后不再出现在免打扰名单里
	muted, err = store.Repositories().Preference.FindMutedUserIds("G001", baseTime.Add(3*time.Hour))
	require.NoError(t, err)
	require.Empty(t, muted)
}

func TestMuteGroupValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.MuteGroup("u1", "member", "G001", 0)
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = svc.MuteGroup("u9", "member", "G001", 3600)
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))
}

func TestUnmuteGroupIdempotent(t *testing.T) {
	svc, store := newTestService()

	_, err := svc.MuteGroup("u1", "member", "G001", 3600)
	require.NoError(t, err)

	require.NoError(t, svc.UnmuteGroup("u1", "member", "G001"))
	require.Empty(t, store.Mutes)
	// 未设置时取消也不是错误
	require.NoError(t, svc.UnmuteGroup("u1", "member", "G001"))
}

func TestArchiveLifecycle(t *testing.T) {
	svc, _ := newTestService()

	require.NoError(t, svc.ArchiveGroup("u1", "member", "G001"))

	err := svc.ArchiveGroup("u1", "member", "G001")
	require.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	require.NoError(t, svc.UnarchiveGroup("u1", "member", "G001"))

	err = svc.UnarchiveGroup("u1", "member", "G001")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestBlockUser(t *testing.T) {
	svc, _ := newTestService()

	err := svc.BlockUser("u1", "u1")
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	err = svc.BlockUser("u1", "u404")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	require.NoError(t, svc.BlockUser("u1", "u2"))

	err = svc.BlockUser("u1", "u2")
	require.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	// 单向关系：u2 仍可拉黑 u1
	require.NoError(t, svc.BlockUser("u2", "u1"))

	require.NoError(t, svc.UnblockUser("u1", "u2"))
	err = svc.UnblockUser("u1", "u2")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestStarLifecycle(t *testing.T) {
	svc, store := newTestService()

	require.NoError(t, svc.StarMessage("u2", "member", "9001"))

	err := svc.StarMessage("u2", "member", "9001")
	require.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	starred, err := svc.GetStarredMessages("u2", "member", "G001")
	require.NoError(t, err)
	require.Len(t, starred, 1)
	require.Equal(t, "收藏我", starred[0].Content)

	// 消息被软删除后从收藏列表消失
	require.NoError(t, store.Repositories().Message.SoftDeleteByUuid(9001))
	starred, err = svc.GetStarredMessages("u2", "member", "G001")
	require.NoError(t, err)
	require.Empty(t, starred)

	require.NoError(t, svc.UnstarMessage("u2", "9001"))
	err = svc.UnstarMessage("u2", "9001")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestStarRequiresGroupAccess(t *testing.T) {
	svc, _ := newTestService()

	// u3 不在消息所属群里
	err := svc.StarMessage("u3", "member", "9001")
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))

	err = svc.StarMessage("u2", "member", "8888")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}
