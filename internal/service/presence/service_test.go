package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"project_chat_server/internal/mocks"
	"project_chat_server/internal/model"
	"project_chat_server/internal/service/access"
	"project_chat_server/pkg/constants"
	"project_chat_server/pkg/errorx"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	svc   *presenceService
	store *mocks.MemoryStore
	now   time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{now: baseTime}
	store := mocks.NewMemoryStore()
	store.Now = func() time.Time { return env.now }
	env.store = store

	store.Groups = append(store.Groups, model.GroupInfo{Uuid: "G001", Name: "日常群", ProjectUuid: "P001", CreatorId: "u1"})
	for _, uid := range []string{"u1", "u2"} {
		store.GroupMembers = append(store.GroupMembers, model.GroupMember{GroupUuid: "G001", UserUuid: uid})
	}

	repos := store.Repositories()
	env.svc = NewPresenceService(repos, access.NewAccessService(repos))
	env.svc.now = func() time.Time { return env.now }
	return env
}

func TestTypingTTL(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.svc.SetTyping("u1", "member", "G001", true))

	// 29 秒后仍在输入
	env.now = baseTime.Add(constants.TYPING_TTL - time.Second)
	rsp, err := env.svc.ListTyping("u2", "member", "G001")
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, rsp.UserIds)

	// 31 秒后过期，即使行还没被物理清理
	env.now = baseTime.Add(constants.TYPING_TTL + time.Second)
	rsp, err = env.svc.ListTyping("u2", "member", "G001")
	require.NoError(t, err)
	require.Empty(t, rsp.UserIds)
	require.Len(t, env.store.Typing, 1)
}

func TestTypingExcludesRequester(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.svc.SetTyping("u1", "member", "G001", true))
	require.NoError(t, env.svc.SetTyping("u2", "member", "G001", true))

	rsp, err := env.svc.ListTyping("u1", "member", "G001")
	require.NoError(t, err)
	require.Equal(t, []string{"u2"}, rsp.UserIds)
}

func TestStopTypingRemovesRow(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.svc.SetTyping("u1", "member", "G001", true))
	require.NoError(t, env.svc.SetTyping("u1", "member", "G001", false))
	require.Empty(t, env.store.Typing)

	// 重复停止是无操作
	require.NoError(t, env.svc.SetTyping("u1", "member", "G001", false))
}

func TestSweepExpiredTypingKeepsLiveRows(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.svc.SetTyping("u1", "member", "G001", true))

	// u2 稍后才开始输入，回收时 u1 已过期而 u2 仍存活
	env.now = baseTime.Add(constants.TYPING_TTL)
	require.NoError(t, env.svc.SetTyping("u2", "member", "G001", true))

	env.now = baseTime.Add(constants.TYPING_TTL + time.Second)
	removed, err := env.svc.SweepExpiredTyping()
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)
	require.Len(t, env.store.Typing, 1)
	require.Equal(t, "u2", env.store.Typing[0].UserUuid)

	// 无过期行时是无操作
	removed, err = env.svc.SweepExpiredTyping()
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestTypingRequiresMembership(t *testing.T) {
	env := newTestEnv()

	err := env.svc.SetTyping("u9", "member", "G001", true)
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))

	err = env.svc.SetTyping("u1", "member", "G404", true)
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestOnlineStatusDefaultsOffline(t *testing.T) {
	env := newTestEnv()

	// 从未上报过的用户按离线处理，不是错误
	rsp, err := env.svc.GetOnlineStatus("u9")
	require.NoError(t, err)
	require.False(t, rsp.IsOnline)
	require.Empty(t, rsp.LastSeenAt)
}

func TestOnlineStatusRoundTrip(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.svc.SetOnline("u1", true))
	rsp, err := env.svc.GetOnlineStatus("u1")
	require.NoError(t, err)
	require.True(t, rsp.IsOnline)
	require.Equal(t, baseTime.Format(constants.TIME_FORMAT), rsp.LastSeenAt)

	// 下线覆盖，last_seen 跟着推进
	env.now = baseTime.Add(5 * time.Minute)
	require.NoError(t, env.svc.SetOnline("u1", false))
	rsp, err = env.svc.GetOnlineStatus("u1")
	require.NoError(t, err)
	require.False(t, rsp.IsOnline)
	require.Equal(t, env.now.Format(constants.TIME_FORMAT), rsp.LastSeenAt)
}
