package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"project_chat_server/internal/mocks"
	"project_chat_server/internal/model"
	"project_chat_server/internal/service/access"
	"project_chat_server/pkg/errorx"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// newTestService 预置群 G001（成员 u1/u2/u3/u4）和 u1 发的消息 9001
func newTestService() (*receiptService, *mocks.MemoryStore) {
	store := mocks.NewMemoryStore()
	store.Now = func() time.Time { return baseTime }

	store.Groups = append(store.Groups, model.GroupInfo{Uuid: "G001", Name: "日常群", ProjectUuid: "P001", CreatorId: "u1"})
	for _, uid := range []string{"u1", "u2", "u3", "u4"} {
		store.GroupMembers = append(store.GroupMembers, model.GroupMember{GroupUuid: "G001", UserUuid: uid})
	}
	store.Messages = append(store.Messages, model.Message{
		Uuid:      9001,
		GroupUuid: "G001",
		SendId:    "u1",
		Type:      model.MessageTypeText,
		Content:   "大家好",
	})

	repos := store.Repositories()
	svc := NewReceiptService(repos, access.NewAccessService(repos))
	svc.now = store.Now
	return svc, store
}

func TestMarkReadIdempotent(t *testing.T) {
	svc, store := newTestService()

	require.NoError(t, svc.MarkRead("u2", "9001"))
	require.NoError(t, svc.MarkRead("u2", "9001"))
	require.Len(t, store.Receipts, 1)
	require.Equal(t, "u2", store.Receipts[0].UserUuid)
	require.Equal(t, baseTime, store.Receipts[0].ReadAt)

	// 推进了成员的 last_read_at
	member, err := store.Repositories().GroupMember.FindLive("G001", "u2")
	require.NoError(t, err)
	require.True(t, member.LastReadAt.Valid)
}

func TestMarkReadSenderNoop(t *testing.T) {
	svc, store := newTestService()

	require.NoError(t, svc.MarkRead("u1", "9001"))
	require.Empty(t, store.Receipts)
}

func TestMarkReadValidation(t *testing.T) {
	svc, _ := newTestService()

	err := svc.MarkRead("u2", "not-a-number")
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	err = svc.MarkRead("u2", "8888")
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestGetMessageInfoPartition(t *testing.T) {
	svc, store := newTestService()

	require.NoError(t, svc.MarkRead("u2", "9001"))

	rsp, err := svc.GetMessageInfo("u2", "member", "9001")
	require.NoError(t, err)

	// 发送者不出现在任何分组；每个非发送者成员恰好落入一组
	require.Len(t, rsp.Read, 1)
	require.Equal(t, "u2", rsp.Read[0].UserId)
	require.NotEmpty(t, rsp.Read[0].ReadAt)
	require.ElementsMatch(t, []string{"u3", "u4"}, rsp.Delivered)
	require.Empty(t, rsp.Pending)

	// 退群成员从所有分组消失，即使曾留下回执
	require.NoError(t, svc.MarkRead("u4", "9001"))
	require.NoError(t, store.Repositories().GroupMember.SoftDelete("G001", "u4"))

	rsp, err = svc.GetMessageInfo("u2", "member", "9001")
	require.NoError(t, err)
	require.Len(t, rsp.Read, 1)
	require.Equal(t, []string{"u3"}, rsp.Delivered)
}

func TestGetMessageInfoRequiresGroupAccess(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetMessageInfo("u9", "member", "9001")
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))

	// 管理员可以查看
	rsp, err := svc.GetMessageInfo("admin1", "admin", "9001")
	require.NoError(t, err)
	require.Len(t, rsp.Delivered, 3)
}
