package message

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"project_chat_server/internal/dto/request"
	"project_chat_server/internal/mocks"
	"project_chat_server/internal/model"
	"project_chat_server/internal/service/access"
	"project_chat_server/pkg/constants"
	"project_chat_server/pkg/errorx"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// testEnv 可拨动时钟的测试环境
// 预置项目 P001 与群 G001（成员 u1/u2/u3），G002（仅 u1），G003（仅 u2）
type testEnv struct {
	svc   *messageService
	store *mocks.MemoryStore
	now   time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{now: baseTime}
	store := mocks.NewMemoryStore()
	store.Now = func() time.Time { return env.now }
	env.store = store

	store.Projects = append(store.Projects, model.Project{Uuid: "P001", Name: "演示项目", CreatorId: "u1"})
	store.Users = append(store.Users,
		model.UserInfo{Uuid: "u1", Nickname: "张三", Avatar: "a1.png"},
		model.UserInfo{Uuid: "u2", Nickname: "李四"},
	)
	store.Groups = append(store.Groups,
		model.GroupInfo{Uuid: "G001", Name: "日常群", ProjectUuid: "P001", CreatorId: "u1"},
		model.GroupInfo{Uuid: "G002", Name: "只读群", ProjectUuid: "P001", CreatorId: "u1"},
		model.GroupInfo{Uuid: "G003", Name: "他人群", ProjectUuid: "P001", CreatorId: "u2"},
	)
	for _, uid := range []string{"u1", "u2", "u3"} {
		store.GroupMembers = append(store.GroupMembers, model.GroupMember{GroupUuid: "G001", UserUuid: uid})
	}
	store.GroupMembers = append(store.GroupMembers,
		model.GroupMember{GroupUuid: "G002", UserUuid: "u1"},
		model.GroupMember{GroupUuid: "G003", UserUuid: "u2"},
	)

	repos := store.Repositories()
	env.svc = NewMessageService(repos, access.NewAccessService(repos), nil)
	env.svc.now = func() time.Time { return env.now }
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func (e *testEnv) sendText(t *testing.T, userId, groupUuid, content string) *model.Message {
	t.Helper()
	rsp, err := e.svc.SendMessage(userId, "member", request.SendMessageRequest{
		GroupId: groupUuid,
		Type:    model.MessageTypeText,
		Content: content,
	})
	require.NoError(t, err)
	uuid, err := strconv.ParseInt(rsp.Uuid, 10, 64)
	require.NoError(t, err)
	msg, err := e.store.Repositories().Message.FindByUuid(uuid)
	require.NoError(t, err)
	return msg
}

func TestSendMessageValidation(t *testing.T) {
	env := newTestEnv()
	svc := env.svc

	_, err := svc.SendMessage("u1", "member", request.SendMessageRequest{GroupId: "G404", Type: model.MessageTypeText, Content: "hi"})
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	_, err = svc.SendMessage("u3", "member", request.SendMessageRequest{GroupId: "G002", Type: model.MessageTypeText, Content: "hi"})
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))

	_, err = svc.SendMessage("u1", "member", request.SendMessageRequest{GroupId: "G001", Type: 9, Content: "hi"})
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = svc.SendMessage("u1", "member", request.SendMessageRequest{GroupId: "G001", Type: model.MessageTypeText, Content: "   "})
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = svc.SendMessage("u1", "member", request.SendMessageRequest{GroupId: "G001", Type: model.MessageTypeVoice})
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = svc.SendMessage("u1", "member", request.SendMessageRequest{GroupId: "G001", Type: model.MessageTypeReply, Content: "回个话"})
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestSendMessageFillsSenderDisplay(t *testing.T) {
	env := newTestEnv()

	rsp, err := env.svc.SendMessage("u1", "member", request.SendMessageRequest{
		GroupId: "G001", Type: model.MessageTypeText, Content: "早上好",
	})
	require.NoError(t, err)
	require.Equal(t, "张三", rsp.SendName)
	require.Equal(t, "a1.png", rsp.SendAvatar)

	// 用户表里没有的发送者回退为 UUID
	rsp, err = env.svc.SendMessage("u3", "member", request.SendMessageRequest{
		GroupId: "G001", Type: model.MessageTypeText, Content: "我也好",
	})
	require.NoError(t, err)
	require.Equal(t, "u3", rsp.SendName)
}

func TestSendReplyMessage(t *testing.T) {
	env := newTestEnv()

	parent := env.sendText(t, "u1", "G001", "需求评审几点开始")

	rsp, err := env.svc.SendMessage("u2", "member", request.SendMessageRequest{
		GroupId:          "G001",
		Type:             model.MessageTypeReply,
		Content:          "下午三点",
		ReplyToMessageId: strconv.FormatInt(parent.Uuid, 10),
	})
	require.NoError(t, err)
	require.Equal(t, model.MessageTypeReply, rsp.Type)

	// 跨群引用被拒
	other := env.sendText(t, "u1", "G002", "别的群的消息")
	_, err = env.svc.SendMessage("u2", "member", request.SendMessageRequest{
		GroupId:          "G001",
		Type:             model.MessageTypeReply,
		Content:          "跨群回复",
		ReplyToMessageId: strconv.FormatInt(other.Uuid, 10),
	})
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestEditMessageWindow(t *testing.T) {
	env := newTestEnv()
	msg := env.sendText(t, "u1", "G001", "原始内容")
	msgId := strconv.FormatInt(msg.Uuid, 10)

	// 非发送者不能编辑
	_, err := env.svc.EditMessage("u2", "member", msgId, request.EditMessageRequest{Content: "篡改"})
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))

	// 窗口边界：恰好 15 分钟仍允许（严格大于才拒绝）
	env.advance(constants.EDIT_WINDOW)
	rsp, err := env.svc.EditMessage("u1", "member", msgId, request.EditMessageRequest{Content: "修订内容"})
	require.NoError(t, err)
	require.True(t, rsp.Edited)
	require.Equal(t, "修订内容", rsp.Content)
	require.NotEmpty(t, rsp.EditedAt)

	// 超出一秒即拒绝
	env.advance(time.Second)
	_, err = env.svc.EditMessage("u1", "member", msgId, request.EditMessageRequest{Content: "太迟了"})
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))
}

func TestEditMessageOnlyText(t *testing.T) {
	env := newTestEnv()

	rsp, err := env.svc.SendMessage("u1", "member", request.SendMessageRequest{
		GroupId: "G001", Type: model.MessageTypeVoice, VoiceUrl: "voice/1.amr", VoiceDuration: 8,
	})
	require.NoError(t, err)

	_, err = env.svc.EditMessage("u1", "member", rsp.Uuid, request.EditMessageRequest{Content: "语音改文字"})
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))
}

func TestDeleteMessageRules(t *testing.T) {
	env := newTestEnv()
	msg := env.sendText(t, "u1", "G001", "待删除")
	msgId := strconv.FormatInt(msg.Uuid, 10)

	// 非发送者非管理员任何时候都不能删
	err := env.svc.DeleteMessage("u2", "member", msgId)
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))

	// 发送者在 1 小时窗口内可删（恰好 1 小时仍允许）
	env.advance(constants.DELETE_WINDOW)
	require.NoError(t, env.svc.DeleteMessage("u1", "member", msgId))

	// 已删除再删是 NotFound
	err = env.svc.DeleteMessage("u1", "member", msgId)
	require.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	// 发送者超窗被拒，管理员不受限
	late := env.sendText(t, "u1", "G001", "超窗消息")
	lateId := strconv.FormatInt(late.Uuid, 10)
	env.advance(constants.DELETE_WINDOW + time.Second)
	err = env.svc.DeleteMessage("u1", "member", lateId)
	require.Equal(t, errorx.CodeAccessDenied, errorx.GetCode(err))
	require.NoError(t, env.svc.DeleteMessage("admin1", "admin", lateId))
}

func TestListMessagesPaginationAndReadSideEffect(t *testing.T) {
	env := newTestEnv()

	for _, text := range []string{"第一条", "第二条", "第三条"} {
		env.sendText(t, "u1", "G001", text)
		env.advance(time.Minute)
	}

	rsp, err := env.svc.ListMessages("u2", "member", request.GetMessageListRequest{GroupId: "G001", Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rsp.Messages, 2)
	require.Equal(t, int64(3), rsp.Pagination.Total)
	require.Equal(t, 2, rsp.Pagination.Pages)
	require.Equal(t, "第一条", rsp.Messages[0].Content)

	// 读即已读：返回的两条为 u2 落了回执
	require.Len(t, env.store.Receipts, 2)
	for _, r := range env.store.Receipts {
		require.Equal(t, "u2", r.UserUuid)
	}

	// 重复拉取幂等
	_, err = env.svc.ListMessages("u2", "member", request.GetMessageListRequest{GroupId: "G001", Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, env.store.Receipts, 2)

	// 发送者本人拉取不产生回执
	_, err = env.svc.ListMessages("u1", "member", request.GetMessageListRequest{GroupId: "G001"})
	require.NoError(t, err)
	require.Len(t, env.store.Receipts, 2)
}

func TestListMessagesReplyPreviewUnavailable(t *testing.T) {
	env := newTestEnv()

	parent := env.sendText(t, "u1", "G001", "这条会被删")
	_, err := env.svc.SendMessage("u2", "member", request.SendMessageRequest{
		GroupId:          "G001",
		Type:             model.MessageTypeReply,
		Content:          "收到",
		ReplyToMessageId: strconv.FormatInt(parent.Uuid, 10),
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteMessage("u1", "member", strconv.FormatInt(parent.Uuid, 10)))

	rsp, err := env.svc.ListMessages("u3", "member", request.GetMessageListRequest{GroupId: "G001"})
	require.NoError(t, err)
	require.Len(t, rsp.Messages, 1)
	require.NotNil(t, rsp.Messages[0].ReplyTo)
	require.False(t, rsp.Messages[0].ReplyTo.Available)

	// 父消息在世时预览可用
	p2 := env.sendText(t, "u1", "G001", "新的父消息")
	_, err = env.svc.SendMessage("u2", "member", request.SendMessageRequest{
		GroupId:          "G001",
		Type:             model.MessageTypeReply,
		Content:          "再收到",
		ReplyToMessageId: strconv.FormatInt(p2.Uuid, 10),
	})
	require.NoError(t, err)
	rsp, err = env.svc.ListMessages("u3", "member", request.GetMessageListRequest{GroupId: "G001"})
	require.NoError(t, err)
	last := rsp.Messages[len(rsp.Messages)-1]
	require.NotNil(t, last.ReplyTo)
	require.True(t, last.ReplyTo.Available)
	require.Equal(t, "新的父消息", last.ReplyTo.Content)
}

func TestForwardMessagePartialSuccess(t *testing.T) {
	env := newTestEnv()
	source := env.sendText(t, "u1", "G001", "转发内容")

	rsp, err := env.svc.ForwardMessage("u1", "member", request.ForwardMessageRequest{
		MessageId:      strconv.FormatInt(source.Uuid, 10),
		TargetGroupIds: []string{"G002", "G003", "G404"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, rsp.ForwardedCount)
	require.Len(t, rsp.Messages, 1)
	require.Equal(t, "G002", rsp.Messages[0].GroupId)

	reasons := make(map[string]string)
	for _, e := range rsp.Errors {
		reasons[e.GroupId] = e.Reason
	}
	require.Equal(t, "不是目标群成员", reasons["G003"])
	require.Equal(t, "群组不存在", reasons["G404"])

	// 转发链回指最初的原始消息
	firstId, err := strconv.ParseInt(rsp.Messages[0].MessageId, 10, 64)
	require.NoError(t, err)
	forwarded, err := env.store.Repositories().Message.FindByUuid(firstId)
	require.NoError(t, err)
	require.Equal(t, source.Uuid, forwarded.ForwardedFromUuid)

	again, err := env.svc.ForwardMessage("u1", "member", request.ForwardMessageRequest{
		MessageId:      rsp.Messages[0].MessageId,
		TargetGroupIds: []string{"G001"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, again.ForwardedCount)
	secondId, err := strconv.ParseInt(again.Messages[0].MessageId, 10, 64)
	require.NoError(t, err)
	chained, err := env.store.Repositories().Message.FindByUuid(secondId)
	require.NoError(t, err)
	require.Equal(t, source.Uuid, chained.ForwardedFromUuid)
}

func TestSearchMessages(t *testing.T) {
	env := newTestEnv()
	env.sendText(t, "u1", "G001", "部署文档已更新")
	env.advance(time.Minute)
	env.sendText(t, "u2", "G001", "周会纪要整理好了")
	_, err := env.svc.SendMessage("u1", "member", request.SendMessageRequest{
		GroupId: "G001", Type: model.MessageTypeVoice, VoiceUrl: "voice/2.amr",
	})
	require.NoError(t, err)

	// 关键字最短两个字符（按 rune 计）
	_, err = env.svc.SearchMessages("u2", "member", request.SearchMessageRequest{GroupId: "G001", Keyword: "文"})
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	results, err := env.svc.SearchMessages("u2", "member", request.SearchMessageRequest{GroupId: "G001", Keyword: "文档"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "部署文档已更新", results[0].Content)

	// 搜索不产生已读回执
	require.Empty(t, env.store.Receipts)
}
