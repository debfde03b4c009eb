package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"project_chat_server/internal/dto/request"
	"project_chat_server/internal/dto/respond"
	"project_chat_server/pkg/errorx"
)

var transOnce sync.Once

// stubGroupService 可编程的 GroupService 桩
// 每个方法要么回放固定响应，要么回放固定错误
type stubGroupService struct {
	summary *respond.GroupSummaryRespond
	change  *respond.MemberChangeRespond
	members []respond.GetGroupMemberRespond
	err     error
}

func (s *stubGroupService) CreateGroup(userId, role string, req request.CreateGroupRequest) (*respond.GroupSummaryRespond, error) {
	return s.summary, s.err
}

func (s *stubGroupService) UpdateGroup(userId, role, groupUuid string, req request.UpdateGroupRequest) (*respond.GroupSummaryRespond, error) {
	return s.summary, s.err
}

func (s *stubGroupService) DeleteGroup(userId, role, groupUuid string) error {
	return s.err
}

func (s *stubGroupService) ListGroups(userId, role, projectUuid string) ([]respond.GroupSummaryRespond, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []respond.GroupSummaryRespond{}, nil
}

func (s *stubGroupService) ListMembers(userId, role, groupUuid string) ([]respond.GetGroupMemberRespond, error) {
	return s.members, s.err
}

func (s *stubGroupService) AddMembers(userId, role, groupUuid string, targetIds []string) (*respond.MemberChangeRespond, error) {
	return s.change, s.err
}

func (s *stubGroupService) RemoveMembers(userId, role, groupUuid string, targetIds []string) (*respond.MemberChangeRespond, error) {
	return s.change, s.err
}

func setupGroupRouter(t *testing.T, svc *stubGroupService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	transOnce.Do(func() {
		require.NoError(t, InitTrans("zh"))
	})

	h := NewGroupHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Set("role", "member")
		c.Next()
	})
	r.POST("/groups", h.CreateGroup)
	r.DELETE("/groups/:id", h.DeleteGroup)
	r.GET("/groups/:id/members", h.ListMembers)
	r.POST("/groups/:id/members", h.AddMembers)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateGroupReturnsCreated(t *testing.T) {
	svc := &stubGroupService{summary: &respond.GroupSummaryRespond{Uuid: "G001", Name: "发布群", MemberCnt: 3}}
	r := setupGroupRouter(t, svc)

	rec := doJSON(r, http.MethodPost, "/groups", `{"project_id":"P001","name":"发布群"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Code int                         `json:"code"`
		Data respond.GroupSummaryRespond `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, errorx.CodeSuccess, body.Code)
	require.Equal(t, "G001", body.Data.Uuid)
}

func TestCreateGroupMissingNameIsBadRequest(t *testing.T) {
	r := setupGroupRouter(t, &stubGroupService{})

	rec := doJSON(r, http.MethodPost, "/groups", `{"project_id":"P001"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, errorx.CodeInvalidParam, body.Code)
}

func TestCreateGroupConflictMapsTo409(t *testing.T) {
	svc := &stubGroupService{err: errorx.New(errorx.CodeConflict, "项目内已存在同名群组 发布群")}
	r := setupGroupRouter(t, svc)

	rec := doJSON(r, http.MethodPost, "/groups", `{"project_id":"P001","name":"发布群"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteGroupNotFoundMapsTo404(t *testing.T) {
	svc := &stubGroupService{err: errorx.New(errorx.CodeNotFound, "群组 G404 不存在")}
	r := setupGroupRouter(t, svc)

	rec := doJSON(r, http.MethodDelete, "/groups/G404", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListMembersForbiddenMapsTo403(t *testing.T) {
	svc := &stubGroupService{err: errorx.New(errorx.CodeAccessDenied, "无权访问群组 G001")}
	r := setupGroupRouter(t, svc)

	rec := doJSON(r, http.MethodGet, "/groups/G001/members", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStorageErrorIsNotLeaked(t *testing.T) {
	svc := &stubGroupService{err: errorx.Wrap(errors.New("Error 1045: Access denied for user"), errorx.CodeDBError, "find group members error")}
	r := setupGroupRouter(t, svc)

	rec := doJSON(r, http.MethodGet, "/groups/G001/members", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, errorx.CodeServerBusy, body.Code)
	require.Equal(t, errorx.ErrServerBusy.Msg, body.Msg)
	require.NotContains(t, rec.Body.String(), "1045")
}

func TestAddMembersPartialSuccessPayload(t *testing.T) {
	svc := &stubGroupService{change: &respond.MemberChangeRespond{
		Count: 1,
		Errors: []respond.MemberOutcomeError{
			{UserId: "u3", Reason: "已是群成员"},
			{UserId: "u9", Reason: "无项目访问权限"},
		},
	}}
	r := setupGroupRouter(t, svc)

	rec := doJSON(r, http.MethodPost, "/groups/G001/members", `{"user_ids":["u4","u3","u9"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data respond.MemberChangeRespond `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Data.Count)
	require.Len(t, body.Data.Errors, 2)
}
