// Package mocks 提供 Repository 接口的内存实现，供 Service 层单元测试使用
// 语义与 MySQL 实现对齐：软删除行对读取不可见、唯一键冲突返回 Conflict、
// 查不到返回 NotFound。不做并发保护，测试内串行使用
package mocks

import (
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"project_chat_server/internal/dao/mysql/repository"
	"project_chat_server/internal/model"
	"project_chat_server/pkg/errorx"
)

// MemoryStore 所有表的内存存储
// Now 可替换为固定时钟，配合 Service 层注入的时钟做确定性测试
type MemoryStore struct {
	Now func() time.Time

	Projects       []model.Project
	ProjectMembers []model.ProjectMember
	Users          []model.UserInfo
	Groups         []model.GroupInfo
	GroupMembers   []model.GroupMember
	Messages       []model.Message
	Receipts       []model.MessageReadReceipt
	Typing         []model.TypingStatus
	Online         []model.UserOnlineStatus
	Mutes          []model.GroupMuteRecord
	Archives       []model.GroupArchiveRecord
	Blocks         []model.UserBlockRecord
	Stars          []model.StarredMessage
}

// NewMemoryStore 创建空的内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Now: time.Now}
}

// Repositories 把内存存储组装成 Repositories 聚合
// 无 db 句柄，Transaction 直接透传执行
func (s *MemoryStore) Repositories() *repository.Repositories {
	return repository.NewTestRepositories(
		&projectRepo{s}, &userRepo{s}, &groupRepo{s}, &groupMemberRepo{s},
		&messageRepo{s}, &readReceiptRepo{s}, &presenceRepo{s}, &preferenceRepo{s},
	)
}

// 编译期接口断言
var (
	_ repository.ProjectRepository     = (*projectRepo)(nil)
	_ repository.UserRepository        = (*userRepo)(nil)
	_ repository.GroupRepository       = (*groupRepo)(nil)
	_ repository.GroupMemberRepository = (*groupMemberRepo)(nil)
	_ repository.MessageRepository     = (*messageRepo)(nil)
	_ repository.ReadReceiptRepository = (*readReceiptRepo)(nil)
	_ repository.PresenceRepository    = (*presenceRepo)(nil)
	_ repository.PreferenceRepository  = (*preferenceRepo)(nil)
)

func notFound(msg string) error {
	return errorx.New(errorx.CodeNotFound, msg)
}

func deleted(at gorm.DeletedAt) bool {
	return at.Valid
}

// ==================== Project ====================

type projectRepo struct{ s *MemoryStore }

func (r *projectRepo) FindByUuid(uuid string) (*model.Project, error) {
	for i := range r.s.Projects {
		p := r.s.Projects[i]
		if p.Uuid == uuid && !deleted(p.DeletedAt) {
			return &p, nil
		}
	}
	return nil, notFound("project not found")
}

func (r *projectRepo) HasAccess(projectUuid, userUuid string) (bool, error) {
	for _, m := range r.s.ProjectMembers {
		if m.ProjectUuid == projectUuid && m.UserUuid == userUuid && !deleted(m.DeletedAt) {
			return true, nil
		}
	}
	for _, p := range r.s.Projects {
		if p.Uuid == projectUuid && p.CreatorId == userUuid && !deleted(p.DeletedAt) {
			return true, nil
		}
	}
	return false, nil
}

func (r *projectRepo) FindMemberIds(projectUuid string) ([]string, error) {
	var ids []string
	for _, m := range r.s.ProjectMembers {
		if m.ProjectUuid == projectUuid && !deleted(m.DeletedAt) {
			ids = append(ids, m.UserUuid)
		}
	}
	return ids, nil
}

// ==================== User ====================

type userRepo struct{ s *MemoryStore }

func (r *userRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	for i := range r.s.Users {
		u := r.s.Users[i]
		if u.Uuid == uuid && !deleted(u.DeletedAt) {
			return &u, nil
		}
	}
	return nil, notFound("user not found")
}

// ==================== Group ====================

type groupRepo struct{ s *MemoryStore }

func (r *groupRepo) FindByUuid(uuid string) (*model.GroupInfo, error) {
	for i := range r.s.Groups {
		g := r.s.Groups[i]
		if g.Uuid == uuid && !deleted(g.DeletedAt) {
			return &g, nil
		}
	}
	return nil, notFound("group not found")
}

func (r *groupRepo) ExistsActiveName(projectUuid, name, excludeUuid string) (bool, error) {
	for _, g := range r.s.Groups {
		if deleted(g.DeletedAt) || g.ProjectUuid != projectUuid {
			continue
		}
		if g.Uuid != excludeUuid && g.Name == name { // 区分大小写
			return true, nil
		}
	}
	return false, nil
}

func (r *groupRepo) Create(group *model.GroupInfo) error {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = r.s.Now()
	}
	r.s.Groups = append(r.s.Groups, *group)
	return nil
}

func (r *groupRepo) Update(group *model.GroupInfo) error {
	for i := range r.s.Groups {
		if r.s.Groups[i].Uuid == group.Uuid && !deleted(r.s.Groups[i].DeletedAt) {
			r.s.Groups[i] = *group
			return nil
		}
	}
	return notFound("group not found")
}

func (r *groupRepo) SoftDeleteByUuid(uuid string) error {
	for i := range r.s.Groups {
		if r.s.Groups[i].Uuid == uuid && !deleted(r.s.Groups[i].DeletedAt) {
			r.s.Groups[i].DeletedAt = gorm.DeletedAt{Time: r.s.Now(), Valid: true}
			return nil
		}
	}
	return nil
}

func (r *groupRepo) GetGroupSummaries(projectUuid string) ([]repository.GroupSummary, error) {
	var result []repository.GroupSummary
	for _, g := range r.s.Groups {
		if g.ProjectUuid != projectUuid || deleted(g.DeletedAt) {
			continue
		}
		summary := repository.GroupSummary{
			Uuid:        g.Uuid,
			Name:        g.Name,
			Description: g.Description,
			Avatar:      g.Avatar,
			CreatorId:   g.CreatorId,
			CreatedAt:   g.CreatedAt,
		}
		for _, m := range r.s.GroupMembers {
			if m.GroupUuid == g.Uuid && !deleted(m.DeletedAt) {
				summary.MemberCnt++
			}
		}
		for _, msg := range r.s.Messages {
			if msg.GroupUuid == g.Uuid && !deleted(msg.DeletedAt) {
				if !summary.LastMessageAt.Valid || msg.CreatedAt.After(summary.LastMessageAt.Time) {
					summary.LastMessageAt.Time = msg.CreatedAt
					summary.LastMessageAt.Valid = true
				}
			}
		}
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// ==================== GroupMember ====================

type groupMemberRepo struct{ s *MemoryStore }

func (r *groupMemberRepo) FindLive(groupUuid, userUuid string) (*model.GroupMember, error) {
	for i := range r.s.GroupMembers {
		m := r.s.GroupMembers[i]
		if m.GroupUuid == groupUuid && m.UserUuid == userUuid && !deleted(m.DeletedAt) {
			return &m, nil
		}
	}
	return nil, notFound("group member not found")
}

func (r *groupMemberRepo) CreateIfAbsent(member *model.GroupMember) (bool, error) {
	if _, err := r.FindLive(member.GroupUuid, member.UserUuid); err == nil {
		return false, nil
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = r.s.Now()
	}
	r.s.GroupMembers = append(r.s.GroupMembers, *member)
	return true, nil
}

func (r *groupMemberRepo) SoftDelete(groupUuid, userUuid string) error {
	for i := range r.s.GroupMembers {
		m := &r.s.GroupMembers[i]
		if m.GroupUuid == groupUuid && m.UserUuid == userUuid && !deleted(m.DeletedAt) {
			m.DeletedAt = gorm.DeletedAt{Time: r.s.Now(), Valid: true}
		}
	}
	return nil
}

func (r *groupMemberRepo) FindMembersWithUserInfo(groupUuid string) ([]repository.GroupMemberWithUserInfo, error) {
	var result []repository.GroupMemberWithUserInfo
	for _, m := range r.s.GroupMembers {
		if m.GroupUuid != groupUuid || deleted(m.DeletedAt) {
			continue
		}
		item := repository.GroupMemberWithUserInfo{UserId: m.UserUuid, JoinedAt: m.CreatedAt}
		for _, u := range r.s.Users {
			if u.Uuid == m.UserUuid && !deleted(u.DeletedAt) {
				item.Nickname = u.Nickname
				item.Avatar = u.Avatar
				break
			}
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})
	return result, nil
}

func (r *groupMemberRepo) FindMemberIds(groupUuid string) ([]string, error) {
	var ids []string
	for _, m := range r.s.GroupMembers {
		if m.GroupUuid == groupUuid && !deleted(m.DeletedAt) {
			ids = append(ids, m.UserUuid)
		}
	}
	return ids, nil
}

func (r *groupMemberRepo) UpdateLastReadAt(groupUuid, userUuid string, t time.Time) error {
	for i := range r.s.GroupMembers {
		m := &r.s.GroupMembers[i]
		if m.GroupUuid == groupUuid && m.UserUuid == userUuid && !deleted(m.DeletedAt) {
			m.LastReadAt.Time = t
			m.LastReadAt.Valid = true
		}
	}
	return nil
}

// ==================== Message ====================

type messageRepo struct{ s *MemoryStore }

func (r *messageRepo) FindByUuid(uuid int64) (*model.Message, error) {
	for i := range r.s.Messages {
		m := r.s.Messages[i]
		if m.Uuid == uuid && !deleted(m.DeletedAt) {
			return &m, nil
		}
	}
	return nil, notFound("message not found")
}

func (r *messageRepo) FindByUuids(uuids []int64) ([]model.Message, error) {
	want := make(map[int64]struct{}, len(uuids))
	for _, id := range uuids {
		want[id] = struct{}{}
	}
	var result []model.Message
	for _, m := range r.s.Messages {
		if _, ok := want[m.Uuid]; ok && !deleted(m.DeletedAt) {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *messageRepo) Create(message *model.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = r.s.Now()
	}
	r.s.Messages = append(r.s.Messages, *message)
	return nil
}

func (r *messageRepo) Update(message *model.Message) error {
	for i := range r.s.Messages {
		if r.s.Messages[i].Uuid == message.Uuid && !deleted(r.s.Messages[i].DeletedAt) {
			r.s.Messages[i] = *message
			return nil
		}
	}
	return notFound("message not found")
}

func (r *messageRepo) SoftDeleteByUuid(uuid int64) error {
	for i := range r.s.Messages {
		if r.s.Messages[i].Uuid == uuid && !deleted(r.s.Messages[i].DeletedAt) {
			r.s.Messages[i].DeletedAt = gorm.DeletedAt{Time: r.s.Now(), Valid: true}
		}
	}
	return nil
}

func (r *messageRepo) FindPageByGroup(groupUuid string, offset, limit int) ([]model.Message, int64, error) {
	var live []model.Message
	for _, m := range r.s.Messages {
		if m.GroupUuid == groupUuid && !deleted(m.DeletedAt) {
			live = append(live, m)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].CreatedAt.Equal(live[j].CreatedAt) {
			return live[i].Uuid < live[j].Uuid
		}
		return live[i].CreatedAt.Before(live[j].CreatedAt)
	})
	total := int64(len(live))
	if offset >= len(live) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(live) {
		end = len(live)
	}
	return live[offset:end], total, nil
}

func (r *messageRepo) SearchInGroup(groupUuid, keyword string, limit int) ([]model.Message, error) {
	var result []model.Message
	for _, m := range r.s.Messages {
		if m.GroupUuid != groupUuid || deleted(m.DeletedAt) || !m.IsTextual() {
			continue
		}
		if strings.Contains(m.Content, keyword) {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Uuid > result[j].Uuid
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ==================== ReadReceipt ====================

type readReceiptRepo struct{ s *MemoryStore }

func (r *readReceiptRepo) CreateIgnoreDuplicate(receipt *model.MessageReadReceipt) error {
	for _, existing := range r.s.Receipts {
		if existing.MessageUuid == receipt.MessageUuid && existing.UserUuid == receipt.UserUuid {
			return nil
		}
	}
	r.s.Receipts = append(r.s.Receipts, *receipt)
	return nil
}

func (r *readReceiptRepo) FindByMessageUuid(messageUuid int64) ([]model.MessageReadReceipt, error) {
	var result []model.MessageReadReceipt
	for _, receipt := range r.s.Receipts {
		if receipt.MessageUuid == messageUuid {
			result = append(result, receipt)
		}
	}
	return result, nil
}

// ==================== Presence ====================

type presenceRepo struct{ s *MemoryStore }

func (r *presenceRepo) UpsertTyping(groupUuid, userUuid string, expiresAt time.Time) error {
	for i := range r.s.Typing {
		t := &r.s.Typing[i]
		if t.GroupUuid == groupUuid && t.UserUuid == userUuid {
			t.ExpiresAt = expiresAt
			return nil
		}
	}
	r.s.Typing = append(r.s.Typing, model.TypingStatus{
		GroupUuid: groupUuid,
		UserUuid:  userUuid,
		ExpiresAt: expiresAt,
	})
	return nil
}

func (r *presenceRepo) DeleteTyping(groupUuid, userUuid string) error {
	kept := r.s.Typing[:0]
	for _, t := range r.s.Typing {
		if !(t.GroupUuid == groupUuid && t.UserUuid == userUuid) {
			kept = append(kept, t)
		}
	}
	r.s.Typing = kept
	return nil
}

func (r *presenceRepo) FindLiveTypingUserIds(groupUuid string, now time.Time) ([]string, error) {
	var ids []string
	for _, t := range r.s.Typing {
		if t.GroupUuid == groupUuid && t.ExpiresAt.After(now) {
			ids = append(ids, t.UserUuid)
		}
	}
	return ids, nil
}

func (r *presenceRepo) DeleteExpiredTyping(before time.Time) (int64, error) {
	var removed int64
	kept := r.s.Typing[:0]
	for _, t := range r.s.Typing {
		if !t.ExpiresAt.After(before) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	r.s.Typing = kept
	return removed, nil
}

func (r *presenceRepo) UpsertOnline(userUuid string, isOnline int8, lastSeen time.Time) error {
	for i := range r.s.Online {
		o := &r.s.Online[i]
		if o.UserUuid == userUuid {
			o.IsOnline = isOnline
			o.LastSeenAt = lastSeen
			return nil
		}
	}
	r.s.Online = append(r.s.Online, model.UserOnlineStatus{
		UserUuid:   userUuid,
		IsOnline:   isOnline,
		LastSeenAt: lastSeen,
	})
	return nil
}

func (r *presenceRepo) FindOnline(userUuid string) (*model.UserOnlineStatus, error) {
	for i := range r.s.Online {
		o := r.s.Online[i]
		if o.UserUuid == userUuid {
			return &o, nil
		}
	}
	return nil, notFound("online status not found")
}

// ==================== Preference ====================

type preferenceRepo struct{ s *MemoryStore }

func (r *preferenceRepo) UpsertMute(record *model.GroupMuteRecord) error {
	for i := range r.s.Mutes {
		m := &r.s.Mutes[i]
		if m.GroupUuid == record.GroupUuid && m.UserUuid == record.UserUuid {
			m.MutedUntil = record.MutedUntil
			return nil
		}
	}
	r.s.Mutes = append(r.s.Mutes, *record)
	return nil
}

func (r *preferenceRepo) DeleteMute(groupUuid, userUuid string) error {
	kept := r.s.Mutes[:0]
	for _, m := range r.s.Mutes {
		if !(m.GroupUuid == groupUuid && m.UserUuid == userUuid) {
			kept = append(kept, m)
		}
	}
	r.s.Mutes = kept
	return nil
}

func (r *preferenceRepo) FindMutedUserIds(groupUuid string, now time.Time) ([]string, error) {
	var ids []string
	for _, m := range r.s.Mutes {
		if m.GroupUuid == groupUuid && m.MutedUntil.After(now) {
			ids = append(ids, m.UserUuid)
		}
	}
	return ids, nil
}

func (r *preferenceRepo) CreateArchive(record *model.GroupArchiveRecord) error {
	for _, a := range r.s.Archives {
		if a.GroupUuid == record.GroupUuid && a.UserUuid == record.UserUuid {
			return errorx.New(errorx.CodeConflict, "archive record exists")
		}
	}
	r.s.Archives = append(r.s.Archives, *record)
	return nil
}

func (r *preferenceRepo) DeleteArchive(groupUuid, userUuid string) (int64, error) {
	var removed int64
	kept := r.s.Archives[:0]
	for _, a := range r.s.Archives {
		if a.GroupUuid == groupUuid && a.UserUuid == userUuid {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	r.s.Archives = kept
	return removed, nil
}

func (r *preferenceRepo) CreateBlock(record *model.UserBlockRecord) error {
	for _, b := range r.s.Blocks {
		if b.UserUuid == record.UserUuid && b.BlockedUuid == record.BlockedUuid {
			return errorx.New(errorx.CodeConflict, "block record exists")
		}
	}
	r.s.Blocks = append(r.s.Blocks, *record)
	return nil
}

func (r *preferenceRepo) DeleteBlock(userUuid, blockedUuid string) (int64, error) {
	var removed int64
	kept := r.s.Blocks[:0]
	for _, b := range r.s.Blocks {
		if b.UserUuid == userUuid && b.BlockedUuid == blockedUuid {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	r.s.Blocks = kept
	return removed, nil
}

func (r *preferenceRepo) CreateStar(record *model.StarredMessage) error {
	for _, star := range r.s.Stars {
		if star.UserUuid == record.UserUuid && star.MessageUuid == record.MessageUuid {
			return errorx.New(errorx.CodeConflict, "star record exists")
		}
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.s.Now()
	}
	r.s.Stars = append(r.s.Stars, *record)
	return nil
}

func (r *preferenceRepo) DeleteStar(userUuid string, messageUuid int64) (int64, error) {
	var removed int64
	kept := r.s.Stars[:0]
	for _, star := range r.s.Stars {
		if star.UserUuid == userUuid && star.MessageUuid == messageUuid {
			removed++
			continue
		}
		kept = append(kept, star)
	}
	r.s.Stars = kept
	return removed, nil
}

func (r *preferenceRepo) FindStarredMessages(userUuid, groupUuid string) ([]model.Message, error) {
	var stars []model.StarredMessage
	for _, star := range r.s.Stars {
		if star.UserUuid == userUuid && star.GroupUuid == groupUuid {
			stars = append(stars, star)
		}
	}
	sort.Slice(stars, func(i, j int) bool {
		return stars[i].CreatedAt.After(stars[j].CreatedAt)
	})
	var result []model.Message
	for _, star := range stars {
		for _, m := range r.s.Messages {
			if m.Uuid == star.MessageUuid && !deleted(m.DeletedAt) {
				result = append(result, m)
				break
			}
		}
	}
	return result, nil
}
