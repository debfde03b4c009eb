package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

// 活跃唯一性都靠带 delete_mark 的复合唯一索引兜底：
// 活跃行 delete_mark 恒为 0，软删除后写入行 ID 腾出唯一键
func TestGroupUniqueIndexCoversActiveRows(t *testing.T) {
	requireUniqueIndex(t, GroupInfo{}, "idx_project_name", "ProjectUuid", "Name", "DeleteMark")
	requireUniqueIndex(t, GroupMember{}, "idx_member_group_user", "GroupUuid", "UserUuid", "DeleteMark")
}

func requireUniqueIndex(t *testing.T, entity any, index string, fields ...string) {
	t.Helper()
	typ := reflect.TypeOf(entity)
	for _, name := range fields {
		field, ok := typ.FieldByName(name)
		require.True(t, ok, "%s 缺少字段 %s", typ.Name(), name)
		require.Contains(t, field.Tag.Get("gorm"), "uniqueIndex:"+index,
			"%s.%s 不在唯一索引 %s 中", typ.Name(), name, index)
	}
}
