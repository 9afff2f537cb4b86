package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeScope(t *testing.T) {
	t.Run("Success_EmptyTags", func(t *testing.T) {
		assert.Nil(t, MergeScope(nil))
		assert.Nil(t, MergeScope([]ScopeTag{}))
	})

	t.Run("Success_ResourceViewTable", func(t *testing.T) {
		scope := MergeScope([]ScopeTag{
			{Kind: ScopeResource, Database: "demo", Resource: "foo", Action: "view-table"},
		})

		require.NotNil(t, scope)
		assert.Equal(t, &RestrictionScope{
			Resource: map[string]map[string][]string{"demo": {"foo": {"vt"}}},
		}, scope)
	})

	t.Run("Success_DeduplicatesPreservingFirstSeenOrder", func(t *testing.T) {
		scope := MergeScope([]ScopeTag{
			{Kind: ScopeDatabase, Database: "demo", Action: "execute-sql"},
			{Kind: ScopeDatabase, Database: "demo", Action: "view-table"},
			{Kind: ScopeDatabase, Database: "demo", Action: "es"},
			{Kind: ScopeAll, Action: "view-instance"},
			{Kind: ScopeAll, Action: "view-instance"},
		})

		require.NotNil(t, scope)
		assert.Equal(t, []string{"es", "vt"}, scope.Database["demo"])
		assert.Equal(t, []string{"vi"}, scope.All)
	})

	t.Run("Success_AxisOrderIndependent", func(t *testing.T) {
		all := ScopeTag{Kind: ScopeAll, Action: "vt"}
		db := ScopeTag{Kind: ScopeDatabase, Database: "demo", Action: "vt"}

		assert.Equal(t, MergeScope([]ScopeTag{all, db}), MergeScope([]ScopeTag{db, all}))
	})

	t.Run("Success_ExcludesReservedActions", func(t *testing.T) {
		scope := MergeScope([]ScopeTag{
			{Kind: ScopeAll, Action: PrivilegeViewAllTokens},
			{Kind: ScopeAll, Action: "view-table"},
			{Kind: ScopeDatabase, Database: "demo", Action: PrivilegeRevokeAllTokens},
		}, ReservedScopeActions...)

		require.NotNil(t, scope)
		assert.Equal(t, []string{"vt"}, scope.All)
		assert.Empty(t, scope.Database)
	})

	t.Run("Success_OnlyReservedActionsYieldsNil", func(t *testing.T) {
		scope := MergeScope([]ScopeTag{
			{Kind: ScopeAll, Action: PrivilegeRevokeAllTokens},
		}, ReservedScopeActions...)

		assert.Nil(t, scope)
	})
}

func TestEncodeDecodeScope(t *testing.T) {
	t.Run("Success_EmptyEncodesNull", func(t *testing.T) {
		encoded, err := EncodeScope(nil)
		require.NoError(t, err)
		assert.Equal(t, "null", encoded)

		encoded, err = EncodeScope(&RestrictionScope{})
		require.NoError(t, err)
		assert.Equal(t, "null", encoded)
	})

	t.Run("Success_CompactKeys", func(t *testing.T) {
		encoded, err := EncodeScope(&RestrictionScope{
			Resource: map[string]map[string][]string{"demo": {"foo": {"vt"}}},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"r":{"demo":{"foo":["vt"]}}}`, encoded)
	})

	t.Run("Success_DecodeEmptyForms", func(t *testing.T) {
		for _, input := range []string{"", "null", "{}"} {
			scope, err := DecodeScope(input)
			require.NoError(t, err)
			assert.Nil(t, scope, input)
		}
	})

	t.Run("Success_Decode", func(t *testing.T) {
		scope, err := DecodeScope(`{"a":["vi"],"d":{"demo":["es"]}}`)
		require.NoError(t, err)
		require.NotNil(t, scope)
		assert.Equal(t, []string{"vi"}, scope.All)
		assert.Equal(t, []string{"es"}, scope.Database["demo"])
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		_, err := DecodeScope(`{"a":`)
		assert.Error(t, err)
	})
}

func TestRestrictionScope_Allows(t *testing.T) {
	scope := &RestrictionScope{
		All:      []string{"vi"},
		Database: map[string][]string{"demo": {"es"}},
		Resource: map[string]map[string][]string{"demo": {"foo": {"vt"}}},
	}

	assert.True(t, scope.Allows("view-instance", "", ""))
	assert.True(t, scope.Allows("execute-sql", "demo", ""))
	assert.True(t, scope.Allows("vt", "demo", "foo"))
	assert.False(t, scope.Allows("view-table", "demo", "bar"))
	assert.False(t, scope.Allows("execute-sql", "other", ""))
	assert.False(t, scope.Allows("insert-row", "demo", "foo"))

	var empty *RestrictionScope
	assert.True(t, empty.Allows("drop-table", "demo", "foo"))
}
