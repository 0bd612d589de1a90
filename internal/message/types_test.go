package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleSystem, RoleDeveloper, RoleUser, RoleAssistant, RoleTool} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("moderator").Valid())
	assert.False(t, Role("").Valid())
}

func TestWithMetaDoesNotMutateSource(t *testing.T) {
	src := Message{Role: RoleUser, Content: "hi", Meta: map[string]any{"a": 1}}

	out := src.WithMeta(map[string]any{"b": 2, "a": 3})

	require.Equal(t, map[string]any{"a": 1}, src.Meta)
	require.Equal(t, map[string]any{"a": 3, "b": 2}, out.Meta)
}

func TestWithMetaOnNilMeta(t *testing.T) {
	out := User("x").WithMeta(map[string]any{"k": "v"})
	assert.Equal(t, "v", out.Meta["k"])
}

func TestWithContentClonesMeta(t *testing.T) {
	src := Message{Role: RoleTool, Content: "old", Meta: map[string]any{"k": "v"}}

	out := src.WithContent("new")
	out.Meta["k"] = "changed"

	assert.Equal(t, "old", src.Content)
	assert.Equal(t, "new", out.Content)
	assert.Equal(t, "v", src.Meta["k"])
}
