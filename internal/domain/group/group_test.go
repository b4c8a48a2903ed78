package group

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroup(t *testing.T) {
	creatorID := uuid.New()

	t.Run("creates group with valid inputs", func(t *testing.T) {
		g, err := NewGroup(creatorID, "trip crew", "summer 2026", "")
		require.NoError(t, err)

		assert.Equal(t, "trip crew", g.Name)
		assert.Equal(t, "summer 2026", g.Note)
		assert.Equal(t, creatorID, g.CreatorID)
		assert.False(t, g.Deleted)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewGroup(creatorID, "  ", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with name over 12 characters", func(t *testing.T) {
		_, err := NewGroup(creatorID, strings.Repeat("a", 13), "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 12 characters")
	})

	t.Run("fails with note over 30 characters", func(t *testing.T) {
		_, err := NewGroup(creatorID, "crew", strings.Repeat("b", 31), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 30 characters")
	})
}

func TestGroupOwnership(t *testing.T) {
	creatorID := uuid.New()
	g, err := NewGroup(creatorID, "crew", "", "")
	require.NoError(t, err)

	assert.True(t, g.IsOwnedBy(creatorID))
	assert.False(t, g.IsOwnedBy(uuid.New()))
}

func TestGroupMarkDeleted(t *testing.T) {
	g, err := NewGroup(uuid.New(), "crew", "", "")
	require.NoError(t, err)

	g.MarkDeleted()
	assert.True(t, g.Deleted)
}

func TestMemberToggleStar(t *testing.T) {
	m := NewMember(uuid.New(), uuid.New())

	assert.False(t, m.Starred)
	assert.True(t, m.ToggleStar())
	assert.True(t, m.Starred)
	assert.False(t, m.ToggleStar())
	assert.False(t, m.Starred)
}

func TestInviteLifecycle(t *testing.T) {
	t.Run("accept pending invite", func(t *testing.T) {
		inv := NewInvite(uuid.New(), uuid.New(), uuid.New())
		require.Equal(t, InviteStatusPending, inv.Status)

		require.NoError(t, inv.Accept())
		assert.Equal(t, InviteStatusAccepted, inv.Status)
	})

	t.Run("reject pending invite", func(t *testing.T) {
		inv := NewInvite(uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, inv.Reject())
		assert.Equal(t, InviteStatusRejected, inv.Status)
	})

	t.Run("cannot resolve twice", func(t *testing.T) {
		inv := NewInvite(uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, inv.Accept())
		require.Error(t, inv.Reject())
		require.Error(t, inv.Accept())
	})
}
