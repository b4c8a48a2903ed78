package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupdiary/backend/internal/domain/group"
	"github.com/groupdiary/backend/internal/domain/shared"
)

func TestGormGroupRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormGroupRepository(db)
	ctx := context.Background()

	creatorID := uuid.New()
	g, err := group.NewGroup(creatorID, "family", "our diary", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, g))

	t.Run("finds existing group", func(t *testing.T) {
		found, err := repo.FindByID(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, "family", found.Name)
		assert.Equal(t, creatorID, found.CreatorID)
	})

	t.Run("find by ids skips unknown", func(t *testing.T) {
		groups, err := repo.FindByIDs(ctx, []uuid.UUID{g.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, groups, 1)
	})

	t.Run("excludes soft-deleted groups", func(t *testing.T) {
		g.MarkDeleted()
		require.NoError(t, repo.Save(ctx, g))

		_, err := repo.FindByID(ctx, g.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormMemberRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMemberRepository(db)
	ctx := context.Background()

	groupID := uuid.New()
	userID := uuid.New()
	m := group.NewMember(groupID, userID)
	require.NoError(t, repo.Save(ctx, m))

	t.Run("exists", func(t *testing.T) {
		ok, err := repo.Exists(ctx, groupID, userID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, groupID, uuid.New())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("find by group", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, group.NewMember(groupID, uuid.New())))

		members, err := repo.FindByGroup(ctx, groupID)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("starred flag persists", func(t *testing.T) {
		member, err := repo.FindByGroupAndUser(ctx, groupID, userID)
		require.NoError(t, err)
		assert.True(t, member.ToggleStar())
		require.NoError(t, repo.Save(ctx, member))

		reloaded, err := repo.FindByGroupAndUser(ctx, groupID, userID)
		require.NoError(t, err)
		assert.True(t, reloaded.Starred)
	})

	t.Run("delete removes membership", func(t *testing.T) {
		member, err := repo.FindByGroupAndUser(ctx, groupID, userID)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, member.ID))

		_, err = repo.FindByGroupAndUser(ctx, groupID, userID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInviteRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormInviteRepository(db)
	ctx := context.Background()

	inviteeID := uuid.New()
	inv := group.NewInvite(uuid.New(), uuid.New(), inviteeID)
	require.NoError(t, repo.Save(ctx, inv))

	pending, err := repo.FindPendingByInvitee(ctx, inviteeID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, inv.Accept())
	require.NoError(t, repo.Save(ctx, inv))

	pending, err = repo.FindPendingByInvitee(ctx, inviteeID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
