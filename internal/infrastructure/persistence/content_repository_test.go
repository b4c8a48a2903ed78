package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupdiary/backend/internal/domain/content"
	"github.com/groupdiary/backend/internal/domain/shared"
	"github.com/groupdiary/backend/internal/domain/sticker"
)

func TestGormContentRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormContentRepository(db)
	ctx := context.Background()

	groupID := uuid.New()
	c, err := content.NewContent(uuid.New(), groupID, "first post", 37.5, 127.0, "Seoul")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, c))

	t.Run("find by group", func(t *testing.T) {
		posts, err := repo.FindByGroup(ctx, groupID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "first post", posts[0].Text)
	})

	t.Run("bounding box restricted to groups", func(t *testing.T) {
		posts, err := repo.FindWithinBounds(ctx, []uuid.UUID{groupID}, 37.0, 38.0, 126.0, 128.0)
		require.NoError(t, err)
		assert.Len(t, posts, 1)

		posts, err = repo.FindWithinBounds(ctx, []uuid.UUID{uuid.New()}, 37.0, 38.0, 126.0, 128.0)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("soft delete hides the post", func(t *testing.T) {
		c.MarkDeleted()
		require.NoError(t, repo.Save(ctx, c))

		_, err := repo.FindByID(ctx, c.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		count, err := repo.CountByGroup(ctx, groupID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestGormEmotionRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEmotionRepository(db)
	ctx := context.Background()

	contentID := uuid.New()
	userID := uuid.New()

	e := content.NewEmotion(contentID, userID, 1)
	require.NoError(t, repo.Save(ctx, e))

	active, err := repo.FindActiveByContent(ctx, contentID)
	require.NoError(t, err)
	require.Len(t, active, 1)

	// Same kind again toggles the emotion off
	found, err := repo.FindByContentAndUser(ctx, contentID, userID)
	require.NoError(t, err)
	assert.False(t, found.Apply(1))
	require.NoError(t, repo.Save(ctx, found))

	active, err = repo.FindActiveByContent(ctx, contentID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestGormCommentRepositories(t *testing.T) {
	db := newTestDB(t)
	comments := NewGormCommentRepository(db)
	likes := NewGormCommentLikeRepository(db)
	ctx := context.Background()

	contentID := uuid.New()
	cm, err := content.NewComment(contentID, uuid.New(), "nice one")
	require.NoError(t, err)
	require.NoError(t, comments.Save(ctx, cm))

	list, err := comments.FindByContent(ctx, contentID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, list, 1)

	like := content.NewCommentLike(cm.ID, uuid.New())
	require.NoError(t, likes.Save(ctx, like))

	count, err := likes.CountActiveByComment(ctx, cm.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	like.Toggle()
	require.NoError(t, likes.Save(ctx, like))

	count, err = likes.CountActiveByComment(ctx, cm.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormBookmarkRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormBookmarkRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	b := content.NewBookmark(uuid.New(), userID)
	require.NoError(t, repo.Save(ctx, b))

	active, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	b.Toggle()
	require.NoError(t, repo.Save(ctx, b))

	active, err = repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestGormStickerRepositories(t *testing.T) {
	db := newTestDB(t)
	groups := NewGormStickerGroupRepository(db)
	stickers := NewGormStickerRepository(db)
	ctx := context.Background()

	sg, err := sticker.NewGroup(2, "Baby tiger", "https://cdn.example.com/stickers/tiger.png")
	require.NoError(t, err)
	require.NoError(t, groups.Save(ctx, sg))

	t.Run("find by level", func(t *testing.T) {
		found, err := groups.FindByLevel(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, sg.ID, found.ID)

		_, err = groups.FindByLevel(ctx, 99)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("acquisition", func(t *testing.T) {
		userID := uuid.New()
		held, err := stickers.Exists(ctx, userID, sg.ID)
		require.NoError(t, err)
		assert.False(t, held)

		require.NoError(t, stickers.Save(ctx, sticker.NewSticker(userID, sg.ID)))

		held, err = stickers.Exists(ctx, userID, sg.ID)
		require.NoError(t, err)
		assert.True(t, held)

		owned, err := stickers.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, owned, 1)
	})
}
