package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupdiary/backend/internal/domain/mission"
	"github.com/groupdiary/backend/internal/domain/shared"
)

func newTestMission(t *testing.T, groupID, creatorID uuid.UUID) *mission.Mission {
	t.Helper()
	m, err := mission.NewMission(mission.NewMissionSpec{
		GroupID:      groupID,
		CreatorID:    creatorID,
		Name:         "Morning run",
		Note:         "5km around the park",
		LocationName: "Riverside park",
		Latitude:     37.5,
		Longitude:    127.0,
	}, time.Now())
	require.NoError(t, err)
	return m
}

func TestGormMissionRepository_FindByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMissionRepository(db)
	ctx := context.Background()

	m := newTestMission(t, uuid.New(), uuid.New())
	require.NoError(t, repo.Save(ctx, m))

	t.Run("finds existing mission", func(t *testing.T) {
		found, err := repo.FindByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, m.Name, found.Name)
		assert.Equal(t, m.GroupID, found.GroupID)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("excludes soft-deleted missions", func(t *testing.T) {
		m.MarkDeleted()
		require.NoError(t, repo.Save(ctx, m))

		_, err := repo.FindByID(ctx, m.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormMissionRepository_FindByGroup(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMissionRepository(db)
	ctx := context.Background()

	groupID := uuid.New()
	m1 := newTestMission(t, groupID, uuid.New())
	m2 := newTestMission(t, groupID, uuid.New())
	other := newTestMission(t, uuid.New(), uuid.New())
	require.NoError(t, repo.Save(ctx, m1))
	require.NoError(t, repo.Save(ctx, m2))
	require.NoError(t, repo.Save(ctx, other))

	missions, err := repo.FindByGroup(ctx, groupID)
	require.NoError(t, err)
	assert.Len(t, missions, 2)
}

func TestGormMissionRepository_FindWithinBounds(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMissionRepository(db)
	ctx := context.Background()

	inside := newTestMission(t, uuid.New(), uuid.New())
	require.NoError(t, repo.Save(ctx, inside))

	outside, err := mission.NewMission(mission.NewMissionSpec{
		GroupID:   uuid.New(),
		CreatorID: uuid.New(),
		Name:      "Far away",
		Latitude:  48.85,
		Longitude: 2.35,
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, outside))

	missions, err := repo.FindWithinBounds(ctx, 37.0, 38.0, 126.5, 127.5)
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Equal(t, inside.ID, missions[0].ID)
}

func TestGormAssignmentRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAssignmentRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	missionID := uuid.New()

	t.Run("save batch and find by user", func(t *testing.T) {
		a1 := mission.NewAssignment(userID, missionID)
		a2 := mission.NewAssignment(uuid.New(), missionID)
		require.NoError(t, repo.SaveBatch(ctx, []*mission.Assignment{a1, a2}))

		assignments, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, missionID, assignments[0].MissionID)
		assert.False(t, assignments[0].LocationCheck)
	})

	t.Run("find by user and mission", func(t *testing.T) {
		a, err := repo.FindByUserAndMission(ctx, userID, missionID)
		require.NoError(t, err)
		assert.Equal(t, userID, a.UserID)

		_, err = repo.FindByUserAndMission(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("progress flags persist", func(t *testing.T) {
		a, err := repo.FindByUserAndMission(ctx, userID, missionID)
		require.NoError(t, err)
		require.True(t, a.CompleteLocationCheck())
		require.NoError(t, repo.Save(ctx, a))

		reloaded, err := repo.FindByUserAndMission(ctx, userID, missionID)
		require.NoError(t, err)
		assert.True(t, reloaded.LocationCheck)
		assert.False(t, reloaded.IsComplete)
	})

	t.Run("delete by mission removes every row", func(t *testing.T) {
		require.NoError(t, repo.DeleteByMission(ctx, missionID))

		assignments, err := repo.FindByMission(ctx, missionID)
		require.NoError(t, err)
		assert.Empty(t, assignments)
	})
}
