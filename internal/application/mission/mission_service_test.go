package mission

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/groupdiary/backend/internal/domain/group"
	"github.com/groupdiary/backend/internal/domain/identity"
	"github.com/groupdiary/backend/internal/domain/mission"
	"github.com/groupdiary/backend/internal/domain/shared"
	"github.com/groupdiary/backend/internal/domain/sticker"
)

// fixedNow is noon KST on 2023-03-15
var fixedNow = time.Date(2023, 3, 15, 3, 0, 0, 0, time.UTC)

type fakeMissionRepo struct {
	missions map[uuid.UUID]*mission.Mission
}

func newFakeMissionRepo() *fakeMissionRepo {
	return &fakeMissionRepo{missions: make(map[uuid.UUID]*mission.Mission)}
}

func (r *fakeMissionRepo) FindByID(_ context.Context, id uuid.UUID) (*mission.Mission, error) {
	m, ok := r.missions[id]
	if !ok || m.Deleted {
		return nil, shared.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMissionRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]mission.Mission, error) {
	out := make([]mission.Mission, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.missions[id]; ok && !m.Deleted {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMissionRepo) FindByGroup(_ context.Context, groupID uuid.UUID) ([]mission.Mission, error) {
	var out []mission.Mission
	for _, m := range r.missions {
		if m.GroupID == groupID && !m.Deleted {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMissionRepo) FindWithinBounds(_ context.Context, minLat, maxLat, minLon, maxLon float64) ([]mission.Mission, error) {
	var out []mission.Mission
	for _, m := range r.missions {
		if m.Deleted {
			continue
		}
		if m.Latitude >= minLat && m.Latitude <= maxLat && m.Longitude >= minLon && m.Longitude <= maxLon {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMissionRepo) Save(_ context.Context, m *mission.Mission) error {
	copied := *m
	r.missions[m.ID] = &copied
	return nil
}

type fakeAssignmentRepo struct {
	assignments map[uuid.UUID]*mission.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[uuid.UUID]*mission.Assignment)}
}

func (r *fakeAssignmentRepo) FindByUserAndMission(_ context.Context, userID, missionID uuid.UUID) (*mission.Assignment, error) {
	for _, a := range r.assignments {
		if a.UserID == userID && a.MissionID == missionID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAssignmentRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]mission.Assignment, error) {
	var out []mission.Assignment
	for _, a := range r.assignments {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) FindByMission(_ context.Context, missionID uuid.UUID) ([]mission.Assignment, error) {
	var out []mission.Assignment
	for _, a := range r.assignments {
		if a.MissionID == missionID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Save(_ context.Context, a *mission.Assignment) error {
	copied := *a
	r.assignments[a.ID] = &copied
	return nil
}

func (r *fakeAssignmentRepo) SaveBatch(ctx context.Context, as []*mission.Assignment) error {
	for _, a := range as {
		if err := r.Save(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) DeleteByMission(_ context.Context, missionID uuid.UUID) error {
	for id, a := range r.assignments {
		if a.MissionID == missionID {
			delete(r.assignments, id)
		}
	}
	return nil
}

type fakeGroupRepo struct {
	groups map[uuid.UUID]*group.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[uuid.UUID]*group.Group)}
}

func (r *fakeGroupRepo) FindByID(_ context.Context, id uuid.UUID) (*group.Group, error) {
	g, ok := r.groups[id]
	if !ok || g.Deleted {
		return nil, shared.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGroupRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]group.Group, error) {
	out := make([]group.Group, 0, len(ids))
	for _, id := range ids {
		if g, ok := r.groups[id]; ok && !g.Deleted {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) Save(_ context.Context, g *group.Group) error {
	copied := *g
	r.groups[g.ID] = &copied
	return nil
}

type fakeMemberRepo struct {
	members []group.Member
}

func (r *fakeMemberRepo) FindByGroupAndUser(_ context.Context, groupID, userID uuid.UUID) (*group.Member, error) {
	for i := range r.members {
		if r.members[i].GroupID == groupID && r.members[i].UserID == userID {
			copied := r.members[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMemberRepo) FindByGroup(_ context.Context, groupID uuid.UUID) ([]group.Member, error) {
	var out []group.Member
	for i := range r.members {
		if r.members[i].GroupID == groupID {
			out = append(out, r.members[i])
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]group.Member, error) {
	var out []group.Member
	for i := range r.members {
		if r.members[i].UserID == userID {
			out = append(out, r.members[i])
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) Exists(_ context.Context, groupID, userID uuid.UUID) (bool, error) {
	for i := range r.members {
		if r.members[i].GroupID == groupID && r.members[i].UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMemberRepo) Save(_ context.Context, m *group.Member) error {
	r.members = append(r.members, *m)
	return nil
}

func (r *fakeMemberRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.members {
		if r.members[i].ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeUserRepo struct {
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*identity.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]identity.User, error) {
	out := make([]identity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	for _, u := range r.users {
		if u.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *identity.User) error {
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

type fakeContentCreator struct {
	calls int
	err   error
}

func (c *fakeContentCreator) CreateForMission(_ context.Context, _, _ uuid.UUID, _ string, _ []MediaFile, _, _ float64, _ string) error {
	if c.err != nil {
		return c.err
	}
	c.calls++
	return nil
}

type fakeStickerAwarder struct {
	byLevel map[int]*sticker.Group
	awarded []int
}

func (s *fakeStickerAwarder) AwardForLevel(_ context.Context, _ uuid.UUID, mainLevel int) (*sticker.Group, error) {
	s.awarded = append(s.awarded, mainLevel)
	return s.byLevel[mainLevel], nil
}

type missionFixture struct {
	svc         *MissionService
	missionRepo *fakeMissionRepo
	assignRepo  *fakeAssignmentRepo
	groupRepo   *fakeGroupRepo
	memberRepo  *fakeMemberRepo
	userRepo    *fakeUserRepo
	contents    *fakeContentCreator
	stickers    *fakeStickerAwarder
	user        *identity.User
	other       *identity.User
	group       *group.Group
}

func newMissionFixture(t *testing.T) *missionFixture {
	t.Helper()

	f := &missionFixture{
		missionRepo: newFakeMissionRepo(),
		assignRepo:  newFakeAssignmentRepo(),
		groupRepo:   newFakeGroupRepo(),
		memberRepo:  &fakeMemberRepo{},
		userRepo:    newFakeUserRepo(),
		contents:    &fakeContentCreator{},
		stickers:    &fakeStickerAwarder{byLevel: make(map[int]*sticker.Group)},
	}

	var err error
	f.user, err = identity.NewUser("alice@example.com", "password123!", "alice")
	require.NoError(t, err)
	f.other, err = identity.NewUser("bob@example.com", "password123!", "bob")
	require.NoError(t, err)
	require.NoError(t, f.userRepo.Save(context.Background(), f.user))
	require.NoError(t, f.userRepo.Save(context.Background(), f.other))

	f.group, err = group.NewGroup(f.user.ID, "trip crew", "spring trip", "")
	require.NoError(t, err)
	require.NoError(t, f.groupRepo.Save(context.Background(), f.group))
	require.NoError(t, f.memberRepo.Save(context.Background(), group.NewMember(f.group.ID, f.user.ID)))
	require.NoError(t, f.memberRepo.Save(context.Background(), group.NewMember(f.group.ID, f.other.ID)))

	f.svc = NewMissionService(
		f.missionRepo, f.assignRepo, f.groupRepo, f.memberRepo, f.userRepo,
		f.contents, f.stickers, zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

// addMission stores a mission plus an assignment for the fixture user
func (f *missionFixture) addMission(t *testing.T, spec mission.NewMissionSpec) *mission.Mission {
	t.Helper()
	if spec.GroupID == uuid.Nil {
		spec.GroupID = f.group.ID
	}
	if spec.CreatorID == uuid.Nil {
		spec.CreatorID = f.user.ID
	}
	if spec.Name == "" {
		spec.Name = "visit the museum"
	}
	m, err := mission.NewMission(spec, fixedNow)
	require.NoError(t, err)
	require.NoError(t, f.missionRepo.Save(context.Background(), m))
	require.NoError(t, f.assignRepo.Save(context.Background(), mission.NewAssignment(f.user.ID, m.ID)))
	return m
}

func activeSpec() mission.NewMissionSpec {
	return mission.NewMissionSpec{
		ExistPeriod: true,
		StartDate:   time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2023, 3, 20, 0, 0, 0, 0, time.UTC),
		Latitude:    37.5, Longitude: 127.0,
	}
}

func readySpec() mission.NewMissionSpec {
	return mission.NewMissionSpec{
		ExistPeriod: true,
		StartDate:   time.Date(2023, 3, 20, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2023, 3, 25, 0, 0, 0, 0, time.UTC),
		Latitude:    37.5, Longitude: 127.0,
	}
}

func finishedSpec() mission.NewMissionSpec {
	return mission.NewMissionSpec{
		ExistPeriod: true,
		StartDate:   time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC),
		Latitude:    37.5, Longitude: 127.0,
	}
}

func TestMissionServiceCreate(t *testing.T) {
	t.Run("fans assignments out to every member", func(t *testing.T) {
		f := newMissionFixture(t)

		resp, err := f.svc.Create(context.Background(), f.user.ID, CreateMissionRequest{
			GroupID:   f.group.ID,
			Name:      "visit the museum",
			ExistPeriod: true,
			StartDate: "2023.03.10",
			EndDate:   "2023.03.20",
			Latitude:  37.5, Longitude: 127.0,
			Color: 2,
		})
		require.NoError(t, err)

		assert.Equal(t, "visit the museum", resp.Name)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Equal(t, "2023.03.10", resp.StartDate)
		assert.Equal(t, "2023.03.20", resp.EndDate)
		assert.Equal(t, 5, resp.DDay)
		assert.Equal(t, "trip crew", resp.GroupName)
		require.NotNil(t, resp.Assignment)
		assert.Equal(t, "alice", resp.Assignment.UserName)
		assert.False(t, resp.Assignment.LocationCheck)

		assignments, err := f.assignRepo.FindByMission(context.Background(), resp.MissionID)
		require.NoError(t, err)
		assert.Len(t, assignments, 2)
	})

	t.Run("mission without period starts ACTIVE with default D-day", func(t *testing.T) {
		f := newMissionFixture(t)

		resp, err := f.svc.Create(context.Background(), f.user.ID, CreateMissionRequest{
			GroupID:  f.group.ID,
			Name:     "daily walk",
			Latitude: 37.5, Longitude: 127.0,
		})
		require.NoError(t, err)

		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Equal(t, mission.DefaultRemainingDays, resp.DDay)
		assert.Equal(t, "", resp.StartDate)
		assert.Equal(t, "ing", resp.EndDate)
	})

	t.Run("unknown group", func(t *testing.T) {
		f := newMissionFixture(t)

		_, err := f.svc.Create(context.Background(), f.user.ID, CreateMissionRequest{
			GroupID: uuid.New(), Name: "x", Latitude: 37.5, Longitude: 127.0,
		})
		assert.ErrorIs(t, err, group.ErrGroupNotFound)
	})

	t.Run("non-member cannot create", func(t *testing.T) {
		f := newMissionFixture(t)
		stranger, err := identity.NewUser("eve@example.com", "password123!", "eve")
		require.NoError(t, err)
		require.NoError(t, f.userRepo.Save(context.Background(), stranger))

		_, err = f.svc.Create(context.Background(), stranger.ID, CreateMissionRequest{
			GroupID: f.group.ID, Name: "x", Latitude: 37.5, Longitude: 127.0,
		})
		assert.ErrorIs(t, err, group.ErrNotGroupMember)
	})

	t.Run("malformed period date", func(t *testing.T) {
		f := newMissionFixture(t)

		_, err := f.svc.Create(context.Background(), f.user.ID, CreateMissionRequest{
			GroupID: f.group.ID, Name: "x", ExistPeriod: true,
			StartDate: "2023-03-10", EndDate: "2023.03.20",
			Latitude: 37.5, Longitude: 127.0,
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestMissionServiceDelete(t *testing.T) {
	t.Run("creator deletes mission and assignments", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, activeSpec())

		require.NoError(t, f.svc.Delete(context.Background(), f.user.ID, m.ID))

		_, err := f.missionRepo.FindByID(context.Background(), m.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assignments, err := f.assignRepo.FindByMission(context.Background(), m.ID)
		require.NoError(t, err)
		assert.Empty(t, assignments)
	})

	t.Run("only the creator may delete", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, activeSpec())

		err := f.svc.Delete(context.Background(), f.other.ID, m.ID)
		assert.ErrorIs(t, err, mission.ErrNotMissionOwner)
	})

	t.Run("unknown mission", func(t *testing.T) {
		f := newMissionFixture(t)
		err := f.svc.Delete(context.Background(), f.user.ID, uuid.New())
		assert.ErrorIs(t, err, mission.ErrMissionNotFound)
	})
}

func TestMissionServiceCheckLocation(t *testing.T) {
	t.Run("within geofence marks location and advances sub level", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, activeSpec())

		// ~111m north of the target
		resp, err := f.svc.CheckLocation(context.Background(), f.user.ID, CheckLocationRequest{
			MissionID: m.ID, GroupID: f.group.ID,
			Latitude: 37.501, Longitude: 127.0,
		})
		require.NoError(t, err)

		assert.True(t, resp.LocationCheck)
		assert.False(t, resp.ContentCheck)
		assert.False(t, resp.IsComplete)
		assert.LessOrEqual(t, resp.Distance, mission.GeofenceRadiusMeters)

		user, err := f.userRepo.FindByID(context.Background(), f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, user.SubLevel)
	})

	t.Run("outside geofence reports distance without side effects", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, activeSpec())

		resp, err := f.svc.CheckLocation(context.Background(), f.user.ID, CheckLocationRequest{
			MissionID: m.ID, GroupID: f.group.ID,
			Latitude: 37.51, Longitude: 127.0,
		})
		require.NoError(t, err)

		assert.False(t, resp.LocationCheck)
		assert.Greater(t, resp.Distance, mission.GeofenceRadiusMeters)

		user, err := f.userRepo.FindByID(context.Background(), f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, user.SubLevel)
	})

	t.Run("repeat verification does not advance the level again", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, activeSpec())
		req := CheckLocationRequest{
			MissionID: m.ID, GroupID: f.group.ID,
			Latitude: 37.501, Longitude: 127.0,
		}

		_, err := f.svc.CheckLocation(context.Background(), f.user.ID, req)
		require.NoError(t, err)
		resp, err := f.svc.CheckLocation(context.Background(), f.user.ID, req)
		require.NoError(t, err)

		assert.True(t, resp.LocationCheck)
		user, err := f.userRepo.FindByID(context.Background(), f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, user.SubLevel)
	})

	t.Run("group without any assigned mission is rejected first", func(t *testing.T) {
		f := newMissionFixture(t)
		f.addMission(t, activeSpec())

		_, err := f.svc.CheckLocation(context.Background(), f.user.ID, CheckLocationRequest{
			MissionID: uuid.New(), GroupID: uuid.New(),
			Latitude: 37.5, Longitude: 127.0,
		})
		assert.ErrorIs(t, err, mission.ErrInvalidGroupMission)
	})

	t.Run("mission not assigned to the user", func(t *testing.T) {
		f := newMissionFixture(t)
		f.addMission(t, activeSpec())

		_, err := f.svc.CheckLocation(context.Background(), f.user.ID, CheckLocationRequest{
			MissionID: uuid.New(), GroupID: f.group.ID,
			Latitude: 37.5, Longitude: 127.0,
		})
		assert.ErrorIs(t, err, mission.ErrInvalidUserMission)
	})

	t.Run("mission outside its active window", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, readySpec())

		_, err := f.svc.CheckLocation(context.Background(), f.user.ID, CheckLocationRequest{
			MissionID: m.ID, GroupID: f.group.ID,
			Latitude: 37.5, Longitude: 127.0,
		})
		assert.ErrorIs(t, err, mission.ErrInvalidMissionPeriod)
	})
}

func TestMissionServiceCheckContent(t *testing.T) {
	verifyLocation := func(t *testing.T, f *missionFixture, m *mission.Mission) {
		t.Helper()
		_, err := f.svc.CheckLocation(context.Background(), f.user.ID, CheckLocationRequest{
			MissionID: m.ID, GroupID: f.group.ID,
			Latitude: 37.5, Longitude: 127.0,
		})
		require.NoError(t, err)
	}

	t.Run("completes the mission and advances the level", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, activeSpec())
		verifyLocation(t, f, m)

		resp, err := f.svc.CheckContent(context.Background(), f.user.ID, CheckContentRequest{
			MissionID: m.ID, Text: "made it!",
		})
		require.NoError(t, err)

		assert.True(t, resp.IsComplete)
		assert.Equal(t, 1, resp.MainLevel)
		assert.Equal(t, 2, resp.SubLevel)
		assert.False(t, resp.GotNewSticker)
		assert.Nil(t, resp.StickerGroupID)
		assert.Equal(t, 1, f.contents.calls)
	})

	t.Run("crossing the threshold awards the level sticker", func(t *testing.T) {
		f := newMissionFixture(t)
		grp, err := sticker.NewGroup(3, "gold badge", "https://cdn.example.com/gold.png")
		require.NoError(t, err)
		f.stickers.byLevel[3] = grp

		// each completed mission is two progress events, so the third
		// mission's content check is the sixth event and wraps the sub
		// level a second time
		var resp *CheckContentResponse
		for i := 0; i < 3; i++ {
			m := f.addMission(t, activeSpec())
			verifyLocation(t, f, m)
			resp, err = f.svc.CheckContent(context.Background(), f.user.ID, CheckContentRequest{MissionID: m.ID})
			require.NoError(t, err)
		}

		assert.Equal(t, 3, resp.MainLevel)
		assert.Equal(t, 0, resp.SubLevel)
		assert.True(t, resp.GotNewSticker)
		require.NotNil(t, resp.StickerGroupID)
		assert.Equal(t, grp.ID, *resp.StickerGroupID)
		assert.Equal(t, "gold badge", resp.StickerName)
	})

	t.Run("location verification is a prerequisite", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, activeSpec())

		_, err := f.svc.CheckContent(context.Background(), f.user.ID, CheckContentRequest{MissionID: m.ID})
		assert.ErrorIs(t, err, mission.ErrLocationNotChecked)
		assert.Equal(t, 0, f.contents.calls)
	})

	t.Run("completed mission cannot be verified twice", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, activeSpec())
		verifyLocation(t, f, m)

		_, err := f.svc.CheckContent(context.Background(), f.user.ID, CheckContentRequest{MissionID: m.ID})
		require.NoError(t, err)
		_, err = f.svc.CheckContent(context.Background(), f.user.ID, CheckContentRequest{MissionID: m.ID})
		assert.ErrorIs(t, err, mission.ErrAlreadyComplete)
	})

	t.Run("inactive mission is rejected", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, finishedSpec())

		_, err := f.svc.CheckContent(context.Background(), f.user.ID, CheckContentRequest{MissionID: m.ID})
		assert.ErrorIs(t, err, mission.ErrInvalidMissionPeriod)
	})
}

func TestMissionServiceListByStatus(t *testing.T) {
	t.Run("filters by derived status and sorts by D-day", func(t *testing.T) {
		f := newMissionFixture(t)
		far := activeSpec()
		far.EndDate = time.Date(2023, 3, 30, 0, 0, 0, 0, time.UTC)
		mFar := f.addMission(t, far)
		mNear := f.addMission(t, activeSpec())
		f.addMission(t, readySpec())
		f.addMission(t, finishedSpec())

		out, err := f.svc.ListByStatus(context.Background(), f.user.ID, mission.StatusCodeActive)
		require.NoError(t, err)

		require.Len(t, out, 2)
		assert.Equal(t, mNear.ID, out[0].MissionID)
		assert.Equal(t, mFar.ID, out[1].MissionID)
		assert.True(t, out[0].DDay <= out[1].DDay)
	})

	t.Run("code zero lists every incomplete assignment by D-day", func(t *testing.T) {
		f := newMissionFixture(t)
		mActive := f.addMission(t, activeSpec())
		mReady := f.addMission(t, readySpec())
		mFinished := f.addMission(t, finishedSpec())

		out, err := f.svc.ListByStatus(context.Background(), f.user.ID, mission.StatusCodeAll)
		require.NoError(t, err)

		// an expired but never-completed mission still shows up under ALL,
		// and its negative D-day sorts it first
		require.Len(t, out, 3)
		assert.Equal(t, mFinished.ID, out[0].MissionID)
		assert.Equal(t, mActive.ID, out[1].MissionID)
		assert.Equal(t, mReady.ID, out[2].MissionID)
		assert.Equal(t, string(mission.StatusFinish), out[0].Status)
	})

	t.Run("code zero still hides completed missions", func(t *testing.T) {
		f := newMissionFixture(t)
		done := f.addMission(t, activeSpec())
		pending := f.addMission(t, readySpec())

		_, err := f.svc.CheckLocation(context.Background(), f.user.ID, CheckLocationRequest{
			MissionID: done.ID, GroupID: f.group.ID, Latitude: 37.5, Longitude: 127.0,
		})
		require.NoError(t, err)
		_, err = f.svc.CheckContent(context.Background(), f.user.ID, CheckContentRequest{MissionID: done.ID})
		require.NoError(t, err)

		out, err := f.svc.ListByStatus(context.Background(), f.user.ID, mission.StatusCodeAll)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, pending.ID, out[0].MissionID)
	})

	t.Run("completed missions are excluded", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, activeSpec())
		_, err := f.svc.CheckLocation(context.Background(), f.user.ID, CheckLocationRequest{
			MissionID: m.ID, GroupID: f.group.ID, Latitude: 37.5, Longitude: 127.0,
		})
		require.NoError(t, err)
		_, err = f.svc.CheckContent(context.Background(), f.user.ID, CheckContentRequest{MissionID: m.ID})
		require.NoError(t, err)

		out, err := f.svc.ListByStatus(context.Background(), f.user.ID, mission.StatusCodeActive)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("unknown status code", func(t *testing.T) {
		f := newMissionFixture(t)
		_, err := f.svc.ListByStatus(context.Background(), f.user.ID, 9)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestMissionServiceListByGroup(t *testing.T) {
	t.Run("caps the summary at four missions", func(t *testing.T) {
		f := newMissionFixture(t)
		for i := 0; i < 6; i++ {
			f.addMission(t, activeSpec())
		}
		f.addMission(t, finishedSpec())

		out, err := f.svc.ListByGroup(context.Background(), f.user.ID, f.group.ID)
		require.NoError(t, err)
		assert.Len(t, out, groupMissionListLimit)
	})

	t.Run("skips missions the requester already completed", func(t *testing.T) {
		f := newMissionFixture(t)
		done := f.addMission(t, activeSpec())
		pending := f.addMission(t, readySpec())

		_, err := f.svc.CheckLocation(context.Background(), f.user.ID, CheckLocationRequest{
			MissionID: done.ID, GroupID: f.group.ID, Latitude: 37.5, Longitude: 127.0,
		})
		require.NoError(t, err)
		_, err = f.svc.CheckContent(context.Background(), f.user.ID, CheckContentRequest{MissionID: done.ID})
		require.NoError(t, err)

		out, err := f.svc.ListByGroup(context.Background(), f.user.ID, f.group.ID)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, pending.ID, out[0].MissionID)
	})

	t.Run("requires membership", func(t *testing.T) {
		f := newMissionFixture(t)
		stranger, err := identity.NewUser("eve@example.com", "password123!", "eve")
		require.NoError(t, err)
		require.NoError(t, f.userRepo.Save(context.Background(), stranger))

		_, err = f.svc.ListByGroup(context.Background(), stranger.ID, f.group.ID)
		assert.ErrorIs(t, err, group.ErrNotGroupMember)
	})
}

func TestMissionServiceListByMap(t *testing.T) {
	t.Run("returns assigned incomplete missions inside the box", func(t *testing.T) {
		f := newMissionFixture(t)
		inside := f.addMission(t, activeSpec())
		outside := activeSpec()
		outside.Latitude, outside.Longitude = 35.0, 128.0
		f.addMission(t, outside)

		// corners given in reverse order on purpose
		out, err := f.svc.ListByMap(context.Background(), f.user.ID, MapBoundsRequest{
			StartLatitude: 38.0, StartLongitude: 127.5,
			EndLatitude: 37.0, EndLongitude: 126.5,
		})
		require.NoError(t, err)

		require.Len(t, out, 1)
		assert.Equal(t, inside.ID, out[0].MissionID)
	})

	t.Run("excludes missions assigned to nobody", func(t *testing.T) {
		f := newMissionFixture(t)
		spec := activeSpec()
		spec.GroupID = f.group.ID
		spec.CreatorID = f.other.ID
		spec.Name = "bob only"
		m, err := mission.NewMission(spec, fixedNow)
		require.NoError(t, err)
		require.NoError(t, f.missionRepo.Save(context.Background(), m))

		out, err := f.svc.ListByMap(context.Background(), f.user.ID, MapBoundsRequest{
			StartLatitude: 37.0, StartLongitude: 126.5,
			EndLatitude: 38.0, EndLongitude: 127.5,
		})
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestMissionServiceListCompleted(t *testing.T) {
	f := newMissionFixture(t)
	done := f.addMission(t, activeSpec())
	f.addMission(t, activeSpec())

	_, err := f.svc.CheckLocation(context.Background(), f.user.ID, CheckLocationRequest{
		MissionID: done.ID, GroupID: f.group.ID, Latitude: 37.5, Longitude: 127.0,
	})
	require.NoError(t, err)
	_, err = f.svc.CheckContent(context.Background(), f.user.ID, CheckContentRequest{MissionID: done.ID})
	require.NoError(t, err)

	out, err := f.svc.ListCompleted(context.Background(), f.user.ID)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, done.ID, out[0].MissionID)
	require.NotNil(t, out[0].Assignment)
	assert.True(t, out[0].Assignment.IsComplete)
}

func TestMissionServiceGet(t *testing.T) {
	t.Run("returns the mission with the user's progress", func(t *testing.T) {
		f := newMissionFixture(t)
		m := f.addMission(t, activeSpec())

		resp, err := f.svc.Get(context.Background(), f.user.ID, m.ID)
		require.NoError(t, err)

		assert.Equal(t, m.ID, resp.MissionID)
		assert.Equal(t, "alice", resp.CreatorName)
		require.NotNil(t, resp.Assignment)
	})

	t.Run("unassigned user is rejected", func(t *testing.T) {
		f := newMissionFixture(t)
		spec := activeSpec()
		spec.GroupID = f.group.ID
		spec.CreatorID = f.other.ID
		spec.Name = "bob only"
		m, err := mission.NewMission(spec, fixedNow)
		require.NoError(t, err)
		require.NoError(t, f.missionRepo.Save(context.Background(), m))

		_, err = f.svc.Get(context.Background(), f.user.ID, m.ID)
		assert.ErrorIs(t, err, mission.ErrInvalidUserMission)
	})
}
