package mission

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupdiary/backend/internal/domain/group"
	"github.com/groupdiary/backend/internal/domain/identity"
	"github.com/groupdiary/backend/internal/domain/mission"
	"github.com/groupdiary/backend/internal/domain/shared"
	"github.com/groupdiary/backend/internal/domain/sticker"
)

// groupMissionListLimit caps the per-group mission summary
const groupMissionListLimit = 4

// ContentCreator publishes the diary post that backs a content verification
type ContentCreator interface {
	CreateForMission(ctx context.Context, userID, groupID uuid.UUID, text string, media []MediaFile, lat, lon float64, locationName string) error
}

// StickerAwarder issues the sticker unlocked at a main level, returning nil
// when the level carries no reward
type StickerAwarder interface {
	AwardForLevel(ctx context.Context, userID uuid.UUID, mainLevel int) (*sticker.Group, error)
}

// Transactor runs fn atomically; repository calls made with the context fn
// receives share one transaction
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noopTransactor struct{}

func (noopTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MissionService handles mission lifecycle, verification and listing
type MissionService struct {
	missionRepo    mission.MissionRepository
	assignmentRepo mission.AssignmentRepository
	groupRepo      group.GroupRepository
	memberRepo     group.MemberRepository
	userRepo       identity.UserRepository
	contents       ContentCreator
	stickers       StickerAwarder
	tx             Transactor
	logger         *zap.Logger
	now            func() time.Time
}

// MissionServiceOption configures a MissionService
type MissionServiceOption func(*MissionService)

// WithClock overrides the service's time source
func WithClock(now func() time.Time) MissionServiceOption {
	return func(s *MissionService) {
		s.now = now
	}
}

// WithTransactor makes verification writes run inside one transaction
func WithTransactor(tx Transactor) MissionServiceOption {
	return func(s *MissionService) {
		s.tx = tx
	}
}

// NewMissionService creates a new mission service
func NewMissionService(
	missionRepo mission.MissionRepository,
	assignmentRepo mission.AssignmentRepository,
	groupRepo group.GroupRepository,
	memberRepo group.MemberRepository,
	userRepo identity.UserRepository,
	contents ContentCreator,
	stickers StickerAwarder,
	logger *zap.Logger,
	opts ...MissionServiceOption,
) *MissionService {
	s := &MissionService{
		missionRepo:    missionRepo,
		assignmentRepo: assignmentRepo,
		groupRepo:      groupRepo,
		memberRepo:     memberRepo,
		userRepo:       userRepo,
		contents:       contents,
		stickers:       stickers,
		tx:             noopTransactor{},
		logger:         logger,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a mission and fans an assignment out to every current
// member of the group, the creator included.
func (s *MissionService) Create(ctx context.Context, userID uuid.UUID, req CreateMissionRequest) (*MissionResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}

	grp, err := s.groupRepo.FindByID(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, group.ErrGroupNotFound
		}
		return nil, err
	}

	isMember, err := s.memberRepo.Exists(ctx, grp.ID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, group.ErrNotGroupMember
	}

	spec := mission.NewMissionSpec{
		GroupID:         grp.ID,
		CreatorID:       userID,
		Name:            req.Name,
		Note:            req.Note,
		ExistPeriod:     req.ExistPeriod,
		LocationName:    req.LocationName,
		LocationAddress: req.LocationAddress,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Color:           req.Color,
	}
	if req.ExistPeriod {
		start, err := time.Parse(missionDateLayout, req.StartDate)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		end, err := time.Parse(missionDateLayout, req.EndDate)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		spec.StartDate = start
		spec.EndDate = end
	}

	now := s.now()
	m, err := mission.NewMission(spec, now)
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.FindByGroup(ctx, grp.ID)
	if err != nil {
		return nil, err
	}
	assignments := make([]*mission.Assignment, 0, len(members))
	var own *mission.Assignment
	for i := range members {
		a := mission.NewAssignment(members[i].UserID, m.ID)
		if members[i].UserID == userID {
			own = a
		}
		assignments = append(assignments, a)
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.missionRepo.Save(ctx, m); err != nil {
			return err
		}
		return s.assignmentRepo.SaveBatch(ctx, assignments)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("mission created",
		zap.String("mission_id", m.ID.String()),
		zap.String("group_id", grp.ID.String()),
		zap.Int("assignments", len(assignments)))

	resp := s.toResponse(m, user, grp, own, user.Nickname, now)
	return &resp, nil
}

// Delete soft-deletes a mission and removes every member's assignment.
// Only the creator may delete.
func (s *MissionService) Delete(ctx context.Context, userID, missionID uuid.UUID) error {
	m, err := s.missionRepo.FindByID(ctx, missionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return mission.ErrMissionNotFound
		}
		return err
	}
	if !m.IsCreatedBy(userID) {
		return mission.ErrNotMissionOwner
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.assignmentRepo.DeleteByMission(ctx, missionID); err != nil {
			return err
		}
		m.MarkDeleted()
		return s.missionRepo.Save(ctx, m)
	})
	if err != nil {
		return err
	}

	s.logger.Info("mission deleted", zap.String("mission_id", missionID.String()))
	return nil
}

// CheckLocation verifies that the user is within the mission's geofence.
// A verification inside the fence on an ACTIVE mission marks the assignment's
// location flag and advances the user's sub level; repeat verifications and
// out-of-range attempts leave all state untouched but still report the
// measured distance.
func (s *MissionService) CheckLocation(ctx context.Context, userID uuid.UUID, req CheckLocationRequest) (*CheckLocationResponse, error) {
	assignments, err := s.assignmentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	missionIDs := make([]uuid.UUID, 0, len(assignments))
	for i := range assignments {
		missionIDs = append(missionIDs, assignments[i].MissionID)
	}
	assigned, err := s.missionRepo.FindByIDs(ctx, missionIDs)
	if err != nil {
		return nil, err
	}

	inGroup := false
	hasMission := false
	for i := range assigned {
		if assigned[i].GroupID == req.GroupID {
			inGroup = true
		}
		if assigned[i].ID == req.MissionID {
			hasMission = true
		}
	}
	if !inGroup {
		return nil, mission.ErrInvalidGroupMission
	}
	if !hasMission {
		return nil, mission.ErrInvalidUserMission
	}

	m, err := s.missionRepo.FindByID(ctx, req.MissionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, mission.ErrMissionNotFound
		}
		return nil, err
	}

	now := s.now()
	if m.CurrentStatus(now) != mission.StatusActive {
		return nil, mission.ErrInvalidMissionPeriod
	}

	assignment, err := s.assignmentRepo.FindByUserAndMission(ctx, userID, req.MissionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, mission.ErrInvalidUserMission
		}
		return nil, err
	}

	distance := m.DistanceFrom(req.Latitude, req.Longitude)
	if mission.WithinGeofence(distance) && assignment.CompleteLocationCheck() {
		err = s.tx.InTx(ctx, func(ctx context.Context) error {
			if err := s.assignmentRepo.Save(ctx, assignment); err != nil {
				return err
			}
			return s.advanceLevel(ctx, userID)
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info("mission location verified",
			zap.String("mission_id", m.ID.String()),
			zap.String("user_id", userID.String()),
			zap.Int("distance_m", int(distance)))
	}

	return &CheckLocationResponse{
		MissionID:     m.ID,
		Distance:      int(distance),
		LocationCheck: assignment.LocationCheck,
		ContentCheck:  assignment.ContentCheck,
		IsComplete:    assignment.IsComplete,
	}, nil
}

// CheckContent verifies a mission by publishing a diary post. Location
// verification is a strict prerequisite, and a completed mission cannot be
// verified twice. On completion the user's sub level advances, and crossing
// the level-up threshold awards the sticker for the new main level when one
// exists.
func (s *MissionService) CheckContent(ctx context.Context, userID uuid.UUID, req CheckContentRequest) (*CheckContentResponse, error) {
	m, err := s.missionRepo.FindByID(ctx, req.MissionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, mission.ErrMissionNotFound
		}
		return nil, err
	}

	now := s.now()
	if m.CurrentStatus(now) != mission.StatusActive {
		return nil, mission.ErrInvalidMissionPeriod
	}

	assignment, err := s.assignmentRepo.FindByUserAndMission(ctx, userID, req.MissionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, mission.ErrInvalidUserMission
		}
		return nil, err
	}
	if !assignment.LocationCheck {
		return nil, mission.ErrLocationNotChecked
	}
	if assignment.IsComplete {
		return nil, mission.ErrAlreadyComplete
	}

	if err := s.contents.CreateForMission(ctx, userID, m.GroupID, req.Text, req.Media, m.Latitude, m.Longitude, m.LocationName); err != nil {
		return nil, err
	}

	if err := assignment.CompleteContentCheck(); err != nil {
		return nil, err
	}

	var (
		user      *identity.User
		leveledUp bool
		award     *sticker.Group
	)
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.assignmentRepo.Save(ctx, assignment); err != nil {
			return err
		}
		user, err = s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		leveledUp = user.AddProgress()
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
		if leveledUp {
			award, err = s.stickers.AwardForLevel(ctx, userID, user.MainLevel)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &CheckContentResponse{
		MissionID:     m.ID,
		LocationCheck: assignment.LocationCheck,
		ContentCheck:  assignment.ContentCheck,
		IsComplete:    assignment.IsComplete,
		MainLevel:     user.MainLevel,
		SubLevel:      user.SubLevel,
	}
	if award != nil {
		resp.GotNewSticker = true
		resp.StickerGroupID = &award.ID
		resp.StickerName = award.Name
	}

	s.logger.Info("mission completed",
		zap.String("mission_id", m.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Bool("leveled_up", leveledUp))

	return resp, nil
}

// Get returns a single mission with the requesting user's progress
func (s *MissionService) Get(ctx context.Context, userID, missionID uuid.UUID) (*MissionResponse, error) {
	m, err := s.missionRepo.FindByID(ctx, missionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, mission.ErrMissionNotFound
		}
		return nil, err
	}
	assignment, err := s.assignmentRepo.FindByUserAndMission(ctx, userID, missionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, mission.ErrInvalidUserMission
		}
		return nil, err
	}

	responses, err := s.buildResponses(ctx, userID, []mission.Mission{*m}, map[uuid.UUID]*mission.Assignment{m.ID: assignment}, s.now())
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// ListByStatus returns the user's incomplete missions filtered by status
// code. Code 0 selects every incomplete assignment regardless of status;
// the per-status filters re-derive status against the clock, so a mission
// whose end date passed since creation drops out of READY and ACTIVE.
// Completed missions never appear here.
func (s *MissionService) ListByStatus(ctx context.Context, userID uuid.UUID, statusCode int) ([]MissionResponse, error) {
	want, ok := mission.StatusFromCode(statusCode)
	if !ok && statusCode != mission.StatusCodeAll {
		return nil, shared.ErrInvalidInput
	}

	missions, byMission, err := s.assignedMissions(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if statusCode == mission.StatusCodeAll {
		return s.buildResponses(ctx, userID, missions, byMission, now)
	}

	return s.buildResponses(ctx, userID, filterByStatus(missions, want, now), byMission, now)
}

// ListByGroup returns up to four of a group's upcoming and running missions
// that the requester has not yet completed
func (s *MissionService) ListByGroup(ctx context.Context, userID, groupID uuid.UUID) ([]MissionResponse, error) {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, group.ErrGroupNotFound
		}
		return nil, err
	}
	isMember, err := s.memberRepo.Exists(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, group.ErrNotGroupMember
	}

	missions, err := s.missionRepo.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	kept := make([]mission.Mission, 0, len(missions))
	for i := range missions {
		st := missions[i].CurrentStatus(now)
		if st == mission.StatusReady || st == mission.StatusActive {
			kept = append(kept, missions[i])
		}
	}

	byMission, err := s.assignmentsFor(ctx, userID, kept)
	if err != nil {
		return nil, err
	}

	// the requester's finished missions stay out of the summary
	pending := make([]mission.Mission, 0, len(kept))
	for i := range kept {
		if a := byMission[kept[i].ID]; a != nil && a.IsComplete {
			continue
		}
		pending = append(pending, kept[i])
	}

	responses, err := s.buildResponses(ctx, userID, pending, byMission, now)
	if err != nil {
		return nil, err
	}
	if len(responses) > groupMissionListLimit {
		responses = responses[:groupMissionListLimit]
	}
	return responses, nil
}

// ListByMap returns the user's incomplete READY and ACTIVE missions whose
// target location falls inside the map bounds
func (s *MissionService) ListByMap(ctx context.Context, userID uuid.UUID, req MapBoundsRequest) ([]MissionResponse, error) {
	minLat, maxLat, minLon, maxLon := req.Normalize()
	inBounds, err := s.missionRepo.FindWithinBounds(ctx, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byMission := make(map[uuid.UUID]*mission.Assignment, len(assignments))
	for i := range assignments {
		if !assignments[i].IsComplete {
			byMission[assignments[i].MissionID] = &assignments[i]
		}
	}

	now := s.now()
	kept := make([]mission.Mission, 0, len(inBounds))
	for i := range inBounds {
		if _, ok := byMission[inBounds[i].ID]; !ok {
			continue
		}
		st := inBounds[i].CurrentStatus(now)
		if st == mission.StatusReady || st == mission.StatusActive {
			kept = append(kept, inBounds[i])
		}
	}

	return s.buildResponses(ctx, userID, kept, byMission, now)
}

// ListCompleted returns the missions the user has fully completed
func (s *MissionService) ListCompleted(ctx context.Context, userID uuid.UUID) ([]MissionResponse, error) {
	missions, byMission, err := s.assignedMissions(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	return s.buildResponses(ctx, userID, missions, byMission, s.now())
}

// assignedMissions loads the user's assignments filtered by completion and
// resolves their missions. Soft-deleted missions drop out here.
func (s *MissionService) assignedMissions(ctx context.Context, userID uuid.UUID, complete bool) ([]mission.Mission, map[uuid.UUID]*mission.Assignment, error) {
	assignments, err := s.assignmentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	byMission := make(map[uuid.UUID]*mission.Assignment, len(assignments))
	ids := make([]uuid.UUID, 0, len(assignments))
	for i := range assignments {
		if assignments[i].IsComplete != complete {
			continue
		}
		byMission[assignments[i].MissionID] = &assignments[i]
		ids = append(ids, assignments[i].MissionID)
	}

	missions, err := s.missionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return missions, byMission, nil
}

// assignmentsFor loads the user's assignments for the given missions
func (s *MissionService) assignmentsFor(ctx context.Context, userID uuid.UUID, missions []mission.Mission) (map[uuid.UUID]*mission.Assignment, error) {
	assignments, err := s.assignmentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	wanted := make(map[uuid.UUID]bool, len(missions))
	for i := range missions {
		wanted[missions[i].ID] = true
	}
	byMission := make(map[uuid.UUID]*mission.Assignment, len(missions))
	for i := range assignments {
		if wanted[assignments[i].MissionID] {
			byMission[assignments[i].MissionID] = &assignments[i]
		}
	}
	return byMission, nil
}

// buildResponses maps missions to responses, batch-loading creators and
// groups, and sorts ascending by D-day
func (s *MissionService) buildResponses(ctx context.Context, userID uuid.UUID, missions []mission.Mission, byMission map[uuid.UUID]*mission.Assignment, now time.Time) ([]MissionResponse, error) {
	if len(missions) == 0 {
		return []MissionResponse{}, nil
	}

	requester, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	creatorIDs := make([]uuid.UUID, 0, len(missions))
	groupIDs := make([]uuid.UUID, 0, len(missions))
	seenCreator := make(map[uuid.UUID]bool)
	seenGroup := make(map[uuid.UUID]bool)
	for i := range missions {
		if !seenCreator[missions[i].CreatorID] {
			seenCreator[missions[i].CreatorID] = true
			creatorIDs = append(creatorIDs, missions[i].CreatorID)
		}
		if !seenGroup[missions[i].GroupID] {
			seenGroup[missions[i].GroupID] = true
			groupIDs = append(groupIDs, missions[i].GroupID)
		}
	}

	creators, err := s.userRepo.FindByIDs(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}
	creatorByID := make(map[uuid.UUID]*identity.User, len(creators))
	for i := range creators {
		creatorByID[creators[i].ID] = &creators[i]
	}

	groups, err := s.groupRepo.FindByIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	groupByID := make(map[uuid.UUID]*group.Group, len(groups))
	for i := range groups {
		groupByID[groups[i].ID] = &groups[i]
	}

	out := make([]MissionResponse, 0, len(missions))
	for i := range missions {
		m := &missions[i]
		out = append(out, s.toResponse(m, creatorByID[m.CreatorID], groupByID[m.GroupID], byMission[m.ID], requester.Nickname, now))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DDay < out[j].DDay
	})
	return out, nil
}

func (s *MissionService) toResponse(m *mission.Mission, creator *identity.User, grp *group.Group, assignment *mission.Assignment, requesterName string, now time.Time) MissionResponse {
	status := m.CurrentStatus(now)
	resp := MissionResponse{
		MissionID:       m.ID,
		Name:            m.Name,
		Note:            m.Note,
		CreatorID:       m.CreatorID,
		GroupID:         m.GroupID,
		ExistPeriod:     m.ExistPeriod,
		StartDate:       formatMissionDate(m.StartDate),
		EndDate:         formatMissionEndDate(m.EndDate),
		Status:          string(status),
		StatusCode:      status.Code(),
		LocationName:    m.LocationName,
		LocationAddress: m.LocationAddress,
		Latitude:        m.Latitude,
		Longitude:       m.Longitude,
		DDay:            m.RemainingDays(now),
		Color:           m.Color,
		Assignment:      toAssignmentInfo(assignment, requesterName),
	}
	if creator != nil {
		resp.CreatorName = creator.Nickname
		resp.CreatorImageURL = creator.ProfileImageURL
	}
	if grp != nil {
		resp.GroupName = grp.Name
		resp.GroupImageURL = grp.ImageURL
	}
	return resp
}

func (s *MissionService) advanceLevel(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	leveledUp := user.AddProgress()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	if leveledUp {
		if _, err := s.stickers.AwardForLevel(ctx, userID, user.MainLevel); err != nil {
			return err
		}
	}
	return nil
}

func filterByStatus(missions []mission.Mission, want mission.Status, now time.Time) []mission.Mission {
	out := make([]mission.Mission, 0, len(missions))
	for i := range missions {
		if missions[i].CurrentStatus(now) == want {
			out = append(out, missions[i])
		}
	}
	return out
}
