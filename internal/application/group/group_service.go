package group

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupdiary/backend/internal/domain/group"
	"github.com/groupdiary/backend/internal/domain/identity"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// GroupService handles group lifecycle and membership
type GroupService struct {
	groupRepo  group.GroupRepository
	memberRepo group.MemberRepository
	inviteRepo group.InviteRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewGroupService creates a new group service
func NewGroupService(
	groupRepo group.GroupRepository,
	memberRepo group.MemberRepository,
	inviteRepo group.InviteRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *GroupService {
	return &GroupService{
		groupRepo:  groupRepo,
		memberRepo: memberRepo,
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Create registers a group and enrolls the creator as its first member
func (s *GroupService) Create(ctx context.Context, userID uuid.UUID, req CreateGroupRequest) (*GroupResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}

	g, err := group.NewGroup(userID, req.Name, req.Note, req.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, g); err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, group.NewMember(g.ID, userID)); err != nil {
		return nil, err
	}

	s.logger.Info("group created",
		zap.String("group_id", g.ID.String()),
		zap.String("creator_id", userID.String()))

	return s.toResponse(ctx, g, userID, false)
}

// Get returns a group with its member list. Only members may look inside.
func (s *GroupService) Get(ctx context.Context, userID, groupID uuid.UUID) (*GroupResponse, error) {
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	isMember, err := s.memberRepo.Exists(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, group.ErrNotGroupMember
	}
	return s.toResponse(ctx, g, userID, true)
}

// List returns every group the user belongs to, starred groups first
func (s *GroupService) List(ctx context.Context, userID uuid.UUID) ([]GroupResponse, error) {
	memberships, err := s.memberRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(memberships))
	starred := make(map[uuid.UUID]bool, len(memberships))
	for i := range memberships {
		ids = append(ids, memberships[i].GroupID)
		starred[memberships[i].GroupID] = memberships[i].Starred
	}

	groups, err := s.groupRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		members, err := s.memberRepo.FindByGroup(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, GroupResponse{
			GroupID:     groups[i].ID,
			Name:        groups[i].Name,
			Note:        groups[i].Note,
			ImageURL:    groups[i].ImageURL,
			CreatorID:   groups[i].CreatorID,
			MemberCount: len(members),
			Starred:     starred[groups[i].ID],
			CreatedAt:   groups[i].CreatedAt,
		})
	}

	// Starred groups surface first, then newest
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Starred != out[j].Starred {
			return out[i].Starred
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update modifies a group's basic information. Creator only.
func (s *GroupService) Update(ctx context.Context, userID, groupID uuid.UUID, req UpdateGroupRequest) (*GroupResponse, error) {
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !g.IsOwnedBy(userID) {
		return nil, group.ErrNotGroupOwner
	}
	if err := g.Update(req.Name, req.Note, req.ImageURL); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, g); err != nil {
		return nil, err
	}

	s.logger.Info("group updated", zap.String("group_id", groupID.String()))
	return s.toResponse(ctx, g, userID, false)
}

// Delete soft-deletes a group. Creator only.
func (s *GroupService) Delete(ctx context.Context, userID, groupID uuid.UUID) error {
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.IsOwnedBy(userID) {
		return group.ErrNotGroupOwner
	}

	g.MarkDeleted()
	if err := s.groupRepo.Save(ctx, g); err != nil {
		return err
	}

	s.logger.Info("group deleted", zap.String("group_id", groupID.String()))
	return nil
}

// Join enrolls the user into a group
func (s *GroupService) Join(ctx context.Context, userID, groupID uuid.UUID) error {
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}

	isMember, err := s.memberRepo.Exists(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return group.ErrAlreadyGroupMember
	}

	if err := s.memberRepo.Save(ctx, group.NewMember(groupID, userID)); err != nil {
		return err
	}

	s.logger.Info("user joined group",
		zap.String("group_id", groupID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

// Leave removes the user's membership. The creator cannot leave their own
// group, they delete it instead.
func (s *GroupService) Leave(ctx context.Context, userID, groupID uuid.UUID) error {
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if g.IsOwnedBy(userID) {
		return group.ErrNotGroupMember
	}

	member, err := s.memberRepo.FindByGroupAndUser(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return group.ErrNotGroupMember
		}
		return err
	}
	if err := s.memberRepo.Delete(ctx, member.ID); err != nil {
		return err
	}

	s.logger.Info("user left group",
		zap.String("group_id", groupID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

// ToggleStar flips the user's favorite flag for a group
func (s *GroupService) ToggleStar(ctx context.Context, userID, groupID uuid.UUID) (*StarResponse, error) {
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.FindByGroupAndUser(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, group.ErrNotGroupMember
		}
		return nil, err
	}

	starred := member.ToggleStar()
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}

	return &StarResponse{GroupID: groupID, Starred: starred}, nil
}

// Invite asks another user into a group. Inviter must be a member.
func (s *GroupService) Invite(ctx context.Context, userID, groupID uuid.UUID, req InviteRequest) error {
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}

	isMember, err := s.memberRepo.Exists(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return group.ErrNotGroupMember
	}

	if _, err := s.userRepo.FindByID(ctx, req.InviteeID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.ErrUserNotFound
		}
		return err
	}

	alreadyIn, err := s.memberRepo.Exists(ctx, groupID, req.InviteeID)
	if err != nil {
		return err
	}
	if alreadyIn {
		return group.ErrAlreadyGroupMember
	}

	if err := s.inviteRepo.Save(ctx, group.NewInvite(groupID, userID, req.InviteeID)); err != nil {
		return err
	}

	s.logger.Info("group invite sent",
		zap.String("group_id", groupID.String()),
		zap.String("invitee_id", req.InviteeID.String()))
	return nil
}

// ListInvites returns the user's pending invites
func (s *GroupService) ListInvites(ctx context.Context, userID uuid.UUID) ([]InviteResponse, error) {
	invites, err := s.inviteRepo.FindPendingByInvitee(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]InviteResponse, 0, len(invites))
	for i := range invites {
		resp := InviteResponse{
			InviteID:  invites[i].ID,
			GroupID:   invites[i].GroupID,
			InviterID: invites[i].InviterID,
			InvitedAt: invites[i].CreatedAt,
		}
		if g, err := s.groupRepo.FindByID(ctx, invites[i].GroupID); err == nil {
			resp.GroupName = g.Name
		}
		if u, err := s.userRepo.FindByID(ctx, invites[i].InviterID); err == nil {
			resp.InviterName = u.Nickname
		}
		out = append(out, resp)
	}
	return out, nil
}

// AcceptInvite resolves a pending invite and enrolls the invitee
func (s *GroupService) AcceptInvite(ctx context.Context, userID, inviteID uuid.UUID) error {
	inv, err := s.findOwnInvite(ctx, userID, inviteID)
	if err != nil {
		return err
	}
	if err := inv.Accept(); err != nil {
		return err
	}
	if err := s.inviteRepo.Save(ctx, inv); err != nil {
		return err
	}
	return s.Join(ctx, userID, inv.GroupID)
}

// RejectInvite resolves a pending invite without joining
func (s *GroupService) RejectInvite(ctx context.Context, userID, inviteID uuid.UUID) error {
	inv, err := s.findOwnInvite(ctx, userID, inviteID)
	if err != nil {
		return err
	}
	if err := inv.Reject(); err != nil {
		return err
	}
	return s.inviteRepo.Save(ctx, inv)
}

func (s *GroupService) findGroup(ctx context.Context, groupID uuid.UUID) (*group.Group, error) {
	g, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, group.ErrGroupNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *GroupService) findOwnInvite(ctx context.Context, userID, inviteID uuid.UUID) (*group.Invite, error) {
	inv, err := s.inviteRepo.FindByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, group.ErrInviteNotFound
		}
		return nil, err
	}
	if inv.InviteeID != userID {
		return nil, group.ErrInviteNotFound
	}
	return inv, nil
}

func (s *GroupService) toResponse(ctx context.Context, g *group.Group, userID uuid.UUID, withMembers bool) (*GroupResponse, error) {
	members, err := s.memberRepo.FindByGroup(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	resp := &GroupResponse{
		GroupID:     g.ID,
		Name:        g.Name,
		Note:        g.Note,
		ImageURL:    g.ImageURL,
		CreatorID:   g.CreatorID,
		MemberCount: len(members),
		CreatedAt:   g.CreatedAt,
	}

	for i := range members {
		if members[i].UserID == userID {
			resp.Starred = members[i].Starred
		}
	}

	if withMembers {
		ids := make([]uuid.UUID, 0, len(members))
		for i := range members {
			ids = append(ids, members[i].UserID)
		}
		users, err := s.userRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]*identity.User, len(users))
		for i := range users {
			byID[users[i].ID] = &users[i]
		}
		for i := range members {
			info := MemberInfo{UserID: members[i].UserID, JoinedAt: members[i].CreatedAt}
			if u, ok := byID[members[i].UserID]; ok {
				info.Nickname = u.Nickname
				info.ProfileImageURL = u.ProfileImageURL
			}
			resp.Members = append(resp.Members, info)
		}
	}
	return resp, nil
}
