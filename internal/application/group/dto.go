package group

import (
	"time"

	"github.com/google/uuid"
)

// CreateGroupRequest represents a request to create a group
type CreateGroupRequest struct {
	Name     string `json:"groupName" binding:"required,max=12"`
	Note     string `json:"groupNote" binding:"max=30"`
	ImageURL string `json:"groupImgUrl"`
}

// UpdateGroupRequest represents a request to update a group
type UpdateGroupRequest struct {
	Name     string `json:"groupName" binding:"required,max=12"`
	Note     string `json:"groupNote" binding:"max=30"`
	ImageURL string `json:"groupImgUrl"`
}

// InviteRequest invites another user into a group
type InviteRequest struct {
	InviteeID uuid.UUID `json:"inviteeId" binding:"required"`
}

// MemberInfo is a group member in API responses
type MemberInfo struct {
	UserID          uuid.UUID `json:"userId"`
	Nickname        string    `json:"userName"`
	ProfileImageURL string    `json:"userImgUrl"`
	JoinedAt        time.Time `json:"joinedAt"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	GroupID     uuid.UUID    `json:"groupId"`
	Name        string       `json:"groupName"`
	Note        string       `json:"groupNote"`
	ImageURL    string       `json:"groupImgUrl"`
	CreatorID   uuid.UUID    `json:"groupCreateUserId"`
	MemberCount int          `json:"memberCount"`
	Starred     bool         `json:"isStarGroup"`
	CreatedAt   time.Time    `json:"createdAt"`
	Members     []MemberInfo `json:"members,omitempty"`
}

// StarResponse reports the starred flag after a toggle
type StarResponse struct {
	GroupID uuid.UUID `json:"groupId"`
	Starred bool      `json:"isStarGroup"`
}

// InviteResponse is a pending invite in API responses
type InviteResponse struct {
	InviteID    uuid.UUID `json:"inviteId"`
	GroupID     uuid.UUID `json:"groupId"`
	GroupName   string    `json:"groupName"`
	InviterID   uuid.UUID `json:"inviterId"`
	InviterName string    `json:"inviterName"`
	InvitedAt   time.Time `json:"invitedAt"`
}
