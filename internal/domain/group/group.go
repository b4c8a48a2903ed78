package group

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// Name and note length limits, matching the client-side constraints
const (
	maxNameLength = 12
	maxNoteLength = 30
)

// Domain errors for the group context
var (
	ErrGroupNotFound      = shared.NewDomainError("GROUP_NOT_FOUND", "Group does not exist")
	ErrNotGroupOwner      = shared.NewDomainError("NOT_GROUP_OWNER", "Only the group owner may perform this action")
	ErrAlreadyGroupMember = shared.NewDomainError("ALREADY_GROUP_MEMBER", "User is already a member of this group")
	ErrNotGroupMember     = shared.NewDomainError("NOT_GROUP_MEMBER", "User is not a member of this group")
	ErrInviteNotFound     = shared.NewDomainError("INVITE_NOT_FOUND", "Invite does not exist")
)

// Group represents a diary group. Members post content and complete missions
// inside a group. Deletion is a state transition checked by every read path.
type Group struct {
	shared.BaseEntity
	Name      string    `gorm:"type:varchar(12);not null"`
	Note      string    `gorm:"type:varchar(30)"`
	ImageURL  string    `gorm:"type:text"`
	CreatorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Deleted   bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Group) TableName() string {
	return "groups"
}

// NewGroup creates a new group owned by the creator
func NewGroup(creatorID uuid.UUID, name, note, imageURL string) (*Group, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateNote(note); err != nil {
		return nil, err
	}

	return &Group{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Note:       note,
		ImageURL:   imageURL,
		CreatorID:  creatorID,
	}, nil
}

// Update updates the group's basic information
func (g *Group) Update(name, note, imageURL string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateNote(note); err != nil {
		return err
	}

	g.Name = strings.TrimSpace(name)
	g.Note = note
	g.ImageURL = imageURL
	g.UpdatedAt = time.Now()
	return nil
}

// MarkDeleted soft-deletes the group
func (g *Group) MarkDeleted() {
	g.Deleted = true
	g.UpdatedAt = time.Now()
}

// IsOwnedBy returns true if the user created the group
func (g *Group) IsOwnedBy(userID uuid.UUID) bool {
	return g.CreatorID == userID
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot be empty")
	}
	if len([]rune(name)) > maxNameLength {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot exceed 12 characters")
	}
	return nil
}

func validateNote(note string) error {
	if len([]rune(note)) > maxNoteLength {
		return shared.NewDomainError("INVALID_GROUP_NOTE", "Group note cannot exceed 30 characters")
	}
	return nil
}
