package sticker

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupdiary/backend/internal/domain/shared"
	"github.com/groupdiary/backend/internal/domain/sticker"
)

// StickerService manages the sticker catalog and per-user acquisitions.
type StickerService struct {
	groupRepo   sticker.GroupRepository
	stickerRepo sticker.StickerRepository
	logger      *zap.Logger
}

// NewStickerService creates a new sticker service
func NewStickerService(groupRepo sticker.GroupRepository, stickerRepo sticker.StickerRepository, logger *zap.Logger) *StickerService {
	return &StickerService{
		groupRepo:   groupRepo,
		stickerRepo: stickerRepo,
		logger:      logger,
	}
}

// AwardForLevel issues the sticker unlocked at mainLevel to the user.
// Levels without a catalog entry are not reward-eligible; those return
// (nil, nil). Awarding is idempotent: a sticker the user already holds
// is not issued twice.
func (s *StickerService) AwardForLevel(ctx context.Context, userID uuid.UUID, mainLevel int) (*sticker.Group, error) {
	grp, err := s.groupRepo.FindByLevel(ctx, mainLevel)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	held, err := s.stickerRepo.Exists(ctx, userID, grp.ID)
	if err != nil {
		return nil, err
	}
	if held {
		return grp, nil
	}

	st := sticker.NewSticker(userID, grp.ID)
	if err := s.stickerRepo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info("sticker awarded",
		zap.String("user_id", userID.String()),
		zap.String("sticker_group", grp.Name),
		zap.Int("level", mainLevel))

	return grp, nil
}

// RegisterGroup adds a sticker design to the catalog at the given level.
func (s *StickerService) RegisterGroup(ctx context.Context, req RegisterStickerGroupRequest) (*StickerGroupResponse, error) {
	if _, err := s.groupRepo.FindByLevel(ctx, req.Level); err == nil {
		return nil, shared.ErrAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	grp, err := sticker.NewGroup(req.Level, req.Name, req.ThumbnailURL)
	if err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, grp); err != nil {
		return nil, err
	}
	return toStickerGroupResponse(grp), nil
}

// Catalog returns every sticker design ordered by unlock level.
func (s *StickerService) Catalog(ctx context.Context) ([]StickerGroupResponse, error) {
	groups, err := s.groupRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StickerGroupResponse, len(groups))
	for i := range groups {
		out[i] = *toStickerGroupResponse(&groups[i])
	}
	return out, nil
}

// UserStickers returns the stickers a user has earned, newest first.
func (s *StickerService) UserStickers(ctx context.Context, userID uuid.UUID) ([]UserStickerResponse, error) {
	stickers, err := s.stickerRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*sticker.Group)
	groups, err := s.groupRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		byID[groups[i].ID] = &groups[i]
	}

	out := make([]UserStickerResponse, 0, len(stickers))
	for i := range stickers {
		grp, ok := byID[stickers[i].StickerGroupID]
		if !ok {
			continue
		}
		out = append(out, UserStickerResponse{
			StickerID:    stickers[i].ID,
			GroupID:      grp.ID,
			Name:         grp.Name,
			Level:        grp.Level,
			ThumbnailURL: grp.ThumbnailURL,
			AcquiredAt:   stickers[i].CreatedAt,
		})
	}
	return out, nil
}
