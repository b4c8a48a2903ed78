package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groupdiary/backend/internal/domain/identity"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// UserService handles profile management
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns a user's profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}

	info := toUserInfo(user)
	return &info, nil
}

// UpdateProfile updates a user's nickname and profile image
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}

	if input.Nickname != "" && input.Nickname != user.Nickname {
		taken, err := s.userRepo.ExistsByNickname(ctx, input.Nickname)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, identity.ErrDuplicateNickname
		}
		if err := user.SetNickname(input.Nickname); err != nil {
			return nil, err
		}
	}
	if input.ProfileImageURL != "" {
		user.SetProfileImageURL(input.ProfileImageURL)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", zap.String("user_id", user.ID.String()))

	info := toUserInfo(user)
	return &info, nil
}

// DeleteAccount removes a user account
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("account deleted", zap.String("user_id", userID.String()))
	return nil
}
