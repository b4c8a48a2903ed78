// Package integration wires the full application stack against an in-memory
// database for end-to-end flow testing.
package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	contentapp "github.com/groupdiary/backend/internal/application/content"
	groupapp "github.com/groupdiary/backend/internal/application/group"
	identityapp "github.com/groupdiary/backend/internal/application/identity"
	missionapp "github.com/groupdiary/backend/internal/application/mission"
	stickerapp "github.com/groupdiary/backend/internal/application/sticker"
	"github.com/groupdiary/backend/internal/domain/content"
	"github.com/groupdiary/backend/internal/domain/group"
	"github.com/groupdiary/backend/internal/domain/identity"
	"github.com/groupdiary/backend/internal/domain/mission"
	"github.com/groupdiary/backend/internal/domain/sticker"
	"github.com/groupdiary/backend/internal/infrastructure/auth"
	"github.com/groupdiary/backend/internal/infrastructure/config"
	"github.com/groupdiary/backend/internal/infrastructure/persistence"
	"github.com/groupdiary/backend/internal/infrastructure/storage"
)

// TestEnv holds the fully wired service stack backed by a fresh database
type TestEnv struct {
	DB       *gorm.DB
	Storage  *storage.MemoryObjectStorage
	Auth     *identityapp.AuthService
	Users    *identityapp.UserService
	Groups   *groupapp.GroupService
	Contents *contentapp.ContentService
	Missions *missionapp.MissionService
	Stickers *stickerapp.StickerService
}

// NewTestEnv builds the whole application stack on an in-memory SQLite
// database with in-process token and object stores.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&identity.User{},
		&group.Group{},
		&group.Member{},
		&group.Invite{},
		&mission.Mission{},
		&mission.Assignment{},
		&content.Content{},
		&content.Image{},
		&content.Emotion{},
		&content.Comment{},
		&content.CommentLike{},
		&content.Bookmark{},
		&sticker.Group{},
		&sticker.Sticker{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	log := zap.NewNop()
	objects := storage.NewMemoryObjectStorage()

	userRepo := persistence.NewGormUserRepository(db)
	groupRepo := persistence.NewGormGroupRepository(db)
	memberRepo := persistence.NewGormMemberRepository(db)
	inviteRepo := persistence.NewGormInviteRepository(db)
	missionRepo := persistence.NewGormMissionRepository(db)
	assignmentRepo := persistence.NewGormAssignmentRepository(db)
	contentRepo := persistence.NewGormContentRepository(db)
	imageRepo := persistence.NewGormImageRepository(db)
	emotionRepo := persistence.NewGormEmotionRepository(db)
	commentRepo := persistence.NewGormCommentRepository(db)
	commentLikeRepo := persistence.NewGormCommentLikeRepository(db)
	bookmarkRepo := persistence.NewGormBookmarkRepository(db)
	stickerGroupRepo := persistence.NewGormStickerGroupRepository(db)
	stickerRepo := persistence.NewGormStickerRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret-key-1234567890",
		RefreshSecret:          "integration-test-refresh-secret-key",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "groupdiary-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	groupService := groupapp.NewGroupService(groupRepo, memberRepo, inviteRepo, userRepo, log)
	stickerService := stickerapp.NewStickerService(stickerGroupRepo, stickerRepo, log)
	contentService := contentapp.NewContentService(
		contentRepo, imageRepo, emotionRepo, commentRepo, commentLikeRepo, bookmarkRepo,
		memberRepo, userRepo, objects, "https://cdn.test.example.com", log,
	)
	missionService := missionapp.NewMissionService(
		missionRepo, assignmentRepo, groupRepo, memberRepo, userRepo,
		contentService, stickerService, log,
		missionapp.WithTransactor(persistence.NewTxManager(db)),
	)

	return &TestEnv{
		DB:       db,
		Storage:  objects,
		Auth:     authService,
		Users:    userService,
		Groups:   groupService,
		Contents: contentService,
		Missions: missionService,
		Stickers: stickerService,
	}
}

// RegisterUser registers a user and returns their ID info
func (e *TestEnv) RegisterUser(t *testing.T, email, nickname string) identityapp.UserInfo {
	t.Helper()

	result, err := e.Auth.Register(context.Background(), identityapp.RegisterInput{
		Email:    email,
		Password: "Password123!",
		Nickname: nickname,
	})
	require.NoError(t, err)
	return result.User
}
