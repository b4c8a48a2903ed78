package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	missionapp "github.com/groupdiary/backend/internal/application/mission"
	"github.com/groupdiary/backend/internal/domain/content"
	"github.com/groupdiary/backend/internal/domain/group"
	"github.com/groupdiary/backend/internal/domain/identity"
	"github.com/groupdiary/backend/internal/domain/shared"
)

// ErrImageUploadFailed is returned when storing an attached image fails
var ErrImageUploadFailed = shared.NewDomainError("IMAGE_UPLOAD_FAILED", "Failed to upload image")

// ErrImageTooLarge is returned when an attached image exceeds the upload limit
var ErrImageTooLarge = shared.NewDomainError("IMAGE_TOO_LARGE", "Image exceeds the upload size limit")

// defaultMaxUploadSize caps a single image when no limit is configured
const defaultMaxUploadSize = 5 << 20

// ObjectStorage stores uploaded image bytes under a key
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, storageKey string) error
}

// ContentService handles diary post use cases
type ContentService struct {
	contents      content.ContentRepository
	images        content.ImageRepository
	emotions      content.EmotionRepository
	comments      content.CommentRepository
	commentLikes  content.CommentLikeRepository
	bookmarks     content.BookmarkRepository
	members       group.MemberRepository
	users         identity.UserRepository
	storage       ObjectStorage
	publicBaseURL string
	maxUploadSize int64
	logger        *zap.Logger
}

// ContentServiceOption configures a ContentService
type ContentServiceOption func(*ContentService)

// WithMaxUploadSize overrides the per-image upload size limit
func WithMaxUploadSize(maxBytes int64) ContentServiceOption {
	return func(s *ContentService) {
		if maxBytes > 0 {
			s.maxUploadSize = maxBytes
		}
	}
}

// NewContentService creates a content service
func NewContentService(
	contents content.ContentRepository,
	images content.ImageRepository,
	emotions content.EmotionRepository,
	comments content.CommentRepository,
	commentLikes content.CommentLikeRepository,
	bookmarks content.BookmarkRepository,
	members group.MemberRepository,
	users identity.UserRepository,
	storage ObjectStorage,
	publicBaseURL string,
	logger *zap.Logger,
	opts ...ContentServiceOption,
) *ContentService {
	s := &ContentService{
		contents:      contents,
		images:        images,
		emotions:      emotions,
		comments:      comments,
		commentLikes:  commentLikes,
		bookmarks:     bookmarks,
		members:       members,
		users:         users,
		storage:       storage,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		maxUploadSize: defaultMaxUploadSize,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create publishes a new post in a group the user belongs to
func (s *ContentService) Create(ctx context.Context, userID uuid.UUID, req CreateContentRequest) (*ContentResponse, error) {
	if err := s.requireMembership(ctx, req.GroupID, userID); err != nil {
		return nil, err
	}

	c, err := content.NewContent(userID, req.GroupID, req.Text, req.Latitude, req.Longitude, req.LocationName)
	if err != nil {
		return nil, err
	}
	if err := s.contents.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save content: %w", err)
	}

	urls, err := s.storeImages(ctx, c.ID, req.Media)
	if err != nil {
		return nil, err
	}

	s.logger.Info("content created",
		zap.String("content_id", c.ID.String()),
		zap.String("group_id", req.GroupID.String()),
		zap.Int("images", len(urls)))

	return s.toResponse(ctx, c, userID)
}

// CreateForMission publishes the post that backs a mission content
// verification. The mission service has already validated membership.
func (s *ContentService) CreateForMission(ctx context.Context, userID, groupID uuid.UUID, text string, media []missionapp.MediaFile, lat, lon float64, locationName string) error {
	c, err := content.NewContent(userID, groupID, text, lat, lon, locationName)
	if err != nil {
		return err
	}
	if err := s.contents.Save(ctx, c); err != nil {
		return fmt.Errorf("failed to save content: %w", err)
	}

	files := make([]UploadFile, 0, len(media))
	for _, m := range media {
		data, err := io.ReadAll(m.Body)
		if err != nil {
			return ErrImageUploadFailed
		}
		files = append(files, UploadFile{FileName: m.FileName, ContentType: m.ContentType, Data: data})
	}
	_, err = s.storeImages(ctx, c.ID, files)
	return err
}

// Get returns a post with its images and social state, recording a view
func (s *ContentService) Get(ctx context.Context, contentID, userID uuid.UUID) (*ContentResponse, error) {
	c, err := s.findContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, c.GroupID, userID); err != nil {
		return nil, err
	}

	c.RecordView()
	if err := s.contents.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}

	return s.toResponse(ctx, c, userID)
}

// Update edits a post. Only the author may edit.
func (s *ContentService) Update(ctx context.Context, contentID, userID uuid.UUID, req UpdateContentRequest) (*ContentResponse, error) {
	c, err := s.findContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if !c.IsAuthoredBy(userID) {
		return nil, content.ErrNotContentOwner
	}

	if err := c.Update(req.Text, req.Latitude, req.Longitude, req.LocationName); err != nil {
		return nil, err
	}
	if err := s.contents.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	return s.toResponse(ctx, c, userID)
}

// Delete soft-deletes a post. Only the author may delete.
func (s *ContentService) Delete(ctx context.Context, contentID, userID uuid.UUID) error {
	c, err := s.findContent(ctx, contentID)
	if err != nil {
		return err
	}
	if !c.IsAuthoredBy(userID) {
		return content.ErrNotContentOwner
	}

	c.MarkDeleted()
	if err := s.contents.Save(ctx, c); err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}

	s.logger.Info("content deleted", zap.String("content_id", contentID.String()))
	return nil
}

// ListByGroup returns a group's feed, newest first
func (s *ContentService) ListByGroup(ctx context.Context, groupID, userID uuid.UUID, filter shared.Filter) ([]ContentResponse, error) {
	if err := s.requireMembership(ctx, groupID, userID); err != nil {
		return nil, err
	}

	posts, err := s.contents.FindByGroup(ctx, groupID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	return s.toResponses(ctx, posts, userID)
}

// ListByMap returns posts inside the bounding box across the user's groups
func (s *ContentService) ListByMap(ctx context.Context, userID uuid.UUID, req MapBoundsRequest) ([]ContentResponse, error) {
	memberships, err := s.members.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}
	if len(memberships) == 0 {
		return []ContentResponse{}, nil
	}

	groupIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	minLat, maxLat, minLon, maxLon := req.Normalize()
	posts, err := s.contents.FindWithinBounds(ctx, groupIDs, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("failed to query map contents: %w", err)
	}
	return s.toResponses(ctx, posts, userID)
}

// ListBookmarked returns the user's bookmarked posts, newest bookmark first
func (s *ContentService) ListBookmarked(ctx context.Context, userID uuid.UUID) ([]ContentResponse, error) {
	marks, err := s.bookmarks.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	sort.SliceStable(marks, func(i, j int) bool {
		return marks[i].UpdatedAt.After(marks[j].UpdatedAt)
	})

	out := make([]ContentResponse, 0, len(marks))
	for _, b := range marks {
		c, err := s.contents.FindByID(ctx, b.ContentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load bookmarked content: %w", err)
		}
		resp, err := s.toResponse(ctx, c, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// ToggleEmotion applies, replaces, or removes the user's emotion on a post
func (s *ContentService) ToggleEmotion(ctx context.Context, contentID, userID uuid.UUID, req EmotionRequest) (*EmotionResponse, error) {
	c, err := s.findContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, c.GroupID, userID); err != nil {
		return nil, err
	}

	e, err := s.emotions.FindByContentAndUser(ctx, contentID, userID)
	switch {
	case err == nil:
		e.Apply(req.Kind)
	case errors.Is(err, shared.ErrNotFound):
		e = content.NewEmotion(contentID, userID, req.Kind)
	default:
		return nil, fmt.Errorf("failed to load emotion: %w", err)
	}

	if err := s.emotions.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save emotion: %w", err)
	}

	return &EmotionResponse{ContentID: contentID, Kind: e.Kind, Active: e.Active}, nil
}

// AddComment adds a comment to a post
func (s *ContentService) AddComment(ctx context.Context, contentID, userID uuid.UUID, req CommentRequest) (*CommentResponse, error) {
	c, err := s.findContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, c.GroupID, userID); err != nil {
		return nil, err
	}

	cm, err := content.NewComment(contentID, userID, req.Text)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Save(ctx, cm); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	return s.toCommentResponse(ctx, cm, userID)
}

// ListComments returns a post's comments, oldest first
func (s *ContentService) ListComments(ctx context.Context, contentID, userID uuid.UUID, filter shared.Filter) ([]CommentResponse, error) {
	c, err := s.findContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, c.GroupID, userID); err != nil {
		return nil, err
	}

	list, err := s.comments.FindByContent(ctx, contentID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	out := make([]CommentResponse, 0, len(list))
	for i := range list {
		resp, err := s.toCommentResponse(ctx, &list[i], userID)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// DeleteComment soft-deletes a comment. Only the author may delete.
func (s *ContentService) DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error {
	cm, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return content.ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}
	if cm.UserID != userID {
		return content.ErrNotContentOwner
	}

	cm.MarkDeleted()
	if err := s.comments.Save(ctx, cm); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ToggleCommentLike flips the user's like on a comment
func (s *ContentService) ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (*ToggleResponse, error) {
	if _, err := s.comments.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, content.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	l, err := s.commentLikes.FindByCommentAndUser(ctx, commentID, userID)
	switch {
	case err == nil:
		l.Toggle()
	case errors.Is(err, shared.ErrNotFound):
		l = content.NewCommentLike(commentID, userID)
	default:
		return nil, fmt.Errorf("failed to load like: %w", err)
	}

	if err := s.commentLikes.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save like: %w", err)
	}
	return &ToggleResponse{TargetID: commentID, Active: l.Active}, nil
}

// ToggleBookmark flips the user's bookmark on a post
func (s *ContentService) ToggleBookmark(ctx context.Context, contentID, userID uuid.UUID) (*ToggleResponse, error) {
	if _, err := s.findContent(ctx, contentID); err != nil {
		return nil, err
	}

	b, err := s.bookmarks.FindByContentAndUser(ctx, contentID, userID)
	switch {
	case err == nil:
		b.Toggle()
	case errors.Is(err, shared.ErrNotFound):
		b = content.NewBookmark(contentID, userID)
	default:
		return nil, fmt.Errorf("failed to load bookmark: %w", err)
	}

	if err := s.bookmarks.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}
	return &ToggleResponse{TargetID: contentID, Active: b.Active}, nil
}

func (s *ContentService) findContent(ctx context.Context, contentID uuid.UUID) (*content.Content, error) {
	c, err := s.contents.FindByID(ctx, contentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, content.ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to find content: %w", err)
	}
	return c, nil
}

func (s *ContentService) requireMembership(ctx context.Context, groupID, userID uuid.UUID) error {
	ok, err := s.members.Exists(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return group.ErrNotGroupMember
	}
	return nil
}

// storeImages uploads the files and records image rows, returning client URLs
func (s *ContentService) storeImages(ctx context.Context, contentID uuid.UUID, files []UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, len(files))
	records := make([]*content.Image, 0, len(files))
	for i, f := range files {
		if int64(len(f.Data)) > s.maxUploadSize {
			return nil, ErrImageTooLarge
		}
		key := fmt.Sprintf("contents/%s/%d%s", contentID, i, path.Ext(f.FileName))
		if err := s.storage.Upload(ctx, key, f.Data, f.ContentType); err != nil {
			s.logger.Error("image upload failed",
				zap.String("content_id", contentID.String()),
				zap.String("key", key),
				zap.Error(err))
			return nil, ErrImageUploadFailed
		}
		url := s.publicBaseURL + "/" + key
		urls = append(urls, url)
		records = append(records, content.NewImage(contentID, url, i))
	}

	if err := s.images.SaveBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save images: %w", err)
	}
	return urls, nil
}

func (s *ContentService) toResponses(ctx context.Context, posts []content.Content, viewerID uuid.UUID) ([]ContentResponse, error) {
	out := make([]ContentResponse, 0, len(posts))
	for i := range posts {
		resp, err := s.toResponse(ctx, &posts[i], viewerID)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *ContentService) toResponse(ctx context.Context, c *content.Content, viewerID uuid.UUID) (*ContentResponse, error) {
	resp := &ContentResponse{
		ContentID:    c.ID,
		GroupID:      c.GroupID,
		AuthorID:     c.UserID,
		Text:         c.Text,
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		LocationName: c.LocationName,
		Views:        c.Views,
		ImageURLs:    []string{},
		CreatedAt:    c.CreatedAt,
	}

	if author, err := s.users.FindByID(ctx, c.UserID); err == nil {
		resp.AuthorName = author.Nickname
		resp.AuthorImageURL = author.ProfileImageURL
	}

	images, err := s.images.FindByContent(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	for _, img := range images {
		resp.ImageURLs = append(resp.ImageURLs, img.URL)
	}

	emotions, err := s.emotions.FindActiveByContent(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load emotions: %w", err)
	}
	resp.EmotionCount = len(emotions)
	for _, e := range emotions {
		if e.UserID == viewerID {
			resp.MyEmotion = e.Kind
		}
	}

	comments, err := s.comments.FindByContent(ctx, c.ID, shared.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	resp.CommentCount = int64(len(comments))

	if b, err := s.bookmarks.FindByContentAndUser(ctx, c.ID, viewerID); err == nil {
		resp.BookmarkedByMe = b.Active
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to load bookmark: %w", err)
	}

	return resp, nil
}

func (s *ContentService) toCommentResponse(ctx context.Context, cm *content.Comment, viewerID uuid.UUID) (*CommentResponse, error) {
	resp := &CommentResponse{
		CommentID: cm.ID,
		ContentID: cm.ContentID,
		AuthorID:  cm.UserID,
		Text:      cm.Text,
		CreatedAt: cm.CreatedAt,
	}

	if author, err := s.users.FindByID(ctx, cm.UserID); err == nil {
		resp.AuthorName = author.Nickname
		resp.AuthorImageURL = author.ProfileImageURL
	}

	count, err := s.commentLikes.CountActiveByComment(ctx, cm.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	resp.LikeCount = count

	if l, err := s.commentLikes.FindByCommentAndUser(ctx, cm.ID, viewerID); err == nil {
		resp.LikedByMe = l.Active
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to load like: %w", err)
	}

	return resp, nil
}

var _ missionapp.ContentCreator = (*ContentService)(nil)
