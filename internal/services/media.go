package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/funnel-builder-backend/internal/normalization"
	"github.com/yungbote/funnel-builder-backend/internal/platform/apierr"
	"github.com/yungbote/funnel-builder-backend/internal/platform/dbctx"
	"github.com/yungbote/funnel-builder-backend/internal/platform/gcp"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

// MaxMediaUploadBytes caps a single image upload.
const MaxMediaUploadBytes = 5 << 20

var mediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaStore is where library images live.
type MediaStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Keys(ctx context.Context) ([]string, error)
	PublicURL(key string) string
}

type MediaItem struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type MediaService interface {
	List(ctx context.Context) ([]MediaItem, error)
	Upload(ctx context.Context, filename string, r io.Reader) (*MediaItem, error)
}

type mediaService struct {
	log   *logger.Logger
	store MediaStore
}

func NewMediaService(log *logger.Logger, store MediaStore) MediaService {
	return &mediaService{log: log.With("service", "MediaService"), store: store}
}

func IsMediaKey(key string) bool {
	return mediaExtensions[strings.ToLower(path.Ext(key))]
}

func (s *mediaService) List(ctx context.Context) ([]MediaItem, error) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	out := make([]MediaItem, 0, len(keys))
	for _, key := range keys {
		if !IsMediaKey(key) {
			continue
		}
		out = append(out, MediaItem{Key: key, URL: s.store.PublicURL(key)})
	}
	return out, nil
}

func (s *mediaService) Upload(ctx context.Context, filename string, r io.Reader) (*MediaItem, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(filename))
	if !mediaExtensions[ext] {
		return nil, apierr.BadRequest("unsupported_media_type", fmt.Errorf("only jpg, jpeg, png, gif and webp images are accepted"))
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxMediaUploadBytes+1))
	if err != nil {
		return nil, apierr.BadRequest("upload_failed", err)
	}
	if len(data) == 0 {
		return nil, apierr.BadRequest("file_required", fmt.Errorf("no file uploaded"))
	}
	if len(data) > MaxMediaUploadBytes {
		return nil, apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", fmt.Errorf("images are limited to %d bytes", MaxMediaUploadBytes))
	}
	if ct := http.DetectContentType(data); !strings.HasPrefix(ct, "image/") {
		return nil, apierr.BadRequest("unsupported_media_type", fmt.Errorf("upload is %s, not an image", ct))
	}

	stem := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	key := uuid.NewString() + "-" + normalization.Slug(stem) + ext
	if err := s.store.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("store media: %w", err)
	}
	s.log.WithContext(ctx).Info("Media uploaded", "key", key, "bytes", len(data))
	return &MediaItem{Key: key, URL: s.store.PublicURL(key)}, nil
}

const gcsMediaPrefix = "media/"

type gcsMediaStore struct {
	bucket gcp.MediaBucket
}

// NewGCSMediaStore keeps library images under media/ in a GCS bucket.
func NewGCSMediaStore(bucket gcp.MediaBucket) MediaStore {
	return &gcsMediaStore{bucket: bucket}
}

func (g *gcsMediaStore) Put(ctx context.Context, key string, r io.Reader) error {
	return g.bucket.UploadFile(dbctx.Context{Ctx: ctx}, gcsMediaPrefix+key, r)
}

func (g *gcsMediaStore) Keys(ctx context.Context) ([]string, error) {
	names, err := g.bucket.ListKeys(ctx, gcsMediaPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.TrimPrefix(name, gcsMediaPrefix)
		if key == "" || strings.Contains(key, "/") {
			continue
		}
		out = append(out, key)
	}
	return out, nil
}

func (g *gcsMediaStore) PublicURL(key string) string {
	return g.bucket.GetPublicURL(gcsMediaPrefix + key)
}
