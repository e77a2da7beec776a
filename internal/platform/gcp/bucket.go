package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/yungbote/funnel-builder-backend/internal/platform/dbctx"
	"github.com/yungbote/funnel-builder-backend/internal/platform/envutil"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

const (
	uploadTimeout = 2 * time.Minute
	objectTimeout = 30 * time.Second
)

// MediaBucket stores media library objects in a single GCS bucket.
type MediaBucket interface {
	UploadFile(dbc dbctx.Context, key string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	GetPublicURL(key string) string
	Close() error
}

type MediaBucketConfig struct {
	Storage    ObjectStorageConfig
	BucketName string
	// PublicBaseURL overrides the host used in public object URLs.
	PublicBaseURL string
	CDNDomain     string
}

func MediaBucketConfigFromEnv(storageCfg ObjectStorageConfig) MediaBucketConfig {
	return MediaBucketConfig{
		Storage:       storageCfg,
		BucketName:    envutil.String("MEDIA_GCS_BUCKET_NAME", ""),
		PublicBaseURL: envutil.String("MEDIA_PUBLIC_BASE_URL", ""),
		CDNDomain:     envutil.String("MEDIA_CDN_DOMAIN", ""),
	}
}

type mediaBucket struct {
	log    *logger.Logger
	client *storage.Client
	name   string
	urls   publicURLs
}

func NewMediaBucket(log *logger.Logger, cfg MediaBucketConfig) (MediaBucket, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("missing env var MEDIA_GCS_BUCKET_NAME")
	}
	urls, err := newPublicURLs(cfg)
	if err != nil {
		return nil, err
	}
	client, err := newStorageClient(context.Background(), cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	b := &mediaBucket{
		log:    log.With("service", "MediaBucket"),
		client: client,
		name:   cfg.BucketName,
		urls:   urls,
	}
	b.log.Info(
		"Media bucket ready",
		"bucket", b.name,
		"mode", cfg.Storage.Mode,
		"mode_source", cfg.Storage.Source,
		"public_base_url", urls.baseURL,
		"public_base_source", urls.baseSource,
	)
	return b, nil
}

func (b *mediaBucket) object(key string) *storage.ObjectHandle {
	return b.client.Bucket(b.name).Object(key)
}

func (b *mediaBucket) UploadFile(dbc dbctx.Context, key string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(dbc.Ctx, uploadTimeout)
	defer cancel()

	w := b.object(key).NewWriter(ctx)
	w.ContentType = contentTypeForKey(key)
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gcs object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize gcs object %q: %w", key, err)
	}
	return nil
}

func (b *mediaBucket) DeleteFile(dbc dbctx.Context, key string) error {
	ctx, cancel := context.WithTimeout(dbc.Ctx, objectTimeout)
	defer cancel()
	if err := b.object(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete gcs object %q in bucket %q: %w", key, b.name, err)
	}
	return nil
}

// ListKeys returns object names under prefix in lexical order.
func (b *mediaBucket) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, objectTimeout)
	defer cancel()

	it := b.client.Bucket(b.name).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gcs objects under %q: %w", prefix, err)
		}
		out = append(out, attrs.Name)
	}
	sort.Strings(out)
	return out, nil
}

func (b *mediaBucket) GetPublicURL(key string) string {
	return b.urls.forObject(b.name, key)
}

func (b *mediaBucket) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}
