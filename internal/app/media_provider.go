package app

import (
	"errors"
	"fmt"

	"github.com/yungbote/funnel-builder-backend/internal/platform/gcp"
	"github.com/yungbote/funnel-builder-backend/internal/platform/localmedia"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
	"github.com/yungbote/funnel-builder-backend/internal/services"
)

var newMediaBucket = gcp.NewMediaBucket

type MediaProviderBootstrapErrorCode string

const (
	MediaProviderBootstrapErrorInvalidMode         MediaProviderBootstrapErrorCode = "invalid_mode"
	MediaProviderBootstrapErrorMissingEmulatorHost MediaProviderBootstrapErrorCode = "missing_emulator_host"
	MediaProviderBootstrapErrorInvalidEmulatorHost MediaProviderBootstrapErrorCode = "invalid_emulator_host"
	MediaProviderBootstrapErrorConnectFailed       MediaProviderBootstrapErrorCode = "connect_failed"
)

type MediaProviderBootstrapError struct {
	Code  MediaProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *MediaProviderBootstrapError) Error() string {
	if e == nil {
		return "media storage bootstrap failed"
	}
	return fmt.Sprintf("media storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *MediaProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// mediaProvider is the selected media backend. local is set only for the
// directory store, whose files the router serves under /media.
type mediaProvider struct {
	store  services.MediaStore
	local  *localmedia.Store
	bucket gcp.MediaBucket
}

func (p mediaProvider) Close() error {
	if p.bucket != nil {
		return p.bucket.Close()
	}
	return nil
}

func resolveMediaProvider(log *logger.Logger, cfg Config) (mediaProvider, error) {
	if cfg.MediaStorageMode == "" || cfg.MediaStorageMode == MediaStorageLocal {
		store, err := localmedia.NewStore(log, cfg.MediaDir, "/media")
		if err != nil {
			return mediaProvider{}, &MediaProviderBootstrapError{
				Code:  MediaProviderBootstrapErrorConnectFailed,
				Mode:  MediaStorageLocal,
				Cause: err,
			}
		}
		log.Info("Selecting media provider", "mode", MediaStorageLocal, "dir", store.Dir())
		return mediaProvider{store: store, local: store}, nil
	}

	storageCfg, err := gcp.ResolveObjectStorageConfig(cfg.MediaStorageMode, cfg.StorageEmulatorHost)
	if err != nil {
		classified := classifyMediaProviderBootstrapError(cfg.MediaStorageMode, err)
		log.Error("Media provider selection failed", "mode", cfg.MediaStorageMode, "error", classified)
		return mediaProvider{}, classified
	}
	log.Info(
		"Selecting media provider",
		"mode", storageCfg.Mode,
		"mode_source", storageCfg.Source,
		"emulator_host", storageCfg.EmulatorHost,
	)

	bucket, err := newMediaBucket(log, gcp.MediaBucketConfigFromEnv(storageCfg))
	if err != nil {
		classified := classifyMediaProviderBootstrapError(string(storageCfg.Mode), err)
		log.Error("Media provider bootstrap failed", "mode", storageCfg.Mode, "error", classified)
		return mediaProvider{}, classified
	}
	return mediaProvider{store: services.NewGCSMediaStore(bucket), bucket: bucket}, nil
}

func classifyMediaProviderBootstrapError(mode string, err error) error {
	code := MediaProviderBootstrapErrorConnectFailed
	switch {
	case errors.Is(err, gcp.ErrInvalidStorageMode):
		code = MediaProviderBootstrapErrorInvalidMode
	case errors.Is(err, gcp.ErrMissingEmulatorHost):
		code = MediaProviderBootstrapErrorMissingEmulatorHost
	case errors.Is(err, gcp.ErrInvalidEmulatorHost):
		code = MediaProviderBootstrapErrorInvalidEmulatorHost
	}
	return &MediaProviderBootstrapError{Code: code, Mode: mode, Cause: err}
}
