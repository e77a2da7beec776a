package gcp

import (
	"context"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/funnel-builder-backend/internal/platform/envutil"
)

// credentialOptions reads service account credentials from an inline JSON
// blob or a file path. With neither set the client uses ambient credentials.
func credentialOptions() []option.ClientOption {
	creds := envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	if creds == "" {
		creds = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", "")
	}
	switch {
	case creds == "":
		return nil
	case strings.HasPrefix(creds, "{"):
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	default:
		return []option.ClientOption{option.WithCredentialsFile(creds)}
	}
}

func newStorageClient(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.IsEmulatorMode() {
		// The storage client only honours the emulator through the environment.
		if err := os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost); err != nil {
			return nil, err
		}
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(credentialOptions(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}
