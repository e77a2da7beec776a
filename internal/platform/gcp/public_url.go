package gcp

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// publicURLs builds browser-facing object URLs. Precedence: CDN domain, the
// emulator media endpoint, MEDIA_PUBLIC_BASE_URL, then storage.googleapis.com.
type publicURLs struct {
	cdnDomain  string
	emulator   bool
	baseURL    string
	baseSource string
}

func newPublicURLs(cfg MediaBucketConfig) (publicURLs, error) {
	base, source, err := resolvePublicBaseURL(cfg.PublicBaseURL, cfg.Storage)
	if err != nil {
		return publicURLs{}, err
	}
	return publicURLs{
		cdnDomain:  strings.TrimSpace(cfg.CDNDomain),
		emulator:   cfg.Storage.IsEmulatorMode(),
		baseURL:    base,
		baseSource: source,
	}, nil
}

func resolvePublicBaseURL(raw string, storageCfg ObjectStorageConfig) (baseURL string, source string, err error) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		u, parseErr := url.Parse(raw)
		if parseErr != nil || u.Scheme == "" || u.Host == "" {
			return "", "", fmt.Errorf("invalid MEDIA_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443", raw)
		}
		return strings.TrimRight(raw, "/"), "media_public_base_url", nil
	}
	if storageCfg.IsEmulatorMode() {
		return strings.TrimRight(storageCfg.EmulatorHost, "/"), "storage_emulator_host", nil
	}
	return "", "gcs_default", nil
}

func (p publicURLs) forObject(bucket, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case p.cdnDomain != "":
		return fmt.Sprintf("https://%s/%s", p.cdnDomain, key)
	case p.emulator && p.baseURL != "":
		// The emulator serves object bytes from its JSON API media endpoint.
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", p.baseURL, url.PathEscape(bucket), url.PathEscape(key))
	case p.baseURL != "":
		return fmt.Sprintf("%s/%s/%s", p.baseURL, bucket, key)
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
	}
}

var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// contentTypeForKey returns the image content type for key, or "" to let GCS
// sniff it.
func contentTypeForKey(key string) string {
	key = strings.TrimSpace(key)
	if i := strings.IndexByte(key, '?'); i >= 0 {
		key = key[:i]
	}
	return imageContentTypes[strings.ToLower(path.Ext(key))]
}
