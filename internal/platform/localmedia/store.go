// Package localmedia keeps the media library in a local directory that the
// HTTP server exposes as static files.
package localmedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

const (
	DefaultDir       = "public/media"
	DefaultURLPrefix = "/media"
)

var ErrInvalidKey = errors.New("invalid media key")

type Store struct {
	log       *logger.Logger
	dir       string
	urlPrefix string
}

func NewStore(log *logger.Logger, dir, urlPrefix string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	if strings.TrimSpace(urlPrefix) == "" {
		urlPrefix = DefaultURLPrefix
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	s := &Store{
		log:       log.With("service", "LocalMediaStore"),
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}
	s.log.Info("Local media store ready", "dir", dir, "url_prefix", s.urlPrefix)
	return s, nil
}

func (s *Store) Dir() string       { return s.dir }
func (s *Store) URLPrefix() string { return s.urlPrefix }

func (s *Store) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key), nil
}

// Put writes r under key. The file appears only once fully written.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) error {
	dst, err := s.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, readerWithContext{ctx: ctx, r: r}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write media file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close media file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("publish media file: %w", err)
	}
	return nil
}

// Keys lists the regular files in the media directory in lexical order. A
// missing directory is an empty library.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read media dir: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}

func (s *Store) PublicURL(key string) string {
	return s.urlPrefix + "/" + url.PathEscape(key)
}

type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func (r readerWithContext) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
