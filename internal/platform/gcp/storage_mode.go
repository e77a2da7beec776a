package gcp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/funnel-builder-backend/internal/platform/envutil"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

func (m ObjectStorageMode) Valid() bool {
	return m == ObjectStorageModeGCS || m == ObjectStorageModeGCSEmulator
}

// Where the mode came from, for startup logs.
const (
	ModeSourceExplicit     = "explicit"
	ModeSourceDefault      = "default"
	ModeSourceEmulatorHost = "emulator_host"
)

type ObjectStorageConfig struct {
	Mode         ObjectStorageMode
	EmulatorHost string
	Source       string
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

var (
	ErrInvalidStorageMode  = errors.New("invalid media storage mode")
	ErrMissingEmulatorHost = errors.New("missing STORAGE_EMULATOR_HOST")
	ErrInvalidEmulatorHost = errors.New("invalid STORAGE_EMULATOR_HOST")
)

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidEmulatorHost ObjectStorageConfigErrorCode = "invalid_emulator_host"
)

// ObjectStorageConfigError matches the Err* sentinels with errors.Is.
type ObjectStorageConfigError struct {
	Code         ObjectStorageConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ObjectStorageConfigError) sentinel() error {
	switch e.Code {
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return ErrMissingEmulatorHost
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		return ErrInvalidEmulatorHost
	default:
		return ErrInvalidStorageMode
	}
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("storage mode %q requires STORAGE_EMULATOR_HOST", ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("%v %q; expected absolute URL like http://fake-gcs:4443", ErrInvalidEmulatorHost, e.EmulatorHost)
	default:
		return fmt.Sprintf("%v %q (allowed: local, %s, %s)", ErrInvalidStorageMode, e.Mode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	}
}

func (e *ObjectStorageConfigError) Is(target error) bool {
	return e != nil && target == e.sentinel()
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveObjectStorageConfig picks the GCS mode. An empty mode means the
// emulator when an emulator host is set, and real GCS otherwise.
func ResolveObjectStorageConfig(rawMode, emulatorHost string) (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{EmulatorHost: strings.TrimRight(strings.TrimSpace(emulatorHost), "/")}

	rawMode = strings.TrimSpace(rawMode)
	mode := ObjectStorageMode(strings.ToLower(rawMode))
	switch {
	case mode == "" && cfg.EmulatorHost != "":
		cfg.Mode, cfg.Source = ObjectStorageModeGCSEmulator, ModeSourceEmulatorHost
	case mode == "":
		cfg.Mode, cfg.Source = ObjectStorageModeGCS, ModeSourceDefault
	case mode.Valid():
		cfg.Mode, cfg.Source = mode, ModeSourceExplicit
	default:
		return cfg, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: rawMode}
	}
	return cfg, ValidateObjectStorageConfig(cfg)
}

func ResolveObjectStorageConfigFromEnv() (ObjectStorageConfig, error) {
	return ResolveObjectStorageConfig(envutil.String("MEDIA_STORAGE_MODE", ""), envutil.String("STORAGE_EMULATOR_HOST", ""))
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	if !cfg.Mode.Valid() {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	if !cfg.IsEmulatorMode() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingEmulatorHost, Mode: string(cfg.Mode)}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ObjectStorageConfigError{
			Code:         ObjectStorageConfigErrorInvalidEmulatorHost,
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Cause:        err,
		}
	}
	return nil
}
