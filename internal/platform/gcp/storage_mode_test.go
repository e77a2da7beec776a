package gcp

import (
	"errors"
	"testing"
)

func TestResolveObjectStorageConfig(t *testing.T) {
	cases := []struct {
		name         string
		mode         string
		emulatorHost string
		wantMode     ObjectStorageMode
		wantSource   string
		wantErr      error
	}{
		{name: "default gcs", wantMode: ObjectStorageModeGCS, wantSource: ModeSourceDefault},
		{name: "explicit gcs ignores emulator host", mode: "gcs", emulatorHost: "http://fake-gcs:4443", wantMode: ObjectStorageModeGCS, wantSource: ModeSourceExplicit},
		{name: "explicit emulator", mode: "GCS_EMULATOR", emulatorHost: "http://fake-gcs:4443/", wantMode: ObjectStorageModeGCSEmulator, wantSource: ModeSourceExplicit},
		{name: "emulator host implies emulator", emulatorHost: "http://fake-gcs:4443", wantMode: ObjectStorageModeGCSEmulator, wantSource: ModeSourceEmulatorHost},
		{name: "invalid mode", mode: "s3", wantErr: ErrInvalidStorageMode},
		{name: "missing emulator host", mode: "gcs_emulator", wantErr: ErrMissingEmulatorHost},
		{name: "relative emulator host", mode: "gcs_emulator", emulatorHost: "fake-gcs:4443", wantErr: ErrInvalidEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ResolveObjectStorageConfig(tc.mode, tc.emulatorHost)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err: got=%v want=%v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveObjectStorageConfig: %v", err)
			}
			if cfg.Mode != tc.wantMode || cfg.Source != tc.wantSource {
				t.Fatalf("cfg: got=%+v want mode=%q source=%q", cfg, tc.wantMode, tc.wantSource)
			}
		})
	}
}

func TestResolveObjectStorageConfigTrimsEmulatorHost(t *testing.T) {
	cfg, err := ResolveObjectStorageConfig("gcs_emulator", " http://fake-gcs:4443/ ")
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfig: %v", err)
	}
	if got, want := cfg.EmulatorHost, "http://fake-gcs:4443"; got != want {
		t.Fatalf("EmulatorHost: got=%q want=%q", got, want)
	}
}

func TestResolveObjectStorageConfigFromEnv(t *testing.T) {
	t.Setenv("MEDIA_STORAGE_MODE", "gcs_emulator")
	t.Setenv("STORAGE_EMULATOR_HOST", "http://fake-gcs:4443")

	cfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveObjectStorageConfigFromEnv: %v", err)
	}
	if !cfg.IsEmulatorMode() || cfg.Source != ModeSourceExplicit {
		t.Fatalf("cfg: got=%+v", cfg)
	}
}
