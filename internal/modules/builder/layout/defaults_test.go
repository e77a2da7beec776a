package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultsCoverEveryBlockKind(t *testing.T) {
	for _, k := range BlockKinds() {
		p := DefaultsFor(k)
		if len(p) == 0 {
			t.Fatalf("DefaultsFor(%q): empty defaults", k)
		}
	}
}

func TestDefaultsAreFreshCopies(t *testing.T) {
	a := DefaultsFor(BlockBulletList)
	b := DefaultsFor(BlockBulletList)

	a["fontSize"] = "99px"
	items, ok := a["items"].([]any)
	if !ok || len(items) != 3 {
		t.Fatalf("bullet-list items: got=%T %v", a["items"], a["items"])
	}
	first, _ := items[0].(map[string]any)
	first["text"] = "changed"

	if b["fontSize"] != "16px" {
		t.Fatalf("top-level value shared: got=%v", b["fontSize"])
	}
	again := DefaultsFor(BlockBulletList)
	gotItems := again["items"].([]any)
	if gotItems[0].(map[string]any)["text"] != "First item" {
		t.Fatalf("nested value shared: got=%v", gotItems[0])
	}
}

func TestDefaultsAreJSONNative(t *testing.T) {
	for _, k := range BlockKinds() {
		p := DefaultsFor(k)
		raw, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("marshal %q: %v", k, err)
		}
		var back Properties
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatalf("unmarshal %q: %v", k, err)
		}
		if !reflect.DeepEqual(p, back) {
			t.Fatalf("%q defaults change across JSON: got=%v want=%v", k, back, p)
		}
	}
}

func TestDefaultsValues(t *testing.T) {
	heading := DefaultsFor(BlockHeading)
	if heading["text"] != "Enter your heading" || heading["level"] != "h2" || heading["fontWeight"] != "700" {
		t.Fatalf("heading defaults: %v", heading)
	}
	logo := DefaultsFor(BlockLogo)
	if logo["width"] != 64.0 {
		t.Fatalf("logo width: got=%v (%T) want=64", logo["width"], logo["width"])
	}
	text := DefaultsFor(BlockText)
	if text["lineHeight"] != "1.6" {
		t.Fatalf("text lineHeight: got=%v (%T)", text["lineHeight"], text["lineHeight"])
	}
	if spacer := DefaultsFor(BlockSpacer); spacer["visibleOnMobile"] != true {
		t.Fatalf("spacer visibleOnMobile: got=%v", spacer["visibleOnMobile"])
	}
}

func TestDefaultsForUnknownKind(t *testing.T) {
	p := DefaultsFor(BlockKind("carousel-3d"))
	if p == nil {
		t.Fatalf("unknown kind: got nil, want empty map")
	}
	if len(p) != 0 {
		t.Fatalf("unknown kind: got=%v want empty", p)
	}
}

func TestCatalogOverride(t *testing.T) {
	dir := t.TempDir()

	valid, err := blockDefaultsFS.ReadFile("block_defaults.yaml")
	if err != nil {
		t.Fatalf("read embedded: %v", err)
	}
	custom := append([]byte{}, valid...)
	custom = append(custom, []byte("\n")...)
	overridePath := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(overridePath, custom, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	badPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("catalog: block_defaults\nsection: {padding: py-2}\nblocks:\n  text: {text: hi}\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Cleanup(resetCatalog)

	t.Setenv(blockDefaultsEnv, badPath)
	resetCatalog()
	if got := SectionDefaults()["padding"]; got != "py-16" {
		t.Fatalf("incomplete override must be rejected: padding=%v", got)
	}

	t.Setenv(blockDefaultsEnv, overridePath)
	resetCatalog()
	if got := DefaultsFor(BlockHeading)["text"]; got != "Enter your heading" {
		t.Fatalf("override heading text: got=%v", got)
	}
}

func TestParseCatalogRejectsUnknownKinds(t *testing.T) {
	_, err := parseCatalog([]byte("catalog: block_defaults\nsection: {padding: py-2}\nblocks:\n  hologram: {}\n"))
	if err == nil {
		t.Fatalf("expected error for unknown block kind")
	}
}
