package layout

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

const blockDefaultsEnv = "BUILDER_BLOCK_DEFAULTS_YAML"

//go:embed block_defaults.yaml
var blockDefaultsFS embed.FS

// used when the catalog cannot be loaded at all
var fallbackSectionDefaults = Properties{
	"backgroundColor": "#ffffff",
	"padding":         "py-16",
	"maxWidth":        "max-w-7xl",
}

type yamlCatalog struct {
	Catalog string                    `yaml:"catalog"`
	Version int                       `yaml:"version"`
	Section map[string]any            `yaml:"section"`
	Blocks  map[string]map[string]any `yaml:"blocks"`
}

type catalog struct {
	section Properties
	blocks  map[BlockKind]Properties
}

var (
	catalogMu    sync.Mutex
	catalogCache *catalog
)

// LoadCatalog loads the defaults catalog, preferring the file named by
// BUILDER_BLOCK_DEFAULTS_YAML and falling back to the embedded copy. It is
// safe to call more than once; only the first call does any work.
func LoadCatalog(log *logger.Logger) {
	currentCatalog(log)
}

func currentCatalog(log *logger.Logger) *catalog {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	if catalogCache != nil {
		return catalogCache
	}

	if path := strings.TrimSpace(os.Getenv(blockDefaultsEnv)); path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			var c *catalog
			c, err = parseCatalog(raw)
			if err == nil {
				catalogCache = c
				return catalogCache
			}
		}
		if log != nil {
			log.Warn("block defaults override rejected; using embedded catalog", "path", path, "error", err)
		}
	}

	raw, err := blockDefaultsFS.ReadFile("block_defaults.yaml")
	if err == nil {
		var c *catalog
		if c, err = parseCatalog(raw); err == nil {
			catalogCache = c
			return catalogCache
		}
	}
	if log != nil {
		log.Error("embedded block defaults invalid; using fallback", "error", err)
	}
	catalogCache = &catalog{section: fallbackSectionDefaults, blocks: map[BlockKind]Properties{}}
	return catalogCache
}

func resetCatalog() {
	catalogMu.Lock()
	catalogCache = nil
	catalogMu.Unlock()
}

func parseCatalog(raw []byte) (*catalog, error) {
	var spec yamlCatalog
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	if err := validateCatalog(&spec); err != nil {
		return nil, err
	}

	section, err := jsonNative(spec.Section)
	if err != nil {
		return nil, fmt.Errorf("section defaults: %w", err)
	}
	blocks := make(map[BlockKind]Properties, len(spec.Blocks))
	for name, props := range spec.Blocks {
		p, err := jsonNative(props)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", name, err)
		}
		blocks[BlockKind(name)] = p
	}
	return &catalog{section: section, blocks: blocks}, nil
}

func validateCatalog(spec *yamlCatalog) error {
	if spec == nil {
		return errors.New("missing catalog")
	}
	if strings.TrimSpace(spec.Catalog) != "block_defaults" {
		return fmt.Errorf("unexpected catalog: %q", spec.Catalog)
	}
	if len(spec.Section) == 0 {
		return errors.New("section defaults are required")
	}
	for name := range spec.Blocks {
		if !BlockKind(name).Valid() {
			return fmt.Errorf("unknown block kind: %s", name)
		}
	}
	missing := []string{}
	for _, k := range blockKinds {
		if _, ok := spec.Blocks[string(k)]; !ok {
			missing = append(missing, string(k))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing block kinds: %s", strings.Join(missing, ", "))
	}
	return nil
}

// jsonNative round-trips YAML output through JSON so numbers become float64
// and nested maps become map[string]any, matching what a loaded document holds.
func jsonNative(in map[string]any) (Properties, error) {
	out := Properties{}
	if len(in) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DefaultsFor returns a fresh copy of the initial properties for kind. Unknown
// kinds get an empty, non-nil bag.
func DefaultsFor(kind BlockKind) Properties {
	c := currentCatalog(nil)
	p, ok := c.blocks[kind]
	if !ok {
		return Properties{}
	}
	return p.Clone()
}

// SectionDefaults returns a fresh copy of the properties every new section gets.
func SectionDefaults() Properties {
	return currentCatalog(nil).section.Clone()
}
