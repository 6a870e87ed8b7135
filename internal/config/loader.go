package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// metaKey is the reserved top-level key holding run metadata.
const metaKey = "_meta"

// Compose reads the four fixed configuration sources selected by sel and
// deep-merges them, in order, into one tree:
//
//  1. execution/Default.yaml   universal default for the execution axis
//  2. execution/<execution>.yaml
//  3. content/<content>.yaml
//  4. universes/<universe>.yaml
//
// Later sources win on conflicts; mappings merge field-by-field. The _meta
// block is attached after merging, so source files cannot influence it.
// A missing or non-mapping source is fatal for the run.
func Compose(configsDir string, sel Selectors) (*Tree, error) {
	paths := []string{
		filepath.Join(configsDir, "execution", "Default.yaml"),
		filepath.Join(configsDir, "execution", sel.Execution+".yaml"),
		filepath.Join(configsDir, "content", sel.Content+".yaml"),
		filepath.Join(configsDir, "universes", sel.Universe+".yaml"),
	}

	merged := map[string]any{}
	sources := make([]string, 0, len(paths))
	for _, path := range paths {
		source, err := readSource(path)
		if err != nil {
			return nil, err
		}
		merged = deepMerge(merged, source)
		sources = append(sources, filepath.ToSlash(path))
	}

	sourceList := make([]any, len(sources))
	for i, s := range sources {
		sourceList[i] = s
	}
	merged[metaKey] = map[string]any{
		"universe":  sel.Universe,
		"content":   sel.Content,
		"execution": sel.Execution,
		"sources":   sourceList,
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(merged, "."), nil); err != nil {
		return nil, fmt.Errorf("load composed configuration: %w", err)
	}

	return &Tree{k: k, raw: merged, selectors: sel, sources: sources}, nil
}

// readSource decodes one configuration source into a mapping. An empty
// file decodes to an empty mapping; a missing file or a non-mapping top
// level is a fatal load error.
func readSource(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Path: path, Reason: "configuration file not found"}
		}
		return nil, fmt.Errorf("read configuration file %s: %w", path, err)
	}

	source, err := yaml.Parser().Unmarshal(raw)
	if err != nil {
		return nil, &Error{Path: path, Reason: "malformed configuration file: must contain a mapping at the top level"}
	}
	if source == nil {
		source = map[string]any{}
	}
	return source, nil
}
