// Package config composes the run configuration for a backtest from its
// layered YAML sources and validates the result before a run starts.
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"
)

// Selectors name the three configuration axes that identify a run.
type Selectors struct {
	Universe  string
	Content   string
	Execution string
}

// Execution holds run-mechanics settings from the execution axis.
type Execution struct {
	Logging     string `koanf:"logging"`
	DataMode    string `koanf:"data_mode"`
	RunScale    string `koanf:"run_scale"`
	ErrorPolicy string `koanf:"error_policy"`
}

// Universe holds the tradable-symbol set for a run.
type Universe struct {
	Symbols []string `koanf:"symbols"`
}

// Content holds the data-domain settings for a run.
type Content struct {
	Protocol          string `koanf:"protocol"`
	ValidationProfile string `koanf:"validation_profile"`
}

// Meta is the reserved metadata block attached after composition.
// It is written last, so no source file can forge or suppress it.
type Meta struct {
	Universe  string   `koanf:"universe"`
	Content   string   `koanf:"content"`
	Execution string   `koanf:"execution"`
	Sources   []string `koanf:"sources"`
}

// Tree is the composed run configuration. It is owned by the run for its
// lifetime and immutable after composition.
type Tree struct {
	k         *koanf.Koanf
	raw       map[string]any
	selectors Selectors
	sources   []string
}

// Selectors returns the selector inputs the tree was composed from.
func (t *Tree) Selectors() Selectors { return t.selectors }

// Sources returns the ordered source locations that were composed.
func (t *Tree) Sources() []string {
	return append([]string(nil), t.sources...)
}

// Raw returns a deep copy of the composed mapping, suitable for
// serialization without aliasing the tree.
func (t *Tree) Raw() map[string]any { return cloneTree(t.raw) }

// Execution decodes the execution section into its typed form.
func (t *Tree) Execution() (Execution, error) {
	var e Execution
	if err := t.unmarshal("execution", &e); err != nil {
		return Execution{}, err
	}
	return e, nil
}

// Universe decodes the universe section into its typed form.
func (t *Tree) Universe() (Universe, error) {
	var u Universe
	if err := t.unmarshal("universe", &u); err != nil {
		return Universe{}, err
	}
	return u, nil
}

// Content decodes the content section into its typed form.
func (t *Tree) Content() (Content, error) {
	var c Content
	if err := t.unmarshal("content", &c); err != nil {
		return Content{}, err
	}
	return c, nil
}

// Meta decodes the reserved metadata block.
func (t *Tree) Meta() (Meta, error) {
	var m Meta
	if err := t.unmarshal("_meta", &m); err != nil {
		return Meta{}, err
	}
	return m, nil
}

func (t *Tree) unmarshal(path string, out any) error {
	err := t.k.UnmarshalWithConf(path, out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			Result:           out,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return fmt.Errorf("decode config section %q: %w", path, err)
	}
	return nil
}
