// Package schema loads the declarative statement schema and answers
// required-field queries used by record validation.
package schema

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the schema file location under the configs directory.
const FileName = "schema/schema_main.yaml"

// Error reports a broken schema: unknown statements or profiles,
// malformed shapes, or requirement lists referencing undeclared fields.
// It indicates a broken schema rather than bad input data.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func errorf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// FieldSpec describes one declared field of a statement. Only presence of
// the field name matters to validation; type and description are carried
// for tooling.
type FieldSpec struct {
	Type        string
	Description string
}

// Statement holds the declared fields of one record type.
type Statement struct {
	Fields map[string]FieldSpec
}

// Profile holds one validation profile's requirement lists: a common list
// applying to every statement plus optional per-statement lists.
type Profile struct {
	Common     []string
	Statements map[string][]string
}

// Registry answers field and requirement queries over a loaded schema.
// Per-(profile, statement) requirement sets are resolved once and cached.
type Registry struct {
	statements map[string]Statement
	profiles   map[string]Profile

	mu       sync.RWMutex
	resolved map[string][]string
}

// Load reads and shape-checks the schema file. Structural problems
// (missing top-level keys, non-mapping fields, non-list requirements)
// fail here; cross-reference integrity is checked on first resolution.
func Load(path string) (*Registry, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errorf("schema file not found: %s", path)
		}
		return nil, errorf("stat schema file %s: %v", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errorf("schema file %s must be a mapping at the top level: %v", path, err)
	}
	raw := k.Raw()

	if _, ok := raw["statements"]; !ok {
		return nil, errorf("schema must contain 'statements' and 'requirements'")
	}
	if _, ok := raw["requirements"]; !ok {
		return nil, errorf("schema must contain 'statements' and 'requirements'")
	}

	statements, err := parseStatements(raw["statements"])
	if err != nil {
		return nil, err
	}
	profiles, err := parseProfiles(raw["requirements"])
	if err != nil {
		return nil, err
	}

	return &Registry{
		statements: statements,
		profiles:   profiles,
		resolved:   make(map[string][]string),
	}, nil
}

func parseStatements(v any) (map[string]Statement, error) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, errorf("schema 'statements' must be a mapping")
	}

	statements := make(map[string]Statement, len(raw))
	for name, sv := range raw {
		sm, ok := sv.(map[string]any)
		if !ok {
			return nil, errorf("statement %q must be a mapping", name)
		}
		fieldsRaw, ok := sm["fields"].(map[string]any)
		if !ok {
			return nil, errorf("statement %q must contain a 'fields' mapping", name)
		}

		fields := make(map[string]FieldSpec, len(fieldsRaw))
		for fieldName, fv := range fieldsRaw {
			var spec FieldSpec
			if fm, ok := fv.(map[string]any); ok {
				spec.Type, _ = fm["type"].(string)
				spec.Description, _ = fm["description"].(string)
			}
			fields[fieldName] = spec
		}
		statements[name] = Statement{Fields: fields}
	}
	return statements, nil
}

func parseProfiles(v any) (map[string]Profile, error) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, errorf("schema 'requirements' must be a mapping")
	}

	profiles := make(map[string]Profile, len(raw))
	for name, pv := range raw {
		pm, ok := pv.(map[string]any)
		if !ok {
			return nil, errorf("requirements profile %q must be a mapping", name)
		}

		profile := Profile{Statements: make(map[string][]string)}
		for key, lv := range pm {
			list, err := stringList(lv)
			if err != nil {
				return nil, errorf("requirements for profile %q must be lists of field names: key %q: %v", name, key, err)
			}
			if key == "common" {
				profile.Common = list
			} else {
				profile.Statements[key] = list
			}
		}
		profiles[name] = profile
	}
	return profiles, nil
}

func stringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("not a sequence")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %v is not a string", item)
		}
		out = append(out, s)
	}
	return out, nil
}

// Statements returns the known statement names, sorted.
func (r *Registry) Statements() []string {
	names := make([]string, 0, len(r.statements))
	for name := range r.statements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profiles returns the known requirement profile names, sorted.
func (r *Registry) Profiles() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldsForStatement returns the declared fields of a statement.
func (r *Registry) FieldsForStatement(statement string) (map[string]FieldSpec, error) {
	st, ok := r.statements[statement]
	if !ok {
		return nil, errorf("unknown statement: %s", statement)
	}
	return st.Fields, nil
}

// RequiredFields returns the union of the profile's common fields and its
// statement-specific fields, sorted alphabetically. Statement-specific
// required fields must be declared on the statement; a violation is a
// schema-integrity error.
func (r *Registry) RequiredFields(profile, statement string) ([]string, error) {
	cacheKey := profile + "\x00" + statement

	r.mu.RLock()
	cached, ok := r.resolved[cacheKey]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	known, err := r.FieldsForStatement(statement)
	if err != nil {
		return nil, err
	}

	prof, ok := r.profiles[profile]
	if !ok {
		return nil, errorf("unknown requirement profile: %s", profile)
	}

	specific := prof.Statements[statement]
	var unknown []string
	for _, field := range specific {
		if _, ok := known[field]; !ok {
			unknown = append(unknown, field)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errorf("profile %q requires unknown fields for %q: %s",
			profile, statement, strings.Join(unknown, ", "))
	}

	set := make(map[string]struct{}, len(prof.Common)+len(specific))
	for _, field := range prof.Common {
		set[field] = struct{}{}
	}
	for _, field := range specific {
		set[field] = struct{}{}
	}
	required := make([]string, 0, len(set))
	for field := range set {
		required = append(required, field)
	}
	sort.Strings(required)

	r.mu.Lock()
	r.resolved[cacheKey] = required
	r.mu.Unlock()

	return required, nil
}

// ValidateRecord returns the required field names absent from the record,
// alphabetically ordered. Only key presence is checked, never values.
func (r *Registry) ValidateRecord(profile, statement string, record map[string]any) ([]string, error) {
	if record == nil {
		return nil, errorf("record must be a mapping")
	}

	required, err := r.RequiredFields(profile, statement)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, field := range required {
		if _, ok := record[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing, nil
}
