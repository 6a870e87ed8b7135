package config

import (
	"fmt"
	"slices"
	"strings"
)

// Error reports a configuration violation: a missing or malformed
// source file, a missing required key, an invalid enum value, or a
// malformed symbol list. The process boundary branches on this type to
// pick its exit code.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func missingKey(path string) *Error {
	return &Error{Path: path, Reason: "missing required key"}
}

// Allowed values for the enumerated execution and content settings.
var (
	loggingLevels = []string{"minimal", "maximal"}
	dataModes     = []string{"dummy", "production"}
	runScales     = []string{"full", "smoke", "sample"}
	errorPolicies = []string{"fail_fast", "fail", "skip", "best_effort"}
	protocols     = []string{"fundamentals", "relative_valuations", "none"}
)

// Validate confirms the composed tree is well-formed enough to run.
// It fails fast on the first violation found, unlike the diagnostics
// engine, which aggregates.
func Validate(t *Tree) error {
	return validateTree(t.raw)
}

func validateTree(tree map[string]any) error {
	for _, key := range []string{"execution", "universe", "content"} {
		if _, err := lookupPath(tree, key); err != nil {
			return err
		}
	}

	if err := requireEnum(tree, "execution.logging", loggingLevels); err != nil {
		return err
	}
	if err := requireEnum(tree, "execution.data_mode", dataModes); err != nil {
		return err
	}
	if err := requireEnum(tree, "execution.run_scale", runScales); err != nil {
		return err
	}
	if err := requireEnum(tree, "execution.error_policy", errorPolicies); err != nil {
		return err
	}

	if err := validateSymbols(tree); err != nil {
		return err
	}

	return requireEnum(tree, "content.protocol", protocols)
}

// lookupPath resolves a dotted path into the tree, failing the moment a
// segment is absent or the current value is not a mapping while segments
// remain. The error names the full requested path.
func lookupPath(tree map[string]any, path string) (any, error) {
	current := any(tree)
	for _, segment := range strings.Split(path, ".") {
		mapping, ok := current.(map[string]any)
		if !ok {
			return nil, missingKey(path)
		}
		current, ok = mapping[segment]
		if !ok {
			return nil, missingKey(path)
		}
	}
	return current, nil
}

func requireEnum(tree map[string]any, path string, allowed []string) error {
	value, err := lookupPath(tree, path)
	if err != nil {
		return err
	}
	s, ok := value.(string)
	if !ok || !slices.Contains(allowed, s) {
		return &Error{
			Path:   path,
			Reason: fmt.Sprintf("invalid value %v: must be one of %s", value, strings.Join(allowed, ", ")),
		}
	}
	return nil
}

// validateSymbols checks every element of universe.symbols individually
// and reports all bad entries in one combined message.
func validateSymbols(tree map[string]any) error {
	value, err := lookupPath(tree, "universe.symbols")
	if err != nil {
		return err
	}

	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return &Error{Path: "universe.symbols", Reason: "must be a non-empty list"}
	}

	var bad []string
	for i, item := range list {
		s, isString := item.(string)
		if !isString || strings.TrimSpace(s) == "" {
			bad = append(bad, fmt.Sprintf("index %d (%v)", i, item))
		}
	}
	if len(bad) > 0 {
		return &Error{
			Path:   "universe.symbols",
			Reason: "must contain only non-empty strings; bad entries: " + strings.Join(bad, ", "),
		}
	}
	return nil
}
