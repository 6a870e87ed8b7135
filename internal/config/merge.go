package config

// deepMerge combines two configuration mappings into a new one without
// mutating either input. Keys from override win. The single special case:
// when both sides hold a mapping under the same key, the mappings merge
// recursively; in every other combination the override value replaces the
// base value wholesale, including list-for-list and mapping-for-scalar.
func deepMerge(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range override {
		existing, present := merged[key]
		baseMap, baseIsMap := existing.(map[string]any)
		overrideMap, overrideIsMap := value.(map[string]any)
		if present && baseIsMap && overrideIsMap {
			merged[key] = deepMerge(baseMap, overrideMap)
			continue
		}
		merged[key] = value
	}
	return merged
}

// cloneTree returns a deep copy of a configuration mapping. Nested
// mappings and lists are copied; scalar leaves are shared.
func cloneTree(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneTree(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
