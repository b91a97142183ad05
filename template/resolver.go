package template

import (
	"fmt"
	"strings"
)

// DefaultMaxIterations caps the number of substitution passes in Resolve.
const DefaultMaxIterations = 3

// Resolve substitutes {key} references between the values of vars until a
// fixed point is reached or maxIterations passes have run. Values may be
// strings or nested maps of the same shape; anything else passes through
// unchanged. A placeholder naming a key that is not in scope stays literal,
// and a key never substitutes its own placeholder. Cyclic references
// terminate at the iteration cap with the last computed values.
func Resolve(vars map[string]any, maxIterations int) map[string]any {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	resolved, _ := resolve(vars, nil, maxIterations)
	return resolved
}

// resolve runs up to maxIterations substitution passes over vars. The outer
// context is visible to string values and is threaded down into nested maps,
// so a nested value can reference a sibling of its parent. Returns whether
// any pass changed a value.
func resolve(vars, context map[string]any, maxIterations int) (map[string]any, bool) {
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = v
	}

	anyChange := false
	for i := 0; i < maxIterations; i++ {
		// Snapshot the scope before the pass so substitution results do not
		// depend on map iteration order.
		scope := Merge(context, out)

		changed := false
		for key, value := range out {
			switch v := value.(type) {
			case string:
				replaced := substitute(v, key, scope)
				if replaced != v {
					out[key] = replaced
					changed = true
				}
			case map[string]any:
				nested, nestedChanged := resolve(v, scope, 1)
				if nestedChanged {
					out[key] = nested
					changed = true
				}
			}
		}

		if !changed {
			break
		}
		anyChange = true
	}

	return out, anyChange
}

// substitute replaces every {otherKey} occurrence in value using the given
// scope, skipping self, the key owning the value.
func substitute(value, self string, scope map[string]any) string {
	for otherKey, otherValue := range scope {
		if otherKey == self {
			continue
		}
		placeholder := "{" + otherKey + "}"
		if strings.Contains(value, placeholder) {
			value = strings.ReplaceAll(value, placeholder, stringify(otherValue))
		}
	}
	return value
}

// Merge builds an ordered-override merge of the given layers: keys of later
// layers win over earlier ones. The inputs are never mutated.
func Merge(layers ...map[string]any) map[string]any {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}

	merged := make(map[string]any, size)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
