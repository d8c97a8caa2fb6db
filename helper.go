// File: lixenwraith/cfgtree/helper.go
package cfgtree

import "strings"

// orderedMap is a string-keyed map that remembers insertion order.
// Re-setting an existing key keeps its original position.
type orderedMap[V any] struct {
	keys  []string
	items map[string]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{items: make(map[string]V)}
}

func (m *orderedMap[V]) get(key string) (V, bool) {
	v, ok := m.items[key]
	return v, ok
}

func (m *orderedMap[V]) set(key string, value V) {
	if _, exists := m.items[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.items[key] = value
}

func (m *orderedMap[V]) len() int {
	return len(m.keys)
}

// values returns the values in insertion order
func (m *orderedMap[V]) values() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.items[k])
	}
	return out
}

func (m *orderedMap[V]) reset() {
	m.keys = nil
	m.items = make(map[string]V)
}

// flattenMap converts a nested map[string]any to a flat map[string]any with sep-joined paths.
func flattenMap(nested map[string]any, prefix, sep string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := key
		if prefix != "" {
			newPath = prefix + sep + key
		}

		// Check if the value is a map that can be further flattened
		if nestedMap, isMap := value.(map[string]any); isMap {
			for subPath, subValue := range flattenMap(nestedMap, newPath, sep) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// setNestedValue sets a value in a nested map using a sep-joined path.
// It creates intermediate maps if they don't exist.
// If a segment exists but is not a map, it will be overwritten by a new map.
func setNestedValue(nested map[string]any, path, sep string, value any) {
	segments := strings.Split(path, sep)
	current := nested

	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]

		next, exists := current[segment]
		if nextMap, isMap := next.(map[string]any); exists && isMap {
			current = nextMap
			continue
		}
		newMap := make(map[string]any)
		current[segment] = newMap
		current = newMap
	}

	current[segments[len(segments)-1]] = value
}

// navigateToPath traverses nested map to reach the specified path
func navigateToPath(nested map[string]any, path, sep string) any {
	path = strings.TrimSuffix(path, sep)
	if path == "" {
		return nested
	}

	current := any(nested)
	for _, segment := range strings.Split(path, sep) {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		value, exists := currentMap[segment]
		if !exists {
			return nil
		}
		current = value
	}

	return current
}

// validName reports whether name can be used as a section or setting name
func validName(name, sep string) bool {
	return name != "" && !strings.Contains(name, sep)
}
