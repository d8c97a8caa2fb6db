// FILE: lixenwraith/cfgtree/mapping.go
package cfgtree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DownloadOptions controls which values DownloadTo writes
type DownloadOptions struct {
	// SkipUnset omits settings that have no persisted value
	SkipUnset bool
	// UseDefaults writes every setting's default, ignoring persisted values
	UseDefaults bool
	// AddHidden includes hidden settings that still hold their default
	AddHidden bool
}

// AsMap returns a new nested map of the tree's persisted values and defaults
func (sec *Section) AsMap() map[string]any {
	m := make(map[string]any)
	sec.DownloadTo(m, DownloadOptions{})
	return m
}

// DownloadTo writes the subtree into m, nesting a map per child section.
// Ephemeral settings are never written. Sub-maps that end up empty are
// removed unless they were already present in m.
// It returns the number of settings written.
func (sec *Section) DownloadTo(m map[string]any, opts DownloadOptions) int {
	n := 0
	for _, child := range sec.sections.values() {
		n += child.downloadSection(m, opts)
	}
	for _, s := range sec.settings.values() {
		if s.Ephemeral() {
			continue
		}
		if v, ok := s.downloadValue(opts); ok {
			m[s.name] = v
			n++
		}
	}
	return n
}

func (sec *Section) downloadSection(m map[string]any, opts DownloadOptions) int {
	existing, existed := m[sec.name]
	sub, isMap := existing.(map[string]any)
	if !isMap {
		sub = make(map[string]any)
	}

	n := sec.DownloadTo(sub, opts)
	switch {
	case n > 0:
		m[sec.name] = sub
	case !existed:
		// nothing to write and nothing to preserve
	case isMap:
		m[sec.name] = sub
	}
	return n
}

// downloadValue chooses between the default and the persisted value
func (s *Setting) downloadValue(opts DownloadOptions) (any, bool) {
	if (opts.UseDefaults || (!s.Persisted() && !opts.SkipUnset)) && (!s.Hidden() || opts.AddHidden) {
		return s.Default(), true
	}
	if v, ok := s.ConfigValue(); ok && !opts.UseDefaults {
		return v, true
	}
	return nil, false
}

// UpdateKnown pushes values from a nested map into existing settings and
// sections only. Keys that match nothing, or that name ephemeral settings,
// are returned in a map mirroring the input's shape; fully consumed keys are
// left out of it. Unconsumed leaf keys keep their input values rather than
// being mapped to nil, so the result can be reported or merged elsewhere.
func (sec *Section) UpdateKnown(m map[string]any) (map[string]any, error) {
	unconsumed := make(map[string]any, len(m))
	for k, v := range m {
		unconsumed[k] = v
	}

	for _, child := range sec.sections.values() {
		v, ok := m[child.name]
		if !ok {
			continue
		}
		sub, isMap := v.(map[string]any)
		if !isMap {
			continue
		}
		rest, err := child.UpdateKnown(sub)
		if err != nil {
			return nil, err
		}
		if len(rest) == 0 {
			delete(unconsumed, child.name)
		} else {
			unconsumed[child.name] = rest
		}
	}

	for _, s := range sec.settings.values() {
		if s.Ephemeral() {
			continue
		}
		v, ok := m[s.name]
		if !ok {
			continue
		}
		if err := s.SetValue(v); err != nil {
			return nil, err
		}
		delete(unconsumed, s.name)
	}

	return unconsumed, nil
}

// UpdateGross sets every key of a flat map, creating settings as needed.
// Keys may be bare names or separated paths. A key that resolves to nothing
// is created with SetDefault; ambiguous keys and invalid values are errors.
// Nested maps are not descended into; flatten them first.
func (sec *Section) UpdateGross(m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		err := sec.Set(k, m[k])
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		if _, err := sec.SetDefault(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// Update is an alias for UpdateGross
func (sec *Section) Update(m map[string]any) error {
	return sec.UpdateGross(m)
}

// SetDefault ensures a setting exists, like a map's setdefault.
// All arguments but the last form the path (each may itself contain
// separators); the last is the default value. Missing sections along the path
// are created. An existing setting is left untouched and its current value is
// returned; otherwise a new setting with that constant default is created and
// the default is returned.
func (sec *Section) SetDefault(args ...any) (any, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: SetDefault expected at least 2 arguments, got %d", ErrArity, len(args))
	}
	value := args[len(args)-1]

	sep := sec.separator()
	var parts []string
	for i, arg := range args[:len(args)-1] {
		name, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("%w: path argument %d is %T, not string", ErrInvalidName, i, arg)
		}
		parts = append(parts, strings.Split(name, sep)...)
	}
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment in %v", ErrInvalidName, parts)
		}
	}

	target := sec
	for _, name := range parts[:len(parts)-1] {
		target = target.ensureSection(name)
	}

	settingName := parts[len(parts)-1]
	if existing, ok := target.settings.get(settingName); ok {
		return existing.Value()
	}

	k, err := inferKind(value)
	if err != nil {
		return nil, coercionError(settingName, value, err.Error(), nil)
	}
	s := newSetting(settingName, Const(value), "Created by SetDefault", OfKind(k))
	if value == nil {
		s.allowNone = true
	}
	s.section = target
	target.settings.set(settingName, s)
	return value, nil
}

// ensureSection returns the named child, creating a bare one if missing.
// Unlike Section, it never drains the pending pool.
func (sec *Section) ensureSection(name string) *Section {
	if child, ok := sec.sections.get(name); ok {
		return child
	}
	child := newSection(name, sec)
	sec.sections.set(name, child)
	return child
}

// Keys returns the names of this section's own settings
func (sec *Section) Keys() []string {
	return append([]string(nil), sec.settings.keys...)
}

// Values returns the effective values of this section's own settings
func (sec *Section) Values() ([]any, error) {
	values := make([]any, 0, sec.settings.len())
	for _, s := range sec.settings.values() {
		v, err := s.Value()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Items returns this section's own settings mapped to their effective values
func (sec *Section) Items() (map[string]any, error) {
	items := make(map[string]any, sec.settings.len())
	for _, s := range sec.settings.values() {
		v, err := s.Value()
		if err != nil {
			return nil, err
		}
		items[s.name] = v
	}
	return items, nil
}
