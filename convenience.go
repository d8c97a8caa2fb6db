// File: lixenwraith/cfgtree/convenience.go
package cfgtree

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ApplySource sets values for one settable source (forced, cliarg or config)
// from a flat map of separated paths or a nested map. Paths are matched
// exactly; unknown paths are skipped and returned.
func (sec *Section) ApplySource(src Source, values map[string]any) ([]string, error) {
	sep := sec.separator()
	flat := flattenMap(values, "", sep)

	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var unknown []string
	for _, path := range paths {
		s := sec.FindSetting(strings.Split(path, sep)...)
		if s == nil {
			unknown = append(unknown, path)
			continue
		}
		if err := s.SetSource(src, flat[path]); err != nil {
			return unknown, err
		}
	}
	return unknown, nil
}

// Validate resolves every setting in the subtree and checks that each
// required path has a value from a source other than its default.
func (sec *Section) Validate(required ...string) error {
	var errs []error

	sec.Walk(func(_ *Section, s *Setting) {
		if _, err := s.Value(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Path(), err))
		}
	})

	var missing []string
	for _, path := range required {
		s, err := sec.Lookup(path)
		if err != nil {
			missing = append(missing, path+" (not registered)")
			continue
		}
		if s.Source() == SourceDefault {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", ")))
	}

	return errors.Join(errs...)
}

// EnvNames maps every setting path in the subtree to its environment variable name
func (sec *Section) EnvNames() map[string]string {
	names := make(map[string]string)
	sec.Walk(func(_ *Section, s *Setting) {
		names[s.Path()] = s.EnvName()
	})
	return names
}

// DiscoverEnv finds the settings whose environment variable is currently set
// and returns a map of path -> env var name
func (sec *Section) DiscoverEnv() map[string]string {
	lookup := sec.options().lookupEnv
	discovered := make(map[string]string)
	sec.Walk(func(_ *Section, s *Setting) {
		name := s.EnvName()
		if _, ok := lookup(name); ok {
			discovered[s.Path()] = name
		}
	})
	return discovered
}

// Debug returns a formatted string showing all settings, their values and sources
func (sec *Section) Debug() string {
	var b strings.Builder
	b.WriteString("Settings Debug Info:\n")
	b.WriteString(fmt.Sprintf("Precedence: %v\n", Precedence))
	b.WriteString("Current values:\n")

	sec.Walk(func(_ *Section, s *Setting) {
		b.WriteString(fmt.Sprintf("  %s:\n", s.Path()))
		if v, err := s.Value(); err != nil {
			b.WriteString(fmt.Sprintf("    Current: <error: %v>\n", err))
		} else {
			b.WriteString(fmt.Sprintf("    Current: %v (%s)\n", v, s.Source()))
		}
		b.WriteString(fmt.Sprintf("    Default: %v\n", s.Default()))
		b.WriteString(fmt.Sprintf("    Env: %s\n", s.EnvName()))

		sources := s.Sources()
		for _, src := range Precedence {
			if v, ok := sources[src]; ok {
				b.WriteString(fmt.Sprintf("    %s: %v\n", src, v))
			}
		}
	})

	if pending := sec.Pending(); len(pending) > 0 {
		b.WriteString(fmt.Sprintf("Pending: %s\n", strings.Join(pending, ", ")))
	}

	return b.String()
}

// Dump writes the persisted values and defaults to stdout in TOML format
func (sec *Section) Dump() error {
	encoder := toml.NewEncoder(os.Stdout)
	return encoder.Encode(sec.AsMap())
}
