// FILE: lixenwraith/cfgtree/accessor.go
package cfgtree

import (
	"fmt"
	"strings"
)

// Accessor is a read-only view of a section for chained lookups.
// Child sections are returned as further accessors and settings as their
// values; Object escapes back to the underlying section.
type Accessor struct {
	sec *Section
}

// Accessor returns an object-style view of the section
func (sec *Section) Accessor() *Accessor {
	return &Accessor{sec: sec}
}

// Get looks up a single name (no separators). A section yields an
// *Accessor, a setting yields its effective value.
func (a *Accessor) Get(name string) (any, error) {
	if strings.Contains(name, a.sec.separator()) {
		return nil, fmt.Errorf("%w: accessor name %q contains separator %q", ErrInvalidName, name, a.sec.separator())
	}
	node, err := resolveOne(name, a.sec.findNamed(name, false))
	if err != nil {
		return nil, err
	}

	switch n := node.(type) {
	case *Section:
		return n.Accessor(), nil
	case *Setting:
		return n.Value()
	}
	return node, nil
}

// Section looks up a single name that must resolve to a section
func (a *Accessor) Section(name string) (*Accessor, error) {
	v, err := a.Get(name)
	if err != nil {
		return nil, err
	}
	sub, ok := v.(*Accessor)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotSection, name)
	}
	return sub, nil
}

// Object returns the section behind the accessor
func (a *Accessor) Object() *Section {
	return a.sec
}
