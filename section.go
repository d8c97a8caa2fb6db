// FILE: lixenwraith/cfgtree/section.go
package cfgtree

import (
	"fmt"
	"strings"
)

// Node is either a *Section or a *Setting
type Node interface {
	Name() string
	Path() string
	isNode()
}

// Section is a node of the settings tree. It owns settings and child sections.
//
// Settings are declared in two phases: Register deposits a setting into the
// section's pending pool, and the next call to Section hands the pool to the
// child being created or attached (or, for an empty name, to the section
// itself).
type Section struct {
	name     string
	parent   *Section
	sections *orderedMap[*Section]
	settings *orderedMap[*Setting]
	pending  *orderedMap[*Setting]

	// opts is only set on the root
	opts *treeOptions
}

// New creates the root section of a settings tree
func New(opts ...Option) *Section {
	o := defaultTreeOptions()
	for _, opt := range opts {
		opt(o)
	}
	root := newSection("", nil)
	root.opts = o
	return root
}

func newSection(name string, parent *Section) *Section {
	return &Section{
		name:     name,
		parent:   parent,
		sections: newOrderedMap[*Section](),
		settings: newOrderedMap[*Setting](),
		pending:  newOrderedMap[*Setting](),
	}
}

// Name returns the section name; the root's name is empty
func (sec *Section) Name() string { return sec.name }

// Parent returns the parent section, or nil for the root
func (sec *Section) Parent() *Section { return sec.parent }

// Path returns the section path using the tree separator
func (sec *Section) Path() string { return sec.SectionPath("") }

func (sec *Section) isNode() {}

// Root returns the topmost section
func (sec *Section) Root() *Section {
	for sec.parent != nil {
		sec = sec.parent
	}
	return sec
}

func (sec *Section) options() *treeOptions {
	root := sec.Root()
	if root.opts == nil {
		root.opts = defaultTreeOptions()
	}
	return root.opts
}

func (sec *Section) separator() string {
	return sec.options().separator
}

// Separator returns the path separator used by the tree
func (sec *Section) Separator() string {
	return sec.separator()
}

// Register deposits a setting definition into this section's pending pool.
// The setting is owned by whichever section next drains the pool.
// A later registration under the same name replaces an earlier one.
func (sec *Section) Register(name string, def DefaultFunc, doc string, opts ...SettingOption) (*Setting, error) {
	if !validName(name, sec.separator()) {
		return nil, fmt.Errorf("%w: setting %q", ErrInvalidName, name)
	}
	s := newSetting(name, def, doc, opts...)
	sec.pending.set(name, s)
	return s, nil
}

// Section creates or attaches the child section called name and hands it
// every setting pending in this section's pool.
// If the child already exists it is reused. An empty name attaches the
// pending settings to this section itself.
func (sec *Section) Section(name string) (*Section, error) {
	if name == "" {
		sec.adopt(sec)
		return sec, nil
	}
	if strings.Contains(name, sec.separator()) {
		return nil, fmt.Errorf("%w: section %q contains separator %q", ErrInvalidName, name, sec.separator())
	}

	child, exists := sec.sections.get(name)
	if !exists {
		child = newSection(name, sec)
		sec.sections.set(name, child)
	}
	child.adopt(sec)
	return child, nil
}

// adopt takes ownership of every setting pending in from's pool
func (sec *Section) adopt(from *Section) {
	for _, s := range from.pending.values() {
		s.section = sec
		sec.settings.set(s.name, s)
	}
	from.pending.reset()
}

// Pending returns the names of settings registered but not yet attached
func (sec *Section) Pending() []string {
	return append([]string(nil), sec.pending.keys...)
}

// Subsection returns the direct child section called name
func (sec *Section) Subsection(name string) (*Section, bool) {
	return sec.sections.get(name)
}

// Setting returns the directly owned setting called name
func (sec *Section) Setting(name string) (*Setting, bool) {
	return sec.settings.get(name)
}

// Sections returns the direct child sections in declaration order
func (sec *Section) Sections() []*Section {
	return sec.sections.values()
}

// Settings returns the directly owned settings in declaration order
func (sec *Section) Settings() []*Setting {
	return sec.settings.values()
}

// SectionPath joins the names from just below the root down to this section.
// An empty sep uses the tree separator. The root's path is empty.
func (sec *Section) SectionPath(sep string) string {
	if sep == "" {
		sep = sec.separator()
	}
	return strings.Join(sec.pathParts(), sep)
}

func (sec *Section) pathParts() []string {
	var parts []string
	for cur := sec; cur.parent != nil; cur = cur.parent {
		parts = append([]string{cur.name}, parts...)
	}
	return parts
}

// Walk visits every setting depth-first: this section's settings in order,
// then each child section in order.
func (sec *Section) Walk(visitor func(*Section, *Setting)) {
	for _, s := range sec.settings.values() {
		visitor(sec, s)
	}
	for _, child := range sec.sections.values() {
		child.Walk(visitor)
	}
}

// ForgetConfigValues clears the config value of every setting in the subtree.
// Settings without a forced, cliarg or envvar value fall back to their defaults.
func (sec *Section) ForgetConfigValues() {
	sec.Walk(func(_ *Section, s *Setting) {
		s.ForgetConfig()
	})
}
