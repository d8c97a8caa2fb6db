// FILE: lixenwraith/cfgtree/find.go
package cfgtree

import (
	"fmt"
	"strings"
)

// Find returns all sections and settings matching parts.
//
//   - No parts: this section.
//   - One part: exact matches among this section's own children and settings;
//     if there are none, every match found by a breadth-first search of all
//     descendant sections.
//   - Several parts: the leading parts must name an exact chain of child
//     sections (ErrNotFound otherwise), and the last part is matched exactly
//     in that section only.
func (sec *Section) Find(parts []string, skipSections bool) ([]Node, error) {
	switch len(parts) {
	case 0:
		return []Node{sec}, nil
	case 1:
		return sec.findNamed(parts[0], skipSections), nil
	}

	target := sec
	for _, name := range parts[:len(parts)-1] {
		child, ok := target.sections.get(name)
		if !ok {
			return nil, fmt.Errorf("%w: section %q under %q", ErrNotFound, name, target.displayPath())
		}
		target = child
	}
	return target.findExact(parts[len(parts)-1], skipSections), nil
}

// FindSetting returns the first setting matching parts, or nil
func (sec *Section) FindSetting(parts ...string) *Setting {
	nodes, err := sec.Find(parts, true)
	if err != nil || len(nodes) == 0 {
		return nil
	}
	s, _ := nodes[0].(*Setting)
	return s
}

// findExact matches name against this section's own children and settings
func (sec *Section) findExact(name string, skipSections bool) []Node {
	var nodes []Node
	if child, ok := sec.sections.get(name); ok && !skipSections {
		nodes = append(nodes, child)
	}
	if s, ok := sec.settings.get(name); ok {
		nodes = append(nodes, s)
	}
	return nodes
}

// findNamed looks for an exact match first, then searches descendants breadth-first
func (sec *Section) findNamed(name string, skipSections bool) []Node {
	if nodes := sec.findExact(name, skipSections); len(nodes) > 0 {
		return nodes
	}

	var nodes []Node
	queue := sec.sections.values()
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		nodes = append(nodes, cur.findExact(name, skipSections)...)
		queue = append(queue, cur.sections.values()...)
	}
	return nodes
}

// Resolve finds exactly one section or setting by bare name or separated path.
// It returns ErrNotFound when nothing matches and ErrAmbiguous when a bare
// name matches more than once.
func (sec *Section) Resolve(name string) (Node, error) {
	var nodes []Node
	sep := sec.separator()
	if strings.Contains(name, sep) {
		var err error
		if nodes, err = sec.Find(strings.Split(name, sep), false); err != nil {
			return nil, err
		}
	} else {
		nodes = sec.findNamed(name, false)
	}
	return resolveOne(name, nodes)
}

// resolveOne requires exactly one match for name
func resolveOne(name string, nodes []Node) (Node, error) {
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	case 1:
		return nodes[0], nil
	}
	return nil, fmt.Errorf("%w: %q (%d matches)", ErrAmbiguous, name, len(nodes))
}

// Get resolves name and returns the setting's value, or the *Section itself
func (sec *Section) Get(name string) (any, error) {
	node, err := sec.Resolve(name)
	if err != nil {
		return nil, err
	}
	if s, ok := node.(*Setting); ok {
		return s.Value()
	}
	return node, nil
}

// Set resolves name to a setting and sets its config value
func (sec *Section) Set(name string, value any) error {
	node, err := sec.Resolve(name)
	if err != nil {
		return err
	}
	s, ok := node.(*Setting)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotSetting, name)
	}
	return s.SetValue(value)
}

// Lookup resolves name to a setting
func (sec *Section) Lookup(name string) (*Setting, error) {
	node, err := sec.Resolve(name)
	if err != nil {
		return nil, err
	}
	s, ok := node.(*Setting)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotSetting, name)
	}
	return s, nil
}

func (sec *Section) displayPath() string {
	if sec.parent == nil {
		return "<root>"
	}
	return sec.Path()
}
