// File: lixenwraith/cfgtree/builder.go
package cfgtree

import (
	"fmt"
	"sort"
	"strings"
)

// ValidatorFunc defines the signature for a function that can validate a built tree.
// It receives the root section and should return an error if validation fails.
type ValidatorFunc func(root *Section) error

// settingSpec is a setting declaration waiting for Build
type settingSpec struct {
	path string
	def  DefaultFunc
	doc  string
	opts []SettingOption
}

// Builder provides a fluent interface for declaring a settings tree.
// Nothing is instantiated until Build, so declarations may come in any order.
type Builder struct {
	opts       []Option
	defaults   any
	prefix     string
	specs      []settingSpec
	values     map[string]any
	cli        map[string]any
	forced     map[string]any
	strict     bool
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new settings tree builder
func NewBuilder() *Builder {
	return &Builder{
		validators: make([]ValidatorFunc, 0),
	}
}

// WithEnvPrefix sets the environment variable prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.opts = append(b.opts, WithEnvPrefix(prefix))
	return b
}

// WithSeparator sets the path separator
func (b *Builder) WithSeparator(sep string) *Builder {
	if sep == "" {
		b.err = fmt.Errorf("%w: empty separator", ErrInvalidName)
		return b
	}
	b.opts = append(b.opts, WithSeparator(sep))
	return b
}

// WithEnvTransform sets a custom environment variable transformer
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.opts = append(b.opts, WithEnvTransform(fn))
	return b
}

// WithEnvLookup sets the environment lookup function
func (b *Builder) WithEnvLookup(fn EnvLookupFunc) *Builder {
	b.opts = append(b.opts, WithEnvLookup(fn))
	return b
}

// WithDefaults sets a struct whose fields declare settings and their defaults
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithPrefix sets the section path under which WithDefaults registers
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// WithSetting declares a setting by its full path, e.g. "server.port"
func (b *Builder) WithSetting(path string, def DefaultFunc, doc string, opts ...SettingOption) *Builder {
	b.specs = append(b.specs, settingSpec{path: path, def: def, doc: doc, opts: opts})
	return b
}

// WithValues sets persisted (config) values from a nested map
func (b *Builder) WithValues(values map[string]any) *Builder {
	b.values = values
	return b
}

// WithCLI sets command-line values from a flat or nested map
func (b *Builder) WithCLI(values map[string]any) *Builder {
	b.cli = values
	return b
}

// WithForced sets forced values from a flat or nested map
func (b *Builder) WithForced(values map[string]any) *Builder {
	b.forced = values
	return b
}

// WithStrict makes Build fail when values reference unknown settings
func (b *Builder) WithStrict() *Builder {
	b.strict = true
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the settings tree with all specified options
func (b *Builder) Build() (*Section, error) {
	if b.err != nil {
		return nil, b.err
	}

	root := New(b.opts...)

	if b.defaults != nil {
		if err := root.RegisterStruct(b.prefix, b.defaults); err != nil {
			return nil, fmt.Errorf("failed to register defaults: %w", err)
		}
	}

	for _, spec := range b.specs {
		if err := root.declare(spec); err != nil {
			return nil, fmt.Errorf("failed to declare %q: %w", spec.path, err)
		}
	}

	var unknown []string
	if b.values != nil {
		rest, err := root.UpdateKnown(b.values)
		if err != nil {
			return nil, fmt.Errorf("failed to apply values: %w", err)
		}
		unknown = append(unknown, flattenKeys(rest, root.separator())...)
	}
	for _, layer := range []struct {
		src    Source
		values map[string]any
	}{
		{SourceCLI, b.cli},
		{SourceForced, b.forced},
	} {
		if layer.values == nil {
			continue
		}
		missing, err := root.ApplySource(layer.src, layer.values)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s values: %w", layer.src, err)
		}
		unknown = append(unknown, missing...)
	}
	if b.strict && len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(unknown, ", "))
	}

	for _, validator := range b.validators {
		if err := validator(root); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return root, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Section {
	root, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("settings build failed: %v", err))
	}
	return root
}

// BuildAndScan builds and decodes the effective values into the provided target struct pointer
func (b *Builder) BuildAndScan(target any) error {
	root, err := b.Build()
	if err != nil {
		return err
	}
	if err := root.Scan(b.prefix, target); err != nil {
		return fmt.Errorf("failed to scan final config into target: %w", err)
	}
	return nil
}

// declare registers one declaration through the pending pool of its section
func (sec *Section) declare(spec settingSpec) error {
	sep := sec.separator()
	parts := strings.Split(spec.path, sep)

	target := sec
	for _, name := range parts[:len(parts)-1] {
		child, err := target.Section(name)
		if err != nil {
			return err
		}
		target = child
	}
	if _, err := target.Register(parts[len(parts)-1], spec.def, spec.doc, spec.opts...); err != nil {
		return err
	}
	_, err := target.Section("")
	return err
}

// flattenKeys lists the separated paths of every leaf in a nested map
func flattenKeys(m map[string]any, sep string) []string {
	flat := flattenMap(m, "", sep)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	return keys
}
