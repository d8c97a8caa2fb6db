// FILE: lixenwraith/cfgtree/source.go
package cfgtree

import (
	"os"
	"strings"
)

// Source identifies where a setting's effective value came from
type Source string

const (
	// SourceForced represents values forced by application code
	SourceForced Source = "forced"
	// SourceCLI represents values parsed from command-line arguments
	SourceCLI Source = "cliarg"
	// SourceEnv represents values read from environment variables at lookup time
	SourceEnv Source = "envvar"
	// SourceConfig represents persisted values, e.g. read from a config file
	SourceConfig Source = "config"
	// SourceDefault represents the setting's compiled-in default
	SourceDefault Source = "default"
)

// Precedence lists every source, highest priority first.
var Precedence = []Source{SourceForced, SourceCLI, SourceEnv, SourceConfig, SourceDefault}

// DefaultSeparator joins section and setting names into paths.
const DefaultSeparator = "."

// EnvTransformFunc converts a setting's section path and name to an environment variable name
type EnvTransformFunc func(sectionPath []string, name string) string

// EnvLookupFunc looks up an environment variable, reporting whether it is set
type EnvLookupFunc func(key string) (string, bool)

// treeOptions is carried by the root section and shared by the whole tree
type treeOptions struct {
	envPrefix    string
	separator    string
	envTransform EnvTransformFunc
	lookupEnv    EnvLookupFunc
}

// Option configures a settings tree created by New
type Option func(*treeOptions)

func defaultTreeOptions() *treeOptions {
	return &treeOptions{
		separator: DefaultSeparator,
		lookupEnv: os.LookupEnv,
	}
}

// WithEnvPrefix sets the environment variable prefix.
// Example: "MYAPP_" maps setting "port" in section "server" to "MYAPP_SERVER_PORT",
// and setting "debug" on the root to "MYAPP__DEBUG".
func WithEnvPrefix(prefix string) Option {
	return func(o *treeOptions) {
		o.envPrefix = prefix
	}
}

// WithSeparator sets the path separator (default ".")
func WithSeparator(sep string) Option {
	return func(o *treeOptions) {
		if sep != "" {
			o.separator = sep
		}
	}
}

// WithEnvTransform replaces the default environment variable naming scheme.
// The prefix set by WithEnvPrefix is not applied to custom transforms.
func WithEnvTransform(fn EnvTransformFunc) Option {
	return func(o *treeOptions) {
		o.envTransform = fn
	}
}

// WithEnvLookup replaces os.LookupEnv, e.g. with a snapshot of the environment taken at startup
func WithEnvLookup(fn EnvLookupFunc) Option {
	return func(o *treeOptions) {
		if fn != nil {
			o.lookupEnv = fn
		}
	}
}

// EnvMap returns an EnvLookupFunc backed by a fixed map
func EnvMap(env map[string]string) EnvLookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// envName derives the environment variable name for a setting
func (o *treeOptions) envName(sectionPath []string, name string) string {
	if o.envTransform != nil {
		return o.envTransform(sectionPath, name)
	}
	return defaultEnvTransform(o.envPrefix)(sectionPath, name)
}

// defaultEnvTransform creates the default environment variable transformer:
// prefix + SECTION_PATH + "_" + NAME. The joiner is kept for root-level
// settings, whose section path is empty.
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(sectionPath []string, name string) string {
		return prefix + strings.ToUpper(strings.Join(sectionPath, "_")) + "_" + strings.ToUpper(name)
	}
}
