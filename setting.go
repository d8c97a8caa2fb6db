// FILE: lixenwraith/cfgtree/setting.go
package cfgtree

import (
	"fmt"
	"reflect"
)

// DefaultFunc computes a setting's default. It receives the owning section
// and is called every time the default is needed, so it may depend on the
// current values of other settings.
type DefaultFunc func(sec *Section) any

// Const returns a DefaultFunc that always yields v
func Const(v any) DefaultFunc {
	return func(*Section) any { return v }
}

// ValidateFunc rejects a coerced value by returning an error
type ValidateFunc func(value any) error

// ConformFunc transforms a validated value into the representation stored and returned
type ConformFunc func(value any) (any, error)

// PredicateFunc decides a per-setting flag such as ephemeral or hidden
type PredicateFunc func(s *Setting) bool

// SettingOption configures a setting at registration
type SettingOption func(*Setting)

// OfKind sets the coercion target explicitly instead of inferring it from the default
func OfKind(k Kind) SettingOption {
	return func(s *Setting) {
		s.kind = k
	}
}

// Parser sets a custom parser; the setting's kind becomes KindCustom
func Parser(fn ParseFunc) SettingOption {
	return func(s *Setting) {
		s.kind = KindCustom
		s.parse = fn
	}
}

// AllowNone permits nil as a value, bypassing coercion
func AllowNone() SettingOption {
	return func(s *Setting) {
		s.allowNone = true
	}
}

// Choices restricts values to a closed set
func Choices(values ...any) SettingOption {
	return func(s *Setting) {
		s.choices = values
	}
}

// Validator adds a validation function run after coercion
func Validator(fn ValidateFunc) SettingOption {
	return func(s *Setting) {
		s.validate = fn
	}
}

// Conform adds a transform applied after validation passes
func Conform(fn ConformFunc) SettingOption {
	return func(s *Setting) {
		s.conform = fn
	}
}

// Ephemeral marks the setting as never persisted
func Ephemeral() SettingOption {
	return EphemeralWhen(func(*Setting) bool { return true })
}

// EphemeralWhen marks the setting ephemeral when fn reports true
func EphemeralWhen(fn PredicateFunc) SettingOption {
	return func(s *Setting) {
		s.ephemeral = fn
	}
}

// Hidden omits the setting from serialization while it holds its default
func Hidden() SettingOption {
	return HiddenWhen(func(*Setting) bool { return true })
}

// HiddenWhen marks the setting hidden when fn reports true
func HiddenWhen(fn PredicateFunc) SettingOption {
	return func(s *Setting) {
		s.hidden = fn
	}
}

// slot holds one overlay source's value
type slot struct {
	set   bool
	raw   any // input as supplied
	typed any // after coercion
	value any // after conform
}

// Setting is a single named value slot owned by one Section
type Setting struct {
	section   *Section
	name      string
	defaultFn DefaultFunc
	doc       string

	kind      Kind
	parse     ParseFunc
	allowNone bool
	choices   []any
	validate  ValidateFunc
	conform   ConformFunc
	ephemeral PredicateFunc
	hidden    PredicateFunc

	forced slot
	cliarg slot
	config slot
}

func newSetting(name string, def DefaultFunc, doc string, opts ...SettingOption) *Setting {
	s := &Setting{
		name:      name,
		defaultFn: def,
		doc:       doc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the setting name
func (s *Setting) Name() string { return s.name }

// Doc returns the setting help text
func (s *Setting) Doc() string { return s.doc }

// Section returns the owning section, or nil while the setting is still pending
func (s *Setting) Section() *Section { return s.section }

// Choices returns the allowed values, if restricted
func (s *Setting) Choices() []any { return s.choices }

// Path returns the setting's full path, e.g. "server.port"
func (s *Setting) Path() string {
	if s.section == nil {
		return s.name
	}
	prefix := s.section.SectionPath("")
	if prefix == "" {
		return s.name
	}
	return prefix + s.section.separator() + s.name
}

func (s *Setting) isNode() {}

// Default evaluates the default producer
func (s *Setting) Default() any {
	if s.defaultFn == nil {
		return nil
	}
	return s.defaultFn(s.section)
}

// Ephemeral reports whether the setting is excluded from persistence
func (s *Setting) Ephemeral() bool {
	if s.ephemeral == nil || s.section == nil {
		return false
	}
	return s.ephemeral(s)
}

// Hidden reports whether the setting is omitted from serialization while defaulted
func (s *Setting) Hidden() bool {
	if s.hidden == nil || s.section == nil {
		return false
	}
	return s.hidden(s)
}

// Kind returns the coercion kind, inferring it from the default on first use
func (s *Setting) Kind() (Kind, error) {
	if s.kind != KindInferred {
		return s.kind, nil
	}
	if s.Ephemeral() {
		// Ephemeral values are never persisted, so no type is enforced
		s.kind = KindAny
		return s.kind, nil
	}
	def := s.Default()
	k, err := inferKind(def)
	if err != nil {
		return KindInferred, coercionError(s.name, def, err.Error(), nil)
	}
	if def == nil {
		s.allowNone = true
	}
	s.kind = k
	return k, nil
}

// process applies coercion, validation and conform to a raw value
func (s *Setting) process(raw any) (slot, error) {
	// Kind inference may enable allowNone, so it runs first
	k, err := s.Kind()
	if err != nil {
		return slot{}, err
	}

	if raw == nil {
		if s.allowNone {
			return slot{set: true}, nil
		}
		return slot{}, coercionError(s.name, raw, "nil is not allowed", nil)
	}

	typed, err := coerce(k, s.parse, raw)
	if err != nil {
		return slot{}, coercionError(s.name, raw, err.Error(), err)
	}

	if len(s.choices) > 0 && !containsValue(s.choices, typed) {
		return slot{}, validationError(s.name, raw, "not a valid choice", s.choices, nil)
	}
	if s.validate != nil {
		if err := s.validate(typed); err != nil {
			return slot{}, validationError(s.name, raw, err.Error(), nil, err)
		}
	}

	value := typed
	if s.conform != nil {
		if value, err = s.conform(typed); err != nil {
			return slot{}, validationError(s.name, raw, err.Error(), nil, err)
		}
	}

	return slot{set: true, raw: raw, typed: typed, value: value}, nil
}

// Value returns the effective value from the highest priority source:
// forced, cliarg, envvar, config, then default.
func (s *Setting) Value() (any, error) {
	_, sl, err := s.resolve()
	if err != nil {
		return nil, err
	}
	return sl.value, nil
}

// resolve finds the winning source and its processed value
func (s *Setting) resolve() (Source, slot, error) {
	if s.forced.set {
		return SourceForced, s.forced, nil
	}
	if s.cliarg.set {
		return SourceCLI, s.cliarg, nil
	}
	if raw, ok := s.lookupEnv(); ok {
		sl, err := s.process(raw)
		return SourceEnv, sl, err
	}
	if s.config.set {
		return SourceConfig, s.config, nil
	}
	sl, err := s.process(s.Default())
	if err != nil {
		return SourceDefault, slot{}, fmt.Errorf("invalid default: %w", err)
	}
	sl.raw = nil
	return SourceDefault, sl, nil
}

// Source reports which source would currently supply the value
func (s *Setting) Source() Source {
	switch {
	case s.forced.set:
		return SourceForced
	case s.cliarg.set:
		return SourceCLI
	}
	if _, ok := s.lookupEnv(); ok {
		return SourceEnv
	}
	if s.config.set {
		return SourceConfig
	}
	return SourceDefault
}

// SetValue sets the persisted (config) value. It never touches forced or cliarg.
func (s *Setting) SetValue(raw any) error {
	return s.SetConfig(raw)
}

// SetForced sets a value that supersedes every other source
func (s *Setting) SetForced(raw any) error {
	return s.setSlot(&s.forced, raw)
}

// SetCLI sets the value parsed from a command-line argument
func (s *Setting) SetCLI(raw any) error {
	return s.setSlot(&s.cliarg, raw)
}

// SetConfig sets the persisted value, which supersedes only the default
func (s *Setting) SetConfig(raw any) error {
	return s.setSlot(&s.config, raw)
}

// SetSource sets the value for one of the settable sources
func (s *Setting) SetSource(src Source, raw any) error {
	switch src {
	case SourceForced:
		return s.SetForced(raw)
	case SourceCLI:
		return s.SetCLI(raw)
	case SourceConfig:
		return s.SetConfig(raw)
	}
	return fmt.Errorf("%w: %s", ErrSourceReadOnly, src)
}

func (s *Setting) setSlot(dst *slot, raw any) error {
	sl, err := s.process(raw)
	if err != nil {
		return err
	}
	sl.raw = raw
	*dst = sl
	return nil
}

// ClearSource removes the value held by a settable source
func (s *Setting) ClearSource(src Source) {
	switch src {
	case SourceForced:
		s.forced = slot{}
	case SourceCLI:
		s.cliarg = slot{}
	case SourceConfig:
		s.config = slot{}
	}
}

// Persisted reports whether a config value has been set, regardless of whether it equals the default
func (s *Setting) Persisted() bool {
	return s.config.set
}

// ForgetConfig clears the config value; other sources are untouched
func (s *Setting) ForgetConfig() {
	s.ClearSource(SourceConfig)
}

// ConfigValue returns the persisted value as coerced, and whether one is set
func (s *Setting) ConfigValue() (any, bool) {
	return s.config.typed, s.config.set
}

// ValueUnmutated returns the storable string form of the effective value:
// the original input of the winning source when available, else the
// stringified resolved value.
func (s *Setting) ValueUnmutated() (string, error) {
	src, sl, err := s.resolve()
	if err != nil {
		return "", err
	}
	if src != SourceDefault && sl.raw != nil {
		return stringify(sl.raw), nil
	}
	return stringify(sl.value), nil
}

// Sources returns the raw value of every source currently present
func (s *Setting) Sources() map[Source]any {
	sources := make(map[Source]any)
	if s.forced.set {
		sources[SourceForced] = s.forced.raw
	}
	if s.cliarg.set {
		sources[SourceCLI] = s.cliarg.raw
	}
	if raw, ok := s.lookupEnv(); ok {
		sources[SourceEnv] = raw
	}
	if s.config.set {
		sources[SourceConfig] = s.config.raw
	}
	return sources
}

// EnvName returns the environment variable consulted for this setting.
// It is empty while the setting has no owning section.
func (s *Setting) EnvName() string {
	if s.section == nil {
		return ""
	}
	return s.section.options().envName(s.section.pathParts(), s.name)
}

func (s *Setting) lookupEnv() (string, bool) {
	name := s.EnvName()
	if name == "" {
		return "", false
	}
	return s.section.options().lookupEnv(name)
}

// Walk calls visitor with the owning section and this setting
func (s *Setting) Walk(visitor func(*Section, *Setting)) {
	visitor(s.section, s)
}

func (s *Setting) String() string {
	return fmt.Sprintf("%s (%s)", s.Path(), s.Source())
}

// containsValue checks membership with deep equality.
// Integer choices match coerced ints regardless of their declared integer type.
func containsValue(values []any, v any) bool {
	for _, candidate := range values {
		if reflect.DeepEqual(candidate, v) {
			return true
		}
		if isInteger(candidate) && isInteger(v) {
			ci, _ := toInt(candidate)
			vi, _ := toInt(v)
			if ci == vi {
				return true
			}
		}
	}
	return false
}

func isInteger(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
