// FILE: lixenwraith/cfgtree/errors.go
package cfgtree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a name or path lookup matches nothing.
	ErrNotFound = errors.New("config object not found")
	// ErrAmbiguous is returned when a bare name matches more than one section or setting.
	ErrAmbiguous = errors.New("more than one config object named")
	// ErrCoercion is returned when a raw value cannot be converted to a setting's kind.
	ErrCoercion = errors.New("value conversion failed")
	// ErrValidation is returned when a validator or the choices list rejects a value.
	ErrValidation = errors.New("value rejected")
	// ErrArity is returned by SetDefault when called with fewer than two arguments.
	ErrArity = errors.New("wrong number of arguments")
	// ErrNotSetting is returned when a value write targets a section.
	ErrNotSetting = errors.New("config object is not a setting")
	// ErrNotSection is returned when a section lookup resolves to a setting.
	ErrNotSection = errors.New("config object is not a section")
	// ErrInvalidName is returned for empty names or names containing the path separator.
	ErrInvalidName = errors.New("invalid name")
	// ErrSourceReadOnly is returned when writing to the envvar or default source.
	ErrSourceReadOnly = errors.New("source cannot be set directly")
	// ErrUnknownKeys is returned by a strict Builder when values reference unknown settings.
	ErrUnknownKeys = errors.New("unknown configuration keys")
	// ErrUnsupportedFormat is returned when an output format cannot be determined.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// ValueError describes a raw value that a setting refused.
// It unwraps to ErrCoercion or ErrValidation, and to the underlying cause if any.
type ValueError struct {
	Setting string
	Value   any
	Reason  string
	Choices []any
	Kind    error
	Cause   error
}

func (e *ValueError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v for setting %q: %#v", e.Kind, e.Setting, e.Value)
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.Choices) > 0 {
		parts := make([]string, len(e.Choices))
		for i, c := range e.Choices {
			parts[i] = fmt.Sprint(c)
		}
		fmt.Fprintf(&b, " (choose from: %s)", strings.Join(parts, ", "))
	}
	return b.String()
}

func (e *ValueError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func coercionError(name string, value any, reason string, cause error) error {
	return &ValueError{Setting: name, Value: value, Reason: reason, Kind: ErrCoercion, Cause: cause}
}

func validationError(name string, value any, reason string, choices []any, cause error) error {
	return &ValueError{Setting: name, Value: value, Reason: reason, Choices: choices, Kind: ErrValidation, Cause: cause}
}
