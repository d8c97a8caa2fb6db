// File: lixenwraith/cfgtree/type.go
package cfgtree

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// settingValue resolves name to a setting and returns its effective value
func (sec *Section) settingValue(name string) (any, error) {
	s, err := sec.Lookup(name)
	if err != nil {
		return nil, err
	}
	return s.Value()
}

// String retrieves a setting value as a string.
// Attempts conversion from common types if the value isn't already a string.
func (sec *Section) String(name string) (string, error) {
	val, err := sec.settingValue(name)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil // Treat nil as empty string for convenience
	}
	if strVal, ok := val.(string); ok {
		return strVal, nil
	}
	return stringify(val), nil
}

// Int retrieves a setting value as an int.
// Attempts conversion from numeric types, parsable strings, and booleans.
func (sec *Section) Int(name string) (int, error) {
	val, err := sec.settingValue(name)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for %s is nil, cannot convert to int", name)
	}

	i, err := toInt(val)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %T to int for %s: %w", val, name, err)
	}
	return i, nil
}

// Bool retrieves a setting value as a bool.
// Attempts conversion from numeric types (0=false, non-zero=true) and parsable strings.
func (sec *Section) Bool(name string) (bool, error) {
	val, err := sec.settingValue(name)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, fmt.Errorf("value for %s is nil, cannot convert to bool", name)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		b, err := strconv.ParseBool(v.String())
		if err != nil {
			return false, fmt.Errorf("cannot convert string %q to bool for %s: %w", v.String(), name, err)
		}
		return b, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, nil
	}

	return false, fmt.Errorf("cannot convert type %T to bool for %s", val, name)
}

// Float64 retrieves a setting value as a float64.
func (sec *Section) Float64(name string) (float64, error) {
	val, err := sec.settingValue(name)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for %s is nil, cannot convert to float64", name)
	}

	f, err := toFloat(val)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %T to float64 for %s: %w", val, name, err)
	}
	return f, nil
}

// Strings retrieves a setting value as a string slice.
// A scalar is returned as a single-element slice.
func (sec *Section) Strings(name string) ([]string, error) {
	val, err := sec.settingValue(name)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	return toStringList(val)
}

// Duration retrieves a setting value as a time.Duration.
// Strings are parsed with time.ParseDuration; integers are taken as nanoseconds.
func (sec *Section) Duration(name string) (time.Duration, error) {
	val, err := sec.settingValue(name)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return 0, fmt.Errorf("value for %s is nil, cannot convert to duration", name)
	}

	d, err := toDuration(val)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %T to duration for %s: %w", val, name, err)
	}
	return d, nil
}
