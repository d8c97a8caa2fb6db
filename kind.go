// FILE: lixenwraith/cfgtree/kind.go
package cfgtree

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Kind is the coercion target of a setting
type Kind int

const (
	// KindInferred derives the kind from the default value on first use
	KindInferred Kind = iota
	// KindAny passes values through unchanged
	KindAny
	// KindBool accepts native booleans and the exact strings "True" and "False"
	KindBool
	// KindInt parses integers
	KindInt
	// KindFloat parses floating point numbers
	KindFloat
	// KindString converts scalars to strings
	KindString
	// KindStringList converts list elements to strings and wraps scalars in a single-element list
	KindStringList
	// KindDuration parses time.Duration values ("1m30s")
	KindDuration
	// KindCustom uses a caller-supplied ParseFunc
	KindCustom
)

var kindNames = map[Kind]string{
	KindInferred:   "inferred",
	KindAny:        "any",
	KindBool:       "bool",
	KindInt:        "int",
	KindFloat:      "float",
	KindString:     "string",
	KindStringList: "list",
	KindDuration:   "duration",
	KindCustom:     "custom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseFunc converts a raw value for a KindCustom setting
type ParseFunc func(raw any) (any, error)

// inferKind maps a default value to a kind. Only the closed set of
// bool, integers, string and lists is inferred.
func inferKind(v any) (Kind, error) {
	switch v.(type) {
	case nil:
		return KindAny, nil
	case bool:
		return KindBool, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt, nil
	case string:
		return KindString, nil
	case []byte:
		// raw bytes are not a list of strings
	case []string, []any:
		return KindStringList, nil
	default:
		if reflect.ValueOf(v).Kind() == reflect.Slice {
			return KindStringList, nil
		}
	}
	return KindInferred, fmt.Errorf("cannot infer kind from default of type %T, set one explicitly", v)
}

// coerce converts raw to kind k
func coerce(k Kind, parse ParseFunc, raw any) (any, error) {
	switch k {
	case KindAny:
		return raw, nil
	case KindBool:
		return toBool(raw)
	case KindInt:
		return toInt(raw)
	case KindFloat:
		return toFloat(raw)
	case KindString:
		return toString(raw)
	case KindStringList:
		return toStringList(raw)
	case KindDuration:
		return toDuration(raw)
	case KindCustom:
		if parse == nil {
			return nil, fmt.Errorf("no parser configured")
		}
		return parse(raw)
	}
	return nil, fmt.Errorf("unsupported kind %s", k)
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "True":
			return true, nil
		case "False":
			return false, nil
		}
		return false, fmt.Errorf("expected \"True\" or \"False\"")
	}
	return false, fmt.Errorf("cannot convert type %T to bool", raw)
}

func toInt(raw any) (int, error) {
	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt {
			return 0, fmt.Errorf("unsigned integer %d overflows int", u)
		}
		return int(u), nil
	case reflect.Float32, reflect.Float64:
		// Truncate toward zero
		return int(v.Float()), nil
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		i, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 0)
		if err != nil {
			return 0, err
		}
		return int(i), nil
	}
	return 0, fmt.Errorf("cannot convert type %T to int", raw)
}

func toFloat(raw any) (float64, error) {
	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.String:
		return strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
	}
	return 0, fmt.Errorf("cannot convert type %T to float", raw)
}

func toString(raw any) (string, error) {
	if raw == nil {
		return "", fmt.Errorf("cannot convert nil to string")
	}
	return stringify(raw), nil
}

func toStringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []byte:
		return []string{string(v)}, nil
	}

	if rv := reflect.ValueOf(raw); rv.Kind() == reflect.Slice {
		list := make([]string, rv.Len())
		for i := range list {
			s, err := toString(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("list item %d: %w", i, err)
			}
			list[i] = s
		}
		return list, nil
	}
	s, err := toString(raw)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

func toDuration(raw any) (time.Duration, error) {
	d, err := decodeAs(time.Duration(0))(raw)
	if err != nil {
		return 0, err
	}
	return d.(time.Duration), nil
}

// stringify renders a value in its storable string form
func stringify(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	case time.Duration:
		return v.String()
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(val).Int(), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(val).Uint(), 10)
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case error:
		return v.Error()
	}
	if rv := reflect.ValueOf(val); rv.Kind() == reflect.Slice {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = stringify(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprintf("%v", val)
}
