// FILE: lixenwraith/cfgtree/decode.go
package cfgtree

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag used by Scan and RegisterStruct
const TagName = "toml"

// DecodeAs makes the setting coerce values into the type of prototype using
// the same conversions as Scan (durations, times, comma-separated slices,
// net.IP, net.IPNet, url.URL, and weakly typed scalars).
func DecodeAs(prototype any) SettingOption {
	return Parser(decodeAs(prototype))
}

// decodeAs returns a parser producing values of prototype's type
func decodeAs(prototype any) ParseFunc {
	t := reflect.TypeOf(prototype)
	return func(raw any) (any, error) {
		if t == nil {
			return raw, nil
		}
		if reflect.TypeOf(raw) == t {
			return raw, nil
		}
		ptr := reflect.New(t)
		if err := decode(raw, ptr.Interface()); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}
}

// decode runs mapstructure with the package's hooks
func decode(input, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}
	return decoder.Decode(input)
}

// Snapshot returns a nested map of every setting's effective value in the
// subtree, ephemeral settings included.
func (sec *Section) Snapshot() (map[string]any, error) {
	out := make(map[string]any)
	sep := sec.separator()
	base := sec.SectionPath("")

	var firstErr error
	sec.Walk(func(_ *Section, s *Setting) {
		if firstErr != nil {
			return
		}
		v, err := s.Value()
		if err != nil {
			firstErr = fmt.Errorf("setting %s: %w", s.Path(), err)
			return
		}
		rel := s.Path()
		if base != "" {
			rel = strings.TrimPrefix(rel, base+sep)
		}
		setNestedValue(out, rel, sep, v)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}
		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}
