package cfgtree

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// RegisterStruct declares settings from a struct whose field values are the defaults.
// Field names come from the `toml:"..."` tag (or the field name); nested
// structs become subsections. The `doc:"..."` tag supplies help text and
// `cfg:"hidden,ephemeral,allownone"` sets flags. prefix is a separated
// section path under this section; an empty prefix is allowed.
//
// Registration goes through the pending pool, so this section's pool should
// be empty when RegisterStruct is called.
func (sec *Section) RegisterStruct(prefix string, structWithDefaults any) error {
	v := reflect.ValueOf(structWithDefaults)

	// Handle pointer or direct struct value
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("RegisterStruct requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("RegisterStruct requires a struct or struct pointer, got %T", structWithDefaults)
	}

	target := sec
	prefix = strings.Trim(prefix, sec.separator())
	if prefix != "" {
		for _, name := range strings.Split(prefix, sec.separator()) {
			child, err := target.Section(name)
			if err != nil {
				return err
			}
			target = child
		}
	}

	var errors []string
	target.registerFields(v, "", &errors)

	if len(errors) > 0 {
		return fmt.Errorf("failed to register %d field(s): %s", len(errors), strings.Join(errors, "; "))
	}
	return nil
}

// registerFields registers the leaf fields of v into sec, attaches them, then
// recurses into nested structs so each gets its own subsection.
func (sec *Section) registerFields(v reflect.Value, fieldPath string, errors *[]string) {
	t := v.Type()

	type nested struct {
		name  string
		field string
		value reflect.Value
	}
	var children []nested

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(TagName)
		if tag == "-" {
			continue
		}
		key := field.Name
		if tag != "" {
			if name := strings.Split(tag, ",")[0]; name != "" {
				key = name
			}
		}

		// Nested structs (or non-nil pointers to structs) become subsections
		isStruct := fieldValue.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{})
		isPtrToStruct := fieldValue.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct
		if isStruct || isPtrToStruct {
			if isPtrToStruct {
				if fieldValue.IsNil() {
					continue
				}
				fieldValue = fieldValue.Elem()
			}
			children = append(children, nested{name: key, field: fieldPath + field.Name + ".", value: fieldValue})
			continue
		}

		opts := append(kindOptions(field.Type, fieldValue), flagOptions(field.Tag.Get("cfg"))...)
		if _, err := sec.Register(key, Const(fieldValue.Interface()), field.Tag.Get("doc"), opts...); err != nil {
			*errors = append(*errors, fmt.Sprintf("field %s%s: %v", fieldPath, field.Name, err))
		}
	}

	// Attach this struct's settings before any child section drains the pool
	if _, err := sec.Section(""); err != nil {
		*errors = append(*errors, err.Error())
	}

	for _, child := range children {
		sub, err := sec.Section(child.name)
		if err != nil {
			*errors = append(*errors, fmt.Sprintf("field %s: %v", strings.TrimSuffix(child.field, "."), err))
			continue
		}
		sub.registerFields(child.value, child.field, errors)
	}
}

// kindOptions picks a kind from a struct field's type
func kindOptions(t reflect.Type, v reflect.Value) []SettingOption {
	if t == reflect.TypeOf(time.Duration(0)) {
		return []SettingOption{OfKind(KindDuration)}
	}
	switch t.Kind() {
	case reflect.Bool:
		return []SettingOption{OfKind(KindBool)}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []SettingOption{OfKind(KindInt)}
	case reflect.Float32, reflect.Float64:
		return []SettingOption{OfKind(KindFloat)}
	case reflect.String:
		return []SettingOption{OfKind(KindString)}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return []SettingOption{OfKind(KindStringList)}
		}
	}
	return []SettingOption{DecodeAs(v.Interface())}
}

// flagOptions parses the cfg tag
func flagOptions(tag string) []SettingOption {
	var opts []SettingOption
	for _, flag := range strings.Split(tag, ",") {
		switch strings.TrimSpace(flag) {
		case "hidden":
			opts = append(opts, Hidden())
		case "ephemeral":
			opts = append(opts, Ephemeral())
		case "allownone":
			opts = append(opts, AllowNone())
		}
	}
	return opts
}

// Scan decodes the effective values under basePath (relative to this
// section; empty for the whole subtree) into target, which must be a
// non-nil pointer to a struct or map. Fields are matched by their toml tag.
func (sec *Section) Scan(basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	snapshot, err := sec.Snapshot()
	if err != nil {
		return err
	}

	// A path that doesn't exist decodes an empty map into the target
	sectionData := navigateToPath(snapshot, basePath, sec.separator())
	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		if sectionData != nil {
			return fmt.Errorf("path %q does not refer to a scannable section (map), but to type %T", basePath, sectionData)
		}
		sectionMap = make(map[string]any)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("failed to scan section %q into %T: %w", basePath, target, err)
	}
	return nil
}
