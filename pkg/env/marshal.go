package env

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

type Option func(*options)

type options struct {
	mask map[string]bool
}

// WithMasked replaces the values of the given keys with "***".
func WithMasked(keys ...string) Option {
	return func(o *options) {
		for _, k := range keys {
			o.mask[k] = true
		}
	}
}

// MarshalEnv reflects over the struct and creates .env content from tags
func MarshalEnv(c any, opts ...Option) (string, error) {
	o := options{mask: make(map[string]bool)}
	for _, opt := range opts {
		opt(&o)
	}

	v := reflect.ValueOf(c)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", fmt.Errorf("marshal env: expected struct, got %s", v.Kind())
	}
	t := v.Type()

	var lines []string
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("env")

		// Skip fields without env tag or unexported fields
		if tag == "" || !field.IsExported() {
			continue
		}

		// Parse tag: "KEY,required,notEmpty" or "KEY"
		key := strings.Split(tag, ",")[0]
		if key == "" {
			continue
		}

		val := v.Field(i)
		if isZeroValue(val) {
			continue
		}

		sep := field.Tag.Get("envSeparator")
		if sep == "" {
			sep = ","
		}

		strVal := formatValue(val, sep)
		if o.mask[key] {
			strVal = "***"
		}
		lines = append(lines, fmt.Sprintf("%s=%s", key, strVal))
	}

	result := strings.Join(lines, "\n")
	if result != "" {
		result += "\n"
	}

	return result, nil
}

// isZeroValue checks if a reflect.Value is the zero value for its type
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Chan, reflect.Func:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}

func formatValue(v reflect.Value, sep string) string {
	if v.Type() == durationType {
		return time.Duration(v.Int()).String()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Slice:
		items := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			items = append(items, formatValue(v.Index(i), sep))
		}
		return strings.Join(items, sep)
	case reflect.Map:
		// key:value pairs, sorted for stable output
		items := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			items = append(items, formatValue(iter.Key(), sep)+":"+formatValue(iter.Value(), sep))
		}
		sort.Strings(items)
		return strings.Join(items, sep)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
