package core

import (
	"encoding/json"
	"math"
	"reflect"
)

// Options is the configuration record handed to the render function and
// serialized into the bootstrap script. The "entry" key names the build
// entry to render; every other key is passed through verbatim.
type Options map[string]any

const EntryKey = "entry"

func (o Options) Entry() string {
	entry, _ := o[EntryKey].(string)
	return entry
}

// NormalizeOptions wraps a bare entry name into an Options record and
// returns anything else unchanged. Shape validation happens in AsOptions.
func NormalizeOptions(raw any) any {
	if entry, ok := raw.(string); ok {
		return Options{EntryKey: entry}
	}
	return raw
}

// AsOptions accepts any string-keyed map, or a struct which is converted
// through its JSON encoding. Nil maps and pointers are not options.
func AsOptions(v any) (Options, bool) {
	switch o := v.(type) {
	case nil:
		return nil, false
	case Options:
		return o, o != nil
	case map[string]any:
		return Options(o), o != nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		opts := make(Options, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			opts[iter.Key().String()] = iter.Value().Interface()
		}
		return opts, true
	case reflect.Struct:
		data, err := json.Marshal(rv.Interface())
		if err != nil {
			return nil, false
		}
		var opts Options
		if err := json.Unmarshal(data, &opts); err != nil {
			return nil, false
		}
		return opts, opts != nil
	}
	return nil, false
}

// IsAbsent reports whether the caller supplied no prerender option: nil,
// the empty string, false, or a numeric zero (NaN included).
func IsAbsent(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	}

	rv := reflect.ValueOf(raw)
	switch {
	case rv.CanInt():
		return rv.Int() == 0
	case rv.CanUint():
		return rv.Uint() == 0
	case rv.CanFloat():
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	}
	return false
}
