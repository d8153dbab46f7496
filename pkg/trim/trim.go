// Package trim recursively trims leading and trailing whitespace from the
// string fields of a struct, in place. It is the whitespace counterpart of
// the sanitize package's walker: a single-pass, depth-bounded traversal
// with no shared state, meant to run on decoded request bodies before
// validation.
package trim

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// maxDepth bounds nested traversal; deeper values are left untouched.
const maxDepth = 5

// ErrNotPointer is returned when the value is not a non-nil struct pointer.
var ErrNotPointer = errors.New("trim: value must be a non-nil pointer to a struct")

// Strings trims every settable string field of the struct pointed to by v,
// recursing into nested structs, pointers, slices and maps. Standard
// library types are never traversed. Fields tagged `trim:"-"` are skipped.
func Strings(v any) error {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrNotPointer, v)
	}
	walk(rv.Elem(), 0)
	return nil
}

func walk(rv reflect.Value, depth int) {
	if depth >= maxDepth {
		return
	}

	switch rv.Kind() {
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(strings.TrimSpace(rv.String()))
		}

	case reflect.Pointer:
		if !rv.IsNil() {
			walk(rv.Elem(), depth)
		}

	case reflect.Interface:
		// Only pointer-backed interface values are mutable in place.
		if !rv.IsNil() && rv.Elem().Kind() == reflect.Pointer {
			walk(rv.Elem(), depth)
		}

	case reflect.Struct:
		if stdlibType(rv.Type()) {
			return
		}
		t := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("trim") == "-" {
				continue
			}
			fv := rv.Field(i)
			if fv.Kind() == reflect.String {
				fv.SetString(strings.TrimSpace(fv.String()))
				continue
			}
			walk(fv, depth+1)
		}

	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			walk(rv.Index(i), depth)
		}

	case reflect.Map:
		if rv.Type().Elem().Kind() == reflect.String {
			for _, key := range rv.MapKeys() {
				rv.SetMapIndex(key, reflect.ValueOf(strings.TrimSpace(rv.MapIndex(key).String())))
			}
			return
		}
		for _, key := range rv.MapKeys() {
			value := reflect.New(rv.Type().Elem()).Elem()
			value.Set(rv.MapIndex(key))
			walk(value, depth)
			rv.SetMapIndex(key, value)
		}
	}
}

// stdlibType reports whether t belongs to the standard library, whose
// values (time.Time and friends) must not be rewritten.
func stdlibType(t reflect.Type) bool {
	pkg := t.PkgPath()
	if pkg == "" {
		return false
	}
	first := pkg
	if i := strings.IndexByte(pkg, '/'); i >= 0 {
		first = pkg[:i]
	}
	return !strings.Contains(first, ".")
}
