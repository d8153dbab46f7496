package sanitize

import (
	"fmt"
	"log/slog"
	"reflect"
)

// SanitizeStruct cleans every markable string field of the struct pointed
// to by v, in place, recursing into nested values up to the engine's depth
// bound. v must be a non-nil pointer to a struct.
//
// The depth bound is the sole guard against cyclic or explosive object
// graphs: a self-referential structure inside the bound is re-visited
// (redundant but harmless for a pure transformation), a longer chain is
// truncated. There is deliberately no visited set.
//
// Sanitization failures never surface here; they degrade to safe values
// inside Sanitize. Errors returned by SanitizeStruct are structural:
// a non-pointer root, or a sanitize tag on an unexported field or with an
// unknown strategy. Those indicate a programming defect and abort the walk.
func (e *Engine) SanitizeStruct(v any) error {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: got %T", ErrNotPointer, v)
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrNotStruct, v)
	}

	return e.walkStruct(elem, 0)
}

func (e *Engine) walkStruct(rv reflect.Value, depth int) error {
	if depth >= e.maxDepth {
		return nil
	}

	tf := e.fieldsOf(rv.Type())
	if tf.err != nil {
		return tf.err
	}
	if tf.opaque || len(tf.fields) == 0 {
		return nil
	}

	for i := range tf.fields {
		d := &tf.fields[i]
		fv := rv.FieldByIndex(d.index)

		switch {
		case fv.Kind() == reflect.String:
			e.sanitizeStringField(fv, d)

		case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.String:
			// A nil *string is absence of a value; it stays nil and is
			// never replaced by an empty string.
			if !fv.IsNil() {
				e.sanitizeStringField(fv.Elem(), d)
			}

		default:
			if !d.recursive {
				continue
			}
			if err := e.walkValue(fv, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) sanitizeStringField(fv reflect.Value, d *fieldDescriptor) {
	original := fv.String()
	cleaned := e.sanitize(original, d.strategy, d.custom)
	if cleaned != original {
		fv.SetString(cleaned)
		e.log.Debug("sanitized field", slog.String("field", d.name))
	}
}

// walkValue recurses into a nested value. Pointer and interface
// indirection does not consume depth; only the hop from a struct to a
// tagged nested field does, matching the linear-chain bound.
func (e *Engine) walkValue(rv reflect.Value, depth int) error {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return e.walkValue(rv.Elem(), depth)

	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		// Only pointer-backed interface values can be mutated in place; a
		// struct stored by value in an interface is a copy the walker
		// could not write back to.
		if elem := rv.Elem(); elem.Kind() == reflect.Pointer {
			return e.walkValue(elem, depth)
		}
		return nil

	case reflect.Struct:
		return e.walkStruct(rv, depth)

	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := e.walkValue(rv.Index(i), depth); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		// Map values are not addressable; each is copied out, walked, and
		// stored back.
		for _, key := range rv.MapKeys() {
			value := reflect.New(rv.Type().Elem()).Elem()
			value.Set(rv.MapIndex(key))
			if err := e.walkValue(value, depth); err != nil {
				return err
			}
			rv.SetMapIndex(key, value)
		}
		return nil

	default:
		return nil
	}
}
