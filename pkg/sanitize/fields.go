package sanitize

import (
	"fmt"
	"reflect"
	"strings"
)

// TagKey is the struct tag that marks a field for sanitization.
//
// The tag value names the strategy, optionally followed by options:
//
//	Bio     string  `sanitize:"basic"`
//	Comment string  `sanitize:"none"`
//	Extract string  `sanitize:"custom=highlight"`
//	Profile Profile `sanitize:"relaxed"`           // recursion point
//	Meta    Meta    `sanitize:"basic,norecurse"`   // never traversed
//	Raw     string  `sanitize:"-"`                 // explicitly unmarked
const TagKey = "sanitize"

const norecurseOption = "norecurse"

// fieldDescriptor captures one markable field of a type: its strategy, its
// traversal flag and enough identity for diagnostics. Descriptors are
// computed once per type and never change.
type fieldDescriptor struct {
	index     []int
	name      string
	strategy  Strategy
	custom    string
	recursive bool
}

// typeFields is the cached field table of one concrete type. A type is
// either opaque (never inspected, never traversed), markable-field-free,
// or carries descriptors in declaration order. A tag defect found during
// computation is cached too and surfaced on every walk of the type.
type typeFields struct {
	opaque bool
	fields []fieldDescriptor
	err    error
}

// fieldsOf returns the memoized field table for t, computing it on first
// use. Concurrent first computations are safe: both compute the same
// table and LoadOrStore keeps one.
func (e *Engine) fieldsOf(t reflect.Type) *typeFields {
	if cached, ok := e.fieldCache.Load(t); ok {
		return cached.(*typeFields)
	}
	computed := e.computeFields(t)
	actual, _ := e.fieldCache.LoadOrStore(t, computed)
	return actual.(*typeFields)
}

func (e *Engine) computeFields(t reflect.Type) *typeFields {
	if e.isOpaque(t) {
		return &typeFields{opaque: true}
	}
	tf := &typeFields{}
	e.collectFields(t, nil, t.Name(), tf)
	return tf
}

// collectFields appends descriptors for t's tagged fields. Anonymous
// embedded value structs are flattened in place via index paths, so a
// type's table covers the type and its embedded ancestry in declaration
// order without consuming traversal depth.
func (e *Engine) collectFields(t reflect.Type, index []int, owner string, tf *typeFields) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get(TagKey)

		if tag == "" || tag == "-" {
			if f.Anonymous && f.Type.Kind() == reflect.Struct && tag != "-" && !e.isOpaque(f.Type) {
				path := append(append([]int(nil), index...), i)
				e.collectFields(f.Type, path, owner, tf)
			}
			continue
		}

		if !f.IsExported() {
			tf.err = fmt.Errorf("%w: %s.%s", ErrUnexportedField, owner, f.Name)
			return
		}

		d, err := parseTag(tag)
		if err != nil {
			tf.err = fmt.Errorf("%s.%s: %w", owner, f.Name, err)
			return
		}
		d.index = append(append([]int(nil), index...), i)
		d.name = owner + "." + f.Name
		tf.fields = append(tf.fields, d)
	}
}

func parseTag(tag string) (fieldDescriptor, error) {
	d := fieldDescriptor{recursive: true}

	parts := strings.Split(tag, ",")
	switch {
	case parts[0] == string(StrategyBasic):
		d.strategy = StrategyBasic
	case parts[0] == string(StrategyRelaxed):
		d.strategy = StrategyRelaxed
	case parts[0] == string(StrategyNone):
		d.strategy = StrategyNone
	case strings.HasPrefix(parts[0], string(StrategyCustom)+"="):
		d.strategy = StrategyCustom
		d.custom = strings.TrimPrefix(parts[0], string(StrategyCustom)+"=")
		if d.custom == "" {
			return d, fmt.Errorf("%w: custom strategy requires a safelist name", ErrInvalidTag)
		}
	default:
		return d, fmt.Errorf("%w: unknown strategy %q", ErrInvalidTag, parts[0])
	}

	for _, opt := range parts[1:] {
		switch opt {
		case norecurseOption:
			d.recursive = false
		default:
			return d, fmt.Errorf("%w: unknown option %q", ErrInvalidTag, opt)
		}
	}
	return d, nil
}

// isOpaque reports whether a type must never be traversed. The standard
// library is always opaque (its import paths have no dot in the first
// segment), as is anything under a configured prefix. This is a cost and
// blast-radius control: without it the walker would descend into values
// like time.Time wastefully.
func (e *Engine) isOpaque(t reflect.Type) bool {
	pkg := t.PkgPath()
	if pkg == "" {
		// Anonymous struct types carry no package path; they are caller
		// code and stay traversable.
		return false
	}

	first := pkg
	if i := strings.IndexByte(pkg, '/'); i >= 0 {
		first = pkg[:i]
	}
	if !strings.Contains(first, ".") {
		return true
	}

	for _, prefix := range e.opaquePrefixes {
		if strings.HasPrefix(pkg, prefix) {
			return true
		}
	}
	return false
}
