package safelist

import (
	"sort"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// AllTags is the pseudo-tag used with AddAttributes to allow an attribute
// on every permitted element.
const AllTags = ":all"

// Safelist is an immutable, named set of markup-filtering rules: which
// tags are allowed, which attributes are allowed on which tags, which URI
// schemes those attributes may carry, and which attributes are forcibly
// injected on output.
//
// All builder methods are copy-on-write and return a new Safelist, so a
// value that has been handed to an engine or registry never changes
// underneath it. The rule set compiles lazily, exactly once, into a
// bluemonday policy that performs the actual markup interpretation.
type Safelist struct {
	tags      map[string]struct{}
	attrs     map[string][]string            // tag (or AllTags) -> attribute names
	protocols map[string]map[string][]string // tag -> attribute -> schemes
	enforced  map[string]map[string]string   // tag -> attribute -> value

	compileOnce sync.Once
	policy      *bluemonday.Policy
}

// New returns an empty safelist that permits no tags at all. Cleaning with
// it yields plain text.
func New() *Safelist {
	return &Safelist{
		tags:      map[string]struct{}{},
		attrs:     map[string][]string{},
		protocols: map[string]map[string][]string{},
		enforced:  map[string]map[string]string{},
	}
}

// Basic allows simple text formatting: bold, italic, links, lists, block
// elements, headings and rules. Links are restricted to http, https and
// mailto and always carry rel="nofollow" on output.
func Basic() *Safelist {
	return New().
		AddTags(
			"a", "b", "blockquote", "br", "cite", "code", "dd", "dl", "dt",
			"em", "i", "li", "ol", "p", "pre", "q", "small", "span", "strike",
			"strong", "sub", "sup", "u", "ul",
			"h1", "h2", "h3", "h4", "h5", "h6", "hr",
		).
		AddAttributes("a", "href", "target", "rel").
		AddAttributes("blockquote", "cite").
		AddAttributes("q", "cite").
		AddProtocols("a", "href", "http", "https", "mailto").
		AddProtocols("blockquote", "cite", "http", "https").
		AddProtocols("q", "cite", "http", "https").
		AddEnforcedAttribute("a", "rel", "nofollow")
}

// Relaxed allows everything Basic does plus images, tables and the common
// presentation attributes. Script, iframe, object, embed and form are
// never in the set.
func Relaxed() *Safelist {
	return Basic().
		AddTags(
			"caption", "col", "colgroup", "div", "img",
			"table", "tbody", "td", "tfoot", "th", "thead", "tr",
		).
		AddAttributes(AllTags, "class", "id", "style", "title").
		AddAttributes("img", "src", "alt", "width", "height").
		AddAttributes("ol", "start", "type").
		AddAttributes("ul", "type").
		AddAttributes("table", "summary", "width").
		AddAttributes("td", "abbr", "colspan", "rowspan", "width").
		AddAttributes("th", "abbr", "colspan", "rowspan", "scope", "width").
		AddAttributes("col", "span", "width").
		AddAttributes("colgroup", "span", "width").
		AddProtocols("img", "src", "http", "https", "data")
}

// None strips all markup, leaving only text content.
func None() *Safelist {
	return New()
}

// AddTags returns a copy of the safelist with the given tags allowed.
func (s *Safelist) AddTags(names ...string) *Safelist {
	c := s.clone()
	for _, n := range names {
		c.tags[n] = struct{}{}
	}
	return c
}

// RemoveTags returns a copy of the safelist with the given tags (and their
// attribute and protocol rules) removed.
func (s *Safelist) RemoveTags(names ...string) *Safelist {
	c := s.clone()
	for _, n := range names {
		delete(c.tags, n)
		delete(c.attrs, n)
		delete(c.protocols, n)
		delete(c.enforced, n)
	}
	return c
}

// AddAttributes returns a copy of the safelist allowing the given
// attributes on tag. Use AllTags to allow them on every element.
func (s *Safelist) AddAttributes(tag string, attrs ...string) *Safelist {
	c := s.clone()
	c.attrs[tag] = appendMissing(c.attrs[tag], attrs...)
	return c
}

// AddProtocols returns a copy of the safelist restricting the given
// attribute on tag to the listed URI schemes. An attribute with no
// protocol rule accepts any value the underlying policy considers safe.
func (s *Safelist) AddProtocols(tag, attr string, schemes ...string) *Safelist {
	c := s.clone()
	m := c.protocols[tag]
	if m == nil {
		m = map[string][]string{}
		c.protocols[tag] = m
	}
	m[attr] = appendMissing(m[attr], schemes...)
	return c
}

// AddEnforcedAttribute returns a copy of the safelist that forces the
// given attribute value onto every occurrence of tag in the output.
//
// The underlying cleaning engine supports enforcement only for link
// relationship attributes: ("a", "rel", "nofollow") and ("a", "target",
// "_blank"). Other enforced attributes are retained in the rule set for
// introspection but have no effect on cleaning.
func (s *Safelist) AddEnforcedAttribute(tag, attr, value string) *Safelist {
	c := s.clone()
	m := c.enforced[tag]
	if m == nil {
		m = map[string]string{}
		c.enforced[tag] = m
	}
	m[attr] = value
	return c
}

// HasTag reports whether the given tag is allowed.
func (s *Safelist) HasTag(name string) bool {
	_, ok := s.tags[name]
	return ok
}

// Tags returns the allowed tags in lexical order.
func (s *Safelist) Tags() []string {
	out := make([]string, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Clean applies the safelist to the input, removing every tag, attribute
// and URI scheme the rule set does not explicitly permit. The first call
// compiles the rule set; subsequent calls reuse the compiled policy.
func (s *Safelist) Clean(input string) string {
	s.compileOnce.Do(func() {
		s.policy = s.compile()
	})
	return s.policy.Sanitize(input)
}

func (s *Safelist) compile() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	for _, tag := range s.Tags() {
		p.AllowElements(tag)
	}

	for tag, attrs := range s.attrs {
		if len(attrs) == 0 {
			continue
		}
		if tag == AllTags {
			p.AllowAttrs(attrs...).Globally()
		} else {
			p.AllowAttrs(attrs...).OnElements(tag)
		}
	}

	// Scheme allowance is policy-wide in bluemonday, not per attribute.
	// The union of all declared schemes is allowed; URLs must parse and
	// relative URLs are rejected, matching the restrictive intent of
	// per-attribute protocol rules.
	schemes := s.allSchemes()
	if len(schemes) > 0 {
		p.AllowURLSchemes(schemes...)
		p.RequireParseableURLs(true)
		for _, sc := range schemes {
			if sc == "data" && s.HasTag("img") {
				p.AllowDataURIImages()
			}
		}
	}

	if s.enforcedValue("a", "rel") == "nofollow" {
		p.RequireNoFollowOnLinks(true)
	}
	if s.enforcedValue("a", "target") == "_blank" {
		p.AddTargetBlankToFullyQualifiedLinks(true)
	}

	return p
}

func (s *Safelist) allSchemes() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, attrs := range s.protocols {
		for _, schemes := range attrs {
			for _, sc := range schemes {
				if _, ok := seen[sc]; !ok {
					seen[sc] = struct{}{}
					out = append(out, sc)
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

func (s *Safelist) enforcedValue(tag, attr string) string {
	if m, ok := s.enforced[tag]; ok {
		return m[attr]
	}
	return ""
}

// clone deep-copies the rule maps into a fresh, uncompiled safelist.
func (s *Safelist) clone() *Safelist {
	c := New()
	for t := range s.tags {
		c.tags[t] = struct{}{}
	}
	for tag, attrs := range s.attrs {
		c.attrs[tag] = append([]string(nil), attrs...)
	}
	for tag, attrs := range s.protocols {
		m := map[string][]string{}
		for attr, schemes := range attrs {
			m[attr] = append([]string(nil), schemes...)
		}
		c.protocols[tag] = m
	}
	for tag, attrs := range s.enforced {
		m := map[string]string{}
		for attr, v := range attrs {
			m[attr] = v
		}
		c.enforced[tag] = m
	}
	return c
}

func appendMissing(dst []string, items ...string) []string {
	for _, it := range items {
		found := false
		for _, have := range dst {
			if have == it {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, it)
		}
	}
	return dst
}
