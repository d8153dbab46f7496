// Package safelist defines immutable, named markup-filtering rule sets and
// a concurrent registry for application-specific ones.
//
// A Safelist describes what survives cleaning: allowed tags, allowed
// attributes per tag, permitted URI schemes and forcibly injected
// attributes (such as rel="nofollow" on links). Everything not explicitly
// permitted is stripped. Markup interpretation itself is delegated to
// bluemonday; a safelist compiles into a bluemonday policy exactly once,
// on first use.
//
// # Built-in rule sets
//
// Three rule sets cover the common cases:
//
//   - Basic — simple text formatting, links, lists, headings. Links are
//     limited to http/https/mailto and always get rel="nofollow".
//   - Relaxed — Basic plus images, tables and common presentation
//     attributes. Script, iframe, object, embed and form are never allowed.
//   - None — strips all markup, leaving plain text.
//
// # Deriving custom rule sets
//
// Builder methods are copy-on-write, so derived safelists never mutate
// their parent:
//
//	highlight := safelist.None().AddTags("mark")
//
//	reg := safelist.NewRegistry(nil)
//	if err := reg.Register("highlight", highlight); err != nil {
//		// empty name or nil safelist - a caller error
//	}
//
// # Thread safety
//
// Safelists are immutable after construction and safe for concurrent use.
// Registry operations are guarded by a read-write mutex; a registration
// racing a lookup observes a consistent pre- or post-update snapshot.
package safelist
