package contracts

import "strings"

// resolveTag matches raw case-insensitively against the members of a
// string-backed tag set. Unknown tags are reported unmatched rather than
// rejected: the registries a tag refers to (connection types in particular)
// may be populated after deserialization runs, so callers keep the raw tag
// for a later resolution pass.
func resolveTag[T ~string](members []T, raw string) (T, bool) {
	for _, m := range members {
		if strings.EqualFold(string(m), raw) {
			return m, true
		}
	}
	var zero T
	return zero, false
}

// ResolveValueType maps a wire tag onto a ValueType member,
// case-insensitively. ok is false for tags outside the value type set.
func ResolveValueType(tag string) (ValueType, bool) {
	return resolveTag(valueTypes, tag)
}

// ResolveToolType maps a wire tag onto a ToolType member, case-insensitively.
// ok is false for tags outside the tool type set.
func ResolveToolType(tag string) (ToolType, bool) {
	return resolveTag(toolTypes, tag)
}

// TypeRef is one declared kind of an input or output: either a resolved
// ValueType member or an unresolved raw tag, typically a connection type
// name, kept verbatim until the registry that can resolve it is populated.
// Resolution is tracked explicitly so that no raw tag — the empty string
// included — can pose as a member. The zero TypeRef is an unresolved empty
// tag.
type TypeRef struct {
	kind     ValueType
	raw      string
	resolved bool
}

// KindRef builds a resolved TypeRef.
func KindRef(k ValueType) TypeRef {
	return TypeRef{kind: k, resolved: true}
}

// UnresolvedRef builds a TypeRef carrying a raw tag.
func UnresolvedRef(raw string) TypeRef {
	return TypeRef{raw: raw}
}

// ParseTypeRef resolves a wire tag into a TypeRef. Tags that do not name a
// ValueType member are kept unresolved, not rejected.
func ParseTypeRef(tag string) TypeRef {
	if k, ok := ResolveValueType(tag); ok {
		return KindRef(k)
	}
	return UnresolvedRef(tag)
}

// Resolved reports whether the ref names a ValueType member.
func (r TypeRef) Resolved() bool {
	return r.resolved
}

// Kind returns the resolved ValueType. ok is false for unresolved refs.
func (r TypeRef) Kind() (ValueType, bool) {
	if !r.resolved {
		return "", false
	}
	return r.kind, true
}

// Tag returns the wire tag: the member's value when resolved, the original
// raw tag otherwise.
func (r TypeRef) Tag() string {
	if r.resolved {
		return string(r.kind)
	}
	return r.raw
}
