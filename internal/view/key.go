package view

import (
	"slices"
	"strings"

	"github.com/leg100/hutch/internal/resource"
)

// newPrefix prefixes the generated name of a new, unsaved entity.
const newPrefix = "new-"

// Key identifies a view: it is composed of the parent path, the kind, and the
// resolved name, e.g. "default/test/queue:orders". It is the sole identity
// used to deduplicate views and is unrelated to the ID the broker assigns to
// an entity.
type Key string

func (k Key) String() string { return string(k) }

// BuildKey derives the key for a view of a target of the given kind beneath
// the given parent. The parent may be nil.
func BuildKey(kind resource.Kind, target Target, parent *resource.Entity) Key {
	key, _ := BuildKeyName(kind, target, parent)
	return key
}

// BuildKeyName is BuildKey but additionally returns the resolved name segment
// of the key.
func BuildKeyName(kind resource.Kind, target Target, parent *resource.Entity) (Key, string) {
	var b strings.Builder
	if parent != nil {
		b.WriteString(ParentPath(parent))
		b.WriteByte('/')
	}
	name := target.resolve()
	b.WriteString(string(kind))
	b.WriteByte(':')
	b.WriteString(name)
	return Key(b.String()), name
}

// ParentPath chains the names of the parent and of each of its ancestors that
// itself has a parent, root-most first. Kinds are not included, and the root
// of the hierarchy only appears when it is the immediate parent.
func ParentPath(parent *resource.Entity) string {
	names := []string{parent.Name}
	for a := parent.Parent; a != nil && a.Parent != nil; a = a.Parent {
		names = append(names, a.Name)
	}
	slices.Reverse(names)
	return strings.Join(names, "/")
}
