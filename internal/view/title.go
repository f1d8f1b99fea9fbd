package view

import (
	"strings"

	"github.com/leg100/hutch/internal/resource"
)

// DirtyMarker prefixes the title of a view with unsaved changes, or of a view
// of an entity that has not yet been persisted.
const DirtyMarker = "*"

// Marker returns the dirty marker if the view is dirty or its entity is not
// persisted, otherwise an empty string.
func Marker(dirty, persisted bool) string {
	if dirty || !persisted {
		return DirtyMarker
	}
	return ""
}

// PathSuffix renders the ancestry of an entity's parent for use in a title,
// e.g. " (Virtualhost:default/test)". It is empty if parent is nil or is the
// root of the hierarchy.
func PathSuffix(parent *resource.Entity) string {
	if parent == nil || parent.Parent == nil {
		return ""
	}
	names := []string{parent.Name}
	for a := parent.Parent; a != nil && a.Parent != nil; a = a.Parent {
		names = append([]string{a.Name}, names...)
	}
	return " (" + parent.Kind.Title() + ":" + strings.Join(names, "/") + ")"
}
