package resource

import "strings"

// Entity is an object in the broker's model hierarchy, e.g. a virtual host or
// a queue.
type Entity struct {
	// ID is the identifier assigned by the broker.
	ID   string
	Name string
	Kind Kind
	// Parent is nil for the broker, the root of the hierarchy.
	Parent *Entity
	// Attributes are the entity's scalar and structured attributes, excluding
	// children.
	Attributes map[string]any
	// Children are the entity's immediate children, populated only when the
	// entity was retrieved with sufficient depth.
	Children []*Entity
}

func (e *Entity) GetName() string { return e.Name }

func (e *Entity) GetID() string { return e.ID }

// Ancestors provides a list of successive parents, starting with the direct
// parent.
func (e *Entity) Ancestors() (ancestors []*Entity) {
	for p := e.Parent; p != nil; p = p.Parent {
		ancestors = append(ancestors, p)
	}
	return
}

// Path is the list of names addressing the entity in the management API: the
// names of its ancestors, excluding the broker, followed by its own name. The
// broker itself has an empty path.
func (e *Entity) Path() []string {
	if e.Parent == nil {
		return nil
	}
	return append(e.Parent.Path(), e.Name)
}

// PathString is the entity's path joined with slashes.
func (e *Entity) PathString() string {
	return strings.Join(e.Path(), "/")
}

// FindByID searches the entity and its descendants for the entity with the
// given ID. Returns nil if none is found.
func (e *Entity) FindByID(id string) *Entity {
	if id == "" {
		return nil
	}
	if e.ID == id {
		return e
	}
	for _, child := range e.Children {
		if found := child.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// ChildrenOfKind returns the entity's children of the given kind.
func (e *Entity) ChildrenOfKind(k Kind) (children []*Entity) {
	for _, child := range e.Children {
		if child.Kind == k {
			children = append(children, child)
		}
	}
	return
}
