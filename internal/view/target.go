package view

import "github.com/google/uuid"

// Object is a named thing from which a view can be built, such as an entity
// or a stored query. An object that has not yet been persisted has an empty
// ID, and possibly an empty name.
type Object interface {
	GetName() string
	GetID() string
}

// Target is what a view is shown for: either a plain name, an object, or
// nothing at all in the case of a brand new entity.
type Target struct {
	name   string
	named  bool
	object Object
}

// Named targets an entity by its name.
func Named(name string) Target {
	return Target{name: name, named: true}
}

// Of targets an object. An object without a name is treated as a new entity.
func Of(obj Object) Target {
	return Target{object: obj}
}

// Unnamed targets a brand new entity.
func Unnamed() Target {
	return Target{}
}

// IsName is true if the target is a plain name rather than an object.
func (t Target) IsName() bool {
	return t.named
}

// Name returns the plain name of the target, or the name of its object.
func (t Target) Name() string {
	if t.named {
		return t.name
	}
	if t.object != nil {
		return t.object.GetName()
	}
	return ""
}

// Object returns the target's object, or nil if the target is a plain name or
// unnamed.
func (t Target) Object() Object {
	return t.object
}

// resolve returns the name segment for an identity key. Targets without a
// name are given a unique name, so that views of new entities never collide.
func (t Target) resolve() string {
	if t.named {
		return t.name
	}
	if t.object != nil && t.object.GetName() != "" {
		return t.object.GetName()
	}
	return newPrefix + uuid.NewString()
}
