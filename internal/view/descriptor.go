package view

import "github.com/leg100/hutch/internal/resource"

// Descriptor describes the entity shown by a view. It is what gets persisted
// when the user asks for a tab to be restored on their next session.
type Descriptor struct {
	// ObjectID is the identifier assigned by the broker. Empty for an entity
	// that has not been saved.
	ObjectID   string        `json:"objectId,omitempty"`
	ObjectType resource.Kind `json:"objectType"`
}
