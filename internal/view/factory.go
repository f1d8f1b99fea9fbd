package view

import (
	"errors"
	"fmt"
	"slices"

	"github.com/leg100/hutch/internal/resource"
	"golang.org/x/exp/maps"
)

var (
	ErrEmptyKind      = errors.New("empty kind")
	ErrNilConstructor = errors.New("nil constructor")
	ErrDuplicateKind  = errors.New("kind already registered")
)

// Constructor constructs a view of a target beneath a parent, which may be
// nil.
type Constructor func(target Target, parent *resource.Entity) View

// Factory maps each kind to the constructor of its views.
type Factory struct {
	constructors map[resource.Kind]Constructor
}

// NewFactory constructs a factory, validating each of the constructors.
func NewFactory(constructors map[resource.Kind]Constructor) (*Factory, error) {
	f := &Factory{constructors: make(map[resource.Kind]Constructor, len(constructors))}
	for kind, ctor := range constructors {
		if err := f.Register(kind, ctor); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Register adds a constructor for a kind not already registered.
func (f *Factory) Register(kind resource.Kind, ctor Constructor) error {
	if kind == "" {
		return ErrEmptyKind
	}
	if ctor == nil {
		return fmt.Errorf("%s: %w", kind, ErrNilConstructor)
	}
	if _, ok := f.constructors[kind]; ok {
		return fmt.Errorf("%s: %w", kind, ErrDuplicateKind)
	}
	f.constructors[kind] = ctor
	return nil
}

// Lookup retrieves the constructor for a kind. False is returned if there is
// none.
func (f *Factory) Lookup(kind resource.Kind) (Constructor, bool) {
	ctor, ok := f.constructors[kind]
	return ctor, ok
}

// Kinds lists the registered kinds in alphabetical order.
func (f *Factory) Kinds() []resource.Kind {
	kinds := maps.Keys(f.constructors)
	slices.Sort(kinds)
	return kinds
}
