package management

import (
	"context"
	"fmt"
	"net/url"

	"github.com/leg100/hutch/internal/resource"
)

// Structure retrieves the broker's model hierarchy, with each entity carrying
// only its ID and name.
func (c *Client) Structure(ctx context.Context) (*resource.Entity, error) {
	body, err := c.get(ctx, "/service/structure", nil)
	if err != nil {
		return nil, fmt.Errorf("retrieving structure: %w", err)
	}
	obj, err := decodeOne(body)
	if err != nil {
		return nil, fmt.Errorf("retrieving structure: %w", err)
	}
	return parseEntity(resource.Broker, nil, obj), nil
}

// Get retrieves an entity along with its immediate children. The entity is
// addressed by its kind, its name, and its parent. The broker is retrieved
// with a nil parent.
func (c *Client) Get(ctx context.Context, kind resource.Kind, name string, parent *resource.Entity) (*resource.Entity, error) {
	path := apiPrefix + string(kind)
	if kind != resource.Broker {
		segments := append(parentPath(parent), name)
		path += "/" + escapePath(segments...)
	}
	body, err := c.get(ctx, path, url.Values{"depth": {"1"}})
	if err != nil {
		return nil, fmt.Errorf("retrieving %s %s: %w", kind, name, err)
	}
	obj, err := decodeOne(body)
	if err != nil {
		return nil, fmt.Errorf("retrieving %s %s: %w", kind, name, err)
	}
	return parseEntity(kind, parent, obj), nil
}

func parentPath(parent *resource.Entity) []string {
	if parent == nil {
		return nil
	}
	return parent.Path()
}

// parseEntity converts a decoded object into an entity. Attributes holding
// lists of objects named after the plural of a kind become children.
func parseEntity(kind resource.Kind, parent *resource.Entity, obj map[string]any) *resource.Entity {
	e := &resource.Entity{
		Kind:       kind,
		Parent:     parent,
		Attributes: make(map[string]any),
	}
	e.ID, _ = obj["id"].(string)
	e.Name, _ = obj["name"].(string)

	for k, v := range obj {
		if childKind, ok := resource.KindFromPlural(k); ok {
			if list, ok := v.([]any); ok {
				for _, item := range list {
					if child, ok := item.(map[string]any); ok {
						e.Children = append(e.Children, parseEntity(childKind, e, child))
					}
				}
				continue
			}
		}
		e.Attributes[k] = v
	}
	return e
}
