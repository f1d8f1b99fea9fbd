package management

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/leg100/hutch/internal/resource"
)

const queryPreferenceType = "query"

// Query is a query stored as a user preference.
type Query struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	Value       QueryValue `json:"value"`
}

// QueryValue is the definition of a query.
type QueryValue struct {
	// Category is the kind of entity queried, e.g. "queue".
	Category string `json:"category"`
	Select   string `json:"select,omitempty"`
	Where    string `json:"where,omitempty"`
	OrderBy  string `json:"orderBy,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

func (q *Query) GetName() string { return q.Name }

func (q *Query) GetID() string { return q.ID }

// Clone returns an unsaved copy of the query.
func (q *Query) Clone() *Query {
	clone := *q
	clone.ID = ""
	clone.Name = ""
	return &clone
}

// QueryResult is the result of running a query.
type QueryResult struct {
	Headers []string `json:"headers"`
	Results [][]any  `json:"results"`
	Total   int      `json:"total"`
}

// preferencesPath is the path to the query preferences of the user, scoped
// either to the broker or to a virtual host.
func preferencesPath(parent *resource.Entity) string {
	if parent == nil || parent.Kind != resource.VirtualHost {
		return apiPrefix + "broker/userpreferences/" + queryPreferenceType
	}
	return apiPrefix + "virtualhost/" + escapePath(parent.Path()...) + "/userpreferences/" + queryPreferenceType
}

// Queries lists the user's stored queries.
func (c *Client) Queries(ctx context.Context, parent *resource.Entity) ([]*Query, error) {
	body, err := c.get(ctx, preferencesPath(parent), nil)
	if err != nil {
		return nil, fmt.Errorf("listing queries: %w", err)
	}
	var queries []*Query
	if err := json.Unmarshal(body, &queries); err != nil {
		return nil, fmt.Errorf("decode queries: %w", err)
	}
	return queries, nil
}

// SaveQuery creates or replaces a stored query, returning the stored query
// with its ID.
func (c *Client) SaveQuery(ctx context.Context, parent *resource.Entity, q *Query) (*Query, error) {
	if q.Name == "" {
		return nil, fmt.Errorf("saving query: name must not be empty")
	}
	q.Type = queryPreferenceType
	path := preferencesPath(parent) + "/" + url.PathEscape(q.Name)
	if _, err := c.do(ctx, http.MethodPut, path, nil, q); err != nil {
		return nil, fmt.Errorf("saving query %s: %w", q.Name, err)
	}
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieving saved query %s: %w", q.Name, err)
	}
	var saved Query
	if err := json.Unmarshal(body, &saved); err != nil {
		return nil, fmt.Errorf("decode query: %w", err)
	}
	return &saved, nil
}

// DeleteQuery deletes a stored query.
func (c *Client) DeleteQuery(ctx context.Context, parent *resource.Entity, q *Query) error {
	params := url.Values{"id": {q.ID}}
	if _, err := c.do(ctx, http.MethodDelete, preferencesPath(parent), params, nil); err != nil {
		return fmt.Errorf("deleting query %s: %w", q.Name, err)
	}
	return nil
}

// RunQuery runs a query against the broker, or against a virtual host if
// parent is a virtual host.
func (c *Client) RunQuery(ctx context.Context, parent *resource.Entity, q *Query) (*QueryResult, error) {
	if q.Value.Category == "" {
		return nil, fmt.Errorf("running query: category must not be empty")
	}
	path := apiPrefix + "querybroker/" + url.PathEscape(q.Value.Category)
	if parent != nil && parent.Kind == resource.VirtualHost {
		path = apiPrefix + "queryvhost/" + escapePath(parent.Path()...) + "/" + url.PathEscape(q.Value.Category)
	}
	params := url.Values{}
	if q.Value.Select != "" {
		params.Set("select", q.Value.Select)
	}
	if q.Value.Where != "" {
		params.Set("where", q.Value.Where)
	}
	if q.Value.OrderBy != "" {
		params.Set("orderBy", q.Value.OrderBy)
	}
	if q.Value.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Value.Limit))
	}
	if q.Value.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Value.Offset))
	}
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("running query: %w", err)
	}
	var result QueryResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode query result: %w", err)
	}
	return &result, nil
}
