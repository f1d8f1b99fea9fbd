package management

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/leg100/hutch/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const structure = `{
  "id": "b1",
  "name": "Broker",
  "virtualhostnodes": [
    {
      "id": "n1",
      "name": "default",
      "virtualhosts": [
        {
          "id": "v1",
          "name": "test",
          "queues": [{"id": "q1", "name": "orders"}],
          "exchanges": [{"id": "e1", "name": "amq.direct"}]
        }
      ]
    }
  ],
  "ports": [{"id": "p1", "name": "AMQP"}]
}`

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		URL:      srv.URL,
		Username: "admin",
		Password: "secret",
		Retries:  1,
	})
	require.NoError(t, err)
	return client
}

func testHierarchy(t *testing.T) *resource.Entity {
	t.Helper()

	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(structure))
	})
	root, err := client.Structure(context.Background())
	require.NoError(t, err)
	return root
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(Options{URL: "localhost:8080"})
	assert.Error(t, err)
}

func TestStructure(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/service/structure", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)
		w.Write([]byte(structure))
	})

	root, err := client.Structure(context.Background())
	require.NoError(t, err)

	assert.Equal(t, resource.Broker, root.Kind)
	assert.Equal(t, "Broker", root.Name)
	assert.Nil(t, root.Parent)
	assert.Len(t, root.Children, 2)

	queue := root.FindByID("q1")
	require.NotNil(t, queue)
	assert.Equal(t, resource.Queue, queue.Kind)
	assert.Equal(t, "orders", queue.Name)
	assert.Equal(t, []string{"default", "test", "orders"}, queue.Path())
	assert.Equal(t, resource.VirtualHost, queue.Parent.Kind)

	port := root.FindByID("p1")
	require.NotNil(t, port)
	assert.Equal(t, resource.Port, port.Kind)
	assert.Same(t, root, port.Parent)
}

func TestGet(t *testing.T) {
	vhost := testHierarchy(t).FindByID("v1")

	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/latest/queue/default/test/my%20queue", r.URL.EscapedPath())
		assert.Equal(t, "1", r.URL.Query().Get("depth"))
		w.Write([]byte(`[{"id": "q2", "name": "my queue", "durable": true, "consumers": [{"id": "c1", "name": "consumer"}]}]`))
	})

	queue, err := client.Get(context.Background(), resource.Queue, "my queue", vhost)
	require.NoError(t, err)

	assert.Equal(t, "q2", queue.ID)
	assert.Same(t, vhost, queue.Parent)
	assert.Equal(t, true, queue.Attributes["durable"])
	// consumers is not a kind in the hierarchy and is kept as an attribute
	assert.Contains(t, queue.Attributes, "consumers")
}

func TestGet_Broker(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/latest/broker", r.URL.Path)
		w.Write([]byte(`{"id": "b1", "name": "Broker", "virtualhostnodes": [{"id": "n1", "name": "default"}]}`))
	})

	broker, err := client.Get(context.Background(), resource.Broker, "Broker", nil)
	require.NoError(t, err)
	assert.Equal(t, "Broker", broker.Name)
	assert.Len(t, broker.ChildrenOfKind(resource.VirtualHostNode), 1)
}

func TestGet_NotFound(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errorMessage": "Not Found"}`))
	})

	_, err := client.Get(context.Background(), resource.Queue, "missing", nil)
	assert.ErrorIs(t, err, resource.ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestRetries(t *testing.T) {
	var attempts atomic.Int32
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(structure))
	})

	_, err := client.Structure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestQueries(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/latest/broker/userpreferences/query", r.URL.Path)
		w.Write([]byte(`[{"id": "abc", "name": "q1", "type": "query", "value": {"category": "queue", "select": "name,queueDepthMessages"}}]`))
	})

	queries, err := client.Queries(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "abc", queries[0].GetID())
	assert.Equal(t, "q1", queries[0].GetName())
	assert.Equal(t, "queue", queries[0].Value.Category)
}

func TestSaveQuery(t *testing.T) {
	vhost := testHierarchy(t).FindByID("v1")

	var stored Query
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/latest/virtualhost/default/test/userpreferences/query/q1", r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.NoError(t, json.Unmarshal(body, &stored))
			stored.ID = "abc"
		case http.MethodGet:
			json.NewEncoder(w).Encode(stored)
		}
	})

	saved, err := client.SaveQuery(context.Background(), vhost, &Query{
		Name:  "q1",
		Value: QueryValue{Category: "queue", Where: "queueDepthMessages > 0"},
	})
	require.NoError(t, err)

	assert.Equal(t, "abc", saved.ID)
	assert.Equal(t, "q1", saved.Name)
	assert.Equal(t, "query", saved.Type)
	assert.Equal(t, "queueDepthMessages > 0", saved.Value.Where)
}

func TestSaveQuery_EmptyName(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	_, err := client.SaveQuery(context.Background(), nil, &Query{})
	assert.Error(t, err)
}

func TestDeleteQuery(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/latest/broker/userpreferences/query", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("id"))
	})

	err := client.DeleteQuery(context.Background(), nil, &Query{ID: "abc", Name: "q1"})
	require.NoError(t, err)
}

func TestRunQuery(t *testing.T) {
	vhost := testHierarchy(t).FindByID("v1")

	tests := []struct {
		name     string
		parent   *resource.Entity
		wantPath string
	}{
		{"broker", nil, "/api/latest/querybroker/queue"},
		{"virtual host", vhost, "/api/latest/queryvhost/default/test/queue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, "name,queueDepthMessages", r.URL.Query().Get("select"))
				assert.Equal(t, "10", r.URL.Query().Get("limit"))
				assert.False(t, r.URL.Query().Has("where"))
				w.Write([]byte(`{"headers": ["name", "queueDepthMessages"], "results": [["orders", 3]], "total": 1}`))
			})

			result, err := client.RunQuery(context.Background(), tt.parent, &Query{
				Value: QueryValue{Category: "queue", Select: "name,queueDepthMessages", Limit: 10},
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"name", "queueDepthMessages"}, result.Headers)
			assert.Equal(t, 1, result.Total)
			assert.Equal(t, "orders", result.Results[0][0])
		})
	}
}

func TestQuery_Clone(t *testing.T) {
	q := &Query{ID: "abc", Name: "q1", Value: QueryValue{Category: "queue"}}
	clone := q.Clone()

	assert.Empty(t, clone.ID)
	assert.Empty(t, clone.Name)
	assert.Equal(t, q.Value, clone.Value)
	assert.Equal(t, "abc", q.ID)
}
