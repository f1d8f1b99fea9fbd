package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntity(t *testing.T) {
	broker := &Entity{ID: "b1", Name: "Broker", Kind: Broker}
	node := &Entity{ID: "n1", Name: "default", Kind: VirtualHostNode, Parent: broker}
	vhost := &Entity{ID: "v1", Name: "test", Kind: VirtualHost, Parent: node}
	queue := &Entity{ID: "q1", Name: "orders", Kind: Queue, Parent: vhost}
	broker.Children = []*Entity{node}
	node.Children = []*Entity{vhost}
	vhost.Children = []*Entity{queue}

	t.Run("path excludes broker", func(t *testing.T) {
		assert.Equal(t, []string{"default", "test", "orders"}, queue.Path())
		assert.Equal(t, "default/test/orders", queue.PathString())
		assert.Empty(t, broker.Path())
	})

	t.Run("ancestors nearest first", func(t *testing.T) {
		assert.Equal(t, []*Entity{vhost, node, broker}, queue.Ancestors())
		assert.Empty(t, broker.Ancestors())
	})

	t.Run("find by id", func(t *testing.T) {
		assert.Equal(t, queue, broker.FindByID("q1"))
		assert.Nil(t, broker.FindByID("missing"))
		assert.Nil(t, broker.FindByID(""))
	})

	t.Run("children of kind", func(t *testing.T) {
		assert.Equal(t, []*Entity{queue}, vhost.ChildrenOfKind(Queue))
		assert.Empty(t, vhost.ChildrenOfKind(Exchange))
	})
}

func TestKind(t *testing.T) {
	assert.Equal(t, "Virtualhost", VirtualHost.Title())
	assert.Equal(t, "Queue", Queue.Title())
	assert.Equal(t, "", Kind("").Title())

	k, ok := KindFromPlural("virtualhostnodes")
	assert.True(t, ok)
	assert.Equal(t, VirtualHostNode, k)

	_, ok = KindFromPlural("statistics")
	assert.False(t, ok)
}
