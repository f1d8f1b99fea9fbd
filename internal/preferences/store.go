// Package preferences persists the user's preferences between sessions,
// namely the set of tabs to restore on startup.
package preferences

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/pubsub"
	"github.com/leg100/hutch/internal/resource"
	"github.com/leg100/hutch/internal/view"
	bolt "go.etcd.io/bbolt"
)

// Store persists tab descriptors in a bolt database. Descriptors are scoped,
// typically to the URL of the management interface, so that each broker has
// its own set of tabs.
type Store struct {
	db     *bolt.DB
	scope  []byte
	logger logging.Interface

	*pubsub.Broker[view.Descriptor]
}

type record struct {
	Seq        uint64          `json:"seq"`
	Descriptor view.Descriptor `json:"descriptor"`
}

// Open opens the database at the given path, creating it if it does not exist.
func Open(path, scope string, logger logging.Interface) (*Store, error) {
	if logger == nil {
		logger = logging.Discard
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening preferences database: %w", err)
	}
	s := &Store{
		db:     db,
		scope:  []byte(scope),
		logger: logger,
		Broker: pubsub.NewBroker[view.Descriptor](logger),
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.scope)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing preferences database: %w", err)
	}
	return s, nil
}

func key(d view.Descriptor) []byte {
	return []byte(string(d.ObjectType) + ":" + d.ObjectID)
}

// IsTabStored is true if the descriptor is among the stored tabs. An error
// reading the database is logged and treated as not stored.
func (s *Store) IsTabStored(d view.Descriptor) bool {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(s.scope).Get(key(d)) != nil
		return nil
	})
	if err != nil {
		s.logger.Error("reading preferences", "error", err)
		return false
	}
	return found
}

// AppendTab adds the descriptor to the end of the stored tabs. Appending a
// stored descriptor does nothing.
func (s *Store) AppendTab(d view.Descriptor) error {
	var appended bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.scope)
		if b.Get(key(d)) != nil {
			return nil
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(record{Seq: seq, Descriptor: d})
		if err != nil {
			return err
		}
		appended = true
		return b.Put(key(d), data)
	})
	if err != nil {
		return fmt.Errorf("storing tab %s: %w", key(d), err)
	}
	if appended {
		s.logger.Debug("stored tab", "object_type", d.ObjectType, "object_id", d.ObjectID)
		s.Publish(resource.CreatedEvent, d)
	}
	return nil
}

// RemoveTab removes the descriptor from the stored tabs.
func (s *Store) RemoveTab(d view.Descriptor) error {
	var removed bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.scope)
		if b.Get(key(d)) == nil {
			return nil
		}
		removed = true
		return b.Delete(key(d))
	})
	if err != nil {
		return fmt.Errorf("removing tab %s: %w", key(d), err)
	}
	if removed {
		s.logger.Debug("removed tab", "object_type", d.ObjectType, "object_id", d.ObjectID)
		s.Publish(resource.DeletedEvent, d)
	}
	return nil
}

// Tabs lists the stored tabs in the order they were appended.
func (s *Store) Tabs() ([]view.Descriptor, error) {
	var records []record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.scope).ForEach(func(k, v []byte) error {
			var r record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decoding tab %s: %w", k, err)
			}
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing tabs: %w", err)
	}
	slices.SortFunc(records, func(a, b record) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	tabs := make([]view.Descriptor, len(records))
	for i, r := range records {
		tabs[i] = r.Descriptor
	}
	return tabs, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
