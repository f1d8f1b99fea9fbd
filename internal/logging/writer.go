package logging

import (
	"bytes"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
	"github.com/leg100/hutch/internal/pubsub"
	"github.com/leg100/hutch/internal/resource"
)

// writer is a slog TextHandler writer that both keeps the log records in
// memory and emits them as events.
type writer struct {
	messages []Message
	mu       sync.RWMutex

	broker *pubsub.Broker[Message]
	serial uint
}

func (b *writer) Write(p []byte) (int, error) {
	msgs, err := b.decode(p)
	// Publish without holding the lock: the broker may itself log.
	for _, msg := range msgs {
		b.broker.Publish(resource.CreatedEvent, msg)
	}
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (b *writer) decode(p []byte) (decoded []Message, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := logfmt.NewDecoder(bytes.NewReader(p))
	for d.ScanRecord() {
		msg := Message{Serial: b.serial}
		for d.ScanKeyval() {
			switch string(d.Key()) {
			case "time":
				parsed, err := time.Parse(time.RFC3339, string(d.Value()))
				if err != nil {
					return decoded, fmt.Errorf("parsing time: %w", err)
				}
				msg.Time = parsed
			case "level":
				msg.Level = string(d.Value())
			case "msg":
				msg.Message = string(d.Value())
			default:
				msg.Attributes = append(msg.Attributes, Attr{
					Key:   string(d.Key()),
					Value: string(d.Value()),
				})
			}
		}
		b.messages = append(b.messages, msg)
		decoded = append(decoded, msg)
		b.serial++
	}
	return decoded, d.Err()
}

func (b *writer) list() []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return slices.Clone(b.messages)
}
