package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes changes to a single topic, keyed by entity and id so
// that every change to one row lands on the same partition.
type KafkaPublisher struct {
	topic  string
	mu     sync.Mutex
	writer messageWriter
	dial   func() messageWriter
}

// NewKafkaPublisher creates a publisher whose writer is opened on first use.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		topic: topic,
		dial: func() messageWriter {
			return &kafka.Writer{
				Addr:         kafka.TCP(brokers...),
				Topic:        topic,
				RequiredAcks: kafka.RequireAll,
				Compression:  kafka.Snappy,
				Async:        false,
			}
		},
	}
}

func newKafkaPublisherWithWriter(topic string, w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{topic: topic, dial: func() messageWriter { return w }}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(changes))
	for _, ch := range changes {
		payload, err := json.Marshal(ch)
		if err != nil {
			return fmt.Errorf("marshal change %s: %w", ch.EventID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ch.Entity + ":" + strconv.FormatInt(ch.EntityID, 10)),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(ch.Entity + "." + ch.Action)},
				{Key: "event_id", Value: []byte(ch.EventID)},
			},
		})
	}

	if err := p.writerOnce().WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d changes to %s: %w", len(msgs), p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) writerOnce() messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		p.writer = p.dial()
	}
	return p.writer
}

// Close releases the underlying writer if one was opened.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}
