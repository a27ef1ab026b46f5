package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher delivers order events after the owning transaction has
// committed. Delivery is best-effort: publishing failures are logged, never
// surfaced to the request that triggered them.
type Publisher interface {
	Publish(envelope Envelope)
}

// Producer writes envelopes to Kafka through a buffered inbox so request
// handlers never block on the broker.
type Producer struct {
	writer  *kafka.Writer
	logger  *slog.Logger
	inbox   chan kafka.Message
	once    sync.Once
	closeCh chan struct{}
}

// NewProducer builds a producer for the given brokers and topic.
func NewProducer(brokers []string, topic string, buf int, logger *slog.Logger) *Producer {
	if buf <= 0 {
		buf = 256
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		logger:  logger,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start launches the delivery goroutine.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.writer.Close()
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *Producer) drain() {
	p.Close()
	for m := range p.inbox {
		p.write(m)
	}
	_ = p.writer.Close()
}

func (p *Producer) write(m kafka.Message) {
	if err := p.writer.WriteMessages(context.Background(), m); err != nil {
		p.logger.Error("publish order event failed",
			slog.String("key", string(m.Key)),
			slog.String("error", err.Error()),
		)
	}
}

// Publish enqueues the envelope, dropping it when the inbox is full rather
// than blocking the request path.
func (p *Producer) Publish(envelope Envelope) {
	value, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Error("marshal order event failed", slog.String("error", err.Error()))
		return
	}
	m := kafka.Message{
		Key:   []byte(envelope.OrderID),
		Value: value,
		Time:  time.Now(),
	}
	select {
	case p.inbox <- m:
	default:
		p.logger.Warn("order event dropped, publisher inbox full",
			slog.String("event_type", envelope.EventType),
			slog.String("order_id", envelope.OrderID),
		)
	}
}

// Close stops accepting messages; the delivery goroutine flushes the rest.
func (p *Producer) Close() {
	p.once.Do(func() { close(p.inbox) })
}

// WaitClosed blocks until the delivery goroutine has exited.
func (p *Producer) WaitClosed() {
	<-p.closeCh
}

// NopPublisher is used when no Kafka brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(Envelope) {}
