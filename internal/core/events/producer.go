package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"pedidos-service/internal/core/logger"
)

// Producer publishes notification envelopes to Kafka through a buffered
// inbox. Publishing never blocks the request path: a full inbox drops the
// event with a log line.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

// NewProducer creates a producer for the given brokers and topic. buf is the
// inbox size.
func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start runs the delivery loop until ctx is cancelled, then flushes the
// remaining inbox and closes the writer.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				close(p.inbox)
				for m := range p.inbox {
					p.write(m)
				}
				_ = p.w.Close()
				close(p.closeCh)
				return
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					close(p.closeCh)
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		logger.Get().Error("Failed to publish notification event",
			zap.String("key", string(m.Key)),
			zap.Error(err),
		)
	}
}

// Publish enqueues an envelope, keyed by recipient so one user's events stay
// ordered. Best-effort: errors are logged, never returned to the caller.
func (p *Producer) Publish(env Envelope) {
	value, err := json.Marshal(env)
	if err != nil {
		logger.Get().Error("Failed to marshal notification event",
			zap.String("event_type", env.EventType),
			zap.Error(err),
		)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(env.RecipientID, 10)),
		Value: value,
		Time:  time.Now(),
	}

	select {
	case p.inbox <- msg:
	default:
		logger.Get().Warn("Notification inbox full, dropping event",
			zap.String("event_type", env.EventType),
			zap.Int64("recipient_id", env.RecipientID),
		)
	}
}

// Close stops accepting events and lets the delivery loop drain.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the delivery loop has exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
