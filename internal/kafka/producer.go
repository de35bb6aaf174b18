package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrderEventProducer — интерфейс для отправки событий заказа (для подмены моком в тестах).
type OrderEventProducer interface {
	ProduceOrderEvent(ctx context.Context, event string, payload map[string]interface{})
}

// Producer пишет события заказов в топик Kafka (best-effort, не блокирует API).
type Producer struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewProducer создаёт продюсер. Если brokers пустой или topic пустой — методы no-op.
func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{log: log}
	}
	return &Producer{
		log: log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Enabled сообщает, настроен ли writer.
func (p *Producer) Enabled() bool {
	return p.writer != nil
}

// ProduceOrderEvent отправляет событие в топик; ключ сообщения — order_id,
// чтобы события одного заказа попадали в одну партицию.
func (p *Producer) ProduceOrderEvent(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		p.log.Warn("kafka: marshal order event", zap.String("event", event), zap.Error(err))
		return
	}
	var key []byte
	if id, ok := payload["order_id"].(string); ok {
		key = []byte(id)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: body}); err != nil {
		p.log.Warn("kafka: write order event", zap.String("event", event), zap.Error(err))
	}
}

// Close закрывает writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
