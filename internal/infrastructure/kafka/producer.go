package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

const eventTypeOrderPlaced = "order.placed"

// messageWriter — часть kafka.Writer, которой пользуется Producer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("no kafka brokers configured"))
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return newProducer(writer, logger, cfg), nil
}

func newProducer(writer messageWriter, logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// orderPlacedMessage — формат события в топике. Деньги передаются строкой с двумя знаками.
type orderPlacedMessage struct {
	EventID       string             `json:"event_id"`
	EventType     string             `json:"event_type"`
	SessionID     string             `json:"session_id"`
	UserID        string             `json:"user_id"`
	Products      []orderLineMessage `json:"products"`
	Total         string             `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	PlacedAt      time.Time          `json:"placed_at"`
}

type orderLineMessage struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// WriteOrderPlaced пишет событие с ключом по пользователю, чтобы заказы одного покупателя шли в одну партицию.
func (p *Producer) WriteOrderPlaced(ctx context.Context, event *usecase.OrderPlacedEvent) error {
	value, err := GetPayloadBytes(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	key := event.UserID
	if key == "" {
		key = event.SessionID
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeOrderPlaced)},
		},
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		err := conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func GetPayloadBytes(event *usecase.OrderPlacedEvent) ([]byte, error) {
	lines := make([]orderLineMessage, 0, len(event.Products))
	for _, line := range event.Products {
		lines = append(lines, orderLineMessage{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	return json.Marshal(orderPlacedMessage{
		EventID:       event.EventID,
		EventType:     eventTypeOrderPlaced,
		SessionID:     event.SessionID,
		UserID:        event.UserID,
		Products:      lines,
		Total:         event.Total.StringFixed(2),
		PaymentMethod: string(event.PaymentMethod),
		Latitude:      event.Latitude,
		Longitude:     event.Longitude,
		PlacedAt:      event.PlacedAt,
	})
}
