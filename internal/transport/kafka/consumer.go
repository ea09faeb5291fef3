package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/orders"
)

// HandleFunc processes a single orders.Event from Kafka
type HandleFunc func(context.Context, orders.Event) error

var newConsumerGroup = sarama.NewConsumerGroup

// Consumer wraps a Sarama consumer group and dispatches events to a handler
type Consumer struct {
	logger  logx.Logger
	group   sarama.ConsumerGroup
	topic   string
	handler HandleFunc
	backoff time.Duration
}

// NewConsumer creates a new Kafka consumer. It returns nil without error when
// Kafka is not configured.
func NewConsumer(logger logx.Logger, brokers []string, groupID, topic string, h HandleFunc) (*Consumer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		logger:  logger,
		group:   group,
		topic:   topic,
		handler: h,
		backoff: time.Second,
	}, nil
}

// Run consumes until ctx is cancelled
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}

	h := &groupHandler{c: c}

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("kafka consume error", logx.Err(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Close leaves the consumer group
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log := h.c.logger
	for msg := range claim.Messages() {
		var dto EventDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			log.Warn("kafka bad json", logx.Int("partition", int(msg.Partition)), logx.Any("offset", msg.Offset), logx.Err(err))
			sess.MarkMessage(msg, "")
			continue
		}
		ev := ToDomain(dto)
		if ev.OrderID == "" {
			log.Warn("kafka empty order_id", logx.Int("partition", int(msg.Partition)), logx.Any("offset", msg.Offset))
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.c.handler(sess.Context(), ev); err != nil {
			if !isPermanent(err) {
				log.Error("kafka handle failed, retry",
					logx.OrderID(ev.OrderID), logx.String("status", ev.Status), logx.Err(err))
				return err
			}
			log.Warn("kafka handle failed, skipping message",
				logx.OrderID(ev.OrderID), logx.String("status", ev.Status), logx.Err(err))
		}

		sess.MarkMessage(msg, "")
	}
	return nil
}

// isPermanent reports whether redelivering the message cannot succeed.
// Coordinator rejections are final: the in-memory state will not change its
// mind on retry.
func isPermanent(err error) bool {
	for _, target := range []error{
		apperr.ErrInvalid,
		apperr.ErrInvalidOrder,
		apperr.ErrNotFound,
		apperr.ErrConflict,
		apperr.ErrIllegalTransition,
		apperr.ErrAlreadyResolved,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
