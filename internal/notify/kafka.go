package notify

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// Envelope is the wire form of a notification on the notifications topic.
type Envelope struct {
	Role      domain.Role `json:"role"`
	Recipient string      `json:"recipient,omitempty"`
	OrderID   string      `json:"order_id,omitempty"`
	Event     string      `json:"event"`
	Payload   any         `json:"payload"`
	SentAt    time.Time   `json:"sent_at"`
}

type resultCounter interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

var newAsyncProducer = sarama.NewAsyncProducer

// Kafka publishes notifications as JSON envelopes keyed by order id, so that
// the events of one order stay on one partition.
type Kafka struct {
	producer sarama.AsyncProducer
	topic    string
	log      logx.Logger
	results  resultCounter
	now      func() time.Time

	wg sync.WaitGroup
}

// ProducerConfig returns the sarama configuration used by the publisher.
func ProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Retry.Max = 3
	return cfg
}

// NewKafka connects a publisher. It returns nil without error when brokers or
// topic are not configured.
func NewKafka(logger logx.Logger, brokers []string, topic string, results resultCounter) (*Kafka, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}
	producer, err := newAsyncProducer(brokers, ProducerConfig())
	if err != nil {
		return nil, err
	}
	return newKafka(producer, topic, logger, results), nil
}

func newKafka(producer sarama.AsyncProducer, topic string, logger logx.Logger, results resultCounter) *Kafka {
	if logger == nil {
		logger = logx.Nop()
	}
	k := &Kafka{producer: producer, topic: topic, log: logger, results: results, now: time.Now}
	k.wg.Add(2)
	go k.drainSuccesses()
	go k.drainErrors()
	return k
}

// Notify implements Notifier. It never blocks: a notification that does not
// fit into the producer queue is dropped and counted.
func (k *Kafka) Notify(_ context.Context, n domain.Notification) {
	if k == nil {
		return
	}
	b, err := json.Marshal(Envelope{
		Role:      n.Role,
		Recipient: n.Recipient,
		OrderID:   n.OrderID,
		Event:     n.Event,
		Payload:   n.Payload,
		SentAt:    k.now().UTC(),
	})
	if err != nil {
		k.count(n.Event, "encode_error")
		k.log.Error("encode notification", logx.String("event", n.Event), logx.Err(err))
		return
	}

	key := n.OrderID
	if key == "" {
		key = n.Event
	}
	msg := &sarama.ProducerMessage{
		Topic:    k.topic,
		Key:      sarama.StringEncoder(key),
		Value:    sarama.ByteEncoder(b),
		Metadata: n.Event,
	}
	select {
	case k.producer.Input() <- msg:
	default:
		k.count(n.Event, "dropped")
		k.log.Warn("notification dropped, producer queue full", logx.String("event", n.Event), logx.OrderID(n.OrderID))
	}
}

func (k *Kafka) drainSuccesses() {
	defer k.wg.Done()
	for msg := range k.producer.Successes() {
		k.count(eventOf(msg), "ok")
	}
}

func (k *Kafka) drainErrors() {
	defer k.wg.Done()
	for perr := range k.producer.Errors() {
		event := eventOf(perr.Msg)
		k.count(event, "error")
		k.log.Error("publish notification", logx.String("event", event), logx.Err(perr.Err))
	}
}

func (k *Kafka) count(event, result string) {
	if k.results != nil {
		k.results.WithLabelValues(event, result).Inc()
	}
}

func eventOf(msg *sarama.ProducerMessage) string {
	if msg == nil {
		return ""
	}
	if s, ok := msg.Metadata.(string); ok {
		return s
	}
	return ""
}

// Close flushes pending messages and stops the publisher.
func (k *Kafka) Close() error {
	if k == nil {
		return nil
	}
	err := k.producer.Close()
	k.wg.Wait()
	return err
}
