package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/sentimeter/internal/models"
)

const (
	KAFKA_TOPIC_ANALYSES = "sentiment-analyses" // every persisted analysis
	kafkaProduceRetries  = 3
	kafkaFlushTimeoutMs  = 5000
)

type KafkaConfig struct {
	Broker string
	Topic  string
}

func (c KafkaConfig) Enabled() bool {
	return c.Broker != ""
}

type kafkaProducer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Close()
}

// KafkaPublisher emits persisted analyses as JSON events keyed by record id.
type KafkaPublisher struct {
	producer     kafkaProducer
	topic        string
	retryBackoff time.Duration
}

func InitKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...", slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   cfg.Broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	topic := cfg.Topic
	if topic == "" {
		topic = KAFKA_TOPIC_ANALYSES
	}

	kp := &KafkaPublisher{producer: p, topic: topic, retryBackoff: 100 * time.Millisecond}
	go kp.handleDeliveryReports()

	slog.Info("[KafkaClient] Kafka Producer initialized successfully", slog.String("topic", topic))
	return kp, nil
}

func (kp *KafkaPublisher) handleDeliveryReports() {
	for e := range kp.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				slog.Warn("[KafkaClient] Delivery failed",
					slog.String("key", string(ev.Key)),
					slog.String("error", ev.TopicPartition.Error.Error()))
			}
		case kafka.Error:
			slog.Warn("[KafkaClient] Producer error", slog.String("error", ev.Error()))
		}
	}
}

func analysisMessage(topic string, record models.AnalysisRecord) (*kafka.Message, error) {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] failed to marshal analysis: %w", err)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(strconv.FormatInt(record.ID, 10)),
		Value:          jsonData,
	}, nil
}

// PublishAnalysis enqueues the record; delivery is reported asynchronously.
func (kp *KafkaPublisher) PublishAnalysis(record models.AnalysisRecord) error {
	msg, err := analysisMessage(kp.topic, record)
	if err != nil {
		return err
	}

	for i := 0; i < kafkaProduceRetries; i++ {
		err = kp.producer.Produce(msg, nil)
		if err == nil {
			return nil
		}

		var kafkaErr kafka.Error
		if !errors.As(err, &kafkaErr) || kafkaErr.Code() != kafka.ErrQueueFull {
			break
		}
		slog.Warn("[KafkaClient] Producer queue full, retrying...",
			slog.Int("attempt", i+1))
		time.Sleep(kp.retryBackoff)
	}

	return fmt.Errorf("[KafkaClient] failed to produce analysis %d: %w", record.ID, err)
}

func (kp *KafkaPublisher) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := kp.producer.Flush(kafkaFlushTimeoutMs); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	kp.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
