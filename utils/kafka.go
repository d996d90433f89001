package utils

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/chnm/relcensus-backend/config"
)

var (
	kafkaWriter  *kafka.Writer
	kafkaBrokers []string
	kafkaTopic   string
)

// InitializeKafka sets up the writer for workflow events. When no brokers are
// configured the writer stays nil and PublishWorkflowEvent becomes a no-op, so
// the server and the import CLI run fine without a broker.
func InitializeKafka(cfg *config.Config) {
	if cfg.KafkaBrokers == "" {
		log.Println("ℹ️ KAFKA_BROKERS not set, workflow events disabled")
		return
	}

	kafkaBrokers = strings.Split(cfg.KafkaBrokers, ",")
	kafkaTopic = cfg.KafkaWorkflowTopic

	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(kafkaBrokers...),
		Topic:        kafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("✅ Kafka writer initialized for topic %s", kafkaTopic)
}

// PublishWorkflowEvent serializes payload as JSON and writes it keyed by key.
func PublishWorkflowEvent(ctx context.Context, key string, payload interface{}) error {
	if kafkaWriter == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
}

// NewWorkflowReader creates a consumer-group reader on the workflow topic.
// Returns nil until InitializeKafka has run with brokers configured.
func NewWorkflowReader(groupID string) *kafka.Reader {
	if len(kafkaBrokers) == 0 {
		return nil
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkaBrokers,
		GroupID:  groupID,
		Topic:    kafkaTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}
