package kafka

import (
	"fmt"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Config holds Kafka producer parameters.
type Config struct {
	// ClientID identifies the producer to the brokers.
	ClientID string

	Brokers []string

	// BatchTimeout bounds how long messages wait before a partial batch is flushed.
	// Zero selects 10ms.
	BatchTimeout time.Duration

	// WriteTimeout bounds a single write. Zero selects the kafka-go default.
	WriteTimeout time.Duration

	// Compression is one of "", "none", "gzip", "snappy", "lz4" or "zstd".
	Compression string

	// AutoCreateTopics lets the first write create a missing topic.
	AutoCreateTopics bool
}

// codec maps Compression to a kafka-go codec. The zero value means none.
func (c Config) codec() (kafkago.Compression, error) {
	switch strings.ToLower(c.Compression) {
	case "", "none":
		return 0, nil
	case "gzip":
		return kafkago.Gzip, nil
	case "snappy":
		return kafkago.Snappy, nil
	case "lz4":
		return kafkago.Lz4, nil
	case "zstd":
		return kafkago.Zstd, nil
	default:
		return 0, fmt.Errorf("kafka: unknown compression %q", c.Compression)
	}
}
