package kafka

import (
	"context"
	"time"
)

// Message is one consumed plaintext with its position in the log.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       string
	Text      string
	Headers   map[string]string
	Time      time.Time
}

// EmitFunc handles one message. An error stops the claim; the message is
// not marked and will be redelivered.
type EmitFunc func(context.Context, Message) error

type Adapter interface {
	Configure(Config) error
	Run(context.Context, EmitFunc) error
	Close() error
}
