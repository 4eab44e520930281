package kafka

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"cipherweave/internal/logging"
	"cipherweave/internal/telemetry"
	"cipherweave/sink"
)

type Config struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
	Acks    int16    `koanf:"required_acks"` // 0,1,-1
}

type driver struct {
	cfg Config
	p   sarama.AsyncProducer

	wg   sync.WaitGroup
	once sync.Once
}

// newProducer is swapped in tests.
var newProducer = func(cfg Config) (sarama.AsyncProducer, error) {
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	return sarama.NewAsyncProducer(cfg.Brokers, sc)
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return fmt.Errorf("kafka-sink: brokers and topic are required")
	}
	d.cfg = cfg

	p, err := newProducer(cfg)
	if err != nil {
		return fmt.Errorf("kafka-sink: %w", err)
	}
	d.p = p

	// Return.Errors is on by default; the channel must be drained.
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for perr := range d.p.Errors() {
			telemetry.SinkErrors.WithLabelValues("kafka").Inc()
			logging.L().Error("kafka-sink: produce failed", "topic", d.cfg.Topic, "err", perr.Err)
		}
	}()
	return nil
}

func (d *driver) Push(r sink.Record) error {
	val, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("kafka-sink: encode record %s: %w", r.RunID, err)
	}
	key := r.Key
	if key == "" {
		key = r.RunID
	}
	d.p.Input() <- &sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(val),
	}
	return nil
}

func (d *driver) Close() error {
	d.once.Do(func() {
		if d.p == nil {
			return
		}
		d.p.AsyncClose()
		d.wg.Wait()
	})
	return nil
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
