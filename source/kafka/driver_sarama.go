package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"

	"cipherweave/internal/logging"
)

type SaramaDriver struct {
	cfg   Config
	cl    sarama.Client
	group sarama.ConsumerGroup
	bp    *Controller
	cp    *Manager
}

func (d *SaramaDriver) Configure(config Config) error {
	d.cfg = config
	d.bp = NewController(config.Throttle.Rate, config.Throttle.Tick)
	d.cp = NewManager(config.Checkpoint.CommitInt)

	ver, err := sarama.ParseKafkaVersion(config.Version)
	if err != nil {
		return err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.AutoCommit.Enable = false
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}
	switch config.StartFrom {
	case "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	if d.cl, err = sarama.NewClient(config.Brokers, sc); err != nil {
		return fmt.Errorf("kafka: client: %w", err)
	}
	if d.group, err = sarama.NewConsumerGroupFromClient(config.GroupID, d.cl); err != nil {
		return fmt.Errorf("kafka: consumer group %s: %w", config.GroupID, err)
	}
	go func() {
		for err := range d.group.Errors() {
			logging.L().Error("sarama-driver: consumer error", "group", config.GroupID, "err", err)
		}
	}()
	return nil
}

func (d *SaramaDriver) Run(ctx context.Context, emit EmitFunc) error {
	handler := &groupHandler{driver: d, emit: emit}

	for {
		if err := d.group.Consume(ctx, d.cfg.Topics, handler); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (d *SaramaDriver) Close() error {
	d.bp.Close()
	if d.group != nil {
		_ = d.group.Close()
	}
	if d.cl != nil && !d.cl.Closed() {
		_ = d.cl.Close()
	}
	return nil
}

type groupHandler struct {
	driver *SaramaDriver
	emit   EmitFunc
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup flushes whatever was marked before the rebalance.
func (h *groupHandler) Cleanup(sess sarama.ConsumerGroupSession) error {
	if n := h.driver.cp.Pending(); n > 0 {
		sess.Commit()
		h.driver.cp.Committed()
		logging.L().Info("sarama-driver: rebalance, flushed offsets", "count", n)
	}
	return nil
}

func (h *groupHandler) ConsumeClaim(
	sess sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	ctx := sess.Context()
	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.driver.bp.Acquire(ctx); err != nil {
				return nil
			}
			if err := h.emit(ctx, toMessage(msg)); err != nil {
				logging.L().Error("sarama-driver: emit failed", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "err", err)
				return err
			}
			sess.MarkMessage(msg, "")
			if h.driver.cp.Resolve() {
				sess.Commit()
				h.driver.cp.Committed()
			}
		}
	}
}

func toMessage(msg *sarama.ConsumerMessage) Message {
	return Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       string(msg.Key),
		Text:      string(msg.Value),
		Headers:   toHeaderMap(msg.Headers),
		Time:      msg.Timestamp,
	}
}

func toHeaderMap(src []*sarama.RecordHeader) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for _, h := range src {
		out[string(h.Key)] = string(h.Value)
	}
	return out
}

func init() { Register("sarama", func() Adapter { return &SaramaDriver{} }) }
