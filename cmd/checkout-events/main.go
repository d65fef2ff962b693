// Command checkout-events читает топик событий оформления и печатает сводку:
// сколько заказов завершено и сколько упало, на какую сумму в USD.
// Утилита только читает топик и не сдвигает offset'ы consumer-групп.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
)

const (
	defaultScanLimit   = 1000
	defaultIdleTimeout = 2 * time.Second
	envKafkaBrokers    = "STOREFRONT_KAFKA_BROKERS"
)

type config struct {
	brokers     []string
	topic       string
	limit       int
	fromNewest  bool
	idleTimeout time.Duration
	orderID     string
	eventType   kafka.EventType
}

type offsetClient interface {
	GetOffset(topic string, partition int32, time int64) (int64, error)
	Partitions(topic string) ([]int32, error)
	Close() error
}

type partitionConsumer interface {
	Messages() <-chan *sarama.ConsumerMessage
	Errors() <-chan *sarama.ConsumerError
	Close() error
}

type partitionConsumerSource interface {
	ConsumePartition(topic string, partition int32, offset int64) (partitionConsumer, error)
	Close() error
}

type saramaConsumerAdapter struct {
	consumer sarama.Consumer
}

func (a saramaConsumerAdapter) ConsumePartition(topic string, partition int32, offset int64) (partitionConsumer, error) {
	pc, err := a.consumer.ConsumePartition(topic, partition, offset)
	if err != nil {
		return nil, err
	}
	return pc, nil
}

func (a saramaConsumerAdapter) Close() error {
	if a.consumer == nil {
		return nil
	}
	return a.consumer.Close()
}

var newScanDependencies = func(cfg config) (offsetClient, partitionConsumerSource, error) {
	consumerConfig := sarama.NewConfig()
	consumerConfig.Consumer.Return.Errors = true

	client, err := sarama.NewClient(cfg.brokers, consumerConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka client: %w", err)
	}

	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return client, saramaConsumerAdapter{consumer: consumer}, nil
}

// summary — агрегат по просмотренным событиям.
type summary struct {
	Processed int
	Matched   int
	Skipped   int
	ByType    map[kafka.EventType]int
	// RevenueUSD — сумма total_usd по завершённым заказам.
	RevenueUSD decimal.Decimal
	Failures   map[string]int
}

func newSummary() *summary {
	return &summary{
		ByType:     make(map[kafka.EventType]int),
		RevenueUSD: decimal.Zero,
		Failures:   make(map[string]int),
	}
}

func (s *summary) add(event kafka.CheckoutEvent) error {
	switch event.EventType {
	case kafka.EventTypeCheckoutCompleted:
		total, err := decimal.NewFromString(event.TotalUSD)
		if err != nil {
			return fmt.Errorf("order %s: parse total_usd %q: %w", event.OrderID, event.TotalUSD, err)
		}
		s.RevenueUSD = s.RevenueUSD.Add(total)
	case kafka.EventTypeCheckoutFailed:
		reason := event.Reason
		if reason == "" {
			reason = "unknown"
		}
		s.Failures[reason]++
	}
	s.ByType[event.EventType]++
	s.Matched++
	return nil
}

func (s *summary) merge(other *summary) {
	s.Processed += other.Processed
	s.Matched += other.Matched
	s.Skipped += other.Skipped
	s.RevenueUSD = s.RevenueUSD.Add(other.RevenueUSD)
	for k, v := range other.ByType {
		s.ByType[k] += v
	}
	for k, v := range other.Failures {
		s.Failures[k] += v
	}
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	cfg, err := readConfig(os.Args[1:], os.Getenv)
	if err != nil {
		fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := run(ctx, cfg)
	if err != nil {
		fail("checkout events scan failed: %v", err)
	}
	printSummary(os.Stdout, cfg, result)
}

func readConfig(args []string, getenv func(string) string) (config, error) {
	var (
		brokersRaw string
		typeRaw    string
		cfg        config
	)

	fs := flag.NewFlagSet("checkout-events", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&brokersRaw, "brokers", "", "Kafka brokers as comma-separated list (fallback: "+envKafkaBrokers+")")
	fs.StringVar(&cfg.topic, "topic", kafka.TopicCheckoutEvents, "checkout events topic")
	fs.IntVar(&cfg.limit, "limit", defaultScanLimit, "max number of messages to scan")
	fs.BoolVar(&cfg.fromNewest, "from-newest", false, "scan latest messages first (bounded by limit)")
	fs.DurationVar(&cfg.idleTimeout, "idle-timeout", defaultIdleTimeout, "idle timeout per partition")
	fs.StringVar(&cfg.orderID, "order", "", "only events of this order id")
	fs.StringVar(&typeRaw, "type", "", "only events of this type: checkout.completed | checkout.failed")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if strings.TrimSpace(brokersRaw) == "" {
		brokersRaw = getenv(envKafkaBrokers)
	}
	cfg.brokers = parseBrokers(brokersRaw)
	cfg.topic = strings.TrimSpace(cfg.topic)
	cfg.orderID = strings.TrimSpace(cfg.orderID)

	switch typ := kafka.EventType(strings.TrimSpace(typeRaw)); typ {
	case "", kafka.EventTypeCheckoutCompleted, kafka.EventTypeCheckoutFailed:
		cfg.eventType = typ
	default:
		return config{}, fmt.Errorf("unsupported event type: %s", typeRaw)
	}

	switch {
	case len(cfg.brokers) == 0:
		return config{}, fmt.Errorf("kafka brokers are required (-brokers or %s)", envKafkaBrokers)
	case cfg.topic == "":
		return config{}, errors.New("topic is required")
	case cfg.limit <= 0:
		return config{}, errors.New("limit must be > 0")
	case cfg.idleTimeout <= 0:
		return config{}, errors.New("idle-timeout must be > 0")
	}
	return cfg, nil
}

func parseBrokers(raw string) []string {
	chunks := strings.Split(raw, ",")
	brokers := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if broker := strings.TrimSpace(chunk); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func run(ctx context.Context, cfg config) (*summary, error) {
	log.WithFields(log.Fields{
		"topic":       cfg.topic,
		"limit":       cfg.limit,
		"from_newest": cfg.fromNewest,
		"order_id":    cfg.orderID,
	}).Info("starting checkout events scan")

	client, consumer, err := newScanDependencies(cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if consumer != nil {
			_ = consumer.Close()
		}
		if client != nil {
			_ = client.Close()
		}
	}()

	return scanTopic(ctx, cfg, client, consumer)
}

func scanTopic(ctx context.Context, cfg config, client offsetClient, consumer partitionConsumerSource) (*summary, error) {
	if client == nil || consumer == nil {
		return nil, errors.New("kafka client and consumer are required")
	}

	total := newSummary()
	partitions, err := client.Partitions(cfg.topic)
	if err != nil {
		return nil, fmt.Errorf("get partitions for topic %s: %w", cfg.topic, err)
	}
	if len(partitions) == 0 {
		log.WithField("topic", cfg.topic).Warn("topic has no partitions")
		return total, nil
	}
	sort.Slice(partitions, func(i, j int) bool { return partitions[i] < partitions[j] })

	for _, partition := range partitions {
		remaining := cfg.limit - total.Processed
		if remaining <= 0 {
			break
		}
		part, err := scanPartition(ctx, consumer, client, cfg, partition, remaining)
		if err != nil {
			return nil, err
		}
		total.merge(part)
	}
	return total, nil
}

func scanPartition(
	ctx context.Context,
	consumer partitionConsumerSource,
	client offsetClient,
	cfg config,
	partition int32,
	limit int,
) (*summary, error) {
	stats := newSummary()
	if limit <= 0 {
		return stats, nil
	}

	oldest, err := client.GetOffset(cfg.topic, partition, sarama.OffsetOldest)
	if err != nil {
		return nil, fmt.Errorf("get oldest offset for partition %d: %w", partition, err)
	}
	newest, err := client.GetOffset(cfg.topic, partition, sarama.OffsetNewest)
	if err != nil {
		return nil, fmt.Errorf("get newest offset for partition %d: %w", partition, err)
	}
	if newest <= oldest {
		return stats, nil
	}

	startOffset := oldest
	if cfg.fromNewest {
		startOffset = max(newest-int64(limit), oldest)
	}

	pc, err := consumer.ConsumePartition(cfg.topic, partition, startOffset)
	if err != nil {
		return nil, fmt.Errorf("consume partition %d: %w", partition, err)
	}
	defer func() { _ = pc.Close() }()

	idleTimer := time.NewTimer(cfg.idleTimeout)
	defer idleTimer.Stop()

	for stats.Processed < limit {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case err := <-pc.Errors():
			if err != nil {
				return nil, fmt.Errorf("partition %d consumer error: %w", partition, err)
			}
		case msg, ok := <-pc.Messages():
			if !ok || msg == nil {
				return stats, nil
			}
			if !idleTimer.Stop() {
				select {
				case <-idleTimer.C:
				default:
				}
			}
			idleTimer.Reset(cfg.idleTimeout)

			if msg.Offset >= newest {
				return stats, nil
			}
			stats.Processed++
			handleMessage(stats, cfg, msg)

			if msg.Offset+1 >= newest {
				return stats, nil
			}
		case <-idleTimer.C:
			return stats, nil
		}
	}
	return stats, nil
}

func handleMessage(stats *summary, cfg config, msg *sarama.ConsumerMessage) {
	fields := log.Fields{"partition": msg.Partition, "offset": msg.Offset}

	var event kafka.CheckoutEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.EventType == "" {
		stats.Skipped++
		log.WithFields(fields).Warn("skip message that is not a checkout event")
		return
	}
	if !matches(cfg, event) {
		return
	}
	if err := stats.add(event); err != nil {
		stats.Skipped++
		log.WithError(err).WithFields(fields).Warn("skip malformed checkout event")
		return
	}

	log.WithFields(fields).WithFields(log.Fields{
		"event_type": event.EventType,
		"order_id":   event.OrderID,
		"currency":   event.Currency,
		"total_usd":  event.TotalUSD,
		"reason":     event.Reason,
	}).Debug("checkout event")
}

func matches(cfg config, event kafka.CheckoutEvent) bool {
	if cfg.orderID != "" && event.OrderID != cfg.orderID {
		return false
	}
	if cfg.eventType != "" && event.EventType != cfg.eventType {
		return false
	}
	return true
}

func printSummary(w io.Writer, cfg config, s *summary) {
	_, _ = fmt.Fprintf(w, "topic=%s processed=%d matched=%d skipped=%d\n", cfg.topic, s.Processed, s.Matched, s.Skipped)
	_, _ = fmt.Fprintf(w, "completed=%d failed=%d revenue_usd=%s\n",
		s.ByType[kafka.EventTypeCheckoutCompleted],
		s.ByType[kafka.EventTypeCheckoutFailed],
		s.RevenueUSD.StringFixed(2),
	)

	reasons := make([]string, 0, len(s.Failures))
	for reason := range s.Failures {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		_, _ = fmt.Fprintf(w, "failure reason=%q count=%d\n", reason, s.Failures[reason])
	}
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
