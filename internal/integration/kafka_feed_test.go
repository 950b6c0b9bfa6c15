//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-report-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-report-service/internal/adapter/memory"
	"github.com/couchcryptid/weather-report-service/internal/config"
	"github.com/couchcryptid/weather-report-service/internal/observability"
)

const feedTopic = "hourly-measurements-test"

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial kafka")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestMeasurementFeed publishes a malformed message followed by valid
// measurements and verifies the feed skips the poison pill and stores the
// rest.
func TestMeasurementFeed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, feedTopic)

	now := time.Now().UTC().Truncate(time.Hour)
	window := hourlyWindow(now, 3, "seattle")

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: feedTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := []kafkago.Message{{Key: []byte("bad"), Value: []byte("not-json{{{")}}
	for i, m := range window {
		payload, err := json.Marshal(m)
		require.NoError(t, err)
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(fmt.Sprintf("measurement-%d", i)),
			Value: payload,
		})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   feedTopic,
		KafkaGroupID: fmt.Sprintf("feed-test-%d", time.Now().UnixNano()),
	}

	store := memory.NewStore()
	feed := kafka.NewFeed(cfg, store, discardLogger(), observability.NewMetricsForTesting())
	t.Cleanup(func() { _ = feed.Close() })

	feedCtx, stopFeed := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- feed.Run(feedCtx) }()

	// Wait for all valid measurements to land in the store.
	require.Eventually(t, func() bool {
		got, err := store.MeasurementsSince(ctx, now.Add(-6*time.Hour), "")
		return err == nil && len(got) == len(window)
	}, time.Minute, 100*time.Millisecond, "feed should store all valid measurements")

	stopFeed()
	require.NoError(t, <-errCh)

	got, err := store.MeasurementsSince(ctx, now.Add(-6*time.Hour), "seattle")
	require.NoError(t, err)
	require.Len(t, got, len(window))
	for i := range got {
		assert.Equal(t, window[i].Timestamp, got[i].Timestamp)
		assert.Equal(t, "seattle", got[i].Tags.Location)
	}
}
