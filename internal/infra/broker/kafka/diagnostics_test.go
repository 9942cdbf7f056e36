package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteavail/internal/domain/availability"
	"siteavail/internal/domain/shared/daterange"
)

func blocksIgnored() availability.BlocksIgnored {
	d, _ := time.Parse(daterange.DateLayout, "2024-06-03")
	return availability.BlocksIgnoredEvent("meadow", 3, []time.Time{d}, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
}

func TestDiagnosticsPublisherSendsEnvelope(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, cfg)
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "siteavail.diagnostics" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "meadow" {
			return errors.New("unexpected key " + string(key))
		}
		return nil
	})
	producer := WrapProducer(sp)
	defer func() { require.NoError(t, producer.Close()) }()

	pub := DiagnosticsPublisher{Producer: producer, Topic: "siteavail.diagnostics"}
	require.NoError(t, pub.Report(context.Background(), blocksIgnored()))
}

type capture struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
	err     error
}

func (c *capture) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	c.topic, c.key, c.payload, c.headers = topic, key, payload, headers
	return c.err
}

func TestDiagnosticsPublisherPayload(t *testing.T) {
	c := &capture{}
	pub := DiagnosticsPublisher{Producer: c, Topic: "diag"}
	require.NoError(t, pub.Report(context.Background(), blocksIgnored()))

	assert.Equal(t, "diag", c.topic)
	assert.Equal(t, "meadow", c.key)
	assert.Equal(t, availability.EventBlocksIgnored, c.headers["event_name"])

	var env struct {
		Event   string          `json:"event"`
		SiteID  string          `json:"site_id"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(c.payload, &env))
	assert.Equal(t, availability.EventBlocksIgnored, env.Event)
	assert.Equal(t, "meadow", env.SiteID)
	assert.Contains(t, string(env.Payload), "2024-06-03")
}

func TestDiagnosticsPublisherErrors(t *testing.T) {
	err := DiagnosticsPublisher{}.Report(context.Background(), blocksIgnored())
	assert.Error(t, err)

	boom := errors.New("broker gone")
	err = DiagnosticsPublisher{Producer: &capture{err: boom}, Topic: "diag"}.Report(context.Background(), blocksIgnored())
	assert.ErrorIs(t, err, boom)
}
