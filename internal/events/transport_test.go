package events

import (
	"context"
	"errors"
	"testing"

	redis "github.com/redis/go-redis/v9"
	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaMessageRoundTrip(t *testing.T) {
	msg := Message{
		RoutingKey: "games.game_synced",
		Body:       []byte(`{"event_type":"game_synced"}`),
		Headers:    map[string]string{HeaderContentType: "application/json"},
	}
	km := toKafkaMessage(msg)
	assert.Equal(t, []byte("games.game_synced"), km.Key)
	require.Len(t, km.Headers, 1)

	km.Topic, km.Partition, km.Offset = "blog_events", 2, 17
	d := fromKafkaMessage(km)
	assert.Equal(t, msg.RoutingKey, d.RoutingKey)
	assert.Equal(t, msg.Body, d.Body)
	assert.Equal(t, "application/json", d.Headers[HeaderContentType])
	assert.Equal(t, "blog_events/2/17", d.ID)
	_, ok := d.raw.(kafka.Message)
	assert.True(t, ok)
}

func TestKafkaSourceAckRejectsForeignDelivery(t *testing.T) {
	src := &KafkaSource{}
	err := src.Ack(context.Background(), Delivery{ID: "x"})
	assert.Error(t, err)
}

func TestRedisStreamValues(t *testing.T) {
	values := streamValues(Message{RoutingKey: "games.game_updated", Body: []byte(`{"a":1}`)})
	d := deliveryFromStream(redis.XMessage{ID: "1700000000000-0", Values: values})
	assert.Equal(t, "games.game_updated", d.RoutingKey)
	assert.Equal(t, `{"a":1}`, string(d.Body))
	assert.Equal(t, "1700000000000-0", d.ID)
}

func TestRedisStreamToleratesMissingFields(t *testing.T) {
	d := deliveryFromStream(redis.XMessage{ID: "1-0", Values: map[string]any{fieldData: []byte("x")}})
	assert.Equal(t, "", d.RoutingKey)
	assert.Equal(t, "x", string(d.Body))
}

func TestXAddArgsCapsLength(t *testing.T) {
	args := xaddArgs("blog_events", 1000, map[string]any{})
	assert.EqualValues(t, 1000, args.MaxLen)
	assert.True(t, args.Approx)

	unbounded := xaddArgs("blog_events", 0, map[string]any{})
	assert.Zero(t, unbounded.MaxLen)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient("not-a-url://")
	assert.Error(t, err)

	cli, err := NewRedisClient("redis://localhost:6379/0")
	require.NoError(t, err)
	assert.NoError(t, cli.Close())
}

func TestDeadLetterHeadersCarryRoutingKeyAndReason(t *testing.T) {
	d := Delivery{Message: Message{RoutingKey: "games.game_synced", Headers: map[string]string{"a": "b"}}}
	headers := deadLetterHeaders(d, errors.New("bad payload"))
	assert.Equal(t, "b", headers["a"])
	assert.Equal(t, "games.game_synced", headers[HeaderRoutingKey])
	assert.Equal(t, "bad payload", headers[HeaderError])
	assert.NotContains(t, d.Headers, HeaderRoutingKey)
}

func TestNoopSender(t *testing.T) {
	var s NoopSender
	assert.NoError(t, s.Send(context.Background(), Message{}))
	assert.NoError(t, s.Close())
}
