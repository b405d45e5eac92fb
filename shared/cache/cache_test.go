package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedRoom struct {
	Number string `json:"number"`
	Floor  int    `json:"floor"`
}

func TestCodec(t *testing.T) {
	payload, err := encode(cachedRoom{Number: "204", Floor: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"number":"204","floor":2}`, string(payload))

	var room cachedRoom
	require.NoError(t, decode(payload, &room))
	assert.Equal(t, cachedRoom{Number: "204", Floor: 2}, room)
}

func TestCodec_Strings(t *testing.T) {
	payload, err := encode("hotel:rooms")
	require.NoError(t, err)
	assert.Equal(t, "hotel:rooms", string(payload))

	var value string
	require.NoError(t, decode(payload, &value))
	assert.Equal(t, "hotel:rooms", value)
}

func TestCodec_Errors(t *testing.T) {
	_, err := encode(make(chan int))
	assert.Error(t, err)

	var room cachedRoom
	assert.Error(t, decode([]byte("{"), &room))
}

func TestNewRedisCache_NilClient(t *testing.T) {
	c := NewRedisCache(nil, nil)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "rooms:1", cachedRoom{}, 60))

	var room cachedRoom
	assert.ErrorIs(t, c.Get(ctx, "rooms:1", &room), Nil)
	assert.NoError(t, c.Delete(ctx, "rooms:1"))
	assert.NoError(t, c.Clear(ctx, "rooms:*"))
}
