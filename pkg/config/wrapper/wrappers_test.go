package wrapper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/governance-client/pkg/config/memory"
)

func TestDurationConfig(t *testing.T) {
	ctx := context.Background()
	source := memory.NewConfig(nil)
	c := NewDurationConfig(source, time.Second)

	v, err := c.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Second, v)

	source.SetValue(3 * time.Second)
	assert.Equal(t, 3*time.Second, c.Get(ctx))

	source.SetValue([]byte("250ms"))
	assert.Equal(t, 250*time.Millisecond, c.Get(ctx))

	// A failing source keeps the last good value.
	source.InduceErrors(true)
	v, err = c.GetSafe(ctx)
	assert.ErrorIs(t, err, memory.ErrInduced)
	assert.Equal(t, 250*time.Millisecond, v)
	source.InduceErrors(false)

	source.SetValue([]byte("soon"))
	v, err = c.GetSafe(ctx)
	assert.Error(t, err)
	assert.Equal(t, 250*time.Millisecond, v)

	source.SetValue("1s")
	_, err = c.GetSafe(ctx)
	assert.Equal(t, ErrUnsupportedConversion, err)

	source.SetValue(nil)
	assert.Equal(t, time.Second, c.Get(ctx))
}

func TestUint64Config(t *testing.T) {
	ctx := context.Background()
	source := memory.NewConfig(nil)
	c := NewUint64Config(source, 100)

	assert.EqualValues(t, 100, c.Get(ctx))

	source.SetValue(uint64(0))
	assert.EqualValues(t, 0, c.Get(ctx))

	source.SetValue(uint(9))
	assert.EqualValues(t, 9, c.Get(ctx))

	source.SetValue([]byte("1000000000"))
	assert.EqualValues(t, 1_000_000_000, c.Get(ctx))

	source.SetValue(int64(5))
	v, err := c.GetSafe(ctx)
	assert.Equal(t, ErrUnsupportedConversion, err)
	assert.EqualValues(t, 1_000_000_000, v)
}

func TestBoolConfig(t *testing.T) {
	ctx := context.Background()
	source := memory.NewConfig(nil)
	c := NewBoolConfig(source, true)

	assert.True(t, c.Get(ctx))

	source.SetValue(false)
	assert.False(t, c.Get(ctx))

	source.SetValue([]byte("true"))
	assert.True(t, c.Get(ctx))

	source.SetValue([]byte("maybe"))
	v, err := c.GetSafe(ctx)
	assert.Error(t, err)
	assert.True(t, v)
}

func TestShutdown(t *testing.T) {
	source := memory.NewConfig(true)
	c := NewBoolConfig(source, false)
	c.Shutdown()

	_, err := source.Get(context.Background())
	assert.Error(t, err)
}
