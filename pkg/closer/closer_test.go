package closer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloser_ClosesInReverseOrder(t *testing.T) {
	c := NewCloser(0)

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) Func {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}

	c.Add("redis", record("redis"))
	c.Add("order outbox", record("order outbox"))
	c.AddCloser("http server", func() error { return record("http server")(context.Background()) })

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"http server", "order outbox", "redis"}, order)

	// повторный вызов ничего не делает
	require.NoError(t, c.Close(context.Background()))
	assert.Len(t, order, 3)
}

func TestCloser_CollectsErrors(t *testing.T) {
	c := NewCloser(0)
	c.Add("redis", func(context.Context) error { return errors.New("connection reset") })
	c.Add("kafka producer", func(context.Context) error { return nil })

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[!] redis: connection reset")
}

func TestCloser_ForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(100 * time.Millisecond)

	forced := make(chan struct{}, 1)
	c.Add("redis", func(context.Context) error {
		forced <- struct{}{}
		return nil
	})

	block := make(chan struct{})
	t.Cleanup(func() { close(block) })

	var calls atomic.Int32
	c.Add("http server", func(context.Context) error {
		if calls.Add(1) == 1 {
			<-block
			return nil
		}
		return errors.New("forced stop")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted after 0/2 funcs")
	assert.Contains(t, err.Error(), "[FORCED] http server: forced stop")

	select {
	case <-forced:
	case <-time.After(time.Second):
		t.Fatal("redis was not closed")
	}
}
