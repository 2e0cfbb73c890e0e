package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderWriter struct {
	mu        sync.Mutex
	failures  []error
	attempts  int
	published []string
}

func (f *fakeOrderWriter) WriteOrderPlaced(_ context.Context, event *usecase.OrderPlacedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return err
	}
	f.published = append(f.published, event.EventID)
	return nil
}

func (f *fakeOrderWriter) Published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.published...)
}

func (f *fakeOrderWriter) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func newTestOutbox(w orderWriter, capacity int) *OutboxWorker {
	o := NewOutboxWorker(w, logger.NewNop(), capacity)
	o.backoff = jitter.Backoff{}
	return o
}

func event(id string) *usecase.OrderPlacedEvent {
	return &usecase.OrderPlacedEvent{EventID: id, UserID: "user-42"}
}

func TestOutbox_PublishesInBackground(t *testing.T) {
	w := &fakeOrderWriter{}
	o := newTestOutbox(w, 8)
	o.Start(context.Background())

	require.NoError(t, o.PublishOrderPlaced(context.Background(), event("a")))
	require.NoError(t, o.PublishOrderPlaced(context.Background(), event("b")))

	assert.Eventually(t, func() bool { return len(w.Published()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, w.Published())

	require.NoError(t, o.Stop(context.Background()))
}

func TestOutbox_RetriesTemporaryFailures(t *testing.T) {
	w := &fakeOrderWriter{failures: []error{
		errors.New("dial tcp: connection refused"),
		errors.New("[5] Leader Not Available"),
	}}
	o := newTestOutbox(w, 8)
	o.Start(context.Background())

	require.NoError(t, o.PublishOrderPlaced(context.Background(), event("a")))

	assert.Eventually(t, func() bool { return len(w.Published()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, w.Attempts())

	require.NoError(t, o.Stop(context.Background()))
}

func TestOutbox_DropsPermanentFailures(t *testing.T) {
	w := &fakeOrderWriter{failures: []error{errors.New("message too large")}}
	o := newTestOutbox(w, 8)
	o.Start(context.Background())

	require.NoError(t, o.PublishOrderPlaced(context.Background(), event("a")))
	require.NoError(t, o.PublishOrderPlaced(context.Background(), event("b")))

	assert.Eventually(t, func() bool { return len(w.Published()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"b"}, w.Published())
	assert.Equal(t, 2, w.Attempts())

	require.NoError(t, o.Stop(context.Background()))
}

func TestOutbox_FullQueue(t *testing.T) {
	o := newTestOutbox(&fakeOrderWriter{}, 1)

	require.NoError(t, o.PublishOrderPlaced(context.Background(), event("a")))
	err := o.PublishOrderPlaced(context.Background(), event("b"))
	assert.ErrorIs(t, err, ErrOutboxFull)
}

func TestOutbox_StopDrainsQueue(t *testing.T) {
	w := &fakeOrderWriter{}
	o := newTestOutbox(w, 8)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, o.PublishOrderPlaced(context.Background(), event(id)))
	}

	o.Start(context.Background())
	require.NoError(t, o.Stop(context.Background()))
	assert.Len(t, w.Published(), 3)

	err := o.PublishOrderPlaced(context.Background(), event("late"))
	assert.ErrorIs(t, err, ErrOutboxFull)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: errors.New("read tcp 10.0.0.1:9092: i/o timeout"), want: true},
		{err: errors.New("write: broken pipe"), want: true},
		{err: errors.New("[3] Unknown Topic Or Partition"), want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isRetryableError(tt.err), "%v", tt.err)
	}
}
