package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/jitter"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

// ErrOutboxFull — очередь событий переполнена, событие не принято.
var ErrOutboxFull = errors.New("order event outbox is full")

// orderWriter — то, что OutboxWorker требует от Producer.
type orderWriter interface {
	WriteOrderPlaced(ctx context.Context, event *usecase.OrderPlacedEvent) error
}

// OutboxWorker принимает события оформленных заказов в очередь в памяти и отправляет их в Kafka в фоне.
// Временные ошибки брокера повторяются с задержкой, оформление заказа не ждёт Kafka.
type OutboxWorker struct {
	producer   orderWriter
	logger     logger.Logger
	queue      chan *usecase.OrderPlacedEvent
	backoff    jitter.Backoff
	maxRetries int
	stop       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

func NewOutboxWorker(producer orderWriter, logger logger.Logger, capacity int) *OutboxWorker {
	if capacity <= 0 {
		capacity = 256
	}

	return &OutboxWorker{
		producer:   producer,
		logger:     logger,
		queue:      make(chan *usecase.OrderPlacedEvent, capacity),
		backoff:    jitter.DefaultBackoff(),
		maxRetries: 5,
		stop:       make(chan struct{}),
	}
}

// PublishOrderPlaced ставит событие в очередь. Не блокируется: при переполнении возвращает ErrOutboxFull.
func (w *OutboxWorker) PublishOrderPlaced(ctx context.Context, event *usecase.OrderPlacedEvent) error {
	select {
	case <-w.stop:
		return e.Wrap("OutboxWorker.PublishOrderPlaced", ErrOutboxFull)
	default:
	}

	select {
	case w.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return e.Wrap("OutboxWorker.PublishOrderPlaced", ErrOutboxFull)
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Stop прекращает приём событий и дожидается отправки очереди или отмены ctx.
func (w *OutboxWorker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stop) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return e.Wrap("OutboxWorker.Stop", ctx.Err())
	}
}

func (w *OutboxWorker) run(ctx context.Context) {
	for {
		select {
		case event := <-w.queue:
			w.processEvent(ctx, event)
		case <-w.stop:
			w.drain(ctx)
			w.logger.Infof("Outbox worker stopped")
			return
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped by context cancellation, %d events dropped", len(w.queue))
			return
		}
	}
}

// drain отправляет оставшиеся в очереди события при остановке.
func (w *OutboxWorker) drain(ctx context.Context) {
	w.logger.Infof("Draining %d pending order events...", len(w.queue))
	for {
		select {
		case event := <-w.queue:
			w.processEvent(ctx, event)
		default:
			return
		}
	}
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OrderPlacedEvent) {
	for attempt := 0; ; attempt++ {
		err := w.producer.WriteOrderPlaced(ctx, event)
		if err == nil {
			w.logger.Debugf("order event %s published", event.EventID)
			return
		}

		if !isRetryableError(err) || attempt >= w.maxRetries {
			w.logger.Errorf(err, "order event %s dropped after %d attempt(s)", event.EventID, attempt+1)
			return
		}

		w.logger.Warnf("Temporary Kafka failure for event %s, retrying: %v", event.EventID, err)
		if err := w.backoff.Sleep(ctx, attempt); err != nil {
			w.logger.Warnf("order event %s dropped: %v", event.EventID, err)
			return
		}
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"leader not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
