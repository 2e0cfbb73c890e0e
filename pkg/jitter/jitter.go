// Package jitter предоставляет утилиты для добавления случайности в интервалы отступления (backoff),
// чтобы предотвратить эффект «буйного стада» (thundering herd) при повторных запросах к внешним API.
package jitter

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает продолжительность с применённым джиттером.
// Результат находится в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	randMutex.Lock()
	jitter := globalRand.Float64() * jitterFactor * float64(d)
	randMutex.Unlock()
	return d + time.Duration(jitter)
}

// ExponentialBackoff вычисляет экспоненциальное отступление с джиттером.
// attempt — номер текущей попытки повтора (нумерация с нуля).
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > max {
			backoff = max
			break
		}
	}
	return Duration(backoff, jitterFactor)
}

// Backoff — параметры ожидания между повторами запросов.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

// DefaultBackoff — ожидание для идемпотентных запросов к Store API.
func DefaultBackoff() Backoff {
	return Backoff{
		Base:   200 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: DefaultJitter,
	}
}

// Next возвращает паузу перед попыткой attempt+1.
func (b Backoff) Next(attempt int) time.Duration {
	if b.Base <= 0 {
		return 0
	}
	return ExponentialBackoff(b.Base, b.Max, attempt, b.Factor)
}

// Sleep ждёт паузу перед следующей попыткой. Возвращает ошибку контекста, если он отменён раньше.
func (b Backoff) Sleep(ctx context.Context, attempt int) error {
	d := b.Next(attempt)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
