package application

import (
	"context"
	"sync/atomic"
	"time"
)

const (
	// MinTickInterval и MaxTickInterval ограничивают частоту опроса камеры
	MinTickInterval = 20 * time.Millisecond
	MaxTickInterval = time.Second

	DefaultTickInterval = 100 * time.Millisecond
)

// Ticker периодически вызывает Tick. Одновременно выполняется не более одного тика.
type Ticker struct {
	tick     func()
	interval time.Duration
	logger   Logger

	inFlight atomic.Bool
	count    atomic.Int64
}

// NewTicker создает планировщик; интервал приводится к допустимому диапазону
func NewTicker(tick func(), interval time.Duration, logger Logger) *Ticker {
	switch {
	case interval <= 0:
		interval = DefaultTickInterval
	case interval < MinTickInterval:
		interval = MinTickInterval
	case interval > MaxTickInterval:
		interval = MaxTickInterval
	}
	return &Ticker{
		tick:     tick,
		interval: interval,
		logger:   logger,
	}
}

// Interval возвращает фактический интервал
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Count возвращает число выполненных тиков
func (t *Ticker) Count() int64 {
	return t.count.Load()
}

// TickOnce выполняет тик, если другой тик не выполняется. Возвращает false, если тик пропущен.
func (t *Ticker) TickOnce() bool {
	if !t.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer t.inFlight.Store(false)

	t.tick()
	t.count.Add(1)
	return true
}

// Run вызывает тики до отмены контекста
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Debug("Планировщик запущен, интервал %v", t.interval)
	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("Планировщик остановлен после %d тиков", t.count.Load())
			return
		case <-ticker.C:
			if !t.TickOnce() {
				t.logger.Debug("Тик пропущен: предыдущий еще выполняется")
			}
		}
	}
}
