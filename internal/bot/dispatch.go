package bot

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/marentsov/financial-bot/internal/logger"
)

// Dispatcher раскладывает апдейты по очередям на пользователя: внутри одного
// пользователя строгий порядок обработки (два фото подряд не закроют одну и
// ту же заявку дважды), разные пользователи идут параллельно. Скачивание
// фото блокирует только воркер своего пользователя.
type Dispatcher struct {
	handle  func(ctx context.Context, upd tgbotapi.Update)
	idleTTL time.Duration

	mu     sync.Mutex
	queues map[int64]chan tgbotapi.Update
	wg     sync.WaitGroup
}

const dispatchQueueSize = 16

func NewDispatcher(handle func(ctx context.Context, upd tgbotapi.Update)) *Dispatcher {
	return &Dispatcher{
		handle:  handle,
		idleTTL: 5 * time.Minute,
		queues:  make(map[int64]chan tgbotapi.Update),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, upd tgbotapi.Update) {
	from := upd.SentFrom()
	if from == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[from.ID]
	if !ok {
		q = make(chan tgbotapi.Update, dispatchQueueSize)
		d.queues[from.ID] = q
		d.wg.Add(1)
		go d.worker(ctx, from.ID, q)
	}

	select {
	case q <- upd:
	default:
		// переполненная очередь: теряем апдейт, но не блокируем остальных
		logger.Log.Warn("user queue full, update dropped", zap.Int64("user", from.ID))
	}
}

// Wait возвращается, когда все воркеры остановились (после отмены ctx).
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context, userID int64, q chan tgbotapi.Update) {
	defer d.wg.Done()

	timer := time.NewTimer(d.idleTTL)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			d.mu.Lock()
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		case upd := <-q:
			d.handle(ctx, upd)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(d.idleTTL)
		case <-timer.C:
			// Dispatch кладёт в очередь под d.mu, поэтому пустая очередь
			// под тем же замком означает, что воркер можно убрать.
			d.mu.Lock()
			if len(q) == 0 {
				delete(d.queues, userID)
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
			timer.Reset(d.idleTTL)
		}
	}
}
