package task

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ==================== CartCleanupTask 过期购物车清理 ====================

// CartPurger 删除长期未更新的购物车条目
type CartPurger interface {
	PurgeStale(ctx context.Context, retention time.Duration) (int64, error)
}

// CartCleanupTask 购物车清理定时任务
// 删除 updated_at 早于 now - retention 的条目
type CartCleanupTask struct {
	purger    CartPurger
	retention time.Duration
	spec      string
	timeout   time.Duration
	cron      *cron.Cron
	log       *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewCartCleanupTask 创建购物车清理任务
func NewCartCleanupTask(purger CartPurger, retention time.Duration, spec string, log *zap.Logger) *CartCleanupTask {
	return &CartCleanupTask{
		purger:    purger,
		retention: retention,
		spec:      spec,
		timeout:   10 * time.Minute,
		cron:      cron.New(cron.WithSeconds()),
		log:       log.Named("cart_cleanup"),
	}
}

// Start 启动定时任务
func (t *CartCleanupTask) Start() error {
	if _, err := t.cron.AddFunc(t.spec, t.runScheduled); err != nil {
		return err
	}
	t.cron.Start()
	t.log.Info("cart cleanup scheduled", zap.String("cron", t.spec), zap.Duration("retention", t.retention))
	return nil
}

// Stop 停止定时任务，等待执行中的清理结束
func (t *CartCleanupTask) Stop() {
	<-t.cron.Stop().Done()
}

func (t *CartCleanupTask) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	_, _ = t.RunOnce(ctx)
}

// RunOnce 立即执行一次清理，上一次未结束时跳过
func (t *CartCleanupTask) RunOnce(ctx context.Context) (int64, error) {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		t.log.Warn("previous cleanup still running, skipped")
		return 0, ErrTaskRunning
	}
	t.running = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	start := time.Now()
	removed, err := t.purger.PurgeStale(ctx, t.retention)
	if err != nil {
		t.log.Error("cart cleanup failed", zap.Error(err))
		return 0, err
	}

	t.log.Info("cart cleanup finished",
		zap.Int64("removed", removed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return removed, nil
}
