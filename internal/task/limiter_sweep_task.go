package task

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// LimiterSweeper 回收空闲的限流器
type LimiterSweeper interface {
	Sweep(idle time.Duration) int
	Size() int
}

// LimiterSweepTask 定期清理登录限流表，避免按 IP 累积
type LimiterSweepTask struct {
	limiter LimiterSweeper
	idle    time.Duration
	spec    string
	cron    *cron.Cron
	log     *zap.Logger
}

func NewLimiterSweepTask(limiter LimiterSweeper, idle time.Duration, spec string, log *zap.Logger) *LimiterSweepTask {
	return &LimiterSweepTask{
		limiter: limiter,
		idle:    idle,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds()),
		log:     log.Named("limiter_sweep"),
	}
}

func (t *LimiterSweepTask) Start() error {
	if _, err := t.cron.AddFunc(t.spec, func() { t.RunOnce() }); err != nil {
		return err
	}
	t.cron.Start()
	return nil
}

func (t *LimiterSweepTask) Stop() {
	<-t.cron.Stop().Done()
}

// RunOnce 清理一次，返回移除数量
func (t *LimiterSweepTask) RunOnce() int {
	removed := t.limiter.Sweep(t.idle)
	if removed > 0 {
		t.log.Debug("idle limiters removed", zap.Int("removed", removed), zap.Int("remaining", t.limiter.Size()))
	}
	return removed
}
