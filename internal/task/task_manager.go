package task

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ==================== TaskManager 定时任务管理器 ====================

// TaskManager 统一管理后台定时任务
type TaskManager struct {
	cartCleanup  *CartCleanupTask
	limiterSweep *LimiterSweepTask
	log          *zap.Logger
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	CartPurger   CartPurger
	LoginLimiter LimiterSweeper
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	// 购物车清理，CartRetention 为 0 时不启用
	CartRetention   time.Duration
	CartCleanupCron string

	// 登录限流表清理
	LimiterSweepCron string
	LimiterIdle      time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		CartCleanupCron:  "0 0 3 * * *",
		LimiterSweepCron: "0 */10 * * * *",
		LimiterIdle:      30 * time.Minute,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig, log *zap.Logger) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{log: log.Named("task")}

	if cfg.CartRetention > 0 && deps.CartPurger != nil {
		tm.cartCleanup = NewCartCleanupTask(deps.CartPurger, cfg.CartRetention, cfg.CartCleanupCron, tm.log)
	}
	if cfg.LimiterIdle > 0 && deps.LoginLimiter != nil {
		tm.limiterSweep = NewLimiterSweepTask(deps.LoginLimiter, cfg.LimiterIdle, cfg.LimiterSweepCron, tm.log)
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务，cron 表达式非法时返回错误并停止已启动的任务
func (tm *TaskManager) Start() error {
	if tm.cartCleanup != nil {
		if err := tm.cartCleanup.Start(); err != nil {
			return err
		}
	}
	if tm.limiterSweep != nil {
		if err := tm.limiterSweep.Start(); err != nil {
			tm.Stop()
			return err
		}
	}
	tm.log.Info("background tasks started", zap.Any("status", tm.Status()))
	return nil
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	if tm.cartCleanup != nil {
		tm.cartCleanup.Stop()
	}
	if tm.limiterSweep != nil {
		tm.limiterSweep.Stop()
	}
	tm.log.Info("background tasks stopped")
}

// ==================== 手动触发接口 ====================

// TriggerCartCleanup 立即清理过期购物车条目
func (tm *TaskManager) TriggerCartCleanup(ctx context.Context) (int64, error) {
	if tm.cartCleanup == nil {
		return 0, ErrTaskDisabled
	}
	return tm.cartCleanup.RunOnce(ctx)
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"cart_cleanup":  tm.cartCleanup != nil,
		"limiter_sweep": tm.limiterSweep != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
	ErrTaskRunning  TaskError = "task is already running"
)
