package worker

import (
	"context"
	"redcable_club/internal/domain/coupon/model"
	"redcable_club/internal/domain/coupon/repository"
	"redcable_club/pkg/logger"
	"redcable_club/pkg/metrics"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RedemptionTask 待写入的核销流水
type RedemptionTask struct {
	Record model.RedemptionRecord
	Retry  int // 重试次数
}

type WorkerPool struct {
	TaskQueue  chan RedemptionTask
	RetryQueue chan RedemptionTask // 重试队列
	Repo       repository.CouponRepository
	Metrics    *metrics.MetricsCollector
	WorkerNum  int
	MaxRetry   int           // 最大重试次数
	RetryDelay time.Duration // 第 n 次重试延迟 n*RetryDelay

	wg       sync.WaitGroup
	retryWg  sync.WaitGroup
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
	done     chan struct{}
}

func NewWorkerPool(repo repository.CouponRepository, m *metrics.MetricsCollector, workerNum, bufferSize, maxRetry int) *WorkerPool {
	return &WorkerPool{
		TaskQueue:  make(chan RedemptionTask, bufferSize),
		RetryQueue: make(chan RedemptionTask, max(1, bufferSize/2)),
		Repo:       repo,
		Metrics:    m,
		WorkerNum:  workerNum,
		MaxRetry:   maxRetry,
		RetryDelay: time.Second,
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	// 启动重试处理协程
	p.retryWg.Add(1)
	go p.retryWorker()
	logger.Log.Info("redemption worker pool started", zap.Int("workers", p.WorkerNum))
}

// Stop 停止接收新任务并等待队列中的任务处理完毕
// 关闭阶段仍失败的任务直接进入死信，不再重试
func (p *WorkerPool) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		close(p.TaskQueue)

		p.done = make(chan struct{})
		go func() {
			p.wg.Wait()
			close(p.RetryQueue)
			p.retryWg.Wait()
			close(p.done)
		}()
	})

	select {
	case <-p.done:
		logger.Log.Info("redemption worker pool stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for task := range p.TaskQueue {
		err := p.processTask(task)
		if err == nil {
			continue
		}

		log := logger.Log.With(
			zap.Int("worker", id),
			zap.String("coupon_id", task.Record.CouponID),
			zap.String("user_id", task.Record.UserID),
		)
		log.Warn("failed to persist redemption record", zap.Error(err))

		// 如果未达到最大重试次数，加入重试队列
		if task.Retry < p.MaxRetry && !p.isStopped() {
			task.Retry++
			select {
			case p.RetryQueue <- task:
				log.Info("task added to retry queue", zap.Int("attempt", task.Retry), zap.Int("max_retry", p.MaxRetry))
			default:
				p.logFailedTask(task, err)
			}
		} else {
			p.logFailedTask(task, err)
		}
	}
}

func (p *WorkerPool) retryWorker() {
	defer p.retryWg.Done()
	for task := range p.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(task.Retry) * p.RetryDelay)

		if !p.enqueue(task) {
			p.logFailedTask(task, nil)
		}
	}
}

func (p *WorkerPool) processTask(task RedemptionTask) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record := task.Record
	return p.Repo.CreateRedemptionRecord(ctx, &record)
}

// logFailedTask 死信：记录日志与指标
func (p *WorkerPool) logFailedTask(task RedemptionTask, err error) {
	logger.Log.Error("redemption record dropped",
		zap.String("coupon_id", task.Record.CouponID),
		zap.String("user_id", task.Record.UserID),
		zap.String("discount", task.Record.Discount.String()),
		zap.Int("retry", task.Retry),
		zap.Error(err),
	)
	if p.Metrics != nil {
		p.Metrics.RecordDroppedTask()
	}
}

func (p *WorkerPool) isStopped() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stopped
}

// enqueue 非阻塞入队，队列已满或已停止时返回 false
func (p *WorkerPool) enqueue(task RedemptionTask) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	select {
	case p.TaskQueue <- task:
		return true
	default:
		return false
	}
}

// AddTask 提交核销流水
func (p *WorkerPool) AddTask(record model.RedemptionRecord) {
	if !p.enqueue(RedemptionTask{Record: record}) {
		p.logFailedTask(RedemptionTask{Record: record}, nil)
	}
}
