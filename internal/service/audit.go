package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/agexport-console/internal/model"
	"github.com/d60-Lab/agexport-console/internal/repository"
	"github.com/d60-Lab/agexport-console/pkg/logger"
)

type auditJob struct {
	orderID string
	source  string
	from    model.Status
	to      model.Status
	at      time.Time
}

// StatusAuditor 状态流转审计的本地异步落库执行器；审计是尽力而为，
// 队列满时丢弃并告警，不阻塞订单路径
type StatusAuditor struct {
	events repository.OrderEventRepository
	ch     chan auditJob
}

func NewStatusAuditor(events repository.OrderEventRepository, queueSize int) *StatusAuditor {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &StatusAuditor{events: events, ch: make(chan auditJob, queueSize)}
}

// Start 启动 worker，返回停止函数
func (a *StatusAuditor) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-a.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					err := a.events.Create(ctx, &model.OrderEvent{
						OrderID:    job.orderID,
						Source:     job.source,
						FromStatus: job.from,
						ToStatus:   job.to,
						CreatedAt:  job.at,
					})
					cancel()
					if err != nil {
						logger.Warn("persist order event failed",
							zap.String("order", job.orderID), zap.Error(err))
					}
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		// 等待队列自然排空一小段时间
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(a.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

func (a *StatusAuditor) Enqueue(orderID, source string, from, to model.Status) {
	select {
	case a.ch <- auditJob{orderID: orderID, source: source, from: from, to: to, at: time.Now()}:
	default:
		logger.Warn("audit queue full, drop event",
			zap.String("order", orderID), zap.String("to", string(to)))
	}
}

// QueueLen 返回当前队列长度（采样值）。
func (a *StatusAuditor) QueueLen() int { return len(a.ch) }
