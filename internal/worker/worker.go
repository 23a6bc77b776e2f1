package worker

import (
	"agency-workspace/internal/logger"
	"context"
	"sync"
	"sync/atomic"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

// Pool runs fire-and-forget tasks (cache writes, cleanups) off the request
// path. Tasks are dropped, not queued unbounded, when the buffer is full.
type Pool struct {
	taskQueue chan Task
	wg        sync.WaitGroup
	isClosing atomic.Bool
}

func NewPool(size int) *Pool {
	p := &Pool{
		taskQueue: make(chan Task, 1000),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.startWorker()
	}

	return p
}

func (p *Pool) startWorker() {
	defer p.wg.Done()
	for task := range p.taskQueue {
		if err := task(context.Background()); err != nil {
			logger.Log.Warn().Err(err).Msg("background task failed")
		}
	}
}

func (p *Pool) Submit(t Task) {
	if p.isClosing.Load() {
		logger.Log.Warn().Msg("task submitted during shutdown, dropping")
		return
	}
	select {
	case p.taskQueue <- t:
	default:
		logger.Log.Warn().Msg("task queue full, dropping task")
	}
}

// Shutdown closes the queue and waits for workers to finish
func (p *Pool) Shutdown() {
	p.isClosing.Store(true)
	close(p.taskQueue)
	p.wg.Wait()
}
