package worker

import (
	"context"
	"sync"
)

// Task 背景工作，回傳的錯誤交給 ErrorHandler
type Task func(ctx context.Context) error

// ErrorHandler receives every non-nil error returned by a Task.
type ErrorHandler func(error)

// Pool runs tasks on a fixed set of goroutines.
type Pool interface {
	// Submit queues t without blocking; returns false when the pool is
	// stopped or its queue is full.
	Submit(t Task) bool
	Stop()
}

// NewPool 建立 n 個 worker，n<=0 時預設 1
func NewPool(n int, onErr ErrorHandler) Pool {
	if n <= 0 {
		n = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &pool{
		jobs:   make(chan Task, n*4),
		onErr:  onErr,
		ctx:    ctx,
		cancel: cancel,
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.loop()
	}
	return p
}

type pool struct {
	mu      sync.RWMutex
	stopped bool
	jobs    chan Task
	wg      sync.WaitGroup
	onErr   ErrorHandler
	ctx     context.Context
	cancel  context.CancelFunc
}

func (p *pool) loop() {
	defer p.wg.Done()
	for job := range p.jobs {
		if job == nil {
			continue
		}
		if err := job(p.ctx); err != nil && p.onErr != nil {
			p.onErr(err)
		}
	}
}

func (p *pool) Submit(t Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	select {
	case p.jobs <- t:
		return true
	default:
		return false
	}
}

// Stop 等待已排入的工作完成
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
	p.cancel()
}
