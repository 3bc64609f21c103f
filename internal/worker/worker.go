package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

type WorkerPool struct {
	taskQueue chan Task
	wg        sync.WaitGroup
	isClosing atomic.Bool // thread-safe value
	logger    *zap.Logger
}

func NewWorkerPool(size, queueSize int, logger *zap.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	wp := &WorkerPool{
		taskQueue: make(chan Task, queueSize),
		logger:    logger,
	}

	// Start the workers
	for range size {
		wp.wg.Add(1) // add to WaitGroup
		go wp.startWorker()
	}

	return wp
}

func (wp *WorkerPool) startWorker() {
	defer wp.wg.Done() // signal when worker finished
	for task := range wp.taskQueue {
		if err := task(context.Background()); err != nil { // run task
			wp.logger.Warn("worker task failed", zap.Error(err))
		}
	}
}

// Submit queues t and reports whether it was accepted. Tasks are dropped
// during shutdown or when the queue is full.
func (wp *WorkerPool) Submit(t Task) bool {
	if wp.isClosing.Load() {
		wp.logger.Warn("task submitted during shutdown, dropping")
		return false
	}
	select {
	case wp.taskQueue <- t: // send task to worker pool
		return true
	default:
		wp.logger.Warn("task queue full, dropping task")
		return false
	}
}

// Shutdown closes the queue and waits for workers to finish
func (wp *WorkerPool) Shutdown() {
	if wp.isClosing.Swap(true) {
		return
	}
	close(wp.taskQueue) // Stop accepting new tasks
	wp.wg.Wait()        // Wait for all active workers to finish tasks
}
