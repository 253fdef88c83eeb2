// Package parallel provides the worker pool gtext uses to rasterize newly
// seen glyphs concurrently.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines that execute batches of tasks.
//
// Each worker owns a queue and steals from the other queues when its own is
// empty, so one slow glyph (a large CJK ideograph, say) does not leave the
// rest of the batch waiting behind it.
//
// WorkerPool is safe for concurrent use. Tasks must not submit work to the
// pool they run on.
type WorkerPool struct {
	workers int
	queues  []chan func()

	// submit is held for reading while a batch is enqueued and for writing
	// by Close, so no task is enqueued after the workers were told to stop.
	submit sync.RWMutex
	stop   chan struct{}
	exited sync.WaitGroup

	running atomic.Bool

	// forks counts every task handed to the pool since creation.
	forks atomic.Uint64
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		stop:    make(chan struct{}),
	}
	depth := max(workers*4, 8)
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.running.Store(true)

	p.exited.Add(workers)
	for i := range workers {
		go p.run(i)
	}
	return p
}

// run executes tasks until the pool is closed and the worker's own queue
// is empty.
func (p *WorkerPool) run(id int) {
	defer p.exited.Done()
	for {
		task := p.next(id)
		if task == nil {
			return
		}
		task()
	}
}

// next returns the next task for worker id: its own queue first, then a
// task stolen from another worker, then it blocks on its own queue. It
// returns nil once the pool is stopped and the own queue is empty.
func (p *WorkerPool) next(id int) func() {
	own := p.queues[id]
	if task := poll(own); task != nil {
		return task
	}
	for i := 1; i < p.workers; i++ {
		if task := poll(p.queues[(id+i)%p.workers]); task != nil {
			return task
		}
	}
	select {
	case task := <-own:
		return task
	case <-p.stop:
		return poll(own)
	}
}

// poll receives from q without blocking.
func poll(q chan func()) func() {
	select {
	case task := <-q:
		return task
	default:
		return nil
	}
}

// ExecuteAll runs every task and returns once all of them have finished.
// Tasks are spread round-robin over the workers. On a closed pool the tasks
// run sequentially on the calling goroutine, so callers always observe every
// task's effects when ExecuteAll returns.
func (p *WorkerPool) ExecuteAll(tasks []func()) {
	if len(tasks) == 0 {
		return
	}

	p.submit.RLock()
	if !p.running.Load() {
		p.submit.RUnlock()
		for _, task := range tasks {
			task()
		}
		return
	}
	p.forks.Add(uint64(len(tasks)))

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			task()
		}
	}
	p.submit.RUnlock()
	wg.Wait()
}

// Run executes fn(0) .. fn(n-1) on the pool and waits for all of them.
func (p *WorkerPool) Run(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	tasks := make([]func(), n)
	for i := range tasks {
		tasks[i] = func() { fn(i) }
	}
	p.ExecuteAll(tasks)
}

// Close stops the workers after they finish the queued tasks.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.submit.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.submit.Unlock()
		return
	}
	close(p.stop)
	p.submit.Unlock()
	p.exited.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still dispatches work to its workers.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// Forks returns the number of tasks dispatched to workers so far.
// Tasks run inline on a closed pool are not counted.
func (p *WorkerPool) Forks() uint64 {
	return p.forks.Load()
}
