package starlark

import (
	"context"
	"sync"

	"github.com/leapstack-labs/gremlinql/pkg/gremlin"
	"go.starlark.net/starlark"
	"golang.org/x/sync/errgroup"
)

// ThreadPool manages a pool of Starlark threads for parallel execution.
// This is useful for rendering many scripts concurrently.
type ThreadPool struct {
	mu      sync.Mutex
	threads []*starlark.Thread
	maxSize int
}

// NewThreadPool creates a new thread pool with the specified maximum size.
func NewThreadPool(maxSize int) *ThreadPool {
	if maxSize <= 0 {
		maxSize = 10 // default pool size
	}
	return &ThreadPool{
		threads: make([]*starlark.Thread, 0, maxSize),
		maxSize: maxSize,
	}
}

// Get retrieves a thread from the pool or creates a new one.
// The thread name is used for error reporting.
func (p *ThreadPool) Get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) > 0 {
		thread := p.threads[len(p.threads)-1]
		p.threads = p.threads[:len(p.threads)-1]
		thread.Name = name
		return thread
	}

	return &starlark.Thread{
		Name:  name,
		Print: func(_ *starlark.Thread, _ string) {},
	}
}

// Put returns a thread to the pool for reuse.
// If the pool is full, the thread is discarded.
func (p *ThreadPool) Put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) < p.maxSize {
		// Clear any state that might leak between uses
		thread.Name = ""
		p.threads = append(p.threads, thread)
	}
}

// Size returns the current number of threads in the pool.
func (p *ThreadPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}

// RenderTask is one script or statement to render.
type RenderTask struct {
	Name   string // file name used for error reporting
	Source any    // string, []byte, io.Reader or nil to read Name

	// Statement, when set, is applied to a new builder instead of running
	// a script.
	Statement gremlin.Statement
}

// RenderResult is the outcome of a RenderTask.
type RenderResult struct {
	Name  string
	Query *gremlin.Query
	Error error
}

// ParallelRenderer renders many scripts and statements concurrently. Every script builds
// its own traversals, so no builder is shared between goroutines.
type ParallelRenderer struct {
	runner         *Runner
	maxConcurrency int
}

// NewParallelRenderer creates a renderer running at most maxConcurrency
// scripts at once.
func NewParallelRenderer(maxConcurrency int, opts ...RunnerOption) *ParallelRenderer {
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	pool := NewThreadPool(maxConcurrency)
	return &ParallelRenderer{
		runner:         NewRunner(append([]RunnerOption{WithThreadPool(pool)}, opts...)...),
		maxConcurrency: maxConcurrency,
	}
}

// Render runs every task and collects the results in task order. A failing
// script does not stop the others; canceling ctx does.
func (r *ParallelRenderer) Render(ctx context.Context, tasks []RenderTask) []RenderResult {
	results := make([]RenderResult, len(tasks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i, task := range tasks {
		g.Go(func() error {
			results[i].Name = task.Name
			if err := ctx.Err(); err != nil {
				results[i].Error = err
				return nil
			}
			if task.Statement != nil {
				results[i].Query, results[i].Error = r.runner.RenderStatement(task.Name, task.Statement)
				return nil
			}
			results[i].Query, results[i].Error = r.runner.Render(ctx, task.Name, task.Source)
			return nil
		})
	}

	_ = g.Wait()
	return results
}
