package starlark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/gremlinql/pkg/gremlin"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// QueryGlobal is the global a script assigns to pick its result traversal.
// Scripts that do not assign it return g.
const QueryGlobal = "query"

var fileOptions = &syntax.FileOptions{
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Runner executes traversal scripts. Each run gets its own traversal, so a
// Runner may be shared between goroutines.
type Runner struct {
	opts   []gremlin.Option
	logger *slog.Logger
	pool   *ThreadPool
}

// RunnerOption is a functional option for configuring a Runner.
type RunnerOption func(*Runner)

// WithBuilderOptions sets the options every script traversal is created with.
func WithBuilderOptions(opts ...gremlin.Option) RunnerOption {
	return func(r *Runner) {
		r.opts = append(r.opts, opts...)
	}
}

// WithLogger routes script print() output and run diagnostics to logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithThreadPool reuses threads from pool.
func WithThreadPool(pool *ThreadPool) RunnerOption {
	return func(r *Runner) {
		if pool != nil {
			r.pool = pool
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.pool == nil {
		r.pool = NewThreadPool(0)
	}
	return r
}

// Run executes a script and returns its result traversal's builder: the
// global "query" when it holds a traversal, otherwise g. src may be a
// string, []byte, io.Reader or nil to read the file named name.
//
// Builder errors are not returned here; they surface when the builder renders.
func (r *Runner) Run(ctx context.Context, name string, src any) (*gremlin.Builder, error) {
	thread := r.pool.Get(name)
	thread.Print = func(t *starlark.Thread, msg string) {
		r.logger.Info(msg, "script", t.Name)
	}

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})

	g := NewTraversal(r.opts...)
	globals, err := starlark.ExecFileOptions(fileOptions, thread, name, src, Predeclared(g, r.opts))

	// a canceled thread cannot be reused
	if stop() {
		r.pool.Put(thread)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("script %s: %w", name, ctxErr)
		}
		return nil, newScriptError(name, err)
	}

	result := g
	if q, ok := globals[QueryGlobal].(*Traversal); ok {
		result = q
	}
	r.logger.Debug("script executed", "script", name, "seed", result.builder.Seed())
	return result.builder, nil
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) (*gremlin.Builder, error) {
	return r.Run(ctx, path, nil)
}

// Render executes a script and renders its result.
func (r *Runner) Render(ctx context.Context, name string, src any) (*gremlin.Query, error) {
	b, err := r.Run(ctx, name, src)
	if err != nil {
		return nil, err
	}
	q, err := b.Render()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return q, nil
}

// RenderStatement applies s to a new builder and renders it.
func (r *Runner) RenderStatement(name string, s gremlin.Statement) (*gremlin.Query, error) {
	q, err := gremlin.New(r.opts...).ApplyStatement(s).Render()
	if err != nil {
		return nil, fmt.Errorf("statement %s: %w", name, err)
	}
	r.logger.Debug("statement rendered", "statement", name, "params", q.Params.Len())
	return q, nil
}

// Run executes a script with a fresh Runner.
func Run(name string, src any, opts ...gremlin.Option) (*gremlin.Builder, error) {
	return NewRunner(WithBuilderOptions(opts...)).Run(context.Background(), name, src)
}

// ScriptError represents a script that failed to parse or execute.
type ScriptError struct {
	File    string
	Message string
	err     error
}

func newScriptError(file string, err error) *ScriptError {
	msg := err.Error()
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		msg = evalErr.Backtrace()
	}
	return &ScriptError{File: file, Message: msg, err: err}
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %s", e.File, e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.err
}
