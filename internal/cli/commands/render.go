package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	starctx "github.com/leapstack-labs/gremlinql/internal/starlark"
	"github.com/leapstack-labs/gremlinql/pkg/statement"
	"github.com/spf13/cobra"
)

// debounceDelay is how long the watcher waits for further changes before re-rendering.
const debounceDelay = 100 * time.Millisecond

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Render traversal scripts and statement files",
		Long: `Render traversal scripts (.star) and statement files (.yaml, .yml) into
query text and the bind parameters it refers to.

Scripts are Starlark programs with a predeclared traversal g. The result is
the global "query" when the script assigns a traversal to it, otherwise g.

Multiple files are rendered concurrently (see --concurrency).`,
		Example: `  # Render a script
  gremlinql render people.star

  # Render statement files as JSON
  gremlinql render queries/*.yaml --output json

  # Show parameters as a table and re-render on change
  gremlinql render people.star -o table --watch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			if err := renderFiles(cmd.Context(), cc, args); err != nil && !watch {
				return err
			}
			if !watch {
				return nil
			}
			return watchFiles(cmd.Context(), cc, args)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when a file changes")

	return cmd
}

// loadTask turns a file into a render task based on its extension.
func loadTask(path string) (starctx.RenderTask, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".star":
		return starctx.RenderTask{Name: path}, nil
	case ".yaml", ".yml":
		s, err := statement.LoadFile(path)
		if err != nil {
			return starctx.RenderTask{}, err
		}
		return starctx.RenderTask{Name: path, Statement: s}, nil
	default:
		return starctx.RenderTask{}, fmt.Errorf("unsupported file type %q (expected .star, .yaml or .yml)", filepath.Ext(path))
	}
}

// renderFiles renders every file and writes the results in argument order.
// Failures are reported per file; the returned error counts them.
func renderFiles(ctx context.Context, cc *CommandContext, files []string) error {
	tasks := make([]starctx.RenderTask, 0, len(files))
	loadErrs := make(map[string]error)
	for _, path := range files {
		task, err := loadTask(path)
		if err != nil {
			loadErrs[path] = err
			continue
		}
		tasks = append(tasks, task)
	}

	results := cc.NewParallelRenderer().Render(ctx, tasks)
	byName := make(map[string]starctx.RenderResult, len(results))
	for _, result := range results {
		byName[result.Name] = result
	}

	failed := 0
	for _, path := range files {
		if err, ok := loadErrs[path]; ok {
			cc.Renderer.Error(path, err)
			failed++
			continue
		}
		result := byName[path]
		if result.Error != nil {
			cc.Renderer.Error(path, result.Error)
			failed++
			continue
		}
		if err := cc.Renderer.Query(path, result.Query); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		cc.Logger.Debug("rendered", "file", path, "params", result.Query.Params.Len())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to render", failed, len(files))
	}
	return nil
}

// watchFiles re-renders all files whenever one of them changes, until ctx is done.
func watchFiles(ctx context.Context, cc *CommandContext, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch directories rather than files so editors that replace files
	// on save keep being noticed.
	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, path := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	cc.Renderer.Info("watching %d file(s), press Ctrl+C to stop", len(files))

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Only handle write/create events for rendered files
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !watched[filepath.Clean(event.Name)] {
				continue
			}
			cc.Logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			debounce = time.After(debounceDelay)

		case <-debounce:
			debounce = nil
			if err := renderFiles(ctx, cc, files); err != nil {
				cc.Logger.Warn("render failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				debounce = time.After(debounceDelay)
			}
			cc.Logger.Warn("watcher error", "error", err)
		}
	}
}
