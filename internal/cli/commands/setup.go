package commands

import (
	"log/slog"

	"github.com/leapstack-labs/gremlinql/internal/cli/config"
	"github.com/leapstack-labs/gremlinql/internal/cli/output"
	starctx "github.com/leapstack-labs/gremlinql/internal/starlark"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// NewParallelRenderer creates a renderer using the configured builder
// options and concurrency.
func (c *CommandContext) NewParallelRenderer() *starctx.ParallelRenderer {
	return starctx.NewParallelRenderer(c.Cfg.Concurrency,
		starctx.WithLogger(c.Logger),
		starctx.WithBuilderOptions(c.Cfg.BuilderOptions(c.Logger)...),
	)
}
