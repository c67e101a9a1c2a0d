// Package cli provides the command-line interface for gremlinql.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/leapstack-labs/gremlinql/internal/cli/commands"
	"github.com/leapstack-labs/gremlinql/internal/cli/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gremlinql",
		Short: "gremlinql - Gremlin traversal builder",
		Long: `gremlinql renders Gremlin traversals written as Starlark scripts or YAML
statements into query text plus the bind parameters it refers to, ready to
be sent to a Gremlin server as a parameterized request.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			loaded, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), loaded.Verbose)
			if loaded.File != "" {
				logger.Debug("using config file", "path", loaded.File)
			}
			for _, key := range loaded.UnusedKeys {
				logger.Warn("unknown config key", "key", key)
			}

			// Store config and logger in context
			ctx := context.WithValue(cmd.Context(), config.ConfigKey(), loaded.Config)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gremlinql.yaml)")
	rootCmd.PersistentFlags().String("graph-variable", "", "Graph traversal source variable (empty for anonymous traversals)")
	rootCmd.PersistentFlags().String("return-variable", "", "Assign the rendered query to this variable")
	rootCmd.PersistentFlags().String("param-prefix", "", "Prefix of generated parameter names")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Maximum files rendered at once")
	rootCmd.PersistentFlags().String("env", "", "Environment from the config file to apply")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (text|json|table)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputText, config.OutputJSON, config.OutputTable}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gremlinql.

To load completions:

Bash:
  $ source <(gremlinql completion bash)

Zsh:
  $ gremlinql completion zsh > "${fpath[1]}/_gremlinql"

Fish:
  $ gremlinql completion fish | source

PowerShell:
  PS> gremlinql completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
	return cmd
}
