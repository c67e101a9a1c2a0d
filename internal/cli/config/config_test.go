package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/gremlinql/pkg/gremlin"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlags returns a flag set with the root command's persistent flags.
func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("graph-variable", "", "")
	fs.String("return-variable", "", "")
	fs.String("param-prefix", "", "")
	fs.StringP("output", "o", "", "")
	fs.Int("concurrency", 0, "")
	fs.String("env", "", "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

// writeConfig writes a gremlinql.yaml into dir and returns its path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "gremlinql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, DefaultGraphVariable, cfg.GraphVariable)
	assert.Equal(t, DefaultParamPrefix, cfg.ParamPrefix)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Empty(t, cfg.ReturnVariable)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, `
graph_variable: graph
param_prefix: FILE
output: json
concurrency: 2
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := LoadConfig("", nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "gremlinql.yaml"), cfg.File)
		assert.Equal(t, "graph", cfg.GraphVariable)
		assert.Equal(t, "FILE", cfg.ParamPrefix)
		assert.Equal(t, OutputJSON, cfg.OutputFormat)
		assert.Equal(t, 2, cfg.Concurrency)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("GREMLINQL_PARAM_PREFIX", "ENV")
		t.Setenv("GREMLINQL_CONCURRENCY", "8")

		cfg, err := LoadConfig("", nil)
		require.NoError(t, err)
		assert.Equal(t, "ENV", cfg.ParamPrefix)
		assert.Equal(t, 8, cfg.Concurrency)
		assert.Equal(t, "graph", cfg.GraphVariable)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("GREMLINQL_PARAM_PREFIX", "ENV")

		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--param-prefix", "FLAG", "-o", "table"}))

		cfg, err := LoadConfig("", flags)
		require.NoError(t, err)
		assert.Equal(t, "FLAG", cfg.ParamPrefix)
		assert.Equal(t, OutputTable, cfg.OutputFormat)
		// unset flags keep lower layers
		assert.Equal(t, "graph", cfg.GraphVariable)
		assert.Equal(t, 2, cfg.Concurrency)
	})
}

func TestLoadConfig_SearchesParents(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "graph_variable: parent\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "parent", cfg.GraphVariable)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("return_variable: result\n"), 0o600))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "result", cfg.ReturnVariable)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Environments(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, `
graph_variable: g
environments:
  prod:
    graph_variable: prod_graph
    param_prefix: PROD
  anon:
    graph_variable: ""
`)

	tests := []struct {
		name   string
		args   []string
		graph  string
		prefix string
	}{
		{name: "no environment", graph: "g", prefix: DefaultParamPrefix},
		{name: "prod", args: []string{"--env", "prod"}, graph: "prod_graph", prefix: "PROD"},
		{name: "empty override", args: []string{"--env", "anon"}, graph: "", prefix: DefaultParamPrefix},
		{name: "flag beats environment", args: []string{"--env", "prod", "--graph-variable", "cli"}, graph: "cli", prefix: "PROD"},
		{name: "flags beat every override", args: []string{"--env", "prod", "--graph-variable", "cli", "--param-prefix", "ARG"}, graph: "cli", prefix: "ARG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newFlags()
			require.NoError(t, flags.Parse(tt.args))

			cfg, err := LoadConfig("", flags)
			require.NoError(t, err)
			assert.Equal(t, tt.graph, cfg.GraphVariable)
			assert.Equal(t, tt.prefix, cfg.ParamPrefix)
		})
	}

	t.Run("unknown environment", func(t *testing.T) {
		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--env", "staging"}))

		_, err := LoadConfig("", flags)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `environment "staging" is not defined`)
	})
}

func TestLoadConfig_UnusedKeys(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, "graph_variabel: x\n")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"graph_variabel"}, cfg.UnusedKeys)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(c *Config)
		errSubstr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "empty graph variable", modify: func(c *Config) { c.GraphVariable = "" }},
		{name: "bad graph variable", modify: func(c *Config) { c.GraphVariable = "g.V" }, errSubstr: "graph_variable"},
		{name: "bad return variable", modify: func(c *Config) { c.ReturnVariable = "1x" }, errSubstr: "return_variable"},
		{name: "empty prefix", modify: func(c *Config) { c.ParamPrefix = "" }, errSubstr: "param_prefix"},
		{name: "unknown output", modify: func(c *Config) { c.OutputFormat = "xml" }, errSubstr: "unknown output format"},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, errSubstr: "concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_BuilderOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GraphVariable = "graph"
	cfg.ReturnVariable = "out"
	cfg.ParamPrefix = "P"

	b := gremlin.New(cfg.BuilderOptions(nil)...)
	assert.Equal(t, "graph", b.GraphVariable())
	assert.Equal(t, "out", b.ReturnVariable())

	name, _ := b.BindParam("x")
	assert.True(t, strings.HasPrefix(name, "P_"), name)
}

func TestGetLogger(t *testing.T) {
	// Falls back to a discard logger
	assert.NotNil(t, GetLogger(context.Background()))

	logger := NewLogger(os.Stderr, true)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
