// Package config provides configuration management for the gremlinql CLI.
//
// Values are layered from defaults, a gremlinql.yaml file, GREMLINQL_
// environment variables and explicitly set command-line flags, in that
// order of precedence (lowest first).
package config

import (
	"log/slog"

	"github.com/leapstack-labs/gremlinql/pkg/gremlin"
)

// Config holds all CLI configuration options.
type Config struct {
	GraphVariable  string               `koanf:"graph_variable"`
	ReturnVariable string               `koanf:"return_variable"`
	ParamPrefix    string               `koanf:"param_prefix"`
	OutputFormat   string               `koanf:"output"`
	Concurrency    int                  `koanf:"concurrency"`
	Verbose        bool                 `koanf:"verbose"`
	Environment    string               `koanf:"environment"`
	Environments   map[string]EnvConfig `koanf:"environments"`
}

// EnvConfig holds environment-specific builder overrides.
type EnvConfig struct {
	GraphVariable  *string `koanf:"graph_variable"`
	ReturnVariable *string `koanf:"return_variable"`
	ParamPrefix    *string `koanf:"param_prefix"`
}

// Output formats.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

// Default configuration values.
const (
	DefaultGraphVariable = gremlin.DefaultGraphVariable
	DefaultParamPrefix   = gremlin.DefaultParamPrefix
	DefaultOutput        = OutputText
	DefaultConcurrency   = 4
)

// DefaultConfig returns a Config holding only default values.
func DefaultConfig() *Config {
	return &Config{
		GraphVariable: DefaultGraphVariable,
		ParamPrefix:   DefaultParamPrefix,
		OutputFormat:  DefaultOutput,
		Concurrency:   DefaultConcurrency,
	}
}

// BuilderOptions returns the builder options described by the configuration.
func (c *Config) BuilderOptions(logger *slog.Logger) []gremlin.Option {
	opts := []gremlin.Option{
		gremlin.WithGraphVariable(c.GraphVariable),
		gremlin.WithParamPrefix(c.ParamPrefix),
	}
	if c.ReturnVariable != "" {
		opts = append(opts, gremlin.WithReturnVariable(c.ReturnVariable))
	}
	if logger != nil {
		opts = append(opts, gremlin.WithLogger(logger))
	}
	return opts
}

// applyEnvironment overlays the selected environment's values, except for
// keys set explicitly on the command line.
func (c *Config) applyEnvironment(fromFlags map[string]bool) {
	if c.Environment == "" || c.Environments == nil {
		return
	}
	env, ok := c.Environments[c.Environment]
	if !ok {
		return
	}
	if env.GraphVariable != nil && !fromFlags["graph_variable"] {
		c.GraphVariable = *env.GraphVariable
	}
	if env.ReturnVariable != nil && !fromFlags["return_variable"] {
		c.ReturnVariable = *env.ReturnVariable
	}
	if env.ParamPrefix != nil && !fromFlags["param_prefix"] {
		c.ParamPrefix = *env.ParamPrefix
	}
}
