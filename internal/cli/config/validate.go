package config

import (
	"fmt"
	"regexp"
	"slices"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.GraphVariable != "" && !identifier.MatchString(c.GraphVariable) {
		return fmt.Errorf("graph_variable %q is not a valid identifier", c.GraphVariable)
	}
	if c.ReturnVariable != "" && !identifier.MatchString(c.ReturnVariable) {
		return fmt.Errorf("return_variable %q is not a valid identifier", c.ReturnVariable)
	}
	if !identifier.MatchString(c.ParamPrefix) {
		return fmt.Errorf("param_prefix %q is not a valid identifier", c.ParamPrefix)
	}
	if !slices.Contains([]string{OutputText, OutputJSON, OutputTable}, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (expected text, json or table)", c.OutputFormat)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Environment != "" {
		if _, ok := c.Environments[c.Environment]; !ok {
			return fmt.Errorf("environment %q is not defined in the config file", c.Environment)
		}
	}
	return nil
}
