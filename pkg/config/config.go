// Package config implements the nested key/value configuration store consumed
// by pipeline stages and the assembler. Values are loaded from YAML files,
// optionally overridden by environment variables, and addressed with dotted
// key paths (e.g. "surround.enable_stage_output_dump"). Lookups on missing
// keys never panic; they report absence instead.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Recognized orchestrator-level key paths. Stages define their own namespaced
// keys (e.g. "<stage-name>.<option>") which the assembler never interprets.
const (
	// KeyStageOutputDump enables per-stage output dumping during a run.
	KeyStageOutputDump = "surround.enable_stage_output_dump"
	// KeyOutputPath is the directory where stages write their artifacts.
	KeyOutputPath = "output_path"
)

// DefaultOutputPath is used when no output_path is configured.
const DefaultOutputPath = "output"

// Config is an ordered-lookup view over nested configuration data. It is
// read-only from the assembler's perspective during a run; mutation happens
// only at load/setup time.
type Config struct {
	data map[string]any
}

// New creates a Config populated with orchestrator defaults.
func New() *Config {
	c := &Config{data: map[string]any{}}
	c.Set(KeyStageOutputDump, false)
	c.Set(KeyOutputPath, DefaultOutputPath)
	return c
}

// FromMap creates a Config from already-nested data, merged over defaults.
func FromMap(data map[string]any) *Config {
	c := New()
	c.data = merge(c.data, data)
	return c
}

// ReadFiles loads YAML configuration from each path in order, deep-merging
// later files over earlier ones and over the defaults.
func (c *Config) ReadFiles(paths ...string) error {
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
		c.data = merge(c.data, doc)
	}
	return nil
}

// merge deep-merges src over dst, returning the merged map. Nested maps are
// merged recursively; scalars and lists in src replace dst values.
func merge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := out[k].(map[string]any); ok {
				out[k] = merge(dv, sv)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Get returns the value at the dotted key path and whether it exists.
func (c *Config) Get(path string) (any, bool) {
	cur := any(c.data)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether the dotted key path exists.
func (c *Config) Has(path string) bool {
	_, ok := c.Get(path)
	return ok
}

// Set writes a value at the dotted key path, creating intermediate maps.
func (c *Config) Set(path string, value any) {
	parts := strings.Split(path, ".")
	m := c.data
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// Bool returns the boolean at path, or false when absent or not a bool.
func (c *Config) Bool(path string) bool {
	v, ok := c.Get(path)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// String returns the string at path, or "" when absent or not a string.
func (c *Config) String(path string) string {
	v, ok := c.Get(path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Int returns the integer at path, or 0 when absent or not an integer.
func (c *Config) Int(path string) int {
	v, ok := c.Get(path)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// Duration returns the duration at path parsed from a string such as "30s",
// or 0 when absent or unparseable.
func (c *Config) Duration(path string) time.Duration {
	s := c.String(path)
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// DumpEnabled reports whether per-stage output dumping is enabled.
func (c *Config) DumpEnabled() bool {
	return c.Bool(KeyStageOutputDump)
}

// OutputPath returns the configured artifact directory.
func (c *Config) OutputPath() string {
	if p := c.String(KeyOutputPath); p != "" {
		return p
	}
	return DefaultOutputPath
}
