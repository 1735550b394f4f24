// This file contains environment variable utilities for configuration override.

package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every recognized environment variable.
const EnvPrefix = "SURROUND_"

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the SURROUND_ prefix) to the dotted
// config path it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	path   string
	apply  func(*Config, string, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	{"ENABLE_STAGE_OUTPUT_DUMP", KeyStageOutputDump, applyBool},
	{"OUTPUT_PATH", KeyOutputPath, applyString},
}

func applyBool(c *Config, path, v string) {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		c.Set(path, true)
	case "false", "0", "no":
		c.Set(path, false)
	}
}

func applyString(c *Config, path, v string) {
	c.Set(path, v)
}

// ApplyEnvOverrides applies every recognized SURROUND_* environment variable
// to the configuration. Unset variables leave the current value untouched;
// unparseable values are ignored.
func (c *Config) ApplyEnvOverrides() {
	for _, o := range envOverrides {
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(c, o.path, val)
		}
	}
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment, if one exists. Missing files are not an error; deployments
// commonly set environment variables directly.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}
