//go:build !tinygo

package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"throttlehal-go/errcode"
)

// EnvPrefix prefixes every environment override, e.g. THROTTLE_SENSOR_MODEL.
const EnvPrefix = "THROTTLE_"

// Load builds a configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (HALConfig, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return HALConfig{}, errcode.Wrap(errcode.NotFound, "config.Load", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return HALConfig{}, errcode.Wrap(errcode.InvalidPayload, "config.Load", err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return HALConfig{}, err
	}
	if err := Validate(cfg); err != nil {
		return HALConfig{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays THROTTLE_* variables onto cfg. Unset variables leave
// fields untouched.
func ApplyEnv(cfg *HALConfig) error {
	if err := env.Parse(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return errcode.Wrap(errcode.InvalidParams, "config.ApplyEnv", err)
	}
	return nil
}
