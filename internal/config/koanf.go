// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/lunara/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths are split on commas when set from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"recommend.enabled_strategies",
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"shutdown_timeout":      "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"log_caller":            "logging.caller",
	"badger_path":           "storage.badger_path",
	"duckdb_path":           "storage.duckdb_path",
	"seed_catalog":          "storage.seed_catalog",
	"max_suggestions":       "recommend.max_suggestions",
	"strategy_timeout":      "recommend.strategy_timeout",
	"deficiency_ratio":      "recommend.deficiency_ratio",
	"candidate_limit":       "recommend.candidate_limit",
	"recommend_strategies":  "recommend.enabled_strategies",
	"breaker_threshold":     "recommend.breaker_failure_threshold",
	"breaker_timeout":       "recommend.breaker_timeout",
	"recommend_diversity":   "recommend.diversity",
	"event_log_size":        "events.log_size",
	"event_handler_timeout": "events.handler_timeout",
	"event_forward_enabled": "events.forward_enabled",
	"nats_url":              "events.nats_url",
	"nats_embedded":         "events.nats_embedded",
	"event_topic_prefix":    "events.topic_prefix",
	"scoring_policy":        "feedback.scoring_policy",
	"analysis_window":       "feedback.analysis_window",
	"notify_rate":           "feedback.notify_rate",
	"notify_burst":          "feedback.notify_burst",
	"phase_watch_interval":  "watcher.interval",
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
