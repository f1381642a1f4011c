// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Strategy names accepted in recommend.enabled_strategies.
const (
	StrategyIron       = "iron_deficiency"
	StrategyProtein    = "protein_deficiency"
	StrategyCycleAware = "cycle_aware"
	StrategyPreference = "personal_preference"
)

// Scoring policies accepted in feedback.scoring_policy.
const (
	ScoringAdditive = "additive"
	ScoringBlend    = "blend"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Storage   StorageConfig   `koanf:"storage"`
	Recommend RecommendConfig `koanf:"recommend"`
	Events    EventsConfig    `koanf:"events"`
	Feedback  FeedbackConfig  `koanf:"feedback"`
	Watcher   WatcherConfig   `koanf:"watcher"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StorageConfig locates the embedded databases. Empty paths select
// in-memory instances.
type StorageConfig struct {
	BadgerPath  string `koanf:"badger_path"`
	DuckDBPath  string `koanf:"duckdb_path"`
	SeedCatalog bool   `koanf:"seed_catalog"`
}

// RecommendConfig tunes the recommendation engine.
type RecommendConfig struct {
	MaxSuggestions          int           `koanf:"max_suggestions"`
	StrategyTimeout         time.Duration `koanf:"strategy_timeout"`
	DeficiencyRatio         float64       `koanf:"deficiency_ratio"`
	CandidateLimit          int           `koanf:"candidate_limit"`
	EnabledStrategies       []string      `koanf:"enabled_strategies"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`

	// Diversity in [0, 1] trades priority for category variety in the
	// final list. 0 keeps pure priority order.
	Diversity float64 `koanf:"diversity"`
}

// EventsConfig tunes the event bus and the optional forwarder.
type EventsConfig struct {
	LogSize        int           `koanf:"log_size"`
	HandlerTimeout time.Duration `koanf:"handler_timeout"`
	ForwardEnabled bool          `koanf:"forward_enabled"`
	NATSURL        string        `koanf:"nats_url"`
	NATSEmbedded   bool          `koanf:"nats_embedded"`
	TopicPrefix    string        `koanf:"topic_prefix"`
}

// FeedbackConfig selects the scoring policy and notification throttling.
type FeedbackConfig struct {
	ScoringPolicy  string  `koanf:"scoring_policy"`
	AnalysisWindow int     `koanf:"analysis_window"`
	NotifyRate     float64 `koanf:"notify_rate"`
	NotifyBurst    int     `koanf:"notify_burst"`
}

// WatcherConfig controls the phase watcher.
type WatcherConfig struct {
	Interval time.Duration `koanf:"interval"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Storage: StorageConfig{
			SeedCatalog: true,
		},
		Recommend: RecommendConfig{
			MaxSuggestions:  10,
			StrategyTimeout: 2 * time.Second,
			DeficiencyRatio: 0.7,
			CandidateLimit:  100,
			EnabledStrategies: []string{
				StrategyIron,
				StrategyProtein,
				StrategyCycleAware,
				StrategyPreference,
			},
			BreakerFailureThreshold: 5,
			BreakerTimeout:          30 * time.Second,
		},
		Events: EventsConfig{
			LogSize:        100,
			HandlerTimeout: 5 * time.Second,
			TopicPrefix:    "lunara",
		},
		Feedback: FeedbackConfig{
			ScoringPolicy:  ScoringAdditive,
			AnalysisWindow: 100,
			NotifyRate:     1,
			NotifyBurst:    5,
		},
		Watcher: WatcherConfig{
			Interval: time.Hour,
		},
	}
}

// Validate checks the loaded configuration. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !c.Server.RateLimitDisabled && (c.Server.RateLimitRequests <= 0 || c.Server.RateLimitWindow <= 0) {
		errs = append(errs, errors.New("server.rate_limit_requests and server.rate_limit_window must be positive"))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	if c.Recommend.MaxSuggestions < 1 {
		errs = append(errs, errors.New("recommend.max_suggestions must be at least 1"))
	}
	if c.Recommend.StrategyTimeout <= 0 {
		errs = append(errs, errors.New("recommend.strategy_timeout must be positive"))
	}
	if c.Recommend.DeficiencyRatio <= 0 || c.Recommend.DeficiencyRatio > 1 {
		errs = append(errs, fmt.Errorf("recommend.deficiency_ratio must be in (0, 1], got %v", c.Recommend.DeficiencyRatio))
	}
	if c.Recommend.Diversity < 0 || c.Recommend.Diversity > 1 {
		errs = append(errs, fmt.Errorf("recommend.diversity must be in [0, 1], got %v", c.Recommend.Diversity))
	}
	if c.Recommend.CandidateLimit < 1 {
		errs = append(errs, errors.New("recommend.candidate_limit must be at least 1"))
	}
	for _, name := range c.Recommend.EnabledStrategies {
		switch name {
		case StrategyIron, StrategyProtein, StrategyCycleAware, StrategyPreference:
		default:
			errs = append(errs, fmt.Errorf("recommend.enabled_strategies: unknown strategy %q", name))
		}
	}

	if c.Events.LogSize < 0 {
		errs = append(errs, errors.New("events.log_size must not be negative"))
	}
	if c.Events.HandlerTimeout <= 0 {
		errs = append(errs, errors.New("events.handler_timeout must be positive"))
	}

	switch c.Feedback.ScoringPolicy {
	case ScoringAdditive, ScoringBlend:
	default:
		errs = append(errs, fmt.Errorf("feedback.scoring_policy must be %s or %s, got %q", ScoringAdditive, ScoringBlend, c.Feedback.ScoringPolicy))
	}
	if c.Feedback.AnalysisWindow < 1 {
		errs = append(errs, errors.New("feedback.analysis_window must be at least 1"))
	}
	if c.Feedback.NotifyRate <= 0 || c.Feedback.NotifyBurst < 1 {
		errs = append(errs, errors.New("feedback.notify_rate and feedback.notify_burst must be positive"))
	}

	if c.Watcher.Interval < time.Second {
		errs = append(errs, errors.New("watcher.interval must be at least 1s"))
	}

	return errors.Join(errs...)
}
