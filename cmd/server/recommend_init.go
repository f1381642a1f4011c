// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lunara/internal/config"
	"github.com/tomtom215/lunara/internal/recommend"
	"github.com/tomtom215/lunara/internal/recommend/reranking"
	"github.com/tomtom215/lunara/internal/recommend/strategies"
)

// buildEngineConfig converts the recommend section into an engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		MaxSuggestions:          cfg.Recommend.MaxSuggestions,
		StrategyTimeout:         cfg.Recommend.StrategyTimeout,
		BreakerFailureThreshold: cfg.Recommend.BreakerFailureThreshold,
		BreakerTimeout:          cfg.Recommend.BreakerTimeout,
	}
}

// initEngine creates the recommendation engine and registers the strategies
// named in recommend.enabled_strategies, in order.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(cfg *config.Config, logger zerolog.Logger) (*recommend.Engine, error) {
	engine, err := recommend.NewEngine(buildEngineConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	for _, name := range cfg.Recommend.EnabledStrategies {
		s, ok := strategies.New(name, cfg.Recommend.DeficiencyRatio)
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
		engine.Register(s)
	}

	if cfg.Recommend.Diversity > 0 {
		engine.SetReranker(reranking.NewDiversity(cfg.Recommend.Diversity))
	}

	if len(engine.Strategies()) == 0 {
		logger.Warn().Msg("No recommendation strategies enabled; recommendations will be empty")
	}
	logger.Info().
		Strs("strategies", cfg.Recommend.EnabledStrategies).
		Int("max_suggestions", cfg.Recommend.MaxSuggestions).
		Dur("strategy_timeout", cfg.Recommend.StrategyTimeout).
		Float64("diversity", cfg.Recommend.Diversity).
		Msg("Recommendation engine initialized")

	return engine, nil
}
