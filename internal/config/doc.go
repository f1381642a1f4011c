// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

/*
Package config loads the server configuration with koanf.

# Configuration Sources

Layers are applied in order, each overriding the previous one:

 1. Struct defaults (defaultConfig)
 2. YAML file: CONFIG_PATH, or the first of config.yaml, config.yml,
    /etc/lunara/config.yaml
 3. Environment variables listed in envMappings

Comma-separated environment values for slice fields (CORS_ORIGINS,
RECOMMEND_STRATEGIES) are split after loading.

# Example

	server:
	  port: 8080
	  cors_origins: ["https://app.example.com"]
	recommend:
	  strategy_timeout: 2s
	  enabled_strategies: [iron_deficiency, cycle_aware]
	feedback:
	  scoring_policy: blend
*/
package config
