// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/askred/config.yaml",
	"/etc/askred/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// sections lists the recognized top-level config sections; environment
// variables outside these prefixes are ignored by the env layer.
var sections = []string{
	"server", "logging", "database", "cache",
	"serp", "reddit", "extractor", "pipeline", "security",
}

// defaultConfig returns a Config with all defaults applied. These are
// loaded first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Path:      "/data/askred.duckdb",
			MaxMemory: "512MB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Cache: CacheConfig{
			HotEnabled: true,
			HotTTL:     15 * time.Minute,
		},
		Serp: SerpConfig{
			BaseURL: "https://serpapi.com",
			APIKey:  "",
			Results: 10,
			Timeout: 15 * time.Second,
		},
		Reddit: RedditConfig{
			TokenURL:          "https://www.reddit.com/api/v1/access_token",
			APIBaseURL:        "https://oauth.reddit.com",
			UserAgent:         "askred/1.0",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 1,
			Burst:             5,
			TokenEarlyRefresh: 10 * time.Second,
		},
		Extractor: ExtractorConfig{
			BaseURL:     "https://api.openai.com/v1",
			APIKey:      "",
			Model:       "gpt-3.5-turbo",
			Temperature: 0.7,
			Timeout:     60 * time.Second,
		},
		Pipeline: PipelineConfig{
			MaxThreads:           5,
			MaxComments:          15,
			MinCommentLength:     20,
			MaxResults:           12,
			BroadenVagueSearches: true,
			AffiliateTag:         "askred-20",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML config file (if one exists)
//  3. Environment variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// SERP_API_KEY -> serp.api_key, REDDIT_CLIENT_ID -> reddit.client_id
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// CORS origins arrive as a comma-separated string from env
	if origins := k.String("security.cors_origins"); origins != "" && strings.Contains(origins, ",") {
		if err := k.Set("security.cors_origins", splitAndTrim(origins)); err != nil {
			return nil, fmt.Errorf("failed to process cors origins: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// findConfigFile returns the config file path to use, or "" when none
// exists. CONFIG_PATH takes priority over the default search paths.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf paths.
// Only variables starting with a known section prefix participate:
// PIPELINE_MAX_THREADS -> pipeline.max_threads. Everything else maps to
// "" and is skipped by koanf.
func envTransformFunc(name string) string {
	lower := strings.ToLower(name)
	for _, section := range sections {
		prefix := section + "_"
		if strings.HasPrefix(lower, prefix) && len(lower) > len(prefix) {
			return section + "." + lower[len(prefix):]
		}
	}
	return ""
}

// splitAndTrim parses a comma-separated string into a clean slice.
func splitAndTrim(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
