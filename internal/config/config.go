// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Package config loads and validates application configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//
//  1. Environment variables (SERP_API_KEY, REDDIT_CLIENT_ID, ...)
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Built-in defaults
//
// Environment variable names map to dotted koanf paths by section prefix:
// SERP_API_KEY -> serp.api_key, PIPELINE_MAX_THREADS -> pipeline.max_threads.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	Serp      SerpConfig      `koanf:"serp"`
	Reddit    RedditConfig    `koanf:"reddit"`
	Extractor ExtractorConfig `koanf:"extractor"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig holds DuckDB settings for the query result store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads is the DuckDB thread count; 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// CacheConfig holds settings for the in-process hot cache that fronts
// the persistent store.
type CacheConfig struct {
	HotEnabled bool          `koanf:"hot_enabled"`
	HotTTL     time.Duration `koanf:"hot_ttl"`
}

// SerpConfig holds search provider (SerpAPI) settings.
type SerpConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Results int           `koanf:"results"`
	Timeout time.Duration `koanf:"timeout"`
}

// RedditConfig holds Reddit read API and token issuance settings.
type RedditConfig struct {
	// TokenURL is the password-grant token issuance endpoint.
	TokenURL string `koanf:"token_url"`
	// APIBaseURL is the authenticated read API base (oauth.reddit.com).
	APIBaseURL   string        `koanf:"api_base_url"`
	ClientID     string        `koanf:"client_id"`
	ClientSecret string        `koanf:"client_secret"`
	Username     string        `koanf:"username"`
	Password     string        `koanf:"password"`
	UserAgent    string        `koanf:"user_agent"`
	Timeout      time.Duration `koanf:"timeout"`
	// RequestsPerSecond bounds outbound Reddit calls; Reddit enforces
	// per-client QPS on the OAuth API.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
	// TokenEarlyRefresh refreshes the token this long before its
	// declared expiry.
	TokenEarlyRefresh time.Duration `koanf:"token_early_refresh"`
}

// ExtractorConfig holds extraction model (OpenAI-compatible chat) settings.
type ExtractorConfig struct {
	BaseURL     string        `koanf:"base_url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	Timeout     time.Duration `koanf:"timeout"`
}

// PipelineConfig holds recommendation pipeline tuning.
type PipelineConfig struct {
	// MaxThreads caps how many discovered threads are processed per query.
	MaxThreads int `koanf:"max_threads"`
	// MaxComments caps retained comments per thread.
	MaxComments int `koanf:"max_comments"`
	// MinCommentLength drops comment bodies at or below this length.
	MinCommentLength int `koanf:"min_comment_length"`
	// MaxResults caps the final recommendation list.
	MaxResults int `koanf:"max_results"`
	// BroadenVagueSearches appends the query to the Amazon search term
	// for short generic product names.
	BroadenVagueSearches bool `koanf:"broaden_vague_searches"`
	// AffiliateTag is appended to generated Amazon search links.
	AffiliateTag string `koanf:"affiliate_tag"`
}

// SecurityConfig holds API-surface protections.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}
