// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package config

import (
	"errors"
	"fmt"

	"github.com/askred/askred/internal/logging"
)

// Validation errors for configuration values.
var (
	ErrInvalidPort      = errors.New("server.port must be between 1 and 65535")
	ErrInvalidResults   = errors.New("serp.results must be at least 1")
	ErrInvalidThreadCap = errors.New("pipeline.max_threads must be at least 1")
	ErrInvalidResultCap = errors.New("pipeline.max_results must be at least 1")
)

// Validate checks configuration consistency. Structural errors (bad
// port, nonsensical caps) always fail; missing upstream credentials fail
// only in production, since development and tests commonly stub the
// collaborators.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, c.Server.Port)
	}
	if c.Serp.Results < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidResults, c.Serp.Results)
	}
	if c.Pipeline.MaxThreads < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreadCap, c.Pipeline.MaxThreads)
	}
	if c.Pipeline.MaxResults < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidResultCap, c.Pipeline.MaxResults)
	}

	missing := c.missingCredentials()
	if len(missing) > 0 {
		if c.IsProduction() {
			return fmt.Errorf("missing required credentials in production: %v", missing)
		}
		logging.Warn().Strs("missing", missing).Msg("Upstream credentials not configured; live queries will fail")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// missingCredentials lists the upstream credentials that are not set.
func (c *Config) missingCredentials() []string {
	var missing []string
	if c.Serp.APIKey == "" {
		missing = append(missing, "serp.api_key")
	}
	if c.Reddit.ClientID == "" || c.Reddit.ClientSecret == "" {
		missing = append(missing, "reddit.client_id/client_secret")
	}
	if c.Reddit.Username == "" || c.Reddit.Password == "" {
		missing = append(missing, "reddit.username/password")
	}
	if c.Extractor.APIKey == "" {
		missing = append(missing, "extractor.api_key")
	}
	return missing
}
