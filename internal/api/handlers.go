// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

// Package api provides the HTTP surface: routing via chi, request
// validation, and the JSON wire contract.
package api

import (
	"context"
	"time"

	"github.com/askred/askred/internal/pipeline"
)

// pipelineRunner answers recommendation queries.
type pipelineRunner interface {
	Run(ctx context.Context, rawQuery string) (*pipeline.Result, error)
}

// queryStore reports storage liveness and size for health checks.
type queryStore interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// Handler carries the dependencies of all HTTP handlers.
type Handler struct {
	pipeline  pipelineRunner
	db        queryStore
	version   string
	startTime time.Time
}

// NewHandler creates the handler set.
func NewHandler(p pipelineRunner, db queryStore, version string) *Handler {
	return &Handler{
		pipeline:  p,
		db:        db,
		version:   version,
		startTime: time.Now(),
	}
}
