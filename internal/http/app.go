// Package http assembles the API server: module registration, shared
// route groups, and the router itself.
package http

import (
	"context"

	"advisormatch_backend/internal/events"
	"advisormatch_backend/platform/config"
	"advisormatch_backend/platform/logger"
)

// RouterConfig is the slice of configuration the router needs.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker answers readiness probes, typically with a DB ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App carries the wired dependencies from the composition root into the
// router.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	// Modules are the HTTP-facing bounded contexts, registered in order.
	Modules []Module
}
