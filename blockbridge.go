// Package blockbridge exposes a model editor's operations as agent-callable
// tools. The registry package dispatches invocations, the tools package
// defines the tool surface over a host.Service editor backend, and the mcp
// package serves the registry over MCP on stdio.
//
// Most callers only need a wired registry:
//
//	reg, err := blockbridge.NewRegistry(ctx, memhost.New())
package blockbridge

import (
	"context"

	"github.com/blockbridge-dev/blockbridge/host"
	"github.com/blockbridge-dev/blockbridge/registry"
	"github.com/blockbridge-dev/blockbridge/tools"
)

// NewRegistry returns a registry with the full tool surface registered
// against the given editor backend.
func NewRegistry(ctx context.Context, h host.Service) (*registry.Registry, error) {
	reg := registry.New()
	if err := tools.NewService(h).RegisterAll(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}
