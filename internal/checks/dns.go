package checks

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/phart/autosac5/internal/registry"
)

// DNSLookupResult is the payload of a name resolution check.
type DNSLookupResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DNSLookupCheck verifies a domain name resolves.
type DNSLookupCheck struct {
	// Resolver defaults to net.DefaultResolver; tests substitute their own.
	Resolver *net.Resolver
}

// Run implements registry.Check.
func (c *DNSLookupCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	var params struct {
		Name string `mapstructure:"name"`
	}
	if err := decodeKwargs(inv, &params); err != nil {
		return nil, err
	}
	name, err := stringArg(inv, 0, params.Name)
	if err != nil {
		return nil, fmt.Errorf("check_dns_lookup: %w", err)
	}

	slog.Debug("attempting DNS resolution", "name", name)

	resolver := c.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	result := DNSLookupResult{Success: true}
	if _, err := resolver.LookupHost(ctx, name); err != nil {
		slog.Error("failed to resolve name", "name", name, "error", err)
		result.Success = false
		result.Error = err.Error()
	}
	return result, nil
}
