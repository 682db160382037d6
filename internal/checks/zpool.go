package checks

import (
	"context"
	"log/slog"

	"github.com/phart/autosac5/internal/appliance"
	"github.com/phart/autosac5/internal/registry"
)

// PoolStatus is the payload of one pool's health verdict.
type PoolStatus struct {
	Pool    string `json:"pool"`
	Success bool   `json:"success"`
	Health  string `json:"health"`
}

// ZpoolStatusCheck confirms every pool is ONLINE.
type ZpoolStatusCheck struct {
	App *appliance.Appliance
}

// Run implements registry.Check.
func (c *ZpoolStatusCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	pools, err := c.App.Pools(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]PoolStatus, 0, len(pools))
	for _, p := range pools {
		status := PoolStatus{Pool: p.PoolName, Success: p.Health == "ONLINE", Health: p.Health}
		if !status.Success {
			slog.Error("pool is not healthy", "pool", p.PoolName, "health", p.Health)
		}
		results = append(results, status)
	}
	return results, nil
}
