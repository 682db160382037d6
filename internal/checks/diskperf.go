package checks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phart/autosac5/internal/appliance"
	"github.com/phart/autosac5/internal/diskqual"
	"github.com/phart/autosac5/internal/registry"
)

// DiskPerfResult is the payload of one disk's benchmark.
type DiskPerfResult struct {
	Disk    string  `json:"disk"`
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
	Tput    float64 `json:"tput,omitempty"`
}

// DiskPerfCheck benchmarks sequential read throughput on every attached
// disk. Disks are tested by a bounded worker pool; the pool is the check's
// own contract, the engine still sees one sequential check.
type DiskPerfCheck struct {
	App *appliance.Appliance
}

// Run implements registry.Check.
func (c *DiskPerfCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	params := struct {
		BS          int     `mapstructure:"bs"`
		DurationSec float64 `mapstructure:"duration"`
		Workers     int     `mapstructure:"workers"`
	}{BS: 32, DurationSec: 5, Workers: 8}
	if err := decodeKwargs(inv, &params); err != nil {
		return nil, err
	}
	duration := time.Duration(params.DurationSec * float64(time.Second))

	disks, err := c.App.Disks(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results []DiskPerfResult
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(params.Workers)

	for _, d := range disks {
		disk := d.LogicalDevice
		g.Go(func() error {
			slog.Info("verifying disk performance", "disk", disk)

			result := DiskPerfResult{Disk: disk, Success: true}
			tput, err := diskqual.ReadSeq(ctx, disk, params.BS, duration)
			if err != nil {
				slog.Error("disk benchmark failed", "disk", disk, "error", err)
				result.Success = false
				result.Error = err.Error()
			} else {
				slog.Debug("disk performance", "disk", disk, "tput_mbs", tput)
				result.Tput = tput
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
