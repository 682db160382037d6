package checks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phart/autosac5/internal/appliance"
	"github.com/phart/autosac5/internal/execute"
	"github.com/phart/autosac5/internal/registry"
)

// pingTimeout bounds the five-probe ping; if it takes longer than this
// something is wrong regardless of the replies.
const pingTimeout = 10 * time.Second

// PingResult is the payload of a single host ping.
type PingResult struct {
	Host    string `json:"host"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Min     string `json:"p_min,omitempty"`
	Avg     string `json:"p_avg,omitempty"`
	Max     string `json:"p_max,omitempty"`
	Stddev  string `json:"p_stddev,omitempty"`
}

// pingHost pings a remote ip/hostname five times and parses the round-trip
// statistics from the trailer line.
func pingHost(ctx context.Context, host string) PingResult {
	result := PingResult{Host: host, Success: true}

	cmd := fmt.Sprintf("ping -n -s %s 56 5", host)
	output, err := execute.Run(ctx, cmd, pingTimeout)
	if err != nil {
		slog.Error("host is not alive", "host", host, "error", err)
		result.Success = false
		var exitErr *execute.ExitError
		if errors.As(err, &exitErr) {
			result.Error = exitErr.Output
		} else {
			result.Error = err.Error()
		}
		return result
	}

	slog.Debug("host is alive", "host", host)

	result.Min, result.Avg, result.Max, result.Stddev = parsePingStats(output)
	return result
}

// parsePingStats extracts the round-trip statistics from ping's trailer line:
//
//	round-trip (ms)  min/avg/max/stddev = 0.2/0.3/0.5/0.1
func parsePingStats(output string) (min, avg, max, stddev string) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	trailer := lines[len(lines)-1]

	_, stats, found := strings.Cut(trailer, "=")
	if !found {
		return "", "", "", ""
	}
	parts := strings.Split(strings.TrimSpace(stats), "/")
	if len(parts) != 4 {
		return "", "", "", ""
	}
	return parts[0], parts[1], parts[2], parts[3]
}

// PingCheck pings the host named by its arguments.
type PingCheck struct{}

// Run implements registry.Check.
func (c *PingCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	var params struct {
		IP string `mapstructure:"ip"`
	}
	if err := decodeKwargs(inv, &params); err != nil {
		return nil, err
	}
	host, err := stringArg(inv, 0, params.IP)
	if err != nil {
		return nil, fmt.Errorf("check_ping: %w", err)
	}
	return pingHost(ctx, host), nil
}

// GatewayPingCheck pings the default network gateway.
type GatewayPingCheck struct {
	App *appliance.Appliance
}

// Run implements registry.Check.
func (c *GatewayPingCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	gateway, err := c.App.Gateway(ctx)
	if err != nil {
		return nil, err
	}
	return pingHost(ctx, gateway), nil
}

// DNSPingCheck pings every configured nameserver.
type DNSPingCheck struct {
	App *appliance.Appliance
}

// Run implements registry.Check.
func (c *DNSPingCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	nameservers, err := c.App.Nameservers(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]PingResult, 0, len(nameservers))
	for _, ns := range nameservers {
		results = append(results, pingHost(ctx, ns))
	}
	return results, nil
}

// DomainPingCheck pings the domain controller the appliance is joined to.
type DomainPingCheck struct {
	App *appliance.Appliance
}

// Run implements registry.Check.
func (c *DomainPingCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	dc, err := c.App.DomainController(ctx)
	if err != nil {
		return nil, err
	}
	return pingHost(ctx, dc), nil
}
