package checks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phart/autosac5/internal/appliance"
	"github.com/phart/autosac5/internal/nef"
	"github.com/phart/autosac5/internal/registry"
)

// MoveResult is the payload of one cluster service failover.
type MoveResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RSFMoveCheck fails every cluster service over to one node and waits for
// the moves to complete. With local=true (the default) services move to the
// local node; with local=false they move to the partner.
type RSFMoveCheck struct {
	Client *nef.Client
	App    *appliance.Appliance
}

// Run implements registry.Check.
func (c *RSFMoveCheck) Run(ctx context.Context, inv registry.Invocation) (any, error) {
	params := struct {
		Local bool `mapstructure:"local"`
	}{Local: true}
	if err := decodeKwargs(inv, &params); err != nil {
		return nil, err
	}

	hostname, err := c.App.Hostname()
	if err != nil {
		return nil, err
	}
	cluster, err := c.App.Cluster(ctx)
	if err != nil {
		return nil, err
	}

	fromNode, toNode := hostname, cluster.Partner
	if params.Local {
		fromNode, toNode = cluster.Partner, hostname
	}

	results := make([]MoveResult, 0, len(cluster.Services))
	for _, svc := range cluster.Services {
		results = append(results, c.move(ctx, cluster.Name, svc.ServiceName, fromNode, toNode))
	}
	return results, nil
}

func (c *RSFMoveCheck) move(ctx context.Context, cluster, service, fromNode, toNode string) MoveResult {
	result := MoveResult{Name: service, Success: true}

	slog.Info("moving cluster service", "service", service, "to", toNode)

	method := fmt.Sprintf("rsf/clusters/%s/services/%s/move", cluster, service)
	payload := map[string]string{"fromNode": fromNode, "toNode": toNode}

	jobID, err := c.Client.Post(ctx, method, payload)
	if err != nil {
		slog.Error("failed to move cluster service", "service", service, "error", err)
		result.Success = false
		result.Error = err.Error()
		return result
	}

	slog.Info("waiting for cluster service move to complete", "service", service)
	if err := c.Client.WaitJob(ctx, jobID); err != nil {
		slog.Error("failed to move cluster service", "service", service, "error", err)
		result.Success = false
		result.Error = err.Error()
	}
	return result
}
