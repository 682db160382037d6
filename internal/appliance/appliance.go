// Package appliance discovers host configuration (routes, nameservers,
// domain, cluster, disks, pools) through the NEF API.
package appliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/phart/autosac5/internal/nef"
)

// Appliance answers configuration questions about the local node.
type Appliance struct {
	client *nef.Client
}

// New returns an Appliance backed by client.
func New(client *nef.Client) *Appliance {
	return &Appliance{client: client}
}

// Hostname returns the local hostname.
func (a *Appliance) Hostname() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to determine appliance hostname: %w", err)
	}
	slog.Debug("appliance hostname", "hostname", hostname)
	return hostname, nil
}

// Gateway returns the default network gateway.
func (a *Appliance) Gateway(ctx context.Context) (string, error) {
	params := url.Values{"destination": {"default"}}
	body, err := a.client.Get(ctx, "network/routes", params)
	if err != nil {
		return "", fmt.Errorf("failed to determine network gateway: %w", err)
	}

	var routes []struct {
		Gateway string `mapstructure:"gateway"`
	}
	if err := mapstructure.Decode(body["data"], &routes); err != nil {
		return "", fmt.Errorf("failed to determine network gateway: %w", err)
	}
	if len(routes) == 0 {
		return "", errors.New("no network gateway defined")
	}

	slog.Debug("network gateway", "gateway", routes[0].Gateway)
	return routes[0].Gateway, nil
}

// Nameservers returns the configured DNS servers.
func (a *Appliance) Nameservers(ctx context.Context) ([]string, error) {
	body, err := a.client.Get(ctx, "network/nameservers", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to determine appliance nameservers: %w", err)
	}

	var entries []struct {
		Nameserver string `mapstructure:"nameserver"`
	}
	if err := mapstructure.Decode(body["data"], &entries); err != nil {
		return nil, fmt.Errorf("failed to determine appliance nameservers: %w", err)
	}

	nameservers := make([]string, 0, len(entries))
	for _, e := range entries {
		slog.Debug("network nameserver", "nameserver", e.Nameserver)
		nameservers = append(nameservers, e.Nameserver)
	}
	if len(nameservers) == 0 {
		return nil, errors.New("no network nameservers defined")
	}
	return nameservers, nil
}

// DomainController returns the domain controller the appliance is joined to.
// It fails when SMB sharing is not in domain mode.
func (a *Appliance) DomainController(ctx context.Context) (string, error) {
	body, err := a.client.Get(ctx, "services/smb", nil)
	if err != nil {
		return "", fmt.Errorf("failed to determine domain configuration: %w", err)
	}

	var svc struct {
		SharingMode struct {
			SharingMode      string `mapstructure:"sharingMode"`
			RealmName        string `mapstructure:"realmName"`
			DomainController string `mapstructure:"domainController"`
		} `mapstructure:"sharingMode"`
	}
	if err := mapstructure.Decode(body, &svc); err != nil {
		return "", fmt.Errorf("failed to determine domain configuration: %w", err)
	}

	mode := svc.SharingMode
	if mode.SharingMode != "domain" {
		return "", fmt.Errorf("the appliance is in %s mode", mode.SharingMode)
	}
	slog.Debug("appliance domain", "realm", mode.RealmName)

	if mode.DomainController == "" {
		return "", errors.New("the appliance is in domain mode but isn't connected to a DC")
	}
	return mode.DomainController, nil
}

// Service is one configured cluster service.
type Service struct {
	ServiceName string `mapstructure:"serviceName"`
}

// Cluster describes the RSF cluster the node belongs to.
type Cluster struct {
	Name     string
	Partner  string
	Services []Service
}

// Cluster returns the local node's cluster configuration: name, partner
// hostname, and configured services.
func (a *Appliance) Cluster(ctx context.Context) (Cluster, error) {
	params := url.Values{"fields": {"nodes,services"}}
	body, err := a.client.Get(ctx, "rsf/clusters", params)
	if err != nil {
		return Cluster{}, fmt.Errorf("failed to determine cluster configuration: %w", err)
	}

	var clusters []struct {
		ClusterName string `mapstructure:"clusterName"`
		Nodes       []struct {
			MachineName string `mapstructure:"machineName"`
		} `mapstructure:"nodes"`
		Services []Service `mapstructure:"services"`
	}
	if err := mapstructure.Decode(body["data"], &clusters); err != nil {
		return Cluster{}, fmt.Errorf("failed to determine cluster configuration: %w", err)
	}
	if len(clusters) == 0 {
		return Cluster{}, errors.New("the node is not part of a cluster")
	}
	raw := clusters[0]

	slog.Info("cluster membership", "cluster", raw.ClusterName)

	hostname, err := a.Hostname()
	if err != nil {
		return Cluster{}, err
	}
	var partner string
	for _, n := range raw.Nodes {
		if n.MachineName != hostname {
			partner = n.MachineName
			break
		}
	}

	if len(raw.Services) == 0 {
		return Cluster{}, errors.New("there are no cluster services configured")
	}

	return Cluster{Name: raw.ClusterName, Partner: partner, Services: raw.Services}, nil
}

// Disk is one attached disk.
type Disk struct {
	LogicalDevice string `mapstructure:"logicalDevice"`
}

// Disks returns the attached disks.
func (a *Appliance) Disks(ctx context.Context) ([]Disk, error) {
	body, err := a.client.Get(ctx, "inventory/disks", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to determine disk configuration: %w", err)
	}

	var disks []Disk
	if err := mapstructure.Decode(body["data"], &disks); err != nil {
		return nil, fmt.Errorf("failed to determine disk configuration: %w", err)
	}
	if len(disks) == 0 {
		return nil, errors.New("no disks discovered")
	}
	return disks, nil
}

// Pool is one storage pool.
type Pool struct {
	PoolName string `mapstructure:"poolName"`
	Health   string `mapstructure:"health"`
}

// Pools returns the configured storage pools.
func (a *Appliance) Pools(ctx context.Context) ([]Pool, error) {
	body, err := a.client.Get(ctx, "storage/pools", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to determine pool configuration: %w", err)
	}

	var pools []Pool
	if err := mapstructure.Decode(body["data"], &pools); err != nil {
		return nil, fmt.Errorf("failed to determine pool configuration: %w", err)
	}
	if len(pools) == 0 {
		return nil, errors.New("no pools discovered")
	}
	return pools, nil
}
