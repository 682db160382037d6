package appliance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phart/autosac5/internal/nef"
)

// newAppliance backs an Appliance with a stub API serving fixed responses
// keyed by request path.
func newAppliance(t *testing.T, responses map[string]any) *Appliance {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(srv.Close)

	client, err := nef.New(srv.URL)
	require.NoError(t, err)
	return New(client)
}

func TestGateway(t *testing.T) {
	app := newAppliance(t, map[string]any{
		"/network/routes": map[string]any{
			"data": []any{map[string]any{"gateway": "10.0.0.1"}},
		},
	})

	gw, err := app.Gateway(context.Background())
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1", gw)
}

func TestGatewayNoneDefined(t *testing.T) {
	app := newAppliance(t, map[string]any{
		"/network/routes": map[string]any{"data": []any{}},
	})

	_, err := app.Gateway(context.Background())
	require.ErrorContains(t, err, "no network gateway defined")
}

func TestNameservers(t *testing.T) {
	app := newAppliance(t, map[string]any{
		"/network/nameservers": map[string]any{
			"data": []any{
				map[string]any{"nameserver": "8.8.8.8"},
				map[string]any{"nameserver": "1.1.1.1"},
			},
		},
	})

	ns, err := app.Nameservers(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"8.8.8.8", "1.1.1.1"}, ns)
}

func TestNameserversNoneDefined(t *testing.T) {
	app := newAppliance(t, map[string]any{
		"/network/nameservers": map[string]any{"data": []any{}},
	})

	_, err := app.Nameservers(context.Background())
	require.ErrorContains(t, err, "no network nameservers defined")
}

func TestDomainControllerWorkgroupMode(t *testing.T) {
	app := newAppliance(t, map[string]any{
		"/services/smb": map[string]any{
			"sharingMode": map[string]any{"sharingMode": "workgroup"},
		},
	})

	_, err := app.DomainController(context.Background())
	require.ErrorContains(t, err, "workgroup mode")
}

func TestDomainController(t *testing.T) {
	app := newAppliance(t, map[string]any{
		"/services/smb": map[string]any{
			"sharingMode": map[string]any{
				"sharingMode":      "domain",
				"realmName":        "CORP",
				"domainController": "dc1.corp.example",
			},
		},
	})

	dc, err := app.DomainController(context.Background())
	require.NoError(t, err)
	require.Equal(t, "dc1.corp.example", dc)
}

func TestCluster(t *testing.T) {
	hostname, err := os.Hostname()
	require.NoError(t, err)

	app := newAppliance(t, map[string]any{
		"/rsf/clusters": map[string]any{
			"data": []any{map[string]any{
				"clusterName": "ha-pair",
				"nodes": []any{
					map[string]any{"machineName": hostname},
					map[string]any{"machineName": "partner-node"},
				},
				"services": []any{map[string]any{"serviceName": "tank"}},
			}},
		},
	})

	cluster, err := app.Cluster(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ha-pair", cluster.Name)
	require.Equal(t, "partner-node", cluster.Partner)
	require.Len(t, cluster.Services, 1)
	require.Equal(t, "tank", cluster.Services[0].ServiceName)
}

func TestClusterNotAMember(t *testing.T) {
	app := newAppliance(t, map[string]any{
		"/rsf/clusters": map[string]any{"data": []any{}},
	})

	_, err := app.Cluster(context.Background())
	require.ErrorContains(t, err, "not part of a cluster")
}

func TestDisks(t *testing.T) {
	app := newAppliance(t, map[string]any{
		"/inventory/disks": map[string]any{
			"data": []any{
				map[string]any{"logicalDevice": "c0t0d0"},
				map[string]any{"logicalDevice": "c0t1d0"},
			},
		},
	})

	disks, err := app.Disks(context.Background())
	require.NoError(t, err)
	require.Len(t, disks, 2)
	require.Equal(t, "c0t0d0", disks[0].LogicalDevice)
}

func TestDisksNoneDiscovered(t *testing.T) {
	app := newAppliance(t, map[string]any{
		"/inventory/disks": map[string]any{"data": []any{}},
	})

	_, err := app.Disks(context.Background())
	require.ErrorContains(t, err, "no disks discovered")
}

func TestPools(t *testing.T) {
	app := newAppliance(t, map[string]any{
		"/storage/pools": map[string]any{
			"data": []any{
				map[string]any{"poolName": "tank", "health": "ONLINE"},
				map[string]any{"poolName": "dozer", "health": "DEGRADED"},
			},
		},
	})

	pools, err := app.Pools(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 2)
	require.Equal(t, "ONLINE", pools[0].Health)
	require.Equal(t, "DEGRADED", pools[1].Health)
}
