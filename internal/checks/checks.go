// Package checks contains the acceptance checks autosac can run and the
// registry wiring that makes them resolvable by name.
//
// Every check decodes the keyword arguments it understands from its config
// entry and returns its own success/failure payload; the engine records the
// payload without interpreting it.
package checks

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/phart/autosac5/internal/appliance"
	"github.com/phart/autosac5/internal/nef"
	"github.com/phart/autosac5/internal/registry"
)

// NewRegistry returns a registry populated with every check autosac ships.
// Checks that talk to the appliance share a single API client.
func NewRegistry(client *nef.Client) *registry.Registry {
	app := appliance.New(client)

	r := registry.New()
	r.Register("check_ping", "ping a host and report latency", &PingCheck{})
	r.Register("check_gateway_ping", "ping the default network gateway", &GatewayPingCheck{App: app})
	r.Register("check_dns_ping", "ping every configured nameserver", &DNSPingCheck{App: app})
	r.Register("check_domain_ping", "ping the joined domain controller", &DomainPingCheck{App: app})
	r.Register("check_cmd", "run a command and verify its exit status", &CmdCheck{})
	r.Register("check_dns_lookup", "resolve a domain name", &DNSLookupCheck{})
	r.Register("check_rsf_move", "fail cluster services over and verify completion", &RSFMoveCheck{Client: client, App: app})
	r.Register("check_zpool_status", "verify every pool is ONLINE", &ZpoolStatusCheck{App: app})
	r.Register("check_post", "issue an API POST and wait for the job", &PostCheck{Client: client})
	r.Register("check_disk_perf", "benchmark sequential read throughput per disk", &DiskPerfCheck{App: app})
	r.Register("check_metadata_blocks", "verify zfs_default_ibs is 14", &MetadataBlocksCheck{})
	return r
}

// decodeKwargs decodes the keyword arguments of an invocation into out.
func decodeKwargs(inv registry.Invocation, out any) error {
	if err := mapstructure.Decode(inv.Kwargs, out); err != nil {
		return fmt.Errorf("decoding check arguments: %w", err)
	}
	return nil
}

// stringArg returns the value of the named keyword argument, falling back to
// the positional argument at pos.
func stringArg(inv registry.Invocation, pos int, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	if len(inv.Args) > pos {
		if s, ok := inv.Args[pos].(string); ok && s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("missing required string argument at position %d", pos)
}
