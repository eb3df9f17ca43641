package model

import (
	"sort"

	"github.com/zabuzafr/lparsync/internal/identity"
)

const (
	AppName = "lparsync"
)

// LogicalPartition is one LPAR discovered on a managed system, with the
// virtual adapter identifiers the HMC reported for it. Built once per run by
// the aggregator and not mutated afterwards.
// nolint:govet // prefer to keep field ordering as is
type LogicalPartition struct {
	Name string `json:"-"`

	// WWPNs and MACs are duplicate-free and keep discovery order.
	WWPNs []identity.PortIdentifier `json:"wwpns"`
	MACs  []identity.PortIdentifier `json:"macs"`
}

func (lp *LogicalPartition) AsLogFields() []any {
	return []any{
		"lpar", lp.Name,
		"wwpns", len(lp.WWPNs),
		"macs", len(lp.MACs),
	}
}

// Inventory maps LPAR name to its discovered record. Rebuilt from scratch
// every run; nothing is persisted between runs.
type Inventory map[string]*LogicalPartition

// Names returns the LPAR names in sorted order for stable reporting.
func (inv Inventory) Names() []string {
	names := make([]string, 0, len(inv))
	for name := range inv {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// HostRecord is a host entry as the remote registry reports it. The WWPN set
// is only ever read and appended to; existing ports are never removed.
type HostRecord struct {
	Name  string
	WWPNs []string
}

// Args holds the command line arguments. Flag values override the
// corresponding configuration file entries when set.
type Args struct {
	LogLevel        string
	ConfigFile      string
	EnableProfiling bool

	HMCEndpoint   string
	HMCUser       string
	HMCPassword   string
	ManagedSystem string
	ExcludeLPARs  string

	ArrayEndpoint string
	ArrayAPIToken string
	ArrayUser     string
	ArrayPassword string

	HostPrefix    string
	NoVerifySSL   bool
	Apply         bool
	DumpInventory bool
	Concurrency   int
}
