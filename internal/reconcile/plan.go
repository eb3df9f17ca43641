// Package reconcile computes and applies the minimal additive change needed
// to make registry host records match the discovered inventory.
package reconcile

import (
	"github.com/zabuzafr/lparsync/internal/model"
)

// HostPlan is the additive change for one host: the WWPNs present in the
// inventory but absent from the registry, in inventory order.
type HostPlan struct {
	Host      string
	Partition string
	Add       []string
	// Exists reports whether the registry already has the host; when
	// false the executor creates it before adding ports.
	Exists bool
}

// Plan is the full change set for one run, ordered by LPAR name.
type Plan struct {
	Hosts []HostPlan
}

// BuildPlan computes the change set from the inventory and the current
// registry state. It is a pure function: state maps host name to its
// currently registered WWPNs, and a host name missing from state is treated
// as not existing yet. LPARs with no WWPNs are left out entirely.
func BuildPlan(inv model.Inventory, hostPrefix string, state map[string][]string) Plan {
	var plan Plan

	for _, name := range inv.Names() {
		lp := inv[name]
		if len(lp.WWPNs) == 0 {
			continue
		}

		hostName := hostPrefix + name
		current, exists := state[hostName]

		registered := make(map[string]struct{}, len(current))
		for _, wwpn := range current {
			registered[wwpn] = struct{}{}
		}

		var add []string

		for _, port := range lp.WWPNs {
			wwpn := port.String()
			if _, ok := registered[wwpn]; ok {
				continue
			}

			registered[wwpn] = struct{}{}
			add = append(add, wwpn)
		}

		plan.Hosts = append(plan.Hosts, HostPlan{
			Host:      hostName,
			Partition: name,
			Add:       add,
			Exists:    exists,
		})
	}

	return plan
}
