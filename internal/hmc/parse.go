package hmc

import (
	"strings"
	"unicode"

	"github.com/zabuzafr/lparsync/internal/identity"
)

// PartitionPorts is one parsed output line: an LPAR and the ports the HMC
// listed for it, normalized and duplicate-free in first-occurrence order.
type PartitionPorts struct {
	Partition string
	Ports     []identity.PortIdentifier
}

// ParseFibreChannel parses `lpar_name;wwpn,wwpn,...` lines. Lines without a
// separator are header or blank noise and are skipped, not errors.
func ParseFibreChannel(lines []string) []PartitionPorts {
	return parsePorts(lines, splitCSV, identity.NormalizeWWPN)
}

// ParseEthernet parses `lpar_name;mac mac,...` lines. Some HMC levels
// separate MAC lists with whitespace rather than commas, so both are
// accepted.
func ParseEthernet(lines []string) []PartitionPorts {
	return parsePorts(lines, splitCSVOrSpace, identity.NormalizeMAC)
}

func parsePorts(lines []string, split func(string) []string, normalize func(string) identity.PortIdentifier) []PartitionPorts {
	var records []PartitionPorts

	for _, line := range lines {
		name, rest, found := strings.Cut(line, ";")
		if !found {
			continue
		}

		var (
			ports []identity.PortIdentifier
			seen  = map[string]struct{}{}
		)

		for _, tok := range split(rest) {
			if strings.TrimSpace(tok) == "" {
				continue
			}

			port := normalize(tok)
			if _, ok := seen[port.String()]; ok {
				continue
			}

			seen[port.String()] = struct{}{}
			ports = append(ports, port)
		}

		records = append(records, PartitionPorts{Partition: name, Ports: ports})
	}

	return records
}

func splitCSV(s string) []string {
	return strings.Split(s, ",")
}

func splitCSVOrSpace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
