// Package identity canonicalizes the port identifiers the HMC reports for
// virtual adapters. HMC output is loosely formatted: identifiers show up
// with or without separators, in mixed case, and occasionally truncated or
// padded by the firmware. Normalization is lossy by design so that discovery
// never fails on a single mangled token.
package identity

import (
	"encoding/json"
	"strings"
)

// Kind tags a PortIdentifier as either a Fibre Channel or an Ethernet
// identifier.
type Kind uint8

const (
	KindWWPN Kind = iota
	KindMAC
)

const (
	wwpnHexDigits = 16
	// Some HMC levels report the full 16 raw bytes for a virtual FC
	// adapter pair. That form is kept verbatim.
	wwpnDoubleHexDigits = 32
	macHexDigits        = 12
)

func (k Kind) String() string {
	switch k {
	case KindWWPN:
		return "wwpn"
	case KindMAC:
		return "mac"
	default:
		return "unknown"
	}
}

// PortIdentifier is a canonical, colon separated port identifier.
// Build one with NormalizeWWPN or NormalizeMAC; the zero value is not valid.
type PortIdentifier struct {
	Kind Kind
	Text string
}

func (p PortIdentifier) String() string {
	return p.Text
}

func (p PortIdentifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Text)
}

// NormalizeWWPN returns the canonical form of a WWPN: 8 hex bytes separated
// by colons, e.g. 50:01:43:80:1A:2B:3C:4D. Short input is left-padded with
// zeros, overlong input is truncated to the leading 16 hex digits, except
// the 32 hex digit double-length form which is preserved as-is. Never fails.
func NormalizeWWPN(raw string) PortIdentifier {
	s := stripNonHex(raw)

	switch {
	case len(s) < wwpnHexDigits:
		s = strings.Repeat("0", wwpnHexDigits-len(s)) + s
	case len(s) > wwpnHexDigits && len(s) != wwpnDoubleHexDigits:
		s = s[:wwpnHexDigits]
	}

	return PortIdentifier{Kind: KindWWPN, Text: groupBytes(s)}
}

// NormalizeMAC returns the canonical form of a MAC address: 6 hex bytes
// separated by colons, e.g. 12:34:56:78:9A:BC. Same repair policy as
// NormalizeWWPN, minus the double-length case. Never fails.
func NormalizeMAC(raw string) PortIdentifier {
	s := stripNonHex(raw)

	if len(s) > macHexDigits {
		s = s[:macHexDigits]
	}

	if len(s) < macHexDigits {
		s = strings.Repeat("0", macHexDigits-len(s)) + s
	}

	return PortIdentifier{Kind: KindMAC, Text: groupBytes(s)}
}

// stripNonHex drops every non hex digit and uppercases the rest.
func stripNonHex(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'F':
			return r
		case r >= 'a' && r <= 'f':
			return r - ('a' - 'A')
		default:
			return -1
		}
	}, s)
}

// groupBytes joins an even-length hex string into colon separated 2 digit
// groups.
func groupBytes(s string) string {
	var sb strings.Builder

	for i := 0; i < len(s); i += 2 {
		if i > 0 {
			sb.WriteByte(':')
		}

		sb.WriteString(s[i : i+2])
	}

	return sb.String()
}
