package hmc

// EthernetCapability states whether ethernet adapter listing worked, is not
// exposed by this platform level, or failed outright. Keeping the three
// apart lets callers report "no MACs" and "MAC discovery broken"
// differently.
type EthernetCapability uint8

const (
	EthernetSupported EthernetCapability = iota
	EthernetUnsupported
	EthernetFailed
)

func (c EthernetCapability) String() string {
	switch c {
	case EthernetSupported:
		return "supported"
	case EthernetUnsupported:
		return "unsupported"
	case EthernetFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EthernetResult is the outcome of ethernet port discovery on one managed
// system. Ports is only meaningful when Capability is EthernetSupported.
type EthernetResult struct {
	Capability EthernetCapability
	Ports      []PartitionPorts
	Err        error
}
