package hmc

import "fmt"

// Command strings issued on the HMC restricted shell. The -F field lists
// keep the output line-oriented and machine parseable.
const (
	listManagedSystemsCmd = `lsyscfg -r sys -F name`

	fcPortsCmdFmt = `lshwres -r virtualio --rsubtype fc --level lpar -m %s -F "lpar_name;wwpns"`

	ethPortsCmdFmt = `lshwres -r virtualio --rsubtype eth --level lpar -m %s -F "lpar_name;mac_addr"`
)

func fcPortsCmd(system string) string {
	return fmt.Sprintf(fcPortsCmdFmt, system)
}

func ethPortsCmd(system string) string {
	return fmt.Sprintf(ethPortsCmdFmt, system)
}
