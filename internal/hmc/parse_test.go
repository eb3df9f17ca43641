package hmc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func portStrings(rec PartitionPorts) []string {
	out := make([]string, 0, len(rec.Ports))
	for _, p := range rec.Ports {
		out = append(out, p.String())
	}

	return out
}

func TestParseFibreChannel(t *testing.T) {
	lines := []string{
		"lparA;5001438000000001,5001438000000002",
	}

	records := ParseFibreChannel(lines)
	require.Len(t, records, 1)
	assert.Equal(t, "lparA", records[0].Partition)
	assert.Equal(t,
		[]string{"50:01:43:80:00:00:00:01", "50:01:43:80:00:00:00:02"},
		portStrings(records[0]))
}

func TestParseFibreChannelSkipsLinesWithoutSeparator(t *testing.T) {
	lines := []string{
		"",
		"lpar_name wwpns", // header noise
		"lparA;5001438000000001",
		"No results were found.",
	}

	records := ParseFibreChannel(lines)
	require.Len(t, records, 1)
	assert.Equal(t, "lparA", records[0].Partition)
}

func TestParseFibreChannelDeduplicates(t *testing.T) {
	lines := []string{
		// same WWPN with and without separators, plus a blank token
		"lparA;5001438000000002,50:01:43:80:00:00:00:02,,5001438000000001",
	}

	records := ParseFibreChannel(lines)
	require.Len(t, records, 1)
	assert.Equal(t,
		[]string{"50:01:43:80:00:00:00:02", "50:01:43:80:00:00:00:01"},
		portStrings(records[0]))
}

func TestParseEthernetCommaAndWhitespace(t *testing.T) {
	lines := []string{
		"lparA;123456789ABC, 123456789ABD\t123456789ABC",
	}

	records := ParseEthernet(lines)
	require.Len(t, records, 1)
	assert.Equal(t,
		[]string{"12:34:56:78:9A:BC", "12:34:56:78:9A:BD"},
		portStrings(records[0]))
}

func TestParseEthernetEmpty(t *testing.T) {
	assert.Empty(t, ParseEthernet(nil))
	assert.Empty(t, ParseEthernet([]string{"no separator here"}))
}
