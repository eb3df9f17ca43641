package hmc

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zabuzafr/lparsync/internal/config"
)

type fakeChannel struct {
	responses map[string]fakeResponse
}

type fakeResponse struct {
	status int
	stdout []string
	stderr string
	err    error
}

func (f *fakeChannel) Execute(_ context.Context, command string) (int, []string, string, error) {
	resp, ok := f.responses[command]
	if !ok {
		return 127, nil, "unknown command", nil
	}

	return resp.status, resp.stdout, resp.stderr, resp.err
}

func testClient(channel Channel) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewClient(channel, &config.HMCOptions{CommandTimeout: time.Second}, logrus.NewEntry(logger))
}

func TestListManagedSystems(t *testing.T) {
	client := testClient(&fakeChannel{responses: map[string]fakeResponse{
		listManagedSystemsCmd: {stdout: []string{"Server-9009-22A", "", " Server-9009-22B "}},
	}})

	systems, err := client.ListManagedSystems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Server-9009-22A", "Server-9009-22B"}, systems)
}

func TestListManagedSystemsFailure(t *testing.T) {
	client := testClient(&fakeChannel{responses: map[string]fakeResponse{
		listManagedSystemsCmd: {status: 1, stderr: "HSCL error"},
	}})

	_, err := client.ListManagedSystems(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommandFailed)
}

func TestFibreChannelPorts(t *testing.T) {
	client := testClient(&fakeChannel{responses: map[string]fakeResponse{
		fcPortsCmd("sysA"): {stdout: []string{"lpar1;5001438000000001"}},
		fcPortsCmd("sysB"): {status: 2, stderr: "not supported"},
	}})

	ports, err := client.FibreChannelPorts(context.Background(), "sysA")
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, "lpar1", ports[0].Partition)

	_, err = client.FibreChannelPorts(context.Background(), "sysB")
	assert.ErrorIs(t, err, ErrCommandFailed)
}

func TestEthernetPortsCapability(t *testing.T) {
	client := testClient(&fakeChannel{responses: map[string]fakeResponse{
		fcPortsCmd("sysA"):  {stdout: nil},
		ethPortsCmd("sysA"): {stdout: []string{"lpar1;123456789ABC"}},
		ethPortsCmd("sysB"): {status: 1, stderr: "HSCL963C unsupported"},
		ethPortsCmd("sysC"): {err: ErrCommandChannel},
	}})

	res := client.EthernetPorts(context.Background(), "sysA")
	assert.Equal(t, EthernetSupported, res.Capability)
	require.Len(t, res.Ports, 1)

	res = client.EthernetPorts(context.Background(), "sysB")
	assert.Equal(t, EthernetUnsupported, res.Capability)
	assert.NoError(t, res.Err)

	res = client.EthernetPorts(context.Background(), "sysC")
	assert.Equal(t, EthernetFailed, res.Capability)
	assert.Error(t, res.Err)
}
