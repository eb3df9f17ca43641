package hmc

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/zabuzafr/lparsync/internal/config"
)

// Channel abstracts command execution on the console so discovery can be
// tested without a live HMC.
type Channel interface {
	Execute(ctx context.Context, command string) (status int, stdout []string, stderr string, err error)
}

// Client issues the inventory commands on an HMC and parses their output.
type Client struct {
	channel Channel
	logger  *logrus.Entry
	timeout time.Duration
}

// NewClient returns a client over the given channel.
func NewClient(channel Channel, opts *config.HMCOptions, logger *logrus.Entry) *Client {
	return &Client{
		channel: channel,
		logger:  logger,
		timeout: opts.CommandTimeout,
	}
}

// ListManagedSystems returns the names of all managed systems the HMC
// controls, one per output line.
func (c *Client) ListManagedSystems(ctx context.Context) ([]string, error) {
	status, out, stderr, err := c.execute(ctx, listManagedSystemsCmd)
	if err != nil {
		return nil, err
	}

	if status != 0 {
		return nil, errors.Wrapf(ErrCommandFailed,
			"managed system listing: rc=%d stderr=%s", status, strings.TrimSpace(stderr))
	}

	var systems []string

	for _, line := range out {
		if name := strings.TrimSpace(line); name != "" {
			systems = append(systems, name)
		}
	}

	return systems, nil
}

// FibreChannelPorts lists the virtual FC ports per LPAR on one managed
// system. On failure the system contributes zero LPARs; the caller treats a
// returned error as exactly that.
func (c *Client) FibreChannelPorts(ctx context.Context, system string) ([]PartitionPorts, error) {
	status, out, stderr, err := c.execute(ctx, fcPortsCmd(system))
	if err != nil {
		c.logger.WithField("system", system).WithError(err).Warn("FC port listing failed")
		return nil, err
	}

	if status != 0 {
		err = errors.Wrapf(ErrCommandFailed,
			"FC port listing on %s: rc=%d stderr=%s", system, status, strings.TrimSpace(stderr))
		c.logger.WithFields(logrus.Fields{
			"system": system,
			"rc":     status,
		}).Warn("FC port listing failed")

		return nil, err
	}

	return ParseFibreChannel(out), nil
}

// EthernetPorts lists the virtual ethernet MACs per LPAR on one managed
// system. MAC discovery is best effort: a non-zero status means this
// platform level does not expose the listing and is only worth an
// informational note.
func (c *Client) EthernetPorts(ctx context.Context, system string) EthernetResult {
	status, out, stderr, err := c.execute(ctx, ethPortsCmd(system))
	if err != nil {
		c.logger.WithField("system", system).WithError(err).Info("ethernet port listing failed")
		return EthernetResult{Capability: EthernetFailed, Err: err}
	}

	if status != 0 {
		c.logger.WithFields(logrus.Fields{
			"system": system,
			"rc":     status,
			"stderr": strings.TrimSpace(stderr),
		}).Info("ethernet port listing unsupported on this platform level")

		return EthernetResult{Capability: EthernetUnsupported}
	}

	return EthernetResult{Capability: EthernetSupported, Ports: ParseEthernet(out)}
}

func (c *Client) execute(ctx context.Context, command string) (int, []string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.channel.Execute(ctx, command)
}
