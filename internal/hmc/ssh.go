package hmc

import (
	"bytes"
	"context"
	"net"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"

	"github.com/zabuzafr/lparsync/internal/config"
)

const sshPort = "22"

// SSHChannel runs commands on the HMC over SSH. A fresh connection is made
// per command; the HMC restricted shell does not reward long-lived sessions
// and a one-shot run issues only a handful of commands.
type SSHChannel struct {
	addr         string
	clientConfig *ssh.ClientConfig
}

// NewSSHChannel returns a channel for the configured HMC endpoint.
func NewSSHChannel(opts *config.HMCOptions) *SSHChannel {
	addr := opts.Endpoint
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, sshPort)
	}

	return &SSHChannel{
		addr: addr,
		clientConfig: &ssh.ClientConfig{
			User: opts.User,
			Auth: []ssh.AuthMethod{
				ssh.Password(opts.Password),
			},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(), // nolint:gosec // HMC host keys are not distributed out of band.
			Timeout:         opts.CommandTimeout,
		},
	}
}

// Execute runs one command and returns its exit status, stdout lines and
// stderr text. A non-zero exit status is not an error here; err is set only
// when the command could not be run at all.
func (c *SSHChannel) Execute(ctx context.Context, command string) (int, []string, string, error) {
	client, err := c.dial(ctx)
	if err != nil {
		return 0, nil, "", errors.Wrap(ErrCommandChannel, err.Error())
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return 0, nil, "", errors.Wrap(ErrCommandChannel, err.Error())
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return 0, nil, "", errors.Wrap(ErrCommandTimeout, ctx.Err().Error())
	}

	status := 0

	if err != nil {
		var exitErr *ssh.ExitError
		if !errors.As(err, &exitErr) {
			return 0, nil, stderr.String(), errors.Wrap(ErrCommandChannel, err.Error())
		}

		// The command ran and exited non-zero; the caller decides what
		// that means.
		status = exitErr.ExitStatus()
	}

	return status, splitLines(stdout.String()), stderr.String(), nil
}

// dial opens the TCP connection under the caller's context so cancellation
// interrupts a hang at connect time, then completes the SSH handshake.
func (c *SSHChannel) dial(ctx context.Context) (*ssh.Client, error) {
	dialer := &net.Dialer{Timeout: c.clientConfig.Timeout}

	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, err
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, c.addr, c.clientConfig)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return ssh.NewClient(sshConn, chans, reqs), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
