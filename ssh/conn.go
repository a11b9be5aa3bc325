// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ssh connects to the device hosting the native ICU test binaries.
package ssh

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/net/proxy"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const (
	defaultSSHUser = "root"
	defaultSSHPort = 22
)

// targetRegexp is used to parse targets passed to ParseTarget.
var targetRegexp = regexp.MustCompile("^([^@]+@)?([^@]+)$")

// ExitError is returned by Conn.Run when the remote command exits with a
// non-zero status.
type ExitError = ssh.ExitError

// Conn represents an SSH connection to the device.
type Conn struct {
	cl *ssh.Client
}

// Options contains options used when connecting to an SSH server.
type Options struct {
	// User is the username to use when connecting.
	User string
	// Hostname is the SSH server's "host:port".
	Hostname string

	// KeyFile is an optional path to an unencrypted SSH private key.
	KeyFile string
	// KeyDir is an optional directory (typically $HOME/.ssh) containing
	// standard unencrypted SSH keys to try after KeyFile.
	KeyDir string

	// ConnectTimeout bounds establishing the TCP connection and handshake.
	ConnectTimeout time.Duration
	// ConnectRetries is the number of times to retry after a connection failure.
	ConnectRetries int
	// ConnectRetryInterval is the minimum time between connection attempts.
	ConnectRetryInterval time.Duration

	// WarnFunc (if non-nil) receives non-fatal errors encountered while connecting.
	WarnFunc func(string)

	// Clock is used to pace connection retries. The real clock is used if nil.
	Clock clock.Clock
}

// ParseTarget parses target (of the form "[<user>@]host[:<port>]") and fills
// the User and Hostname fields in o.
func ParseTarget(target string, o *Options) error {
	m := targetRegexp.FindStringSubmatch(target)
	if m == nil {
		return errors.Errorf("couldn't parse %q as \"[user@]hostname[:port]\"", target)
	}

	o.User = defaultSSHUser
	if m[1] != "" {
		o.User = m[1][0 : len(m[1])-1]
	}

	if _, _, err := net.SplitHostPort(m[2]); err != nil {
		o.Hostname = net.JoinHostPort(m[2], strconv.Itoa(defaultSSHPort))
	} else {
		o.Hostname = m[2]
	}
	return nil
}

// authMethods returns authentication methods to use when connecting.
func authMethods(o *Options) ([]ssh.AuthMethod, error) {
	var signers []ssh.Signer
	if o.KeyFile != "" {
		s, _, err := readPrivateKey(o.KeyFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read private key %s", o.KeyFile)
		}
		signers = append(signers, s)
	}
	if o.KeyDir != "" {
		for _, fn := range []string{"testing_rsa", "id_ecdsa", "id_ed25519", "id_rsa"} {
			p := filepath.Join(o.KeyDir, fn)
			if p == o.KeyFile {
				continue
			}
			if _, err := os.Stat(p); os.IsNotExist(err) {
				continue
			}
			if s, readOK, err := readPrivateKey(p); err == nil {
				signers = append(signers, s)
			} else if readOK {
				o.warn(fmt.Sprintf("Failed to parse %v: %v", p, err))
			}
		}
	}

	var methods []ssh.AuthMethod
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if a, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(a).Signers))
		} else {
			o.warn(fmt.Sprintf("Failed to connect to ssh-agent at %v: %v", sock, err))
		}
	}

	stdin := int(os.Stdin.Fd())
	if term.IsTerminal(stdin) {
		prefix := "[" + o.Hostname + "] "
		methods = append(methods, ssh.KeyboardInteractive(
			func(user, inst string, qs []string, echos []bool) ([]string, error) {
				answers := make([]string, len(qs))
				for i, q := range qs {
					os.Stdout.WriteString(prefix + q)
					b, err := term.ReadPassword(stdin)
					os.Stdout.WriteString("\n")
					if err != nil {
						return nil, err
					}
					answers[i] = string(b)
				}
				return answers, nil
			}))
	}
	return methods, nil
}

// readPrivateKey reads and decodes a passphraseless private SSH key from path.
// readOK reports whether the file itself could be read.
func readPrivateKey(path string) (s ssh.Signer, readOK bool, err error) {
	k, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	s, err = ssh.ParsePrivateKey(k)
	return s, true, err
}

func (o *Options) warn(msg string) {
	if o.WarnFunc != nil {
		o.WarnFunc(msg)
	}
}

// New establishes an SSH connection to the host described in o.
// Callers must call Conn.Close after using it.
func New(ctx context.Context, o *Options) (*Conn, error) {
	if o.User == "" {
		o.User = defaultSSHUser
	}
	clk := o.Clock
	if clk == nil {
		clk = clock.NewClock()
	}

	am, err := authMethods(o)
	if err != nil {
		return nil, err
	}
	cfg := &ssh.ClientConfig{
		User:            o.User,
		Auth:            am,
		Timeout:         o.ConnectTimeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	for i := 0; ; i++ {
		start := clk.Now()
		cl, err := connect(ctx, o.Hostname, cfg)
		if err == nil {
			return &Conn{cl}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if i >= o.ConnectRetries {
			return nil, errors.Wrapf(err, "failed to connect to %s", o.Hostname)
		}

		remaining := o.ConnectRetryInterval - clk.Since(start)
		if remaining <= 0 {
			o.warn(fmt.Sprintf("Retrying SSH connection: %v", err))
			continue
		}
		o.warn(fmt.Sprintf("Retrying SSH connection in %v: %v", remaining.Round(time.Millisecond), err))
		select {
		case <-clk.After(remaining):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// connect dials hostPort, honoring proxy settings in the environment, and
// performs the SSH handshake. The handshake is aborted if ctx is done or
// cfg.Timeout elapses first.
func connect(ctx context.Context, hostPort string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	conn, err := proxy.Dial(ctx, "tcp", hostPort)
	if err != nil {
		return nil, err
	}
	// ssh.NewClientConn takes no context; closing conn unblocks it.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	c, chans, reqs, err := ssh.NewClientConn(conn, hostPort, cfg)
	if !stop() {
		if err == nil {
			c.Close()
		}
		return nil, ctx.Err()
	}
	if err != nil {
		conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

// Close closes the underlying connection to the host.
func (c *Conn) Close() error {
	return c.cl.Close()
}

// Run runs cmd as a shell command line on the host, copying its standard
// output and error to stdout and stderr.
//
// A non-zero exit status is reported as *ExitError. If ctx is done before the
// command finishes, the remote process is killed and ctx.Err() is returned.
func (c *Conn) Run(ctx context.Context, cmd string, stdout, stderr io.Writer) error {
	sess, err := c.cl.NewSession()
	if err != nil {
		return errors.Wrap(err, "failed to open SSH session")
	}
	defer sess.Close()

	outPipe, err := sess.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout")
	}
	errPipe, err := sess.StderrPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stderr")
	}
	if err := sess.Start(cmd); err != nil {
		return errors.Wrapf(err, "failed to start %q", cmd)
	}

	done := make(chan error, 1)
	go func() {
		var g errgroup.Group
		g.Go(func() error {
			_, err := io.Copy(stdout, outPipe)
			return err
		})
		g.Go(func() error {
			_, err := io.Copy(stderr, errPipe)
			return err
		})
		copyErr := g.Wait()
		if err := sess.Wait(); err != nil {
			done <- err
			return
		}
		done <- copyErr
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		sess.Signal(ssh.SIGKILL)
		sess.Close()
		<-done
		return ctx.Err()
	}
}
