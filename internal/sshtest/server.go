// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package sshtest provides an in-process SSH server for unit tests that
// exercise the ssh package and the SSH command channel.
package sshtest

import (
	"bytes"
	"crypto/rsa"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"net"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

// maxStringLen contains the maximum length for a string payload.
const maxStringLen = 2048

// SSHServer listens on localhost and serves "exec" requests with a
// caller-supplied ExecHandler. Clients authenticate with an RSA keypair.
type SSHServer struct {
	cfg      *ssh.ServerConfig
	listener net.Listener
	handler  ExecHandler
}

// ExecHandler is called to handle an "exec" request. It may be called
// concurrently for overlapping requests.
type ExecHandler func(req *ExecReq)

func newServerConfig(pk *rsa.PublicKey, hk *rsa.PrivateKey) (*ssh.ServerConfig, error) {
	pub, err := ssh.NewPublicKey(pk)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate SSH public key")
	}
	cfg := &ssh.ServerConfig{
		PublicKeyCallback: func(c ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if subtle.ConstantTimeCompare(key.Marshal(), pub.Marshal()) == 1 {
				return &ssh.Permissions{}, nil
			}
			return nil, errors.Errorf("unknown public key for %q", c.User())
		},
	}
	signer, err := ssh.NewSignerFromKey(hk)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate host signer")
	}
	cfg.AddHostKey(signer)
	return cfg, nil
}

// NewSSHServer creates a server using host key hk and accepting public key
// authentication with pk. A random localhost port is used.
func NewSSHServer(pk *rsa.PublicKey, hk *rsa.PrivateKey, handler ExecHandler) (*SSHServer, error) {
	cfg, err := newServerConfig(pk, hk)
	if err != nil {
		return nil, err
	}
	ls, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return nil, err
	}
	s := &SSHServer{cfg: cfg, listener: ls, handler: handler}

	go func() {
		for {
			conn, err := ls.Accept()
			if err != nil {
				return
			}
			go func() {
				if err := s.handleConn(conn); err != nil {
					log.Print("Got error while handling connection: ", err)
				}
			}()
		}
	}()
	return s, nil
}

// Close stops listening for connections.
func (s *SSHServer) Close() error {
	return s.listener.Close()
}

// Addr returns the address on which the server is listening.
func (s *SSHServer) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *SSHServer) handleConn(conn net.Conn) error {
	_, chans, reqs, err := ssh.NewServerConn(conn, s.cfg)
	if err != nil {
		return errors.Wrap(err, "failed to handshake")
	}
	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, fmt.Sprintf("%q unsupported", newChan.ChannelType()))
			continue
		}
		ch, chReqs, err := newChan.Accept()
		if err != nil {
			return errors.Wrap(err, "failed to accept channel")
		}
		go s.handleChannel(ch, chReqs)
	}
	return nil
}

// handleChannel services a session channel. Only "exec" requests are
// supported; "signal" requests close the channel.
func (s *SSHServer) handleChannel(ch ssh.Channel, reqs <-chan *ssh.Request) {
	defer ch.Close()

	for req := range reqs {
		switch req.Type {
		case "exec":
			cmd, err := readStringPayload(req.Payload)
			if err != nil || s.handler == nil {
				req.Reply(false, nil)
				continue
			}
			req.Reply(true, nil)
			// The handler runs in its own goroutine so that later requests
			// on the channel (e.g. signals) are still serviced.
			go func() {
				er := &ExecReq{Cmd: cmd, ch: ch}
				s.handler(er)
				ch.Close()
			}()
		case "signal":
			ch.Close()
			return
		default:
			if req.WantReply {
				req.Reply(false, nil)
			}
		}
	}
}

func readStringPayload(payload []byte) (string, error) {
	var slen uint32
	br := bytes.NewReader(payload)
	if err := binary.Read(br, binary.BigEndian, &slen); err != nil {
		return "", errors.Wrap(err, "failed to read length")
	}
	if slen > maxStringLen {
		return "", errors.Errorf("string length %v too big", slen)
	}
	b := make([]byte, slen)
	if _, err := io.ReadFull(br, b); err != nil {
		return "", errors.Wrapf(err, "failed to read %v-byte string", slen)
	}
	return string(b), nil
}

// ExecReq is an "exec" request being serviced.
type ExecReq struct {
	// Cmd contains the command line to be executed.
	Cmd string

	ch ssh.Channel
}

// Write writes stdout produced by the command.
func (e *ExecReq) Write(data []byte) (int, error) { return e.ch.Write(data) }

// Stderr returns a writer for stderr produced by the command.
func (e *ExecReq) Stderr() io.Writer { return e.ch.Stderr() }

// End closes the output streams and reports the command's exit status.
func (e *ExecReq) End(status int) error {
	e.ch.CloseWrite()
	var b bytes.Buffer
	binary.Write(&b, binary.BigEndian, uint32(status))
	_, err := e.ch.SendRequest("exit-status", false, b.Bytes())
	return err
}
