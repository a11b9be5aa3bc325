// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package sshtest

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go.chromium.org/icutest/ssh"
)

const keyBits = 2048

var (
	keysOnce         sync.Once
	userKey, hostKey *rsa.PrivateKey
)

// Keys returns a user and host key pair shared by all tests in the binary.
// Generating RSA keys is slow, so it happens at most once.
func Keys() (user, host *rsa.PrivateKey) {
	keysOnce.Do(func() {
		var err error
		if userKey, err = rsa.GenerateKey(rand.Reader, keyBits); err != nil {
			panic(err)
		}
		if hostKey, err = rsa.GenerateKey(rand.Reader, keyBits); err != nil {
			panic(err)
		}
	})
	return userKey, hostKey
}

// WriteKey writes key in PEM form to a file under dir and returns its path.
func WriteKey(dir string, key *rsa.PrivateKey) (string, error) {
	data := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	p := filepath.Join(dir, "id_test")
	if err := os.WriteFile(p, data, 0600); err != nil {
		return "", err
	}
	return p, nil
}

// Connect starts a server serving handler and returns a connection to it.
// Both are torn down when the test finishes.
func Connect(t *testing.T, handler ExecHandler) *ssh.Conn {
	t.Helper()
	user, host := Keys()
	srv, err := NewSSHServer(&user.PublicKey, host, handler)
	if err != nil {
		t.Fatal("Failed to start SSH server: ", err)
	}
	t.Cleanup(func() { srv.Close() })

	keyFile, err := WriteKey(t.TempDir(), user)
	if err != nil {
		t.Fatal("Failed to write key: ", err)
	}
	opts := ssh.Options{KeyFile: keyFile}
	if err := ssh.ParseTarget(srv.Addr().String(), &opts); err != nil {
		t.Fatal(err)
	}
	conn, err := ssh.New(context.Background(), &opts)
	if err != nil {
		t.Fatal("Failed to connect: ", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}
