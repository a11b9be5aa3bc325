// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config defines the configuration of a discovery or test run.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"go.chromium.org/icutest/internal/command"
)

// Mode describes the action to perform.
type Mode int

const (
	// RunTestsMode indicates that tests should be run and their results reported.
	RunTestsMode Mode = iota
	// ListTestsMode indicates that tests should only be listed.
	ListTestsMode
)

const (
	defaultTestDir           = "/data/local/tmp"
	defaultNativeTestTimeout = 60 * time.Second
	defaultConnectTimeout    = 10 * time.Second
	defaultResultsDir        = "icutest_results"
)

// MutableConfig is similar to Config, but its fields are mutable.
// Call Freeze to obtain a Config from MutableConfig.
type MutableConfig struct {
	// See Config for descriptions of these fields.

	Mode Mode

	Target         string
	KeyFile        string
	KeyDir         string
	Local          bool
	SSHRetries     int
	ConnectTimeout time.Duration

	TestDir             string
	ModuleName          string
	CommandFilterPrefix string
	NativeTestTimeout   time.Duration
	RunTestAs           string
	NoFailDataErrors    bool

	IncludeFilters []string
	ExcludeFilters []string

	CollectTestsOnly bool
	ResultsDir       string
	ConfigFile       string
}

// Config contains shared configuration information for listing and running
// tests. It is a read-only view of MutableConfig.
type Config struct {
	m *MutableConfig
}

// Mode returns the action to perform.
func (c *Config) Mode() Mode { return c.m.Mode }

// Target returns the device to connect to, as "[<user>@]host[:<port>]".
func (c *Config) Target() string { return c.m.Target }

// KeyFile returns the path to the SSH private key used to connect to Target.
func (c *Config) KeyFile() string { return c.m.KeyFile }

// KeyDir returns the directory containing SSH private keys.
func (c *Config) KeyDir() string { return c.m.KeyDir }

// Local returns true if commands run on this host instead of over SSH.
func (c *Config) Local() bool { return c.m.Local }

// SSHRetries returns the number of SSH connect retries.
func (c *Config) SSHRetries() int { return c.m.SSHRetries }

// ConnectTimeout returns the timeout of each SSH connection attempt.
func (c *Config) ConnectTimeout() time.Duration { return c.m.ConnectTimeout }

// TestDir returns the directory on the device containing test binaries.
func (c *Config) TestDir() string { return c.m.TestDir }

// ModuleName returns the test binary name, e.g. "intltest".
func (c *Config) ModuleName() string { return c.m.ModuleName }

// CommandFilterPrefix returns the string prepended to translated filters.
func (c *Config) CommandFilterPrefix() string { return c.m.CommandFilterPrefix }

// NativeTestTimeout returns the timeout of each command run on the device.
func (c *Config) NativeTestTimeout() time.Duration { return c.m.NativeTestTimeout }

// RunTestAs returns the user to run the binary as, or empty to run it as
// the connecting user.
func (c *Config) RunTestAs() string { return c.m.RunTestAs }

// NoFailDataErrors returns true if missing data files should only produce
// warnings (the binary's -w flag).
func (c *Config) NoFailDataErrors() bool { return c.m.NoFailDataErrors }

// IncludeFilters returns the dotted filters selecting tests to run.
func (c *Config) IncludeFilters() []string { return append([]string(nil), c.m.IncludeFilters...) }

// ExcludeFilters returns the dotted filters of tests to skip. They are not
// supported by the binaries and only produce a warning.
func (c *Config) ExcludeFilters() []string { return append([]string(nil), c.m.ExcludeFilters...) }

// CollectTestsOnly returns true if tests should be listed instead of run.
func (c *Config) CollectTestsOnly() bool { return c.m.CollectTestsOnly }

// ResultsDir returns the local directory where catalogs and reports are written.
func (c *Config) ResultsDir() string { return c.m.ResultsDir }

// BinaryPath returns the path of the test binary on the device.
func (c *Config) BinaryPath() string { return c.m.TestDir + "/" + c.m.ModuleName }

// NewMutableConfig returns a new configuration for mode.
func NewMutableConfig(mode Mode) *MutableConfig {
	return &MutableConfig{
		Mode:             mode,
		CollectTestsOnly: mode == ListTestsMode,
	}
}

// SetFlags adds flags to f that store values in c.
func (c *MutableConfig) SetFlags(f *flag.FlagSet) {
	kd := filepath.Join(os.Getenv("HOME"), ".ssh")
	if _, err := os.Stat(kd); err != nil {
		kd = ""
	}
	f.StringVar(&c.KeyFile, "keyfile", "", "path to private SSH key")
	f.StringVar(&c.KeyDir, "keydir", kd, "directory containing SSH keys")
	f.BoolVar(&c.Local, "local", false, "run commands on this host instead of connecting to a device")
	f.IntVar(&c.SSHRetries, "sshretries", 0, "number of SSH connect retries")
	f.Var(command.NewDurationFlag(time.Second, &c.ConnectTimeout, defaultConnectTimeout), "connecttimeout", "timeout of each SSH connection attempt in seconds")

	f.StringVar(&c.TestDir, "testdir", defaultTestDir, "directory on the device containing test binaries")
	f.StringVar(&c.ModuleName, "module", "", "test binary to use, e.g. intltest or cintltst")
	f.StringVar(&c.CommandFilterPrefix, "filterprefix", "", "string replacing the leading slash of translated filters")
	f.Var(command.NewDurationFlag(time.Millisecond, &c.NativeTestTimeout, defaultNativeTestTimeout), "timeout", "timeout of each command run on the device in milliseconds")
	f.StringVar(&c.ResultsDir, "resultsdir", defaultResultsDir, "local directory where catalogs and reports are written")
	f.StringVar(&c.ConfigFile, "config", "", "YAML file supplying defaults for unset flags")

	include := command.RepeatedFlag(func(v string) error {
		c.IncludeFilters = append(c.IncludeFilters, v)
		return nil
	})
	f.Var(&include, "include", "dotted filter selecting tests, e.g. intltest.format.NumberTest (may be repeated)")

	if c.Mode != RunTestsMode {
		return
	}
	f.Var(command.NewListFlag(",", func(v []string) { c.ExcludeFilters = v }, nil), "exclude",
		"comma-separated dotted filters of tests to skip; unsupported and only logged")
	f.StringVar(&c.RunTestAs, "runas", "", "user to run the test binary as")
	f.BoolVar(&c.NoFailDataErrors, "nofaildataerrors", false, "pass -w so missing data files only produce warnings")
	f.BoolVar(&c.CollectTestsOnly, "collectonly", false, "write the test catalog instead of running tests")
}

// fileConfig is the YAML form of a configuration file. Each key is named
// after the flag it supplies a default for.
type fileConfig struct {
	Target           *string        `yaml:"target"`
	KeyFile          *string        `yaml:"keyfile"`
	KeyDir           *string        `yaml:"keydir"`
	Local            *bool          `yaml:"local"`
	SSHRetries       *int           `yaml:"sshretries"`
	ConnectTimeout   *time.Duration `yaml:"connecttimeout"`
	TestDir          *string        `yaml:"testdir"`
	Module           *string        `yaml:"module"`
	FilterPrefix     *string        `yaml:"filterprefix"`
	Timeout          *time.Duration `yaml:"timeout"`
	ResultsDir       *string        `yaml:"resultsdir"`
	Include          []string       `yaml:"include"`
	Exclude          []string       `yaml:"exclude"`
	RunAs            *string        `yaml:"runas"`
	NoFailDataErrors *bool          `yaml:"nofaildataerrors"`
	CollectOnly      *bool          `yaml:"collectonly"`
}

// LoadFile reads the YAML file at path and copies its values into fields
// whose flags were not set explicitly on f. Durations are written as Go
// duration strings such as "90s".
func (c *MutableConfig) LoadFile(path string, f *flag.FlagSet) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}
	var fc fileConfig
	if err := yaml.UnmarshalStrict(b, &fc); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}

	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	setString := func(name string, dst, src *string) {
		if src != nil && !set[name] {
			*dst = *src
		}
	}
	setBool := func(name string, dst, src *bool) {
		if src != nil && !set[name] {
			*dst = *src
		}
	}
	setDuration := func(name string, dst, src *time.Duration) {
		if src != nil && !set[name] {
			*dst = *src
		}
	}
	setList := func(name string, dst *[]string, src []string) {
		if src != nil && !set[name] {
			*dst = append([]string(nil), src...)
		}
	}

	if fc.Target != nil && c.Target == "" {
		c.Target = *fc.Target
	}
	setString("keyfile", &c.KeyFile, fc.KeyFile)
	setString("keydir", &c.KeyDir, fc.KeyDir)
	setBool("local", &c.Local, fc.Local)
	if fc.SSHRetries != nil && !set["sshretries"] {
		c.SSHRetries = *fc.SSHRetries
	}
	setDuration("connecttimeout", &c.ConnectTimeout, fc.ConnectTimeout)
	setString("testdir", &c.TestDir, fc.TestDir)
	setString("module", &c.ModuleName, fc.Module)
	setString("filterprefix", &c.CommandFilterPrefix, fc.FilterPrefix)
	setDuration("timeout", &c.NativeTestTimeout, fc.Timeout)
	setString("resultsdir", &c.ResultsDir, fc.ResultsDir)
	setList("include", &c.IncludeFilters, fc.Include)
	if c.Mode == RunTestsMode {
		setList("exclude", &c.ExcludeFilters, fc.Exclude)
		setString("runas", &c.RunTestAs, fc.RunAs)
		setBool("nofaildataerrors", &c.NoFailDataErrors, fc.NoFailDataErrors)
		setBool("collectonly", &c.CollectTestsOnly, fc.CollectOnly)
	}
	return nil
}

// DeriveDefaults validates c and fills fields that depend on others.
func (c *MutableConfig) DeriveDefaults() error {
	if c.ModuleName == "" {
		return errors.New("no test binary specified; set -module")
	}
	if strings.Contains(c.ModuleName, "/") {
		return errors.Errorf("module %q must be a binary name, not a path; set -testdir instead", c.ModuleName)
	}
	if !c.Local && c.Target == "" {
		return errors.New("no target specified; pass a target or -local")
	}
	if c.NativeTestTimeout <= 0 {
		return errors.Errorf("invalid timeout %v", c.NativeTestTimeout)
	}
	c.TestDir = strings.TrimSuffix(c.TestDir, "/")
	return nil
}

// Freeze returns a frozen configuration object.
func (c *MutableConfig) Freeze() *Config {
	return &Config{m: c}
}
