package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile = ""
		verbose = false
		quiet = false
		clobberExtensions = nil
		clobberNames = nil
		preserveHidden = false
		preserveSpecial = false
		simulate = false
		exitStatus = 0
	})
}

func TestLoadRunConfigMergesFlags(t *testing.T) {
	resetFlags(t)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "scrub")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
[clobber]
extensions = ["bak"]

[preserve]
special = true
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	clobberExtensions = []string{"tmp"}
	clobberNames = []string{"core"}
	preserveHidden = true

	cfg, err := loadRunConfig()
	if err != nil {
		t.Fatalf("loadRunConfig() error = %v", err)
	}

	wantExts := []string{"bak", "tmp"}
	if len(cfg.Clobber.Extensions) != len(wantExts) {
		t.Fatalf("Extensions = %v, want %v", cfg.Clobber.Extensions, wantExts)
	}
	for i, want := range wantExts {
		if cfg.Clobber.Extensions[i] != want {
			t.Errorf("Extensions[%d] = %q, want %q", i, cfg.Clobber.Extensions[i], want)
		}
	}
	if len(cfg.Clobber.Names) != 1 || cfg.Clobber.Names[0] != "core" {
		t.Errorf("Names = %v, want [core]", cfg.Clobber.Names)
	}
	if !cfg.Preserve.Hidden {
		t.Error("Preserve.Hidden = false, want true from flag")
	}
	if !cfg.Preserve.Special {
		t.Error("Preserve.Special = false, want true from file")
	}
}

func TestLoadRunConfigNoFile(t *testing.T) {
	resetFlags(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	clobberExtensions = []string{"tmp"}

	cfg, err := loadRunConfig()
	if err != nil {
		t.Fatalf("loadRunConfig() error = %v", err)
	}
	if len(cfg.Clobber.Extensions) != 1 || cfg.Clobber.Extensions[0] != "tmp" {
		t.Errorf("Extensions = %v, want [tmp]", cfg.Clobber.Extensions)
	}
}

func TestLoadRunConfigRejectsDottedExtension(t *testing.T) {
	resetFlags(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	clobberExtensions = []string{".tmp"}

	if _, err := loadRunConfig(); err == nil {
		t.Fatal("loadRunConfig() expected error for dotted extension flag, got nil")
	}
}

func TestRootNoArgsPrintsHelp(t *testing.T) {
	resetFlags(t)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v, want nil for no arguments", err)
	}
	if exitStatus != 0 {
		t.Errorf("exitStatus = %d, want 0", exitStatus)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Errorf("help output missing usage:\n%s", out.String())
	}
}

func TestRootUnknownFlagFails(t *testing.T) {
	resetFlags(t)

	// main maps any Execute error to an EINVAL exit.
	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--no-such-flag"})

	if err := root.Execute(); err == nil {
		t.Fatal("Execute() expected error for unknown flag, got nil")
	}
}

func TestRootScrubsDirtyRoot(t *testing.T) {
	resetFlags(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	for _, name := range []string{"keep.txt", "del.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"-c", "tmp", dir})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := os.Lstat(filepath.Join(dir, "del.tmp")); !os.IsNotExist(err) {
		t.Error("del.tmp should be removed")
	}
	if _, err := os.Lstat(filepath.Join(dir, "keep.txt")); err != nil {
		t.Errorf("keep.txt should survive: %v", err)
	}
	if got, want := exitStatus, int(unix.ENOTEMPTY); got != want {
		t.Errorf("exitStatus = %d, want %d for dirty root", got, want)
	}
}

func TestRootScrubsCleanRoot(t *testing.T) {
	resetFlags(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "del.tmp"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"-c", "tmp", dir})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if exitStatus != 0 {
		t.Errorf("exitStatus = %d, want 0 for fully collapsed root", exitStatus)
	}
}

func TestNewServiceConfig(t *testing.T) {
	cfg := newServiceConfig("", 30*time.Minute, []string{"/srv/data"})

	if cfg.Name != serviceName {
		t.Errorf("Name = %q, want %q", cfg.Name, serviceName)
	}
	want := []string{"watch", "--interval", "30m0s", "/srv/data"}
	if len(cfg.Arguments) != len(want) {
		t.Fatalf("Arguments = %v, want %v", cfg.Arguments, want)
	}
	for i, arg := range cfg.Arguments {
		if arg != want[i] {
			t.Errorf("Arguments[%d] = %q, want %q", i, arg, want[i])
		}
	}
	if v, ok := cfg.Option["UserService"]; !ok || v != true {
		t.Errorf("Option[UserService] = %v, want true", v)
	}
}

func TestNewServiceConfigWithConfigPath(t *testing.T) {
	cfg := newServiceConfig("/etc/scrub/config.toml", time.Hour, []string{"/a", "/b"})

	want := []string{"watch", "--interval", "1h0m0s", "--config", "/etc/scrub/config.toml", "/a", "/b"}
	if len(cfg.Arguments) != len(want) {
		t.Fatalf("Arguments length = %d, want %d", len(cfg.Arguments), len(want))
	}
	for i, arg := range cfg.Arguments {
		if arg != want[i] {
			t.Errorf("Arguments[%d] = %q, want %q", i, arg, want[i])
		}
	}
}
