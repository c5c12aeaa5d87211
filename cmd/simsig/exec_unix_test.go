//go:build unix

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExec_PropagatesExitStatus(t *testing.T) {
	if _, err := execute(t, "exec", "--", "true"); err != nil {
		t.Fatalf("true: %v", err)
	}

	_, err := execute(t, "exec", "--", "sh", "-c", "exit 3")
	var ec exitCodeError
	if !errors.As(err, &ec) || ec.code != 3 {
		t.Fatalf("expected exit status 3, got %v", err)
	}
}

func TestExec_ChildKilledBySignal(t *testing.T) {
	_, err := execute(t, "exec", "--", "sh", "-c", "kill -TERM $$")
	var ec exitCodeError
	if !errors.As(err, &ec) || ec.code != 143 {
		t.Fatalf("expected exit status 143, got %v", err)
	}
}

func TestExec_Timeout(t *testing.T) {
	start := time.Now()
	_, err := execute(t, "exec", "--timeout", "100ms", "--", "sleep", "5")
	var ec exitCodeError
	if !errors.As(err, &ec) || ec.code != timedOutStatus {
		t.Fatalf("expected exit status %d, got %v", timedOutStatus, err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("timeout took %s", elapsed)
	}
}

func TestExec_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simsig.toml")
	body := "graceful_shutdown = false\ntimeout = \"100ms\"\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "--config", path, "exec", "--", "sleep", "5")
	var ec exitCodeError
	if !errors.As(err, &ec) || ec.code != timedOutStatus {
		t.Fatalf("config timeout not applied: %v", err)
	}
}

func TestExec_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simsig.json")
	if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", path, "exec", "--", "true"); err == nil {
		t.Fatal("expected an error for an unsupported config format")
	}
}
