package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLoggingDisabledNeverCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronoforge.log")
	logger, closeFn, err := setupLogging(false, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()

	logger.Infow("should be discarded")

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("log file was created with debug disabled: %v", err)
	}
}

func TestSetupLoggingEnabledWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronoforge.log")
	logger, closeFn, err := setupLogging(true, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Infow("hello", "k", "v")
	closeFn()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("log file is empty")
	}
}

func TestRotateIfOversizedRenamesLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronoforge.log")
	big := make([]byte, maxLogSize+1)
	if err := os.WriteFile(path, big, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := rotateIfOversized(path); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("original path should have been renamed away")
	}
	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
}
