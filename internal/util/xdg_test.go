package util

import (
	"path/filepath"
	"testing"
)

func TestGetXDGDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	got, err := GetXDGDataDir()
	if err != nil {
		t.Fatalf("GetXDGDataDir() error = %v", err)
	}
	if want := filepath.Join("/tmp/xdg-data", "mhabit"); got != want {
		t.Errorf("GetXDGDataDir() = %q, want %q", got, want)
	}
}

func TestGetXDGDataDir_HomeFallback(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/tester")

	got, err := GetXDGDataDir()
	if err != nil {
		t.Fatalf("GetXDGDataDir() error = %v", err)
	}
	if want := filepath.Join("/home/tester", ".local", "share", "mhabit"); got != want {
		t.Errorf("GetXDGDataDir() = %q, want %q", got, want)
	}
}

func TestGetXDGStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")

	got, err := GetXDGStateDir()
	if err != nil {
		t.Fatalf("GetXDGStateDir() error = %v", err)
	}
	if want := filepath.Join("/tmp/xdg-state", "mhabit"); got != want {
		t.Errorf("GetXDGStateDir() = %q, want %q", got, want)
	}
}
