package pidfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pid")
	if err := Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	pid, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.pid"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pid")
	os.WriteFile(path, []byte("not-a-pid"), 0644)
	if _, err := Read(path); err == nil {
		t.Fatal("expected error for malformed file")
	}
}

func TestRemoveIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pid")
	if err := Write(path); err != nil {
		t.Fatal(err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("pid file still exists")
	}
}

func TestAlive(t *testing.T) {
	if !Alive(os.Getpid()) {
		t.Error("own process should be alive")
	}
	if Alive(0) || Alive(-1) {
		t.Error("invalid pids should not be alive")
	}
}
