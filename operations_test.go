package wfs_test

import (
	"bytes"
	"testing"

	"github.com/blockraid/wfs"
)

func TestMkdirMknodWriteReadRoundTrip(t *testing.T) {
	e, disks := newTestEngine(t, 2, 2<<20, wfs.Mirror, 64, 256)
	_ = disks

	if _, err := e.Mkdir("/a", 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := e.Mknod("/a/f", 0644); err != nil {
		t.Fatalf("Mknod: %v", err)
	}

	ino, err := e.Resolve("/a/f")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	n, err := e.WriteFile(ino, []byte("hello"), 0)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if n != 5 {
		t.Fatalf("WriteFile returned %d, want 5", n)
	}

	out := make([]byte, 5)
	n, err = e.ReadFile(ino, out, 0)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if n != 5 || string(out) != "hello" {
		t.Fatalf("ReadFile = %q (%d), want %q", out[:n], n, "hello")
	}

	if ino.Size < 5 {
		t.Errorf("inode size = %d, want >= 5", ino.Size)
	}
}

func TestMkdirDuplicateFails(t *testing.T) {
	e, _ := newTestEngine(t, 1, 1<<20, wfs.Stripe, 32, 224)

	if _, err := e.Mkdir("/a", 0755); err != nil {
		t.Fatalf("first Mkdir: %v", err)
	}
	if _, err := e.Mkdir("/a", 0755); err == nil {
		t.Fatal("expected EEXIST on duplicate mkdir")
	}
}

func TestRmdirRefusesNonEmptyThenSucceeds(t *testing.T) {
	e, _ := newTestEngine(t, 1, 1<<20, wfs.Stripe, 32, 224)

	if _, err := e.Mkdir("/a", 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := e.Mknod("/a/f", 0644); err != nil {
		t.Fatalf("Mknod: %v", err)
	}

	if err := e.Rmdir("/a"); err == nil {
		t.Fatal("expected error removing non-empty directory")
	}

	if err := e.Unlink("/a/f"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if err := e.Rmdir("/a"); err != nil {
		t.Fatalf("Rmdir after unlink: %v", err)
	}
	if _, err := e.Resolve("/a"); err == nil {
		t.Fatal("expected /a to be gone after rmdir")
	}
}

func TestRmdirRefusesRoot(t *testing.T) {
	e, _ := newTestEngine(t, 1, 1<<20, wfs.Stripe, 32, 224)
	if err := e.Rmdir("/"); err == nil {
		t.Fatal("expected error removing root")
	}
}

func TestIndirectBlockGrowth(t *testing.T) {
	e, _ := newTestEngine(t, 1, 1<<20, wfs.Stripe, 32, 224)

	if _, err := e.Mknod("/big", 0644); err != nil {
		t.Fatalf("Mknod: %v", err)
	}
	ino, err := e.Resolve("/big")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	const offset = wfs.DirectBlocks * wfs.BlockSize // 3584
	payload := []byte("indirect")
	if _, err := e.WriteFile(ino, payload, offset); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if ino.Blocks[wfs.IndirectIndex] == 0 {
		t.Error("expected indirect block to be allocated")
	}
	for i := 0; i < wfs.DirectBlocks; i++ {
		if ino.Blocks[i] != 0 {
			t.Errorf("direct block %d should remain unallocated, got %d", i, ino.Blocks[i])
		}
	}
	if int64(ino.Size) != offset+int64(len(payload)) {
		t.Errorf("size = %d, want %d", ino.Size, offset+int64(len(payload)))
	}

	out := make([]byte, len(payload))
	if _, err := e.ReadFile(ino, out, offset); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Errorf("read back %q, want %q", out, payload)
	}
}

func TestUnlinkMissingFails(t *testing.T) {
	e, _ := newTestEngine(t, 1, 1<<20, wfs.Stripe, 32, 224)
	if err := e.Unlink("/nope"); err == nil {
		t.Fatal("expected ENOENT-equivalent error for missing file")
	}
}
