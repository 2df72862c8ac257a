package wfs_test

import (
	"os"
	"testing"

	"github.com/blockraid/wfs"
)

// newTestDisk creates a zero-filled temporary backing file of size bytes.
func newTestDisk(t *testing.T, size int64) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "wfsdisk-*")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	return f.Name()
}

// newTestEngine formats n disks of the given size with numInodes/numBlocks
// and opens an Engine over them.
func newTestEngine(t *testing.T, n int, size int64, mode wfs.RaidMode, numInodes, numBlocks uint32) (*wfs.Engine, []string) {
	t.Helper()
	var disks []string
	for i := 0; i < n; i++ {
		disks = append(disks, newTestDisk(t, size))
	}

	err := wfs.Format(wfs.FormatOptions{
		Disks:     disks,
		Mode:      mode,
		NumInodes: numInodes,
		NumBlocks: numBlocks,
	})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	ds, err := wfs.OpenDisks(disks)
	if err != nil {
		t.Fatalf("OpenDisks: %v", err)
	}
	e, err := wfs.Open(ds)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e, disks
}
