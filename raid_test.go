package wfs_test

import (
	"bytes"
	"testing"

	"github.com/blockraid/wfs"
)

// TestStripePlacement checks §4.7's RAID-0 rule directly: logical block g
// physically lives on disk g mod N, at the offset recorded in the inode.
func TestStripePlacement(t *testing.T) {
	const n = 3
	e, _ := newTestEngine(t, n, 4<<20, wfs.Stripe, 32, 96)

	if _, err := e.Mknod("/f", 0644); err != nil {
		t.Fatalf("Mknod: %v", err)
	}
	ino, err := e.Resolve("/f")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	payload := make([]byte, 3*wfs.BlockSize)
	for g := 0; g < 3; g++ {
		for i := 0; i < wfs.BlockSize; i++ {
			payload[g*wfs.BlockSize+i] = byte(g + 1)
		}
	}
	if _, err := e.WriteFile(ino, payload, 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	for g := 0; g < 3; g++ {
		off := ino.Blocks[g]
		if off == 0 {
			t.Fatalf("block %d never allocated", g)
		}
		wantDisk := g % n
		for d := 0; d < n; d++ {
			region := e.Disks().At(d)
			got := region[int(off) : int(off)+wfs.BlockSize]
			wantByte := payload[g*wfs.BlockSize]
			if d == wantDisk {
				if got[0] != wantByte {
					t.Errorf("block %d: disk %d (owning) byte = %d, want %d", g, d, got[0], wantByte)
				}
			}
		}
	}
}

// TestStripeIndirectUnlinkFreesEveryBlock guards against the indirect
// table being routed by the accessing logical index instead of a single
// fixed location: on RAID-0 with N>=2 disks, unlink must free every
// indirect slot, not just the ones that happen to land on whichever disk
// the last access routed through. NumBlocks is sized so that /big's
// indirect-spanning write consumes every block of the 32-block pool the
// root directory's one block leaves free (30 data blocks plus the
// indirect block itself); if unlink leaks any of them, the follow-up
// write below cannot reclaim the 31 blocks it needs and fails with
// ErrNoSpace.
func TestStripeIndirectUnlinkFreesEveryBlock(t *testing.T) {
	const n = 3
	e, _ := newTestEngine(t, n, 4<<20, wfs.Stripe, 32, 32)

	if _, err := e.Mknod("/big", 0644); err != nil {
		t.Fatalf("Mknod: %v", err)
	}
	ino, err := e.Resolve("/big")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// 7 direct blocks + 23 indirect slots + 1 indirect block = 31 blocks,
	// the entire pool once the root directory's block is taken.
	payload := make([]byte, 30*wfs.BlockSize)
	if _, err := e.WriteFile(ino, payload, 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if ino.Blocks[wfs.IndirectIndex] == 0 {
		t.Fatal("expected indirect block to be allocated")
	}

	if err := e.Unlink("/big"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}

	// The whole pool must be reclaimed: a fresh file demanding all 31
	// blocks again must succeed.
	if _, err := e.Mknod("/check", 0644); err != nil {
		t.Fatalf("Mknod for recheck: %v", err)
	}
	check, err := e.Resolve("/check")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := e.WriteFile(check, payload, 0); err != nil {
		t.Fatalf("WriteFile after unlink: expected the full pool to have been reclaimed: %v", err)
	}
}

// TestVerifiedMirrorMajorityVote exercises §4.7's RAID-1v read policy and
// §8 scenario 4: a single corrupted copy is outvoted; an identical
// corruption on a majority of disks is returned as-is.
func TestVerifiedMirrorMajorityVote(t *testing.T) {
	e, _ := newTestEngine(t, 3, 2<<20, wfs.VerifiedMirror, 32, 96)

	if _, err := e.Mknod("/f", 0644); err != nil {
		t.Fatalf("Mknod: %v", err)
	}
	ino, err := e.Resolve("/f")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	original := bytes.Repeat([]byte{0xAB}, wfs.BlockSize)
	if _, err := e.WriteFile(ino, original, 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	off := ino.Blocks[0]

	// Corrupt disk 1 only: majority (disks 0, 2) still agree.
	patch(t, e, 1, off, 0xFF)
	out := make([]byte, wfs.BlockSize)
	if _, err := e.ReadFile(ino, out, 0); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(out, original) {
		t.Error("single corrupted copy should be outvoted by the majority")
	}

	// Corrupt disks 1 and 2 identically: that's now the majority.
	patch(t, e, 2, off, 0xFF)
	if _, err := e.ReadFile(ino, out, 0); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, b := range out {
		if b != 0xFF {
			t.Error("matching corruption on the majority of disks should be returned as-is")
			break
		}
	}
}

func patch(t *testing.T, e *wfs.Engine, disk int, off uint64, b byte) {
	t.Helper()
	region := e.Disks().At(disk)
	for i := int(off); i < int(off)+wfs.BlockSize; i++ {
		region[i] = b
	}
}

// TestMirrorMetadataStaysIdentical checks §8's byte-identical invariant for
// mirrored modes after a mutation.
func TestMirrorMetadataStaysIdentical(t *testing.T) {
	e, _ := newTestEngine(t, 2, 2<<20, wfs.Mirror, 64, 256)

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
	if _, err := e.WriteFile(ino, []byte("hello"), 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sb, err := e.Disks().Superblock()
	if err != nil {
		t.Fatalf("Superblock: %v", err)
	}

	a := e.Disks().At(0)
	b := e.Disks().At(1)
	start := int(sb.IBitmapPtr)
	end := int(sb.NumDataBlocks)*wfs.BlockSize + int(sb.DBlocksPtr)
	if !bytes.Equal(a[start:end], b[start:end]) {
		t.Error("mirrored disks diverge from i_bitmap_ptr to end of disk")
	}
}
