package wfs

import "testing"

func TestLayoutForOffsets(t *testing.T) {
	sb := layoutFor(32, 224)

	if sb.IBitmapPtr != uint64(superblockSize) {
		t.Errorf("IBitmapPtr = %d, want %d", sb.IBitmapPtr, superblockSize)
	}
	wantDBitmap := sb.IBitmapPtr + 32/8
	if sb.DBitmapPtr != wantDBitmap {
		t.Errorf("DBitmapPtr = %d, want %d", sb.DBitmapPtr, wantDBitmap)
	}
	wantIBlocks := uint64(roundUp512(int64(sb.DBitmapPtr + 224/8)))
	if sb.IBlocksPtr != wantIBlocks {
		t.Errorf("IBlocksPtr = %d, want %d", sb.IBlocksPtr, wantIBlocks)
	}
	wantDBlocks := sb.IBlocksPtr + 32*BlockSize
	if sb.DBlocksPtr != wantDBlocks {
		t.Errorf("DBlocksPtr = %d, want %d", sb.DBlocksPtr, wantDBlocks)
	}
}

func TestSuperblockRoundTrip(t *testing.T) {
	sb := layoutFor(64, 256)
	sb.RaidModeCode = Mirror.diskCode()
	sb.DiskID = 1

	buf, err := sb.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	var got Superblock
	if err := got.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got != sb {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, sb)
	}
}

func TestSuperblockUnmarshalTooShort(t *testing.T) {
	var sb Superblock
	if err := sb.UnmarshalBinary(make([]byte, 4)); err == nil {
		t.Error("expected error for truncated superblock, got nil")
	}
}

func TestRaidModeFromDisk(t *testing.T) {
	cases := map[uint32]RaidMode{0: Stripe, 1: Mirror, 2: VerifiedMirror}
	for code, want := range cases {
		got, err := raidModeFromDisk(code)
		if err != nil {
			t.Fatalf("raidModeFromDisk(%d): %v", code, err)
		}
		if got != want {
			t.Errorf("raidModeFromDisk(%d) = %v, want %v", code, got, want)
		}
	}
	if _, err := raidModeFromDisk(99); err == nil {
		t.Error("expected error for invalid raid mode code")
	}
}

func TestParseRaidMode(t *testing.T) {
	cases := map[string]RaidMode{"0": Stripe, "1": Mirror, "1v": VerifiedMirror}
	for s, want := range cases {
		got, err := ParseRaidMode(s)
		if err != nil {
			t.Fatalf("ParseRaidMode(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("ParseRaidMode(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := ParseRaidMode("bogus"); err == nil {
		t.Error("expected error for invalid raid mode string")
	}
}
