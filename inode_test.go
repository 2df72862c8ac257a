package wfs

import "testing"

func TestInodeRoundTrip(t *testing.T) {
	ino := Inode{
		Num:    3,
		Mode:   S_IFREG | 0644,
		Uid:    1000,
		Gid:    1000,
		Size:   4096,
		NLinks: 1,
		Atim:   100,
		Mtim:   200,
		Ctim:   300,
	}
	ino.Blocks[0] = 12345
	ino.Blocks[IndirectIndex] = 999999

	buf, err := ino.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(buf) != BlockSize {
		t.Fatalf("MarshalBinary returned %d bytes, want %d", len(buf), BlockSize)
	}

	var got Inode
	if err := got.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got != ino {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, ino)
	}
}

func TestInodeIsDirIsRegular(t *testing.T) {
	dir := Inode{Mode: S_IFDIR | 0755}
	if !dir.IsDir() || dir.IsRegular() {
		t.Error("directory inode misclassified")
	}

	reg := Inode{Mode: S_IFREG | 0644}
	if reg.IsDir() || !reg.IsRegular() {
		t.Error("regular inode misclassified")
	}
}

func TestSlotOffset(t *testing.T) {
	const base = 4096
	if off := slotOffset(base, 0); off != base {
		t.Errorf("slotOffset(base, 0) = %d, want %d", off, base)
	}
	if off := slotOffset(base, 5); off != base+5*BlockSize {
		t.Errorf("slotOffset(base, 5) = %d, want %d", off, base+5*BlockSize)
	}
}
