package wfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io/fs"
)

// Inode is the in-memory view of one 512-byte inode-table slot (§3). Blocks
// holds the seven direct pointers followed by the single indirect pointer at
// index IndirectIndex; every non-zero entry is an absolute byte offset into
// the data region of whichever disk holds it (§4.6/§4.7).
type Inode struct {
	Num    uint32
	Mode   uint32
	Uid    uint32
	Gid    uint32
	Size   uint64
	NLinks uint32
	Atim   int64
	Mtim   int64
	Ctim   int64
	Blocks [NumBlockPointers]uint64
}

// inodeOrder is the byte order every on-disk integer uses.
var inodeOrder = binary.LittleEndian

// inodeRecordSize is how many bytes of the 512-byte slot actually carry
// Inode fields; the remainder of the slot is left zero.
const inodeRecordSize = 4*4 + 8 + 4 + 8*3 + NumBlockPointers*offsetSize

func init() {
	if inodeRecordSize > BlockSize {
		panic("wfs: inode record does not fit in one block")
	}
}

// MarshalBinary encodes the inode into a BlockSize-length slot.
func (ino *Inode) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(BlockSize)
	fields := []any{ino.Num, ino.Mode, ino.Uid, ino.Gid, ino.Size, ino.NLinks, ino.Atim, ino.Mtim, ino.Ctim}
	for _, f := range fields {
		if err := binary.Write(buf, inodeOrder, f); err != nil {
			return nil, err
		}
	}
	for _, b := range ino.Blocks {
		if err := binary.Write(buf, inodeOrder, b); err != nil {
			return nil, err
		}
	}
	out := buf.Bytes()
	if len(out) < BlockSize {
		out = append(out, make([]byte, BlockSize-len(out))...)
	}
	return out, nil
}

// UnmarshalBinary decodes an inode from a BlockSize-length slot.
func (ino *Inode) UnmarshalBinary(data []byte) error {
	if len(data) < inodeRecordSize {
		return fmt.Errorf("wfs: inode slot too short (%d < %d)", len(data), inodeRecordSize)
	}
	r := bytes.NewReader(data)
	fields := []any{&ino.Num, &ino.Mode, &ino.Uid, &ino.Gid, &ino.Size, &ino.NLinks, &ino.Atim, &ino.Mtim, &ino.Ctim}
	for _, f := range fields {
		if err := binary.Read(r, inodeOrder, f); err != nil {
			return err
		}
	}
	for i := range ino.Blocks {
		if err := binary.Read(r, inodeOrder, &ino.Blocks[i]); err != nil {
			return err
		}
	}
	return nil
}

// IsDir reports whether this inode is a directory (§3 invariant 3: mode is
// exactly one of regular-file or directory).
func (ino *Inode) IsDir() bool {
	return ino.Mode&S_IFMT == S_IFDIR
}

// IsRegular reports whether this inode is a regular file.
func (ino *Inode) IsRegular() bool {
	return ino.Mode&S_IFMT == S_IFREG
}

// FileMode returns the fs.FileMode equivalent of this inode's Mode, for use
// by getattr and the FUSE bridge.
func (ino *Inode) FileMode() fs.FileMode {
	return UnixToMode(ino.Mode)
}

// slotOffset returns the absolute byte offset of inode n's 512-byte slot,
// given the inode table's base offset (§3: "slot n begins at
// i_blocks_ptr + n*512").
func slotOffset(iBlocksPtr uint64, n uint32) int64 {
	return int64(iBlocksPtr) + int64(n)*BlockSize
}
