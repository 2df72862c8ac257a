package wfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
)

// Superblock is the first record on every backing disk (§3). All integer
// fields are little-endian on disk, as required by §6.
type Superblock struct {
	NumInodes     uint32
	NumDataBlocks uint32
	IBitmapPtr    uint64
	DBitmapPtr    uint64
	IBlocksPtr    uint64
	DBlocksPtr    uint64
	RaidModeCode  uint32
	DiskID        uint32
}

// superblockOrder is the byte order every on-disk integer uses.
var superblockOrder = binary.LittleEndian

// superblockSize is the fixed on-disk size of a Superblock, computed once
// from the exported field list the same way the teacher's reflect-driven
// codec does, so adding a field here can never silently desynchronize
// MarshalBinary/UnmarshalBinary from the real struct size.
var superblockSize = binarySize(reflect.TypeOf(Superblock{}))

func binarySize(t reflect.Type) int {
	sz := 0
	for i := 0; i < t.NumField(); i++ {
		sz += int(t.Field(i).Type.Size())
	}
	return sz
}

// MarshalBinary encodes the superblock in its on-disk layout.
func (sb *Superblock) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	v := reflect.ValueOf(*sb)
	for i := 0; i < v.NumField(); i++ {
		if err := binary.Write(buf, superblockOrder, v.Field(i).Interface()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a superblock from its on-disk layout.
func (sb *Superblock) UnmarshalBinary(data []byte) error {
	if len(data) < superblockSize {
		return fmt.Errorf("%w: record too short (%d < %d)", ErrBadSuperblock, len(data), superblockSize)
	}
	r := bytes.NewReader(data)
	v := reflect.ValueOf(sb).Elem()
	for i := 0; i < v.NumField(); i++ {
		if err := binary.Read(r, superblockOrder, v.Field(i).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// RaidMode decodes the stored integer code into the engine's internal tag.
func (sb *Superblock) RaidMode() (RaidMode, error) {
	return raidModeFromDisk(sb.RaidModeCode)
}

// layoutFor computes the section offsets for a freshly formatted disk
// holding numInodes inodes and numDataBlocks data blocks (§3). Both counts
// must already be rounded up to a multiple of 32.
func layoutFor(numInodes, numDataBlocks uint32) Superblock {
	sb := Superblock{
		NumInodes:     numInodes,
		NumDataBlocks: numDataBlocks,
	}
	sb.IBitmapPtr = uint64(superblockSize)
	sb.DBitmapPtr = sb.IBitmapPtr + uint64(numInodes)/8
	sb.IBlocksPtr = uint64(roundUp512(int64(sb.DBitmapPtr + uint64(numDataBlocks)/8)))
	sb.DBlocksPtr = sb.IBlocksPtr + uint64(numInodes)*BlockSize
	return sb
}

// requiredSize is the minimum backing file size this layout needs (§4.1).
func (sb *Superblock) requiredSize() int64 {
	return int64(sb.DBlocksPtr) + int64(sb.NumDataBlocks)*BlockSize
}
