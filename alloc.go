package wfs

import (
	"fmt"
	"log"
)

// inodeBitmap returns the bitmap view over disk 0's inode bitmap region.
// Allocation is always centralised on disk 0 (§4.3); the synchroniser keeps
// every disk's metadata region identical afterwards.
func (e *Engine) inodeBitmap() bitmap {
	sb := e.sb
	bits := e.disks.Slice(0, int64(sb.IBitmapPtr), int(sb.DBitmapPtr-sb.IBitmapPtr))
	return newBitmap(bits, int(sb.NumInodes))
}

// dataBitmap returns the bitmap view over disk 0's data bitmap region. Data
// allocation is centralised on disk 0 too (§4.3): the bit chosen there picks
// the byte offset a block lives at, regardless of which physical disk ends
// up holding that offset under the current RAID mode (§4.7 routes by disk,
// not by a per-disk free-space search).
func (e *Engine) dataBitmap() bitmap {
	sb := e.sb
	bits := e.disks.Slice(0, int64(sb.DBitmapPtr), int(sb.IBlocksPtr-sb.DBitmapPtr))
	return newBitmap(bits, int(sb.NumDataBlocks))
}

// AllocInode finds and marks the first free inode number, or returns
// ErrNoSpace when the inode table is full (§4.3).
func (e *Engine) AllocInode() (uint32, error) {
	idx := e.inodeBitmap().allocFirstFit()
	if idx < 0 {
		return 0, ErrNoSpace
	}
	log.Printf("wfs: allocated inode %d", idx)
	return uint32(idx), nil
}

// FreeInode clears an inode's bitmap bit.
func (e *Engine) FreeInode(n uint32) {
	e.inodeBitmap().clear(int(n))
	log.Printf("wfs: freed inode %d", n)
}

// AllocBlock finds and marks the first free data-block bit and returns the
// absolute byte offset within a disk's data region that this index
// corresponds to (§4.3). The offset is the same number on every disk; which
// disk physically stores it is decided separately by the RAID routing in
// raid.go.
func (e *Engine) AllocBlock() (uint64, error) {
	idx := e.dataBitmap().allocFirstFit()
	if idx < 0 {
		return 0, ErrNoSpace
	}
	off := e.sb.DBlocksPtr + uint64(idx)*BlockSize
	log.Printf("wfs: allocated data block %d (offset %d)", idx, off)
	return off, nil
}

// FreeBlock clears the bit for the data block at absolute offset off.
func (e *Engine) FreeBlock(off uint64) error {
	if off < e.sb.DBlocksPtr {
		return fmt.Errorf("wfs: offset %d precedes data region", off)
	}
	idx := int((off - e.sb.DBlocksPtr) / BlockSize)
	e.dataBitmap().clear(idx)
	log.Printf("wfs: freed data block %d", idx)
	return nil
}
