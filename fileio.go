package wfs

import (
	"log"
	"time"
)

// blockOffset returns the logical block index and intra-block offset for
// byte offset o (§4.6).
func blockOffset(o int64) (logical int, intra int) {
	return int(o / BlockSize), int(o % BlockSize)
}

// indirectTable decodes the 64 absolute offsets stored in the indirect
// block at off into a fixed-capacity sequence (§9: "present it as a
// fixed-capacity sequence, not a generic buffer"). The indirect block
// itself is a single data block with one disk location, routed by
// IndirectIndex regardless of which logical slot within it a caller is
// after — unlike direct/indirect data blocks, which are routed by the file
// logical index they each individually occupy.
func (e *Engine) indirectTable(off uint64) [PointersPerIndirect]uint64 {
	var table [PointersPerIndirect]uint64
	data := e.readBlock(IndirectIndex, off)
	for i := range table {
		table[i] = superblockOrder.Uint64(data[i*offsetSize:])
	}
	return table
}

func (e *Engine) writeIndirectEntry(indirectOff uint64, slot int, value uint64) {
	var buf [offsetSize]byte
	superblockOrder.PutUint64(buf[:], value)
	e.writeBlock(IndirectIndex, indirectOff+uint64(slot*offsetSize), buf[:])
}

// blockPointer returns the absolute offset stored for logical block index g
// of ino, allocating the indirect block on first indirect access (§4.6).
// ok is false when the slot is unallocated and alloc is false.
func (e *Engine) blockPointer(ino *Inode, g int, alloc bool) (off uint64, ok bool, err error) {
	if g < DirectBlocks {
		off = ino.Blocks[g]
		if off == 0 && alloc {
			off, err = e.AllocBlock()
			if err != nil {
				return 0, false, err
			}
			ino.Blocks[g] = off
		}
		return off, off != 0, nil
	}

	local := g - DirectBlocks
	if local >= PointersPerIndirect {
		return 0, false, ErrFileTooLarge
	}

	indirectOff := ino.Blocks[IndirectIndex]
	if indirectOff == 0 {
		if !alloc {
			return 0, false, nil
		}
		indirectOff, err = e.AllocBlock()
		if err != nil {
			return 0, false, err
		}
		zero := make([]byte, BlockSize)
		e.writeBlock(IndirectIndex, indirectOff, zero)
		ino.Blocks[IndirectIndex] = indirectOff
		log.Printf("wfs: allocated indirect block for inode %d", ino.Num)
	}

	table := e.indirectTable(indirectOff)
	off = table[local]
	if off == 0 && alloc {
		off, err = e.AllocBlock()
		if err != nil {
			return 0, false, err
		}
		e.writeIndirectEntry(indirectOff, local, off)
	}
	return off, off != 0, nil
}

// ReadFile reads up to len(buf) bytes from ino starting at offset, clamped
// to the inode's declared size (§4.8). It stops early if it encounters an
// unallocated block before reaching the declared size, matching the
// original's "unallocated blocks within the declared size terminate the
// read early" behavior.
func (e *Engine) ReadFile(ino *Inode, buf []byte, offset int64) (int, error) {
	if offset < 0 || offset >= int64(ino.Size) {
		return 0, nil
	}
	n := len(buf)
	if remaining := int64(ino.Size) - offset; int64(n) > remaining {
		n = int(remaining)
	}

	read := 0
	for read < n {
		cur := offset + int64(read)
		logical, intra := blockOffset(cur)
		off, ok, err := e.blockPointer(ino, logical, false)
		if err != nil {
			return read, err
		}
		if !ok {
			break
		}
		chunk := BlockSize - intra
		if chunk > n-read {
			chunk = n - read
		}
		block := e.readBlock(logical, off)
		copy(buf[read:read+chunk], block[intra:intra+chunk])
		read += chunk
	}

	ino.Atim = time.Now().Unix()
	if err := e.writeInodeLocal(ino); err != nil {
		return read, err
	}
	e.syncAfterMetaChange()
	return read, nil
}

// WriteFile writes data into ino starting at offset, extending the file
// and allocating blocks on demand (§4.8). On ENOSPC partway through a
// multi-block write it returns the bytes written so far with the error,
// leaving the partial prefix in place and size reflecting it — there is no
// rollback (§7).
func (e *Engine) WriteFile(ino *Inode, data []byte, offset int64) (int, error) {
	if offset < 0 {
		return 0, ErrInvalidPath
	}
	if offset+int64(len(data)) > MaxFileSize {
		return 0, ErrFileTooLarge
	}

	written := 0
	for written < len(data) {
		cur := offset + int64(written)
		logical, intra := blockOffset(cur)
		off, _, err := e.blockPointer(ino, logical, true)
		if err != nil {
			e.finishWrite(ino, offset, written)
			e.writeInodeLocal(ino)
			e.syncAfterContentChange()
			return written, err
		}
		chunk := BlockSize - intra
		if chunk > len(data)-written {
			chunk = len(data) - written
		}

		var block []byte
		if intra != 0 || chunk != BlockSize {
			block = make([]byte, BlockSize)
			copy(block, e.readBlock(logical, off))
			copy(block[intra:intra+chunk], data[written:written+chunk])
		} else {
			block = data[written : written+chunk]
		}
		e.writeBlock(logical, off, block)
		written += chunk
	}

	e.finishWrite(ino, offset, written)
	if err := e.writeInodeLocal(ino); err != nil {
		return written, err
	}
	e.syncAfterContentChange()
	return written, nil
}

func (e *Engine) finishWrite(ino *Inode, offset int64, written int) {
	end := uint64(offset + int64(written))
	if end > ino.Size {
		ino.Size = end
	}
	ino.Mtim = time.Now().Unix()
}
