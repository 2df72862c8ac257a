package wfs

import (
	"fmt"
	"log"
	"os"
	"time"
)

// FormatOptions are the formatter's inputs (§4.1, §6's mkfs CLI).
type FormatOptions struct {
	Disks     []string
	Mode      RaidMode
	NumInodes uint32
	NumBlocks uint32
}

// Format writes a fresh superblock, bitmaps, inode table, and root inode to
// every disk in opts.Disks (§4.1). It rounds NumInodes/NumBlocks up to a
// multiple of 32 the way mkfs does, validates the RAID mode against the
// disk count, and fails the whole operation if any backing file is smaller
// than the computed required size — nothing is partially written across
// disks.
func Format(opts FormatOptions) error {
	if len(opts.Disks) == 0 {
		return fmt.Errorf("wfs: format requires at least one disk")
	}
	if opts.Mode != Stripe && opts.Mode != Mirror && opts.Mode != VerifiedMirror {
		return fmt.Errorf("wfs: unrecognized raid mode")
	}
	if opts.Mode != Stripe && len(opts.Disks) < 2 {
		return fmt.Errorf("wfs: raid 1/1v requires at least two disks")
	}
	if opts.NumInodes == 0 || opts.NumBlocks == 0 {
		return fmt.Errorf("wfs: inode and block counts must be positive")
	}

	numInodes := uint32(roundUp32(int(opts.NumInodes)))
	numBlocks := uint32(roundUp32(int(opts.NumBlocks)))
	layout := layoutFor(numInodes, numBlocks)
	layout.RaidModeCode = opts.Mode.diskCode()
	required := layout.requiredSize()

	// Check every disk's size before writing to any of them; a missing
	// file counts as zero bytes.
	for _, path := range opts.Disks {
		var size int64
		st, err := os.Stat(path)
		if err == nil {
			size = st.Size()
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("wfs: formatting %s: %w", path, err)
		}
		if size < required {
			return fmt.Errorf("wfs: formatting %s: %w: have %d bytes, need %d", path, ErrBackingFileTooSmall, size, required)
		}
	}

	for i, path := range opts.Disks {
		if err := formatDisk(path, layout, uint32(i), required); err != nil {
			return fmt.Errorf("wfs: formatting %s: %w", path, err)
		}
	}
	log.Printf("wfs: formatted %d disk(s), %d inodes, %d data blocks, raid=%s",
		len(opts.Disks), numInodes, numBlocks, opts.Mode)
	return nil
}

func formatDisk(path string, layout Superblock, diskID uint32, required int64) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}
	if st.Size() < required {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrBackingFileTooSmall, st.Size(), required)
	}

	sb := layout
	sb.DiskID = diskID
	sbBytes, err := sb.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := f.WriteAt(sbBytes, 0); err != nil {
		return err
	}

	// Zero both bitmaps.
	ibitmapLen := sb.DBitmapPtr - sb.IBitmapPtr
	dbitmapLen := sb.IBlocksPtr - sb.DBitmapPtr
	if _, err := f.WriteAt(make([]byte, ibitmapLen), int64(sb.IBitmapPtr)); err != nil {
		return err
	}
	if _, err := f.WriteAt(make([]byte, dbitmapLen), int64(sb.DBitmapPtr)); err != nil {
		return err
	}

	// Mark inode 0 allocated (§3 invariant 1).
	var firstByte [1]byte
	firstByte[0] = 1
	if _, err := f.WriteAt(firstByte[:], int64(sb.IBitmapPtr)); err != nil {
		return err
	}

	// Root inode: directory, rwxr-xr-x, nlinks=2, no blocks.
	now := time.Now().Unix()
	root := Inode{
		Num:    0,
		Mode:   S_IFDIR | 0755,
		NLinks: 2,
		Atim:   now,
		Mtim:   now,
		Ctim:   now,
	}
	rootBytes, err := root.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := f.WriteAt(rootBytes, slotOffset(sb.IBlocksPtr, 0)); err != nil {
		return err
	}

	return nil
}
