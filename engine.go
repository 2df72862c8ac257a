package wfs

import (
	"fmt"
	"log"
)

// Engine is the live filesystem: the disk array plus the decoded superblock
// that describes it. Every accessor method hangs off Engine so a mounted
// filesystem and a test fixture look the same (§2, §5: one Engine, no
// internal locking, one operation in flight at a time).
type Engine struct {
	disks *DiskSet
	sb    Superblock
	raid  RaidMode
}

// Open builds an Engine over already-mmap'd disks: decodes disk 0's
// superblock, validates the RAID mode it records, and reorders the disk
// array for stripe mode (§4.2).
func Open(disks *DiskSet) (*Engine, error) {
	sb, err := disks.Superblock()
	if err != nil {
		return nil, err
	}
	mode, err := sb.RaidMode()
	if err != nil {
		return nil, err
	}
	if mode == Stripe {
		if err := disks.Reorder(); err != nil {
			return nil, err
		}
	}
	log.Printf("wfs: opened engine: %d inodes, %d data blocks, raid=%s, %d disks",
		sb.NumInodes, sb.NumDataBlocks, mode, disks.Len())
	return &Engine{disks: disks, sb: *sb, raid: mode}, nil
}

// NumDisks is how many disks back this engine.
func (e *Engine) NumDisks() int { return e.disks.Len() }

// Disks returns the engine's underlying disk array, for callers (tests,
// administrative tooling) that need to inspect raw mapped bytes directly.
func (e *Engine) Disks() *DiskSet { return e.disks }

// RaidMode is the engine's active RAID mode.
func (e *Engine) RaidMode() RaidMode { return e.raid }

// Close unmaps every backing disk.
func (e *Engine) Close() error { return e.disks.Close() }

// readInode decodes inode n from disk 0's inode table, which the engine
// treats as authoritative for metadata reads the way sync_meta keeps every
// disk's table identical in every RAID mode (§4.9).
func (e *Engine) readInode(n uint32) (*Inode, error) {
	if n >= e.sb.NumInodes {
		return nil, fmt.Errorf("wfs: inode %d out of range", n)
	}
	off := slotOffset(e.sb.IBlocksPtr, n)
	data := e.disks.Slice(0, off, BlockSize)
	var ino Inode
	if err := ino.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &ino, nil
}

// writeInodeLocal writes ino into disk 0's inode table only; callers that
// need cross-disk consistency must follow up with SyncMeta.
func (e *Engine) writeInodeLocal(ino *Inode) error {
	buf, err := ino.MarshalBinary()
	if err != nil {
		return err
	}
	off := slotOffset(e.sb.IBlocksPtr, ino.Num)
	dst := e.disks.Slice(0, off, BlockSize)
	copy(dst, buf)
	return nil
}

// Root returns the root directory inode (always inode 0, §3 invariant 1).
func (e *Engine) Root() (*Inode, error) {
	return e.readInode(0)
}
