package wfs

import "log"

// SyncMeta copies the region [i_bitmap_ptr, d_blocks_ptr) — both bitmaps
// plus the entire inode table — from disk src to every other disk (§4.9).
// Every mutation that touches an inode or a bitmap bit goes through this,
// which is how the engine keeps metadata fully replicated even in stripe
// mode so lookups never need to consult more than disk 0.
func (e *Engine) SyncMeta(src int) {
	region := e.disks.Slice(src, int64(e.sb.IBitmapPtr), int(e.sb.DBlocksPtr-e.sb.IBitmapPtr))
	for d := 0; d < e.NumDisks(); d++ {
		if d == src {
			continue
		}
		dst := e.disks.Slice(d, int64(e.sb.IBitmapPtr), len(region))
		copy(dst, region)
	}
	log.Printf("wfs: synced metadata from disk %d to %d others", src, e.NumDisks()-1)
}

// SyncAll additionally copies [d_blocks_ptr, end) after SyncMeta (§4.9). In
// mirrored modes this runs after any mutation that changes file or
// directory content; in stripe mode SyncMeta alone is enough because data
// blocks already live at their owning disk via the RAID routing in
// raid.go, and replicating them elsewhere would defeat striping.
func (e *Engine) SyncAll(src int) {
	e.SyncMeta(src)
	if e.raid == Stripe {
		return
	}
	region := e.disks.Slice(src, int64(e.sb.DBlocksPtr), int(e.sb.NumDataBlocks)*BlockSize)
	for d := 0; d < e.NumDisks(); d++ {
		if d == src {
			continue
		}
		dst := e.disks.Slice(d, int64(e.sb.DBlocksPtr), len(region))
		copy(dst, region)
	}
	log.Printf("wfs: synced data region from disk %d to %d others", src, e.NumDisks()-1)
}

// syncAfterMetaChange and syncAfterContentChange are called following a
// mutation: the first runs SyncMeta, the second SyncAll, depending on
// whether the mutation touched file or directory content (§4.9).
func (e *Engine) syncAfterMetaChange() {
	if e.NumDisks() > 1 {
		e.SyncMeta(0)
	}
}

func (e *Engine) syncAfterContentChange() {
	if e.NumDisks() > 1 {
		e.SyncAll(0)
	}
}
