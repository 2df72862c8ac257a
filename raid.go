package wfs

// This file fixes the one genuine ambiguity the design notes call out
// (§9.3): wfs_write's RAID-0 stripe loop and wfs_read's RAID-0 addressing
// used different arithmetic for the same logical block. WFS picks the
// read-side discipline and applies it everywhere a logical data-block index
// has to turn into a physical disk — read, write, and directory placement
// all call diskForBlock (AllocBlock only picks the offset) so there is
// exactly one place this
// decision lives. The byte offset within a disk is never derived from the
// logical index; it is always whatever AllocBlock handed out and the inode
// (or indirect table) already stores.

// diskForBlock returns which disk holds logical data-block index g under
// the engine's current RAID mode (§4.7). For mirrored modes every disk
// holds a copy; diskForBlock's answer there names disk 0, the single copy a
// plain read is entitled to use.
func (e *Engine) diskForBlock(g int) int {
	if e.raid == Stripe {
		return g % e.NumDisks()
	}
	return 0
}

// readBlock returns the BlockSize bytes of the logical data-block stored at
// absolute offset off, for file-logical-index g. Stripe and plain mirror
// read a single copy; verified mirror reads every disk and returns the
// byte-identical majority, breaking ties by lowest disk index (§4.7).
func (e *Engine) readBlock(g int, off uint64) []byte {
	if e.raid != VerifiedMirror {
		return e.disks.Slice(e.diskForBlock(g), int64(off), BlockSize)
	}
	return e.readBlockVerified(off)
}

// readBlockVerified implements the majority-vote read for RAID-1v.
func (e *Engine) readBlockVerified(off uint64) []byte {
	n := e.NumDisks()
	copies := make([][]byte, n)
	for d := 0; d < n; d++ {
		copies[d] = e.disks.Slice(d, int64(off), BlockSize)
	}

	counts := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if blockEqual(copies[i], copies[j]) {
				counts[i]++
			}
		}
	}

	best := 0
	for i := 1; i < n; i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return copies[best]
}

func blockEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// writeBlock writes data (at most BlockSize bytes) at absolute offset off,
// for file-logical-index g, routing to one disk or every disk per the
// mode's write policy (§4.7).
func (e *Engine) writeBlock(g int, off uint64, data []byte) {
	if e.raid == Stripe {
		dst := e.disks.Slice(e.diskForBlock(g), int64(off), len(data))
		copy(dst, data)
		return
	}
	for d := 0; d < e.NumDisks(); d++ {
		dst := e.disks.Slice(d, int64(off), len(data))
		copy(dst, data)
	}
}
