package wfs

import "time"

// addDentry writes (name, num) into the first free slot of dir's existing
// direct blocks, or grows the directory by one block when none is free
// (§4.5). The new block's disk placement follows diskForBlock applied to
// the block's position among dir's allocated direct blocks, same as every
// other data-block placement decision (§9.3).
func (e *Engine) addDentry(dir *Inode, name string, num uint32) error {
	dent, err := newDentry(name, num)
	if err != nil {
		return err
	}
	rec, err := dent.MarshalBinary()
	if err != nil {
		return err
	}

	allocated := 0
	for i := 0; i < DirectBlocks; i++ {
		off := dir.Blocks[i]
		if off == 0 {
			continue
		}
		allocated++
		data := e.readBlock(i, off)
		for s := 0; s < dentriesPerBlock; s++ {
			slot := data[s*dentrySize : (s+1)*dentrySize]
			var existing Dentry
			if err := existing.UnmarshalBinary(slot); err != nil {
				return err
			}
			if existing.Free() {
				e.writeBlock(i, off+uint64(s*dentrySize), rec)
				return nil
			}
		}
	}

	// No free slot: grow the directory by one direct block.
	slotIdx := -1
	for i := 0; i < DirectBlocks; i++ {
		if dir.Blocks[i] == 0 {
			slotIdx = i
			break
		}
	}
	if slotIdx < 0 {
		return ErrNoSpace
	}

	off, err := e.AllocBlock()
	if err != nil {
		return err
	}
	block := make([]byte, BlockSize)
	copy(block, rec)
	e.writeBlock(allocated, off, block)
	dir.Blocks[slotIdx] = off
	return nil
}

// removeDentry zero-fills the slot matching name (§4.5).
func (e *Engine) removeDentry(dir *Inode, name string) error {
	for i := 0; i < DirectBlocks; i++ {
		off := dir.Blocks[i]
		if off == 0 {
			continue
		}
		data := e.readBlock(i, off)
		for s := 0; s < dentriesPerBlock; s++ {
			slot := data[s*dentrySize : (s+1)*dentrySize]
			var existing Dentry
			if err := existing.UnmarshalBinary(slot); err != nil {
				return err
			}
			if !existing.Free() && existing.matches(name) {
				zero := make([]byte, dentrySize)
				e.writeBlock(i, off+uint64(s*dentrySize), zero)
				return nil
			}
		}
	}
	return ErrNotFound
}

// createEntry is the shared body of Mkdir and Mknod: allocate an inode,
// initialise it, and link it into parent (§4.8).
func (e *Engine) createEntry(path string, mode uint32, isDir bool) (*Inode, error) {
	parent, base, err := e.ResolveParent(path)
	if err != nil {
		return nil, err
	}
	if _, err := e.lookupInDir(parent, base); err == nil {
		return nil, ErrExists
	}

	num, err := e.AllocInode()
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	child := &Inode{
		Num:  num,
		Mode: mode,
		Atim: now,
		Mtim: now,
		Ctim: now,
	}
	if isDir {
		child.Mode |= S_IFDIR
		child.NLinks = 2
	} else {
		child.Mode |= S_IFREG
		child.NLinks = 1
	}
	if err := e.writeInodeLocal(child); err != nil {
		e.FreeInode(num)
		return nil, err
	}

	if err := e.addDentry(parent, base, num); err != nil {
		e.FreeInode(num)
		return nil, err
	}
	// Both mkdir and mknod bump the parent's nlinks: see DESIGN.md's Open
	// Question 1 for why mknod keeps this, even though it isn't
	// conventional POSIX behavior.
	parent.NLinks++
	if err := e.writeInodeLocal(parent); err != nil {
		return nil, err
	}

	e.syncAfterMetaChange()
	return child, nil
}

// Mkdir creates a directory at path (§4.8).
func (e *Engine) Mkdir(path string, mode uint32) (*Inode, error) {
	return e.createEntry(path, mode, true)
}

// Mknod creates a regular file at path (§4.8).
func (e *Engine) Mknod(path string, mode uint32) (*Inode, error) {
	return e.createEntry(path, mode, false)
}

// Unlink removes a regular file, freeing its blocks, its indirect block,
// and the inode itself (§4.8).
func (e *Engine) Unlink(path string) error {
	parent, name, err := e.ResolveParent(path)
	if err != nil {
		return err
	}
	num, err := e.lookupInDir(parent, name)
	if err != nil {
		return err
	}
	ino, err := e.readInode(num)
	if err != nil {
		return err
	}
	if ino.IsDir() {
		return ErrIsDirectory
	}

	for i := 0; i < DirectBlocks; i++ {
		if ino.Blocks[i] != 0 {
			if err := e.FreeBlock(ino.Blocks[i]); err != nil {
				return err
			}
		}
	}
	if indirectOff := ino.Blocks[IndirectIndex]; indirectOff != 0 {
		table := e.indirectTable(indirectOff)
		for _, off := range table {
			if off != 0 {
				if err := e.FreeBlock(off); err != nil {
					return err
				}
			}
		}
		if err := e.FreeBlock(indirectOff); err != nil {
			return err
		}
	}
	e.FreeInode(num)

	if err := e.removeDentry(parent, name); err != nil {
		return err
	}
	parent.NLinks--
	parent.Mtim = time.Now().Unix()
	if err := e.writeInodeLocal(parent); err != nil {
		return err
	}

	e.syncAfterContentChange()
	return nil
}

// Rmdir removes an empty, non-root directory (§4.8).
func (e *Engine) Rmdir(path string) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return ErrRootOp
	}

	parent, name, err := e.ResolveParent(path)
	if err != nil {
		return err
	}
	num, err := e.lookupInDir(parent, name)
	if err != nil {
		return err
	}
	ino, err := e.readInode(num)
	if err != nil {
		return err
	}
	if !ino.IsDir() {
		return ErrNotDirectory
	}

	empty, err := e.isEmptyDir(ino)
	if err != nil {
		return err
	}
	if !empty {
		return ErrNotEmpty
	}

	for i := 0; i < DirectBlocks; i++ {
		if ino.Blocks[i] != 0 {
			if err := e.FreeBlock(ino.Blocks[i]); err != nil {
				return err
			}
		}
	}
	e.FreeInode(num)

	if err := e.removeDentry(parent, name); err != nil {
		return err
	}
	parent.NLinks--
	parent.Mtim = time.Now().Unix()
	if err := e.writeInodeLocal(parent); err != nil {
		return err
	}

	e.syncAfterMetaChange()
	return nil
}
