package wfs

import "io/fs"

// dirReader provides sequential access to the occupied dentry slots of a
// directory inode, in block order then slot order (§3, §4.4).
type dirReader struct {
	e      *Engine
	ino    *Inode
	block  int // which of the directory's direct blocks we're in
	slot   int // which dentry slot within the current block
	loaded bool
	data   []byte
}

func (e *Engine) newDirReader(ino *Inode) *dirReader {
	return &dirReader{e: e, ino: ino}
}

// next returns the next occupied dentry, or ok=false once every direct
// block has been scanned. Directories never use the indirect block (§4.5).
func (dr *dirReader) next() (Dentry, bool, error) {
	for dr.block < DirectBlocks {
		off := dr.ino.Blocks[dr.block]
		if off == 0 {
			dr.block++
			dr.slot = 0
			continue
		}
		if !dr.loaded {
			dr.data = dr.e.readBlock(dr.block, off)
			dr.loaded = true
		}
		for dr.slot < dentriesPerBlock {
			rec := dr.data[dr.slot*dentrySize : (dr.slot+1)*dentrySize]
			dr.slot++
			var d Dentry
			if err := d.UnmarshalBinary(rec); err != nil {
				return Dentry{}, false, err
			}
			if !d.Free() {
				return d, true, nil
			}
		}
		dr.block++
		dr.slot = 0
		dr.loaded = false
	}
	return Dentry{}, false, nil
}

// ReadDir returns every occupied dentry in the directory, "." and ".."
// first (§6's readdir contract).
func (e *Engine) ReadDir(ino *Inode) ([]Dentry, error) {
	entries := []Dentry{
		{Num: ino.Num},
		{Num: ino.Num}, // parent link isn't tracked separately; see DESIGN.md
	}
	copy(entries[0].Name[:], ".")
	copy(entries[1].Name[:], "..")

	dr := e.newDirReader(ino)
	for {
		d, ok, err := dr.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		entries = append(entries, d)
	}
	return entries, nil
}

// isEmptyDir reports whether every occupied slot is "." or ".." (§4.5).
func (e *Engine) isEmptyDir(ino *Inode) (bool, error) {
	dr := e.newDirReader(ino)
	for {
		d, ok, err := dr.next()
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
		name := d.NameString()
		if name != "." && name != ".." {
			return false, nil
		}
	}
}

// lookupInDir scans a directory's dentries for name, returning its inode
// number (§4.4).
func (e *Engine) lookupInDir(ino *Inode, name string) (uint32, error) {
	dr := e.newDirReader(ino)
	for {
		d, ok, err := dr.next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, ErrNotFound
		}
		if d.matches(name) {
			return d.Num, nil
		}
	}
}

// direntry adapts a Dentry plus its resolved inode to fs.DirEntry, for
// callers that want the standard library's directory-listing shape
// (cmd/wfsadm's ls).
type direntry struct {
	name string
	ino  *Inode
}

func (de *direntry) Name() string { return de.name }
func (de *direntry) IsDir() bool  { return de.ino.IsDir() }
func (de *direntry) Type() fs.FileMode {
	return de.ino.FileMode().Type()
}
func (de *direntry) Info() (fs.FileInfo, error) {
	return &fileinfo{name: de.name, ino: de.ino}, nil
}
