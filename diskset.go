package wfs

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/sys/unix"
)

// disk is one memory-mapped backing file.
type disk struct {
	path string
	file *os.File
	data []byte // the full mmap'd region
}

// DiskSet is the ordered array of backing disks an engine operates on
// (§4.2, §5). Position i holds the disk whose on-disk DiskID == i once
// reorder has run; all subsequent accesses go through this array only.
type DiskSet struct {
	disks []*disk
}

// OpenDisks memory-maps every path in order, read/write. It does not yet
// reorder them for RAID-0 — call Reorder once the superblock has been read.
func OpenDisks(paths []string) (*DiskSet, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("wfs: no disk paths provided")
	}
	if len(paths) > MaxDisks {
		return nil, fmt.Errorf("wfs: too many disks, max supported is %d", MaxDisks)
	}

	ds := &DiskSet{}
	for _, p := range paths {
		d, err := openDisk(p)
		if err != nil {
			ds.Close()
			return nil, err
		}
		ds.disks = append(ds.disks, d)
	}
	return ds, nil
}

func openDisk(path string) (*disk, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("wfs: opening disk %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("wfs: stat disk %s: %w", path, err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("wfs: mmap disk %s: %w", path, err)
	}
	log.Printf("wfs: mapped disk %s (%d bytes)", path, len(data))
	return &disk{path: path, file: f, data: data}, nil
}

// Len is the number of disks in the array.
func (ds *DiskSet) Len() int { return len(ds.disks) }

// At returns the full mmap'd region for disk i.
func (ds *DiskSet) At(i int) []byte { return ds.disks[i].data }

// Slice returns the length-n window starting at the given absolute offset
// on disk i. It is the one place the engine reaches into a mapping, so
// every bounds mistake surfaces here as a panic instead of silent
// corruption.
func (ds *DiskSet) Slice(i int, offset int64, n int) []byte {
	d := ds.disks[i].data
	if offset < 0 || int(offset)+n > len(d) {
		panic(fmt.Sprintf("wfs: out-of-range access on disk %d: offset=%d len=%d size=%d", i, offset, n, len(d)))
	}
	return d[offset : int(offset)+n]
}

// Reorder reads each disk's superblock and permutes the array so that
// position i holds the disk whose DiskID == i (§4.2). Mount-time
// reordering only matters for RAID-0; mirrored modes keep whatever order
// OpenDisks produced.
func (ds *DiskSet) Reorder() error {
	n := ds.Len()
	sorted := make([]*disk, n)
	seen := make([]bool, n)

	for _, d := range ds.disks {
		var sb Superblock
		if err := sb.UnmarshalBinary(d.data); err != nil {
			return fmt.Errorf("wfs: reading superblock on %s: %w", d.path, err)
		}
		id := int(sb.DiskID)
		if id < 0 || id >= n || seen[id] {
			return fmt.Errorf("wfs: disk %s has invalid or duplicate disk_id %d", d.path, sb.DiskID)
		}
		sorted[id] = d
		seen[id] = true
	}

	ds.disks = sorted
	return nil
}

// Superblock reads and decodes the superblock of disk 0, which the engine
// treats as authoritative for metadata lookups (§4.3).
func (ds *DiskSet) Superblock() (*Superblock, error) {
	var sb Superblock
	if err := sb.UnmarshalBinary(ds.disks[0].data); err != nil {
		return nil, err
	}
	return &sb, nil
}

// Close unmaps and closes every disk.
func (ds *DiskSet) Close() error {
	var firstErr error
	for _, d := range ds.disks {
		if d == nil {
			continue
		}
		if d.data != nil {
			if err := unix.Munmap(d.data); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if d.file != nil {
			if err := d.file.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Flush asks the kernel to write back the dirty pages of every mapping.
// WFS makes no durability guarantee beyond this (§5).
func (ds *DiskSet) Flush() error {
	for _, d := range ds.disks {
		if err := unix.Msync(d.data, unix.MS_SYNC); err != nil {
			return fmt.Errorf("wfs: msync %s: %w", d.path, err)
		}
	}
	return nil
}
