package wfs

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Snapshot streams the backing disk file at diskPath through the given
// compression codec into archivePath (§B.1). It operates on the raw file,
// not a mounted Engine, since a consistent point-in-time copy needs the
// engine unmounted (or at least quiesced) first — the spec makes no
// durability promise beyond the kernel's own page-cache flushing (§5), so
// snapshot is explicitly a cold-backup tool, not a live one.
func Snapshot(diskPath, archivePath string, c Compression) error {
	src, err := os.Open(diskPath)
	if err != nil {
		return fmt.Errorf("wfs: opening disk %s: %w", diskPath, err)
	}
	defer src.Close()

	dst, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("wfs: creating archive %s: %w", archivePath, err)
	}
	defer dst.Close()

	w, err := c.NewWriter(dst)
	if err != nil {
		return err
	}
	n, err := io.Copy(w, src)
	if err != nil {
		w.Close()
		return fmt.Errorf("wfs: compressing %s: %w", diskPath, err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	log.Printf("wfs: snapshot %s -> %s (%d bytes, %s)", diskPath, archivePath, n, c)
	return nil
}

// Restore reverses Snapshot, decompressing archivePath back onto diskPath.
// The destination is truncated and recreated; restoring onto a disk that's
// part of a live mount is the caller's mistake to avoid, same as any other
// offline-restore tool.
func Restore(archivePath, diskPath string, c Compression) error {
	src, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("wfs: opening archive %s: %w", archivePath, err)
	}
	defer src.Close()

	r, err := c.NewReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	dst, err := os.OpenFile(diskPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("wfs: creating disk %s: %w", diskPath, err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, r)
	if err != nil {
		return fmt.Errorf("wfs: decompressing onto %s: %w", diskPath, err)
	}
	log.Printf("wfs: restored %s -> %s (%d bytes, %s)", archivePath, diskPath, n, c)
	return nil
}
