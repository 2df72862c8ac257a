package wfs

import (
	"io"
	"io/fs"
	"path"
	"time"
)

// File is a convenience object exposing a regular-file inode as an
// io.Reader, used by cmd/wfsadm's cat to read a file straight from the
// backing disks without mounting them.
type File struct {
	e    *Engine
	ino  *Inode
	name string
	pos  int64
}

// FileDir is the directory counterpart of File, implementing
// fs.ReadDirFile.
type FileDir struct {
	e    *Engine
	ino  *Inode
	name string
	r    *dirReader
}

type fileinfo struct {
	ino  *Inode
	name string
}

var _ fs.File = (*File)(nil)
var _ fs.ReadDirFile = (*FileDir)(nil)
var _ fs.FileInfo = (*fileinfo)(nil)

// OpenFile returns a fs.File for ino. Directories return a *FileDir
// implementing fs.ReadDirFile; regular files return a *File.
func (e *Engine) OpenFile(ino *Inode, name string) fs.File {
	if ino.IsDir() {
		return &FileDir{e: e, ino: ino, name: name}
	}
	return &File{e: e, ino: ino, name: name}
}

// (File)

func (f *File) Read(p []byte) (int, error) {
	n, err := f.e.ReadFile(f.ino, p, f.pos)
	f.pos += int64(n)
	if err == nil && n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, err
}

func (f *File) Stat() (fs.FileInfo, error) {
	return &fileinfo{name: path.Base(f.name), ino: f.ino}, nil
}

func (f *File) Sys() any { return f.ino }

func (f *File) Close() error { return nil }

// (FileDir)

func (d *FileDir) Read(p []byte) (int, error) {
	return 0, fs.ErrInvalid
}

func (d *FileDir) Stat() (fs.FileInfo, error) {
	return &fileinfo{name: path.Base(d.name), ino: d.ino}, nil
}

func (d *FileDir) Sys() any { return d.ino }

func (d *FileDir) Close() error {
	d.r = nil
	return nil
}

func (d *FileDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.r == nil {
		d.r = d.e.newDirReader(d.ino)
	}
	var res []fs.DirEntry
	for {
		dent, ok, err := d.r.next()
		if err != nil {
			return res, err
		}
		if !ok {
			return res, nil
		}
		child, err := d.e.readInode(dent.Num)
		if err != nil {
			return res, err
		}
		res = append(res, &direntry{name: dent.NameString(), ino: child})
		if n > 0 && len(res) >= n {
			return res, nil
		}
	}
}

// (fileinfo)

func (fi *fileinfo) Name() string { return fi.name }
func (fi *fileinfo) Size() int64  { return int64(fi.ino.Size) }
func (fi *fileinfo) Mode() fs.FileMode {
	return fi.ino.FileMode()
}
func (fi *fileinfo) ModTime() time.Time {
	return time.Unix(fi.ino.Mtim, 0)
}
func (fi *fileinfo) IsDir() bool { return fi.ino.IsDir() }
func (fi *fileinfo) Sys() any    { return fi.ino }
