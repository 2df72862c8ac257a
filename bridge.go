package wfs

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// root holds the single Engine a mounted filesystem delegates to. Every
// node in the tree is a *wfsNode sharing this root, the way loopbackNode
// shares a *loopbackRoot (§6: the nine callbacks are dictated by this
// bridge's shape, not by the engine's own API).
type root struct {
	e *Engine
}

// wfsNode is one node of the FUSE tree. Node identity comes from the path
// go-fuse tracks for us via Inode.Path, not from a cached wfs inode number:
// the engine re-resolves the path on every call, which matches its
// single-threaded, no-cache design (§5).
type wfsNode struct {
	fs.Inode
	root *root
}

var _ = (fs.NodeLookuper)((*wfsNode)(nil))
var _ = (fs.NodeGetattrer)((*wfsNode)(nil))
var _ = (fs.NodeMkdirer)((*wfsNode)(nil))
var _ = (fs.NodeMknoder)((*wfsNode)(nil))
var _ = (fs.NodeOpener)((*wfsNode)(nil))
var _ = (fs.NodeReader)((*wfsNode)(nil))
var _ = (fs.NodeWriter)((*wfsNode)(nil))
var _ = (fs.NodeReaddirer)((*wfsNode)(nil))
var _ = (fs.NodeUnlinker)((*wfsNode)(nil))
var _ = (fs.NodeRmdirer)((*wfsNode)(nil))

// Mount builds the FUSE tree over e and mounts it at dir, passing options
// to fs.Mount unchanged.
func Mount(dir string, e *Engine, options *fs.Options) (*fuse.Server, error) {
	root := &root{e: e}
	rootNode := &wfsNode{root: root}
	return fs.Mount(dir, rootNode, options)
}

func (n *wfsNode) nodePath() string {
	p := n.Path(n.Root())
	if p == "" {
		return "/"
	}
	return "/" + p
}

func (n *wfsNode) newChild(ctx context.Context, ino *Inode) *fs.Inode {
	return n.NewInode(ctx, &wfsNode{root: n.root}, fs.StableAttr{
		Mode: uint32(ino.FileMode()),
		Ino:  uint64(ino.Num),
	})
}

func fillAttr(out *fuse.Attr, ino *Inode) {
	out.Mode = ino.Mode
	out.Uid = ino.Uid
	out.Gid = ino.Gid
	out.Size = ino.Size
	out.Atime = uint64(ino.Atim)
	out.Mtime = uint64(ino.Mtim)
	out.Ctime = uint64(ino.Ctim)
	out.Nlink = ino.NLinks
}

// Lookup resolves name within this directory (§6 getattr/path-resolution
// boundary).
func (n *wfsNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	ino, err := n.root.e.Resolve(joinNodePath(n.nodePath(), name))
	if err != nil {
		return nil, errno(err)
	}
	fillAttr(&out.Attr, ino)
	return n.newChild(ctx, ino), 0
}

// Getattr populates mode, uid, gid, size, and times; ENOENT on missing
// (§6).
func (n *wfsNode) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	ino, err := n.root.e.Resolve(n.nodePath())
	if err != nil {
		return errno(err)
	}
	fillAttr(&out.Attr, ino)
	return 0
}

// Mkdir creates a directory; EEXIST on duplicate, ENOENT on missing
// parent, ENOSPC on exhaustion (§6).
func (n *wfsNode) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	ino, err := n.root.e.Mkdir(joinNodePath(n.nodePath(), name), mode)
	if err != nil {
		return nil, errno(err)
	}
	fillAttr(&out.Attr, ino)
	return n.newChild(ctx, ino), 0
}

// Mknod creates a regular file; same error contract as Mkdir (§6).
func (n *wfsNode) Mknod(ctx context.Context, name string, mode, dev uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	ino, err := n.root.e.Mknod(joinNodePath(n.nodePath(), name), mode)
	if err != nil {
		return nil, errno(err)
	}
	fillAttr(&out.Attr, ino)
	return n.newChild(ctx, ino), 0
}

// Open is a no-op beyond existence: the engine has no file-handle state,
// every read/write re-resolves the path (§5).
func (n *wfsNode) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if _, err := n.root.e.Resolve(n.nodePath()); err != nil {
		return nil, 0, errno(err)
	}
	return nil, 0, 0
}

// Read returns bytes read, 0 at EOF (§6).
func (n *wfsNode) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	ino, err := n.root.e.Resolve(n.nodePath())
	if err != nil {
		return nil, errno(err)
	}
	read, err := n.root.e.ReadFile(ino, dest, off)
	if err != nil {
		return nil, errno(err)
	}
	return fuse.ReadResultData(dest[:read]), 0
}

// Write returns bytes written; ENOSPC on exhaustion (§6).
func (n *wfsNode) Write(ctx context.Context, f fs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	ino, err := n.root.e.Resolve(n.nodePath())
	if err != nil {
		return 0, errno(err)
	}
	written, err := n.root.e.WriteFile(ino, data, off)
	if err != nil && written == 0 {
		return 0, errno(err)
	}
	return uint32(written), 0
}

// Readdir always emits "." and ".." first (§6).
func (n *wfsNode) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	ino, err := n.root.e.Resolve(n.nodePath())
	if err != nil {
		return nil, errno(err)
	}
	entries, err := n.root.e.ReadDir(ino)
	if err != nil {
		return nil, errno(err)
	}

	stream := make([]fuse.DirEntry, 0, len(entries))
	for _, d := range entries {
		stream = append(stream, fuse.DirEntry{
			Name: d.NameString(),
			Ino:  uint64(d.Num),
		})
	}
	return fs.NewListDirStream(stream), 0
}

// Unlink removes a regular file; ENOENT on missing (§6).
func (n *wfsNode) Unlink(ctx context.Context, name string) syscall.Errno {
	return errno(n.root.e.Unlink(joinNodePath(n.nodePath(), name)))
}

// Rmdir refuses non-empty directories and the root (§6).
func (n *wfsNode) Rmdir(ctx context.Context, name string) syscall.Errno {
	return errno(n.root.e.Rmdir(joinNodePath(n.nodePath(), name)))
}

func joinNodePath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
