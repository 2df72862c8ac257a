package wfs

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Package-specific sentinel errors, checked with errors.Is the way the
// teacher's library does it. The façade layer additionally maps these to
// syscall.Errno values, since §6/§7 require negative POSIX codes at the
// callback boundary — a concern the teacher never had.
var (
	// ErrNotFound is returned when a path component does not exist.
	ErrNotFound = errors.New("wfs: no such file or directory")

	// ErrExists is returned when an operation that requires absence finds
	// an entry already there.
	ErrExists = errors.New("wfs: file exists")

	// ErrNotDirectory is returned when a path component that must be a
	// directory is not one.
	ErrNotDirectory = errors.New("wfs: not a directory")

	// ErrIsDirectory is returned when an operation expected a regular file.
	ErrIsDirectory = errors.New("wfs: is a directory")

	// ErrNoSpace is returned when the inode table, a data bitmap, or a
	// directory's available slots are exhausted.
	ErrNoSpace = errors.New("wfs: no space left on device")

	// ErrNotEmpty is returned by rmdir on a directory holding entries other
	// than "." and "..".
	ErrNotEmpty = errors.New("wfs: directory not empty")

	// ErrNameTooLong is returned when a path component exceeds MaxName-1.
	ErrNameTooLong = errors.New("wfs: name too long")

	// ErrInvalidPath is returned for paths that do not start with "/", and
	// by WriteFile for a negative offset.
	ErrInvalidPath = errors.New("wfs: path must be absolute")

	// ErrFileTooLarge is returned when a write would exceed MaxFileSize.
	ErrFileTooLarge = errors.New("wfs: file too large")

	// ErrBadSuperblock is returned when a disk's superblock cannot be
	// decoded or carries an unrecognized raid_mode.
	ErrBadSuperblock = errors.New("wfs: invalid or unrecognized superblock")

	// ErrRootOp is returned when an operation refuses to act on the root
	// directory (rmdir, unlink).
	ErrRootOp = errors.New("wfs: operation not permitted on root")

	// ErrBackingFileTooSmall is returned by Format when a disk file is
	// smaller than the computed required size (§4.1, §6's mkfs exit −1).
	ErrBackingFileTooSmall = errors.New("wfs: backing file too small")
)

// errno maps a sentinel error to the syscall.Errno the FUSE bridge returns
// to the kernel (§6's "negative error codes" contract). Unrecognized errors
// become EIO, matching how a real callback handler treats an unexpected
// internal error.
func errno(err error) unix.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotFound):
		return unix.ENOENT
	case errors.Is(err, ErrExists):
		return unix.EEXIST
	case errors.Is(err, ErrNotDirectory):
		return unix.ENOTDIR
	case errors.Is(err, ErrIsDirectory):
		return unix.EISDIR
	case errors.Is(err, ErrNoSpace):
		return unix.ENOSPC
	case errors.Is(err, ErrNotEmpty):
		return unix.ENOTEMPTY
	case errors.Is(err, ErrNameTooLong):
		return unix.ENAMETOOLONG
	case errors.Is(err, ErrInvalidPath):
		return unix.EINVAL
	case errors.Is(err, ErrFileTooLarge):
		return unix.EFBIG
	case errors.Is(err, ErrRootOp):
		return unix.EPERM
	default:
		return unix.EIO
	}
}
