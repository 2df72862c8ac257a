// Command wfsadm is a small administrative tool for WFS backing disks:
// taking and restoring compressed point-in-time backups, and inspecting a
// formatted image's contents without mounting it.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/blockraid/wfs"
)

const usage = `wfsadm - WFS administrative tool

Usage:
  wfsadm snapshot [-c xz|zstd] <disk> <archive>   Compress disk into archive
  wfsadm restore  [-c xz|zstd] <archive> <disk>   Decompress archive onto disk
  wfsadm ls       <disk> [<disk> ...] <path>      List a directory's entries
  wfsadm cat      <disk> [<disk> ...] <path>      Print a file's contents
  wfsadm help                                     Show this help message

The default compression is xz. ls/cat open the disks and walk the
filesystem directly without mounting it, the way sqfs ls/cat do for a
SquashFS image; cat records the file's access time on the disks.
`

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch args[0] {
	case "snapshot":
		runSnapshot(args[1:])
	case "restore":
		runRestore(args[1:])
	case "ls":
		runLs(args[1:])
	case "cat":
		runCat(args[1:])
	case "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "wfsadm: unknown command %q\n", args[0])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runSnapshot(args []string) {
	codec, rest := takeCompressionFlag(args)
	if len(rest) != 2 {
		fmt.Fprintln(os.Stderr, "wfsadm: snapshot needs <disk> <archive>")
		os.Exit(1)
	}
	if err := wfs.Snapshot(rest[0], rest[1], codec); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRestore(args []string) {
	codec, rest := takeCompressionFlag(args)
	if len(rest) != 2 {
		fmt.Fprintln(os.Stderr, "wfsadm: restore needs <archive> <disk>")
		os.Exit(1)
	}
	if err := wfs.Restore(rest[0], rest[1], codec); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runLs(args []string) {
	disks, path := splitDisksAndPath(args, "ls")
	e := openEngineOrExit(disks)
	defer e.Close()

	ino, err := e.Resolve(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfsadm: %s: %s\n", path, err)
		os.Exit(1)
	}

	f := e.OpenFile(ino, path)
	dir, ok := f.(*wfs.FileDir)
	if !ok {
		fmt.Fprintf(os.Stderr, "wfsadm: %s: not a directory\n", path)
		os.Exit(1)
	}
	entries, err := dir.ReadDir(-1)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "wfsadm: %s: %s\n", entry.Name(), err)
			continue
		}
		printFileInfo(entry.Name(), info)
	}
}

func runCat(args []string) {
	disks, path := splitDisksAndPath(args, "cat")
	e := openEngineOrExit(disks)
	defer e.Close()

	ino, err := e.Resolve(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfsadm: %s: %s\n", path, err)
		os.Exit(1)
	}

	f := e.OpenFile(ino, path)
	if _, ok := f.(*wfs.File); !ok {
		fmt.Fprintf(os.Stderr, "wfsadm: %s: is a directory\n", path)
		os.Exit(1)
	}
	if _, err := io.Copy(os.Stdout, f); err != nil {
		fmt.Fprintf(os.Stderr, "wfsadm: reading %s: %s\n", path, err)
		os.Exit(1)
	}
}

// splitDisksAndPath treats the final argument as the in-filesystem path
// and everything before it as backing disk files.
func splitDisksAndPath(args []string, cmdName string) (disks []string, path string) {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "wfsadm: %s needs <disk> [<disk> ...] <path>\n", cmdName)
		os.Exit(1)
	}
	return args[:len(args)-1], args[len(args)-1]
}

func openEngineOrExit(disks []string) *wfs.Engine {
	ds, err := wfs.OpenDisks(disks)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	e, err := wfs.Open(ds)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return e
}

// printFileInfo prints one ls line in a SquashFS-style fixed layout.
func printFileInfo(name string, info fs.FileInfo) {
	typeChar := "-"
	if info.IsDir() {
		typeChar = "d"
	}
	mode := info.Mode().String()
	size := fmt.Sprintf("%8d", info.Size())
	if info.IsDir() {
		size = "       -"
	}
	fmt.Printf("%s%s %s %s\n", typeChar, mode[1:], size, name)
}

func takeCompressionFlag(args []string) (wfs.Compression, []string) {
	if len(args) >= 2 && args[0] == "-c" {
		c, err := wfs.ParseCompression(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return c, args[2:]
	}
	return wfs.CompressionXZ, args
}
