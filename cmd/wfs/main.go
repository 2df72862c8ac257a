// Command wfs mounts a WFS filesystem over one or more formatted backing
// files.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/blockraid/wfs"
)

const usage = `wfs - mount a WFS filesystem

Usage:
  wfs <disk1> [<disk2> ...] [<fuse flags>] <mountpoint>
`

func main() {
	args := os.Args[1:]
	if len(args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	// Positional arguments up to the first flag-prefixed one are disks;
	// the mountpoint is the last argument. Flag-prefixed arguments are
	// accepted but not passed on: the bridge is mounted with fixed
	// options.
	var disks []string
	i := 0
	for ; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			break
		}
		disks = append(disks, args[i])
	}
	if len(disks) == 0 {
		fmt.Fprintln(os.Stderr, "wfs: no disks given")
		os.Exit(1)
	}
	// With no flags the mountpoint is the last positional argument, so it
	// comes off the disk list; otherwise everything between the disks and
	// it is a bridge flag.
	mountpoint := args[len(args)-1]
	if i == len(args) {
		disks = disks[:len(disks)-1]
	}
	if strings.HasPrefix(mountpoint, "-") {
		fmt.Fprintln(os.Stderr, "wfs: no mountpoint given")
		os.Exit(1)
	}

	ds, err := wfs.OpenDisks(disks)
	if err != nil {
		log.Fatal(err)
	}
	engine, err := wfs.Open(ds)
	if err != nil {
		log.Fatal(err)
	}

	server, err := wfs.Mount(mountpoint, engine, &fs.Options{
		MountOptions: fuse.MountOptions{
			FsName: "wfs",
		},
	})
	if err != nil {
		log.Fatalf("wfs: mount failed: %v", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		server.Unmount()
	}()

	log.Printf("wfs: mounted on %s", mountpoint)
	server.Wait()
	engine.Close()
}
