// Command mkfs formats one or more backing files with the WFS on-disk
// layout.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/blockraid/wfs"
)

const usage = `mkfs - format backing files for WFS

Usage:
  mkfs -r <mode> -d <disk> [-d <disk> ...] -i <inodes> -b <blocks>

  <mode> is one of: 0 (stripe), 1 (mirror), 1v (verified mirror)
`

func main() {
	var disks []string
	var modeFlag string
	var numInodes, numBlocks int

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-r":
			i++
			if i >= len(args) {
				fail("missing value for -r")
			}
			modeFlag = args[i]
		case "-d":
			i++
			if i >= len(args) {
				fail("missing value for -d")
			}
			disks = append(disks, args[i])
		case "-i":
			i++
			if i >= len(args) {
				fail("missing value for -i")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fail("invalid value for -i: " + args[i])
			}
			numInodes = n
		case "-b":
			i++
			if i >= len(args) {
				fail("missing value for -b")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fail("invalid value for -b: " + args[i])
			}
			numBlocks = n
		default:
			fail("unknown flag: " + args[i])
		}
	}

	if modeFlag == "" || len(disks) == 0 || numInodes == 0 || numBlocks == 0 {
		fail("missing required arguments")
	}

	mode, err := wfs.ParseRaidMode(modeFlag)
	if err != nil {
		fail(err.Error())
	}

	err = wfs.Format(wfs.FormatOptions{
		Disks:     disks,
		Mode:      mode,
		NumInodes: uint32(numInodes),
		NumBlocks: uint32(numBlocks),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, wfs.ErrBackingFileTooSmall) {
			os.Exit(255)
		}
		os.Exit(1)
	}
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	fmt.Fprint(os.Stderr, usage)
	os.Exit(1)
}
