//go:build linux

// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package fusevol exposes a mounted fat32.Volume's root directory
// read-only through a host FUSE mount, for inspecting a volume image
// with ordinary shell tools rather than fatkernel's own ls/cat
// subcommands. It plays no part in the kernel-side engine itself.
package fusevol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/relunix/fatkernel/internal/fat32"
)

// VolumeFS adapts a fat32.Volume to bazil.org/fuse's fs.FS.
type VolumeFS struct {
	vol *fat32.Volume
}

func (v *VolumeFS) Root() (fusefs.Node, error) {
	return &dir{fs: v}, nil
}

type dir struct {
	fs *VolumeFS
}

func (*dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *dir) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	entries, err := d.fs.vol.List()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == name && !e.IsDir {
			return &file{vol: d.fs.vol, name: name, size: e.Size}, nil
		}
	}
	return nil, fuse.ENOENT
}

func (d *dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	entries, err := d.fs.vol.List()
	if err != nil {
		return nil, err
	}
	dirents := make([]fuse.Dirent, 0, len(entries))
	for _, e := range entries {
		typ := fuse.DT_File
		if e.IsDir {
			typ = fuse.DT_Dir
		}
		dirents = append(dirents, fuse.Dirent{Name: e.Name, Type: typ})
	}
	sort.Slice(dirents, func(i, j int) bool { return dirents[i].Name < dirents[j].Name })
	for i := range dirents {
		dirents[i].Inode = uint64(i + 1)
	}
	return dirents, nil
}

// file implements fs.Node and fs.HandleReadAller. The FAT32 engine reads
// a whole file into a caller buffer rather than exposing random access,
// so ReadAll is the natural fit; there is no ReadAt to delegate to.
type file struct {
	vol  *fat32.Volume
	name string
	size uint32
}

func (f *file) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = uint64(f.size)
	return nil
}

func (f *file) ReadAll(ctx context.Context) ([]byte, error) {
	buf := make([]byte, f.size+1)
	n, err := f.vol.ReadToBuffer(f.name, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Mount serves vol read-only at mountpoint until a termination signal
// arrives or the mount is unmounted externally.
func Mount(mountpoint string, vol *fat32.Volume) error {
	created, err := prepareMountpoint(mountpoint)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint, fuse.ReadOnly())
	if err != nil {
		return err
	}
	defer c.Close()

	go func() {
		srv := fusefs.New(c, nil)
		if err := srv.Serve(&VolumeFS{vol: vol}); err != nil {
			log.Printf("fusevol: serve error: %v", err)
		}
	}()
	return waitForUnmount(mountpoint)
}

func waitForUnmount(mountpoint string) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	const maxUnmountRetries = 3
	attempts := 0
	for sig := range sigc {
		log.Printf("fusevol: signal received: %v", sig)
		if err := fuse.Unmount(mountpoint); err == nil {
			return nil
		} else if attempts++; attempts >= maxUnmountRetries {
			return fmt.Errorf("fusevol: failed to unmount %s after %d attempts: %w", mountpoint, maxUnmountRetries, err)
		}
	}
	return nil
}

func prepareMountpoint(mountpoint string) (bool, error) {
	info, err := os.Stat(mountpoint)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(mountpoint, 0755); err != nil {
			return false, fmt.Errorf("fusevol: create mountpoint %s: %w", mountpoint, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("fusevol: stat mountpoint %s: %w", mountpoint, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("fusevol: mountpoint %s is not a directory", mountpoint)
	}
	empty, err := isDirEmpty(mountpoint)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, fmt.Errorf("fusevol: mountpoint %s is not empty", mountpoint)
	}
	return false, nil
}

func isDirEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	_, err = f.Readdir(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
