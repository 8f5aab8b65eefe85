package fat32

import "fmt"

// ListEntry is one row of a directory listing.
type ListEntry struct {
	Name string
	Size uint32
	IsDir bool
}

// List iterates the current directory and returns every live entry, per
// spec.md §4.3.5's `list`.
func (v *Volume) List() ([]ListEntry, error) {
	var out []ListEntry
	err := v.walkDirEntries(v.curDirCluster, func(e *DirEntry, loc dirEntryLoc) (bool, error) {
		if !e.IsLive() {
			return false, nil
		}
		out = append(out, ListEntry{
			Name:  FormatName83(e.Name),
			Size:  e.FileSize,
			IsDir: e.Attr&AttrDir != 0,
		})
		return false, nil
	})
	return out, err
}

// readChain reads up to n bytes sequentially from the cluster chain
// starting at cluster, stopping early at EOC.
func (v *Volume) readChain(cluster uint32, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	clusterBytes := v.ClusterBytes()
	c := cluster
	for len(out) < n && c >= 2 && c < fatBad {
		buf := make([]byte, clusterBytes)
		if err := v.dev.ReadSectors(v.clusterLBA(c), uint32(v.sectorsPerClus), buf); err != nil {
			return nil, newErr("readChain", IoError, err)
		}
		remain := n - len(out)
		if remain > clusterBytes {
			remain = clusterBytes
		}
		out = append(out, buf[:remain]...)
		next, err := v.readEntry(c)
		if err != nil {
			return nil, err
		}
		if isEndOrBad(next) {
			break
		}
		c = next
	}
	return out, nil
}

// writeChain writes data sequentially across the cluster chain starting
// at cluster, which must already have enough clusters allocated.
func (v *Volume) writeChain(cluster uint32, data []byte) error {
	clusterBytes := v.ClusterBytes()
	c := cluster
	off := 0
	for off < len(data) {
		if c < 2 || c >= fatBad {
			return fmt.Errorf("cluster chain too short for %d bytes of data", len(data))
		}
		chunk := make([]byte, clusterBytes)
		n := copy(chunk, data[off:])
		if err := v.dev.WriteSectors(v.clusterLBA(c), uint32(v.sectorsPerClus), chunk); err != nil {
			return err
		}
		off += n
		if off >= len(data) {
			break
		}
		next, err := v.readEntry(c)
		if err != nil {
			return err
		}
		c = next
	}
	return nil
}

// ReadToBuffer locates name, and copies min(size, len(buf)-1) bytes of its
// content into buf, NUL-terminating and returning the byte count read,
// per spec.md §4.3.5.
func (v *Volume) ReadToBuffer(name string, buf []byte) (int, error) {
	e, _, err := v.findEntry(v.curDirCluster, Canonicalize83(name))
	if err != nil {
		return 0, err
	}
	want := int(e.FileSize)
	if len(buf) > 0 && want > len(buf)-1 {
		want = len(buf) - 1
	}
	if want < 0 {
		want = 0
	}
	var data []byte
	if cluster := e.Cluster(); cluster >= 2 && want > 0 {
		data, err = v.readChain(cluster, want)
		if err != nil {
			return 0, err
		}
	}
	n := copy(buf, data)
	if n < len(buf) {
		buf[n] = 0
	}
	return n, nil
}

// Create allocates a chain sized to len(data), writes data across it,
// and inserts a directory entry in the current directory with the
// ARCHIVE attribute. A chain allocated but not committed to a directory
// entry (DirectoryFull, or a data write failure) is freed before
// returning, per spec.md §4.3.5 and §7's partial-mutation rule.
func (v *Volume) Create(name string, data []byte) error {
	size := uint32(len(data))
	clusterBytes := uint32(v.ClusterBytes())
	var n uint32
	if size > 0 {
		n = (size + clusterBytes - 1) / clusterBytes
	}

	head, err := v.allocateChain(n)
	if err != nil {
		return err
	}
	if n > 0 {
		if err := v.writeChain(head, data); err != nil {
			v.freeChain(head)
			return newErr("Create", DataWriteError, err)
		}
	}

	loc, found, err := v.findFreeSlot(v.curDirCluster)
	if err != nil {
		v.freeChain(head)
		return err
	}
	if !found {
		v.freeChain(head)
		return newErr("Create", DirectoryFull, nil)
	}

	var e DirEntry
	e.Name = Canonicalize83(name)
	e.Attr = AttrArchive
	e.SetCluster(head)
	e.FileSize = size
	if err := v.writeDirEntry(loc, &e); err != nil {
		v.freeChain(head)
		return err
	}
	return nil
}

// Remove marks name's directory entry deleted and frees its chain, per
// spec.md §4.3.5.
func (v *Volume) Remove(name string) error {
	e, loc, err := v.findEntry(v.curDirCluster, Canonicalize83(name))
	if err != nil {
		return err
	}
	cluster := e.Cluster()
	e.Name[0] = nameDeleted
	if err := v.writeDirEntry(loc, &e); err != nil {
		return err
	}
	if cluster >= 2 {
		v.freeChain(cluster)
	}
	return nil
}

// WriteFile replaces name's contents: remove(name) ignoring NotFound,
// then create(name, data). Atomic only with respect to the caller, not
// across a crash between the two steps, per spec.md §4.3.5.
func (v *Volume) WriteFile(name string, data []byte) error {
	if err := v.Remove(name); err != nil && CodeOf(err) != NotFound {
		return err
	}
	return v.Create(name, data)
}

// Rename overwrites the 11 name bytes of an existing entry in place. It
// does not check for a name collision; that is the caller's
// responsibility, per spec.md §4.3.5.
func (v *Volume) Rename(oldName, newName string) error {
	e, loc, err := v.findEntry(v.curDirCluster, Canonicalize83(oldName))
	if err != nil {
		return err
	}
	e.Name = Canonicalize83(newName)
	return v.writeDirEntry(loc, &e)
}

// Copy reads src in full and creates dst with identical content. A
// zero-length src creates an empty dst directly without allocating a
// read buffer, per spec.md §4.3.5.
func (v *Volume) Copy(src, dst string) error {
	e, _, err := v.findEntry(v.curDirCluster, Canonicalize83(src))
	if err != nil {
		return err
	}
	if e.FileSize == 0 {
		return v.Create(dst, nil)
	}
	buf := make([]byte, e.FileSize+1)
	n, err := v.ReadToBuffer(src, buf)
	if err != nil {
		return err
	}
	return v.Create(dst, buf[:n])
}
