package fat32

import "fmt"

// dirEntryLoc locates a single 32-byte directory entry on disk, well
// enough to re-read its sector and patch it in place without holding a
// buffer across calls.
type dirEntryLoc struct {
	ClusterNum           uint32
	SectorIndexInCluster int
	EntryIndexInSector   int
}

// walkDirEntries visits every directory entry in dirCluster's chain, in
// on-disk order, per spec.md §4.3.4: for each cluster in the chain, for
// each sector, for each of the 16 32-byte entries. The walk stops as soon
// as it visits an entry whose name[0] is the end-of-directory sentinel
// (0x00) — visit is still called for that entry, since create() needs to
// recognize it as a usable free slot, but nothing with a greater index is
// considered live and the walk returns immediately afterward.
func (v *Volume) walkDirEntries(dirCluster uint32, visit func(e *DirEntry, loc dirEntryLoc) (stop bool, err error)) error {
	c := dirCluster
	visitedClusters := uint32(0)
	for c >= 2 && c < fatBad {
		lba := v.clusterLBA(c)
		for s := 0; s < int(v.sectorsPerClus); s++ {
			buf := make([]byte, 512)
			if err := v.dev.ReadSectors(lba+uint32(s), 1, buf); err != nil {
				return newErr("walkDirEntries", IoError, err)
			}
			for i := 0; i < 512/dirEntrySize; i++ {
				eb := buf[i*dirEntrySize : (i+1)*dirEntrySize]
				e := decodeDirEntry(eb)
				loc := dirEntryLoc{ClusterNum: c, SectorIndexInCluster: s, EntryIndexInSector: i}
				stop, err := visit(&e, loc)
				if err != nil {
					return err
				}
				if e.Name[0] == nameEndOfDir {
					return nil
				}
				if stop {
					return nil
				}
			}
		}
		next, err := v.readEntry(c)
		if err != nil {
			return err
		}
		visitedClusters++
		if visitedClusters > v.maxCluster {
			return newErr("walkDirEntries", IoError, fmt.Errorf("directory chain exceeds max_cluster, likely cyclic"))
		}
		if isEndOrBad(next) {
			return nil
		}
		c = next
	}
	return nil
}

// writeDirEntry re-reads the sector e's location is in, patches the
//32-byte entry, and writes the sector back.
func (v *Volume) writeDirEntry(loc dirEntryLoc, e *DirEntry) error {
	lba := v.clusterLBA(loc.ClusterNum) + uint32(loc.SectorIndexInCluster)
	buf := make([]byte, 512)
	if err := v.dev.ReadSectors(lba, 1, buf); err != nil {
		return newErr("writeDirEntry", IoError, err)
	}
	encodeDirEntry(e, buf[loc.EntryIndexInSector*dirEntrySize:(loc.EntryIndexInSector+1)*dirEntrySize])
	if err := v.dev.WriteSectors(lba, 1, buf); err != nil {
		return newErr("writeDirEntry", DirWriteError, err)
	}
	return nil
}

// findEntry looks up a live entry by its canonical 8.3 name.
func (v *Volume) findEntry(dirCluster uint32, nameCanon [11]byte) (DirEntry, dirEntryLoc, error) {
	var found DirEntry
	var foundLoc dirEntryLoc
	ok := false
	err := v.walkDirEntries(dirCluster, func(e *DirEntry, loc dirEntryLoc) (bool, error) {
		if !e.IsLive() {
			return false, nil
		}
		if e.Name == nameCanon {
			found, foundLoc, ok = *e, loc, true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return DirEntry{}, dirEntryLoc{}, err
	}
	if !ok {
		return DirEntry{}, dirEntryLoc{}, newErr("findEntry", NotFound, nil)
	}
	return found, foundLoc, nil
}

// findFreeSlot returns the location of the first entry whose name[0] is
// 0x00 or 0xE5.
func (v *Volume) findFreeSlot(dirCluster uint32) (dirEntryLoc, bool, error) {
	var loc dirEntryLoc
	found := false
	err := v.walkDirEntries(dirCluster, func(e *DirEntry, l dirEntryLoc) (bool, error) {
		if e.IsFree() {
			loc, found = l, true
			return true, nil
		}
		return false, nil
	})
	return loc, found, err
}
