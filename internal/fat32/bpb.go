package fat32

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// fatSignature is the 0x55 0xAA boot-sector signature at byte offset 510
// of sector 0, sector 6 (the BPB backup), and the FSInfo sector.
var fatSignature = [2]byte{0x55, 0xAA}

var fatFilSysType = [8]byte{'F', 'A', 'T', '3', '2', ' ', ' ', ' '}

// rawBPB is the exact 90-byte on-disk layout of spec.md §6's BPB table,
// decoded with encoding/binary the way the teacher's
// internal/disk.ReadFatBootSectorFrom decodes FatBootSector — a flat
// little-endian struct read directly off a sector buffer.
type rawBPB struct {
	JmpBoot     [3]byte
	OEMName     [8]byte
	BytesPerSec uint16
	SecPerClus  uint8
	RsvdSecCnt  uint16
	NumFATs     uint8
	RootEntCnt  uint16
	TotSec16    uint16
	Media       uint8
	FATSz16     uint16
	SecPerTrk   uint16
	NumHeads    uint16
	HiddSec     uint32
	TotSec32    uint32
	FATSz32     uint32
	ExtFlags    uint16
	FSVer       uint16
	RootClus    uint32
	FSInfoSec   uint16
	BkBootSec   uint16
	Reserved    [12]byte
	DrvNum      uint8
	Reserved1   uint8
	BootSig     uint8
	VolID       uint32
	VolLab      [11]byte
	FilSysType  [8]byte
}

// BPB is the parsed, validated BIOS Parameter Block of a mounted volume.
type BPB struct {
	BytesPerSector uint16
	SectorsPerClus uint8
	ReservedSecCnt uint16
	NumFATs        uint8
	FATSz32        uint32
	TotSec32       uint32
	RootClus       uint32
	FSInfoSec      uint16
	BkBootSec      uint16
	VolID          uint32
}

// ReadBPB decodes and validates sector 0 as a FAT32 BPB. It fails with
// NotFat32 unless the 8-byte fil_sys_type field is exactly "FAT32   ",
// per spec.md §4.3.1.
func ReadBPB(sector []byte) (*BPB, error) {
	if len(sector) < 512 {
		return nil, newErr("ReadBPB", IoError, fmt.Errorf("sector buffer too short: %d bytes", len(sector)))
	}
	var raw rawBPB
	if err := binary.Read(bytes.NewReader(sector[:90]), binary.LittleEndian, &raw); err != nil {
		return nil, newErr("ReadBPB", IoError, err)
	}
	if raw.FilSysType != fatFilSysType {
		return nil, newErr("ReadBPB", NotFat32, fmt.Errorf("fil_sys_type %q is not FAT32", raw.FilSysType))
	}
	if sector[510] != fatSignature[0] || sector[511] != fatSignature[1] {
		return nil, newErr("ReadBPB", NotFat32, fmt.Errorf("missing boot signature"))
	}
	if raw.BytesPerSec != 512 {
		return nil, newErr("ReadBPB", NotFat32, fmt.Errorf("unsupported bytes_per_sec %d", raw.BytesPerSec))
	}
	if !isPowerOfTwoU8(raw.SecPerClus) {
		return nil, newErr("ReadBPB", NotFat32, fmt.Errorf("sec_per_clus %d is not a power of two", raw.SecPerClus))
	}
	return &BPB{
		BytesPerSector: raw.BytesPerSec,
		SectorsPerClus: raw.SecPerClus,
		ReservedSecCnt: raw.RsvdSecCnt,
		NumFATs:        raw.NumFATs,
		FATSz32:        raw.FATSz32,
		TotSec32:       raw.TotSec32,
		RootClus:       raw.RootClus,
		FSInfoSec:      raw.FSInfoSec,
		BkBootSec:      raw.BkBootSec,
		VolID:          raw.VolID,
	}, nil
}

// EncodeBPB writes a BPB into a zero-filled 512-byte sector buffer,
// matching the layout spec.md §6 specifies field for field, used by
// Format to write sector 0 and its sector-6 backup.
func EncodeBPB(totSec32, fatSz32, rootClus uint32, secPerClus uint8, volID uint32) []byte {
	sector := make([]byte, 512)
	raw := rawBPB{
		JmpBoot:     [3]byte{0xEB, 0x58, 0x90},
		OEMName:     [8]byte{'M', 'S', 'D', 'O', 'S', '5', '.', '0'},
		BytesPerSec: 512,
		SecPerClus:  secPerClus,
		RsvdSecCnt:  32,
		NumFATs:     2,
		Media:       0xF8,
		SecPerTrk:   63,
		NumHeads:    255,
		TotSec32:    totSec32,
		FATSz32:     fatSz32,
		RootClus:    rootClus,
		FSInfoSec:   1,
		BkBootSec:   6,
		DrvNum:      0x80,
		BootSig:     29,
		VolID:       volID,
		VolLab:      [11]byte{'N', 'O', ' ', 'N', 'A', 'M', 'E', ' ', ' ', ' ', ' '},
		FilSysType:  fatFilSysType,
	}
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, &raw)
	copy(sector, buf.Bytes())
	sector[510], sector[511] = fatSignature[0], fatSignature[1]
	return sector
}

func isPowerOfTwoU8(v uint8) bool {
	return v != 0 && v&(v-1) == 0
}
