package blockdev

import "fmt"

// MemDevice is an in-memory Device backed by a single []byte, used by tests
// and by the table-driven scenarios in spec.md §8 so they need no real
// disk image.
type MemDevice struct {
	data []byte
}

// NewMemDevice allocates a zero-filled MemDevice of the given total sector
// count.
func NewMemDevice(totalSectors uint64) *MemDevice {
	return &MemDevice{data: make([]byte, totalSectors*SectorSize)}
}

// NewMemDeviceFromBytes wraps an existing byte slice, whose length must be
// a multiple of SectorSize, as a MemDevice. Useful for seeding a test fixture
// with a pre-built image.
func NewMemDeviceFromBytes(b []byte) (*MemDevice, error) {
	if len(b)%SectorSize != 0 {
		return nil, fmt.Errorf("blockdev: image length %d is not a multiple of sector size %d", len(b), SectorSize)
	}
	return &MemDevice{data: b}, nil
}

func (m *MemDevice) bounds(lba, count uint32) (int64, int64, error) {
	start := int64(lba) * SectorSize
	end := start + int64(count)*SectorSize
	if start < 0 || end > int64(len(m.data)) {
		return 0, 0, fmt.Errorf("blockdev: lba %d count %d out of range (total %d sectors)", lba, count, m.TotalSectors())
	}
	return start, end, nil
}

func (m *MemDevice) ReadSectors(lba, count uint32, dst []byte) error {
	start, end, err := m.bounds(lba, count)
	if err != nil {
		return err
	}
	n := copy(dst, m.data[start:end])
	if int64(n) != end-start {
		return ErrShortIO
	}
	return nil
}

func (m *MemDevice) WriteSectors(lba, count uint32, src []byte) error {
	start, end, err := m.bounds(lba, count)
	if err != nil {
		return err
	}
	n := copy(m.data[start:end], src)
	if int64(n) != end-start {
		return ErrShortIO
	}
	return nil
}

func (m *MemDevice) TotalSectors() uint64 { return uint64(len(m.data)) / SectorSize }

func (m *MemDevice) Close() error { return nil }
