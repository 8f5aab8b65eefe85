//go:build !linux

package fusevol

import (
	"fmt"

	"github.com/relunix/fatkernel/internal/fat32"
)

// Mount is unsupported outside Linux, matching bazil.org/fuse's own
// platform support.
func Mount(mountpoint string, vol *fat32.Volume) error {
	return fmt.Errorf("fusevol: FUSE mount is only supported on Linux")
}
