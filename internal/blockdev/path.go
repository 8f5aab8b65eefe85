package blockdev

import "strings"

// NormalizeVolumePath rewrites a bare drive-letter argument ("E" or "E:")
// into the \\.\E: device path Windows requires to open a volume directly,
// leaving anything else (a disk image path, a /dev/sdX node) untouched.
// Grounded on the teacher's internal/disk.NormalizeVolumePath.
func NormalizeVolumePath(path string) string {
	p := strings.TrimSuffix(path, `\`)
	if len(p) == 1 && isLetter(p[0]) {
		return `\\.\` + p + `:`
	}
	if len(p) == 2 && isLetter(p[0]) && p[1] == ':' {
		return `\\.\` + p
	}
	return path
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
