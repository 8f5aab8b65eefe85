// Package bytesize parses and formats human-readable byte sizes
// ("4MB", "1GiB") for the formatfs command's flags, grounded on the
// teacher's pkg/util/format.FormatBytes.
package bytesize

import (
	"fmt"
	"strconv"
	"strings"
)

var decimalUnits = []struct {
	suffix string
	factor float64
}{
	{"TB", 1e12}, {"GB", 1e9}, {"MB", 1e6}, {"KB", 1e3},
}

var binaryUnits = []struct {
	suffix string
	factor float64
}{
	{"TiB", 1 << 40}, {"GiB", 1 << 30}, {"MiB", 1 << 20}, {"KiB", 1 << 10},
}

// FormatBytes renders b as a human-readable decimal size, e.g. 1536 ->
// "1.54 KB". Values under 1000 bytes are rendered as a plain byte count.
func FormatBytes(b int64) string {
	f := float64(b)
	for _, u := range decimalUnits {
		if f >= u.factor {
			return fmt.Sprintf("%.2f %s", f/u.factor, u.suffix)
		}
	}
	return fmt.Sprintf("%d B", b)
}

// ParseBytes parses a human-readable size such as "4MB", "1.5GiB", or a
// bare byte count, accepting both decimal (KB/MB/GB/TB) and binary
// (KiB/MiB/GiB/TiB) suffixes, case-insensitively.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("bytesize: empty size string")
	}
	upper := strings.ToUpper(s)
	for _, u := range binaryUnits {
		if strings.HasSuffix(upper, strings.ToUpper(u.suffix)) {
			numPart := s[:len(s)-len(u.suffix)]
			return parseScaled(numPart, u.factor)
		}
	}
	for _, u := range decimalUnits {
		if strings.HasSuffix(upper, u.suffix) {
			numPart := s[:len(s)-len(u.suffix)]
			return parseScaled(numPart, u.factor)
		}
	}
	if strings.HasSuffix(upper, "B") {
		numPart := s[:len(s)-1]
		return parseScaled(numPart, 1)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bytesize: invalid size %q: %w", s, err)
	}
	return n, nil
}

func parseScaled(numPart string, factor float64) (int64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(numPart), 64)
	if err != nil {
		return 0, fmt.Errorf("bytesize: invalid size %q: %w", numPart, err)
	}
	return int64(n * factor), nil
}
