package fat32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize83(t *testing.T) {
	want := [11]byte{'F', 'O', 'O', ' ', ' ', ' ', ' ', ' ', 'T', 'X', 'T'}
	assert.Equal(t, want, Canonicalize83("foo.TXT"))
	assert.Equal(t, want, Canonicalize83("FOO.txt"))
	assert.Equal(t, Canonicalize83("foo.TXT"), Canonicalize83("FOO.txt"))
}

func TestCanonicalize83NoExtension(t *testing.T) {
	got := Canonicalize83("readme")
	assert.Equal(t, "READ", string(got[0:4]))
	assert.Equal(t, "    ", string(got[8:11]))
}

func TestFormatName83RoundTrip(t *testing.T) {
	assert.Equal(t, "FOO.TXT", FormatName83(Canonicalize83("foo.txt")))
	assert.Equal(t, "README", FormatName83(Canonicalize83("README")))
}
