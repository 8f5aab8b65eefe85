package fat32

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: format+mount+touch+ls.
func TestScenario1FormatMountTouchLs(t *testing.T) {
	vol, _ := newFormattedVolume(t, 8)

	require.NoError(t, vol.Create("HELLO.TXT", []byte("hi\n")))

	entries, err := vol.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "HELLO.TXT", entries[0].Name)
	assert.Equal(t, uint32(3), entries[0].Size)
}

// S2: round-trip larger than one cluster, cluster_bytes=4096 (K=8).
func TestScenario2RoundTripAcrossClusters(t *testing.T) {
	vol, _ := newFormattedVolume(t, 8)

	data := make([]byte, 5120)
	for i := range data {
		data[i] = byte(i % 256)
	}
	require.NoError(t, vol.Create("BIG.BIN", data))

	buf := make([]byte, 5121)
	n, err := vol.ReadToBuffer("BIG.BIN", buf)
	require.NoError(t, err)
	assert.Equal(t, 5120, n)
	assert.Equal(t, data, buf[:5120])
	assert.Equal(t, byte(0), buf[5120])
}

// S3: delete reclaims clusters.
func TestScenario3DeleteReclaimsClusters(t *testing.T) {
	vol, _ := newFormattedVolume(t, 8)

	data := make([]byte, 5120)
	require.NoError(t, vol.Create("BIG.BIN", data))
	e, _, err := vol.findEntry(vol.curDirCluster, Canonicalize83("BIG.BIN"))
	require.NoError(t, err)
	chain := collectChain(t, vol, e.Cluster())

	require.NoError(t, vol.Remove("BIG.BIN"))

	for _, c := range chain {
		val, err := vol.readEntry(c)
		require.NoError(t, err)
		assert.Equal(t, fatFree, val)
	}
	orphans, err := vol.Chkdsk()
	require.NoError(t, err)
	assert.Equal(t, 0, orphans)
}

// S4: copy equals source, distinct chains.
func TestScenario4CopyEqualsSource(t *testing.T) {
	vol, _ := newFormattedVolume(t, 1)

	require.NoError(t, vol.Create("A", []byte("abc")))
	require.NoError(t, vol.Copy("A", "B"))

	buf := make([]byte, 4)
	n, err := vol.ReadToBuffer("B", buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", string(buf[:3]))

	a, _, err := vol.findEntry(vol.curDirCluster, Canonicalize83("A"))
	require.NoError(t, err)
	b, _, err := vol.findEntry(vol.curDirCluster, Canonicalize83("B"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Cluster(), b.Cluster())
}

// S5: chkdsk reclaims a leaked chain.
func TestScenario5ChkdskReclaimsLeakedChain(t *testing.T) {
	vol, _ := newFormattedVolume(t, 1)

	head, err := vol.allocateChain(3)
	require.NoError(t, err)
	_ = head

	orphans, err := vol.Chkdsk()
	require.NoError(t, err)
	assert.Equal(t, 3, orphans)

	orphans2, err := vol.Chkdsk()
	require.NoError(t, err)
	assert.Equal(t, 0, orphans2)
}

// S6-adjacent: format witness (invariant 6).
func TestFormatWitnessEmptyListing(t *testing.T) {
	vol, _ := newFormattedVolume(t, 1)
	entries, err := vol.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// Invariant 1: FAT mirror equality.
func TestInvariantFATMirrorEquality(t *testing.T) {
	vol, dev := newFormattedVolume(t, 1)
	require.NoError(t, vol.Create("A", []byte("hello world")))

	info := vol.Info()
	for c := uint32(2); c < vol.maxCluster; c++ {
		off := c * 4
		s0 := info.FirstFATLBA + off/512
		s1 := info.FirstFATLBA + info.SectorsPerFAT + off/512
		e := off % 512

		buf0 := make([]byte, 512)
		buf1 := make([]byte, 512)
		require.NoError(t, dev.ReadSectors(s0, 1, buf0))
		require.NoError(t, dev.ReadSectors(s1, 1, buf1))
		assert.Equal(t, buf0[e:e+4], buf1[e:e+4], "FAT mirror mismatch at cluster %d", c)
	}
}

// Invariant 2: chain acyclicity.
func TestInvariantChainAcyclicity(t *testing.T) {
	vol, _ := newFormattedVolume(t, 1)
	require.NoError(t, vol.Create("A", []byte("some file content")))
	e, _, err := vol.findEntry(vol.curDirCluster, Canonicalize83("A"))
	require.NoError(t, err)

	chain := collectChain(t, vol, e.Cluster())
	assert.LessOrEqual(t, len(chain), int(vol.maxCluster-2))
}

// Invariant 4: round-trip for a range of sizes.
func TestInvariantRoundTripSizes(t *testing.T) {
	vol, _ := newFormattedVolume(t, 1)
	clusterBytes := vol.ClusterBytes()

	for _, n := range []int{0, 1, clusterBytes - 1, clusterBytes, clusterBytes + 1, 2 * clusterBytes} {
		name := "F"
		_ = vol.Remove(name)
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i)
		}
		require.NoError(t, vol.Create(name, data))
		buf := make([]byte, n+1)
		got, err := vol.ReadToBuffer(name, buf)
		require.NoError(t, err)
		assert.Equal(t, n, got)
		assert.Equal(t, data, buf[:n])
	}
}

// Invariant 5: delete idempotence.
func TestInvariantDeleteIdempotence(t *testing.T) {
	vol, _ := newFormattedVolume(t, 1)
	require.NoError(t, vol.Create("A", []byte("x")))
	require.NoError(t, vol.Remove("A"))

	err := vol.Remove("A")
	require.Error(t, err)
	assert.Equal(t, NotFound, CodeOf(err))
}

func collectChain(t *testing.T, vol *Volume, head uint32) []uint32 {
	t.Helper()
	var chain []uint32
	c := head
	for c >= 2 && c < fatBad {
		chain = append(chain, c)
		next, err := vol.readEntry(c)
		require.NoError(t, err)
		if isEndOrBad(next) {
			break
		}
		c = next
	}
	return chain
}
