package avi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseChunksMinimalVideoFile(t *testing.T) {
	data := minimalVideoFile()

	root, err := ParseChunks(data)
	require.NoError(t, err)
	require.Equal(t, FourCCRIFF, root.ID)
	require.Equal(t, FourCCAVI, root.Form)
	require.Len(t, root.Children, 2)

	hdrl := root.findList(FourCChdrl)
	require.NotNil(t, hdrl)
	require.NotNil(t, hdrl.find(FourCCavih))

	movi := root.findList(FourCCmovi)
	require.NotNil(t, movi)
	require.Len(t, movi.Children, 1)
	require.Equal(t, []byte("abcd"), movi.Children[0].Payload)
}

func TestParseChunksOddLengthPadding(t *testing.T) {
	chunk := buildChunk("00dc", []byte("hi!"))
	require.Equal(t, []byte{'0', '0', 'd', 'c', 3, 0, 0, 0, 'h', 'i', '!', 0}, chunk)

	node, err := parseChunk(chunk, "")
	require.NoError(t, err)
	require.Equal(t, uint32(3), node.Length)
	require.Equal(t, []byte("hi!"), node.Payload)
}

func TestParseChunksShortBuffer(t *testing.T) {
	_, err := ParseChunks([]byte{0, 1, 2})
	require.Error(t, err)
	var avierr *Error
	require.ErrorAs(t, err, &avierr)
	require.Equal(t, ErrShortBuffer, avierr.Kind)
}

func TestParseChunksOverlongChunk(t *testing.T) {
	data := buildChunk("avih", make([]byte, 56))
	truncated := data[:len(data)-10]
	_, err := ParseChunks(truncated)
	require.Error(t, err)
	var avierr *Error
	require.ErrorAs(t, err, &avierr)
	require.Equal(t, ErrOverlongChunk, avierr.Kind)
}

func TestParseChunksRaggedList(t *testing.T) {
	// A child with an odd payload length whose trailing pad byte was
	// omitted: the list's declared length ends up one short of what the
	// alignment-aware traversal consumes.
	oddChild := buildChunk("strn", []byte("x"))
	oddChildNoPad := oddChild[:len(oddChild)-1]
	list := buildList("LIST", "strl", oddChildNoPad)

	_, err := ParseChunks(list)
	require.Error(t, err)
	var avierr *Error
	require.ErrorAs(t, err, &avierr)
	require.Equal(t, ErrRaggedList, avierr.Kind)
}

func TestAlignSize(t *testing.T) {
	require.Equal(t, uint32(0), AlignSize(0))
	require.Equal(t, uint32(2), AlignSize(1))
	require.Equal(t, uint32(2), AlignSize(2))
	require.Equal(t, uint32(4), AlignSize(3))
}

func TestShortBufferSafetyAtEveryPrefix(t *testing.T) {
	data := minimalVideoFile()
	for n := 0; n <= len(data); n++ {
		_, err := ParseChunks(data[:n])
		if n == len(data) {
			require.NoError(t, err)
			continue
		}
		// Either a strict prefix parses (impossible here since the root
		// chunk's declared length requires the full buffer) or it errors;
		// it must never panic or read out of bounds, which the bare call
		// covers: a panic would fail the test run.
		_ = err
	}
}
