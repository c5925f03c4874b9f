package avi

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMinimalVideoFile(t *testing.T) {
	parsed, err := Parse(minimalVideoFile(), nil)
	require.NoError(t, err)
	require.Equal(t, uint32(1), parsed.Header.StreamCount)
	require.Len(t, parsed.Streams, 1)
	require.Len(t, parsed.Streams[0].Frames, 1)
}

func TestReaderOpenAndReadPacket(t *testing.T) {
	rd := NewReader(nil)
	require.NoError(t, rd.Open(bytes.NewReader(minimalVideoFile())))
	defer rd.Close()

	info, err := rd.GetFileInfo()
	require.NoError(t, err)
	require.Equal(t, 1, info.TotalFrames)
	require.Len(t, info.Streams, 1)
	require.Equal(t, StreamTypeVideo, info.Streams[0].Type)

	packet, err := rd.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, 0, packet.StreamIndex)
	require.Equal(t, []byte("abcd"), packet.Data)

	_, err = rd.ReadPacket()
	require.ErrorIs(t, err, io.EOF)
}

func TestWriterRoundTripThroughReader(t *testing.T) {
	header := AVIMainHeader{Width: 4, Height: 4}
	writer := NewWriter(header)

	var buf bytes.Buffer
	require.NoError(t, writer.Create(&buf))

	idx, err := writer.AddStream(
		StreamHeader{Type: FourCCvids, Scale: 1, Rate: 25},
		StreamFormat{Kind: FormatVideo, Video: VideoFormat{HeaderSize: 40, Width: 4, Height: 4}},
	)
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	require.NoError(t, writer.WritePacket(Packet{StreamIndex: 0, Data: []byte("frame0")}))
	require.NoError(t, writer.WritePacket(Packet{StreamIndex: 0, Data: []byte("frame1")}))
	require.NoError(t, writer.Finalize())

	rd := NewReader(nil)
	require.NoError(t, rd.Open(&buf))

	info, err := rd.GetFileInfo()
	require.NoError(t, err)
	require.Equal(t, uint32(1), info.MainHeader.StreamCount)
	require.Equal(t, 2, info.TotalFrames)

	first, err := rd.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("frame0"), first.Data)

	second, err := rd.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("frame1"), second.Data)
}

func TestWriterRoundTripThroughSeekableBuffer(t *testing.T) {
	header := AVIMainHeader{}
	writer := NewWriter(header)

	sb := NewSeekableBuffer()
	require.NoError(t, writer.Create(sb))

	_, err := writer.AddStream(StreamHeader{Type: FourCCauds}, StreamFormat{Kind: FormatAudio, Audio: []byte{1, 2}})
	require.NoError(t, err)
	require.NoError(t, writer.WritePacket(Packet{StreamIndex: 0, Data: []byte("snd")}))
	require.NoError(t, writer.Finalize())

	parsed, err := Parse(sb.Bytes(), nil)
	require.NoError(t, err)
	require.Len(t, parsed.Streams, 1)
	require.Equal(t, []byte("snd"), parsed.Streams[0].Frames[0].Payload)
}
