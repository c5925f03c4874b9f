package avi

import (
	"bytes"
	"encoding/binary"
)

// Index entry flag bits (idx1 Flags field).
const (
	IndexFlagList     uint32 = 0x01 // entry refers to a LIST[rec ] of frames, not a frame itself
	IndexFlagKeyFrame uint32 = 0x10
	IndexFlagNoTime   uint32 = 0x100
)

// Frame is one assembled payload range for a stream, in file order.
type Frame struct {
	Payload  []byte
	KeyFrame bool
}

// indexEntry is the 16-byte idx1 record.
type indexEntry struct {
	ChunkID FourCC
	Flags   uint32
	Offset  uint32
	Size    uint32
}

const indexEntrySize = 16

// decodeStreamIndex recovers a stream index from the first two ASCII bytes
// of a chunk identifier. The wire encoding packs the low nibble into byte 0
// and the high nibble into byte 1, so the decoded value is
// hex(byte0) + hex(byte1)*16 rather than a conventional left-to-right hex
// pair.
func decodeStreamIndex(id FourCC) (int, bool) {
	b := id.Bytes()
	lo, ok := hexDigit(b[0])
	if !ok {
		return 0, false
	}
	hi, ok := hexDigit(b[1])
	if !ok {
		return 0, false
	}
	return lo + hi*16, true
}

// encodeStreamIndexDigits renders index back to the two ASCII bytes
// decodeStreamIndex expects: byte0 carries the low nibble, byte1 the high
// nibble.
func encodeStreamIndexDigits(index int) (byte, byte) {
	return hexChar(index & 0xF), hexChar((index >> 4) & 0xF)
}

func hexDigit(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

func hexChar(v int) byte {
	if v < 10 {
		return byte('0' + v)
	}
	return byte('A' + v - 10)
}

// AssembleFrames builds each stream's ordered frame list from root's movi
// list, using the idx1 table when present (index-directed) or a direct
// positional walk of movi's children otherwise, per spec §4.3. It mutates
// streams in place.
func AssembleFrames(root *ChunkNode, streams []StreamDescriptor) error {
	movi := root.findList(FourCCmovi)
	if movi == nil {
		return newErr(ErrMissingMovi, "RIFF[AVI ]", nil)
	}

	idx1 := root.find(FourCCidx1)
	if idx1 != nil {
		return assembleIndexed(movi, idx1, streams)
	}
	return assemblePositional(movi, streams)
}

func assembleIndexed(movi *ChunkNode, idx1 *ChunkNode, streams []StreamDescriptor) error {
	path := "RIFF[AVI ]/idx1"
	if idx1.Length%indexEntrySize != 0 {
		return newErr(ErrBadIdx1Size, path, nil)
	}

	count := int(idx1.Length / indexEntrySize)
	for i := 0; i < count; i++ {
		raw := idx1.Payload[i*indexEntrySize : (i+1)*indexEntrySize]
		var entry indexEntry
		if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &entry); err != nil {
			return newErr(ErrBadIdx1Size, path, err)
		}

		if uint64(entry.Offset)+uint64(entry.Size)+8 > uint64(movi.Length) {
			return newErr(ErrBadIndexOffset, path, nil)
		}

		if entry.Flags&IndexFlagList != 0 {
			if err := appendRecGroup(movi, entry, streams); err != nil {
				return err
			}
			continue
		}

		idx, ok := decodeStreamIndex(entry.ChunkID)
		if !ok || idx < 0 || idx >= len(streams) {
			return newErr(ErrBadStreamIndex, path, nil)
		}
		framePayload := movi.Payload[entry.Offset+8 : entry.Offset+8+entry.Size]
		streams[idx].Frames = append(streams[idx].Frames, Frame{
			Payload:  framePayload,
			KeyFrame: entry.Flags&IndexFlagKeyFrame != 0,
		})
	}
	return nil
}

func appendRecGroup(movi *ChunkNode, entry indexEntry, streams []StreamDescriptor) error {
	path := "RIFF[AVI ]/LIST[movi]/LIST[rec ]"
	end := entry.Offset + 8 + entry.Size
	sub, err := parseChunk(movi.Payload[entry.Offset:end], "RIFF/LIST[movi]")
	if err != nil {
		return newErr(ErrBadIndexOffset, path, err)
	}
	if sub.ID != FourCCLIST || sub.Form != FourCCrec {
		return newErr(ErrBadIndexOffset, path, nil)
	}
	for _, child := range sub.Children {
		idx, ok := decodeStreamIndex(child.ID)
		if !ok || idx < 0 || idx >= len(streams) {
			return newErr(ErrBadStreamIndex, path, nil)
		}
		streams[idx].Frames = append(streams[idx].Frames, Frame{
			Payload:  child.Payload,
			KeyFrame: entry.Flags&IndexFlagKeyFrame != 0,
		})
	}
	return nil
}

func assemblePositional(movi *ChunkNode, streams []StreamDescriptor) error {
	path := "RIFF[AVI ]/LIST[movi]"
	for _, child := range movi.Children {
		if child.ID == FourCCLIST && child.Form == FourCCrec {
			for _, gc := range child.Children {
				if err := appendPositionalFrame(gc, streams, path+"/LIST[rec ]"); err != nil {
					return err
				}
			}
			continue
		}
		if err := appendPositionalFrame(child, streams, path); err != nil {
			return err
		}
	}
	return nil
}

func appendPositionalFrame(chunk ChunkNode, streams []StreamDescriptor, path string) error {
	idx, ok := decodeStreamIndex(chunk.ID)
	if !ok || idx < 0 || idx >= len(streams) {
		return newErr(ErrBadStreamIndex, path, nil)
	}
	streams[idx].Frames = append(streams[idx].Frames, Frame{Payload: chunk.Payload})
	return nil
}
