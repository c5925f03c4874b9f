package avi

import (
	"bytes"
	"encoding/binary"
)

// Compose writes a complete AVI file for the given main header, one
// StreamDescriptor per stream (Header and Format are used; Frames is
// ignored in favor of the frames argument), and frames[i] the ordered raw
// payload bytes for stream i. It implements spec §4.4's two-pass
// size-then-write construction: pass one computes the exact output length,
// pass two writes every byte once, and a post-write length check guards
// against the two falling out of sync.
func Compose(header AVIMainHeader, streams []StreamDescriptor, frames [][][]byte) ([]byte, error) {
	if len(frames) != len(streams) {
		return nil, newErr(ErrStreamCountMismatch, "compose", nil)
	}

	strfBytes := make([][]byte, len(streams))
	for i, s := range streams {
		strfBytes[i] = encodeStrf(s.Format)
	}

	hdrlSize := uint32(4 + 8 + avihSize)
	for i := range streams {
		strfLen := uint32(len(strfBytes[i]))
		hdrlSize += 8 + 4 + 8 + strhSize + 8 + strfLen + (strfLen & 1)
	}

	moviSize := uint32(4)
	for i := range frames {
		for _, f := range frames[i] {
			flen := uint32(len(f))
			moviSize += 8 + flen + (flen & 1)
		}
	}

	riffPayload := uint32(4) + (8 + hdrlSize) + (8 + moviSize)
	total := 8 + riffPayload

	var buf bytes.Buffer
	buf.Grow(int(total))

	writeChunkHeader(&buf, FourCCRIFF, riffPayload)
	aviForm := FourCCAVI.Bytes()
	buf.Write(aviForm[:])

	writeChunkHeader(&buf, FourCCLIST, hdrlSize)
	hdrlForm := FourCChdrl.Bytes()
	buf.Write(hdrlForm[:])

	writeChunkHeader(&buf, FourCCavih, avihSize)
	binary.Write(&buf, binary.LittleEndian, &header)

	for i, s := range streams {
		strf := strfBytes[i]
		strfLen := uint32(len(strf))
		strlSize := uint32(4) + 8 + strhSize + 8 + strfLen + (strfLen & 1)

		writeChunkHeader(&buf, FourCCLIST, strlSize)
		strlForm := FourCCstrl.Bytes()
		buf.Write(strlForm[:])

		writeChunkHeader(&buf, FourCCstrh, strhSize)
		binary.Write(&buf, binary.LittleEndian, &s.Header)

		writeChunkHeader(&buf, FourCCstrf, strfLen)
		buf.Write(strf)
		writePad(&buf, strfLen)
	}

	writeChunkHeader(&buf, FourCCLIST, moviSize)
	moviForm := FourCCmovi.Bytes()
	buf.Write(moviForm[:])

	for i, s := range streams {
		suffix := frameSuffix(s.Header.Type)
		for _, f := range frames[i] {
			id := frameChunkID(i, suffix)
			flen := uint32(len(f))
			writeChunkHeader(&buf, id, flen)
			buf.Write(f)
			writePad(&buf, flen)
		}
	}

	if uint32(buf.Len()) != total {
		return nil, newErr(ErrAllocFailure, "compose", nil)
	}
	return buf.Bytes(), nil
}

func writeChunkHeader(buf *bytes.Buffer, id FourCC, length uint32) {
	idBytes := id.Bytes()
	buf.Write(idBytes[:])
	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], length)
	buf.Write(lenBytes[:])
}

func writePad(buf *bytes.Buffer, length uint32) {
	if length&1 == 1 {
		buf.WriteByte(0)
	}
}

// frameSuffix picks the two-letter frame chunk suffix by stream type: "dc"
// for video, "wb" for audio, "dc" for anything else. The source format only
// ever emits "XXdc" regardless of stream type; this keeps audio frames
// distinguishable from video ones in a composed file without affecting any
// decode-side invariant, since assembly only reads the stream-index digits.
func frameSuffix(streamType FourCC) string {
	if streamType == FourCCauds {
		return "wb"
	}
	return "dc"
}

func frameChunkID(streamIndex int, suffix string) FourCC {
	lo, hi := encodeStreamIndexDigits(streamIndex)
	var b [4]byte
	b[0] = lo
	b[1] = hi
	b[2] = suffix[0]
	b[3] = suffix[1]
	return FourCC(binary.LittleEndian.Uint32(b[:]))
}

// encodeStrf renders a StreamFormat back to its strf wire payload.
func encodeStrf(format StreamFormat) []byte {
	switch format.Kind {
	case FormatVideo:
		var buf bytes.Buffer
		v := format.Video
		binary.Write(&buf, binary.LittleEndian, v.HeaderSize)
		binary.Write(&buf, binary.LittleEndian, v.Width)
		binary.Write(&buf, binary.LittleEndian, v.Height)
		binary.Write(&buf, binary.LittleEndian, v.Planes)
		binary.Write(&buf, binary.LittleEndian, v.BitCount)
		binary.Write(&buf, binary.LittleEndian, v.Compression)
		binary.Write(&buf, binary.LittleEndian, v.ImageSize)
		binary.Write(&buf, binary.LittleEndian, v.HPelsPerMeter)
		binary.Write(&buf, binary.LittleEndian, v.VPelsPerMeter)
		binary.Write(&buf, binary.LittleEndian, v.ColoursUsed)
		binary.Write(&buf, binary.LittleEndian, v.ColoursImportant)
		buf.Write(v.Extradata)
		return buf.Bytes()
	case FormatAudio:
		return format.Audio
	default:
		return nil
	}
}
