package avi

import "encoding/binary"

// buildChunk assembles a single chunk's wire bytes: 8-byte header, payload,
// and a trailing pad byte if the payload length is odd.
func buildChunk(id string, payload []byte) []byte {
	out := make([]byte, 0, 8+len(payload)+1)
	var idBytes [4]byte
	copy(idBytes[:], id)
	out = append(out, idBytes[:]...)
	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(payload)))
	out = append(out, lenBytes[:]...)
	out = append(out, payload...)
	if len(payload)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

// buildList assembles a RIFF or LIST chunk whose payload is the form tag
// followed by the concatenation of already-built child chunk bytes.
func buildList(id, form string, children ...[]byte) []byte {
	payload := make([]byte, 0, 4)
	var formBytes [4]byte
	copy(formBytes[:], form)
	payload = append(payload, formBytes[:]...)
	for _, c := range children {
		payload = append(payload, c...)
	}
	return buildChunk(id, payload)
}

func buildAvih(streamCount, width, height uint32) []byte {
	payload := make([]byte, 56)
	binary.LittleEndian.PutUint32(payload[24:28], streamCount)
	binary.LittleEndian.PutUint32(payload[32:36], width)
	binary.LittleEndian.PutUint32(payload[36:40], height)
	return buildChunk("avih", payload)
}

func buildStrh(streamType string) []byte {
	payload := make([]byte, 56)
	copy(payload[0:4], streamType)
	return buildChunk("strh", payload)
}

func buildStrfVideo(headerSize uint32, extradata []byte) []byte {
	payload := make([]byte, 40+len(extradata))
	binary.LittleEndian.PutUint32(payload[0:4], headerSize)
	copy(payload[40:], extradata)
	return buildChunk("strf", payload)
}

func buildStrfAudio(opaque []byte) []byte {
	return buildChunk("strf", opaque)
}

func buildIdx1(entries ...[]byte) []byte {
	payload := make([]byte, 0, 16*len(entries))
	for _, e := range entries {
		payload = append(payload, e...)
	}
	return buildChunk("idx1", payload)
}

func buildIndexEntry(chunkID string, flags, offset, size uint32) []byte {
	entry := make([]byte, 16)
	copy(entry[0:4], chunkID)
	binary.LittleEndian.PutUint32(entry[4:8], flags)
	binary.LittleEndian.PutUint32(entry[8:12], offset)
	binary.LittleEndian.PutUint32(entry[12:16], size)
	return entry
}

// minimalVideoFile builds a single-stream, index-free AVI file with one
// frame "abcd" under stream 0, matching spec scenario 1.
func minimalVideoFile() []byte {
	strl := buildList("LIST", "strl", buildStrh("vids"), buildStrfVideo(40, nil))
	hdrl := buildList("LIST", "hdrl", buildAvih(1, 2, 2), strl)
	movi := buildList("LIST", "movi", buildChunk("00dc", []byte("abcd")))
	return buildList("RIFF", "AVI ", hdrl, movi)
}
