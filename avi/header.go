package avi

import (
	"bytes"
	"encoding/binary"
)

// AVI main header flags (avih.Flags bitmask).
const (
	AVIFHasIndex      uint32 = 0x00000010
	AVIFMustUseIndex  uint32 = 0x00000020
	AVIFInterleaved   uint32 = 0x00000100
	AVIFTrustCKType   uint32 = 0x00000800
	AVIFWasCaptureFile uint32 = 0x00010000
	AVIFCopyrighted   uint32 = 0x00020000
)

// AVIMainHeader is the 56-byte avih chunk payload.
type AVIMainHeader struct {
	MicroSecPerFrame    uint32
	MaxBytesPerSec      uint32
	PaddingGranularity  uint32
	Flags               uint32
	TotalFrames         uint32
	InitialFrames       uint32
	StreamCount         uint32
	SuggestedBufferSize uint32
	Width               uint32
	Height              uint32
	Reserved            [4]uint32
}

const avihSize = 56

// Rect is the destination rectangle embedded in a stream header.
type Rect struct {
	Left, Top, Right, Bottom int16
}

// StreamHeader is the 56-byte strh chunk payload.
type StreamHeader struct {
	Type                FourCC
	Handler             FourCC
	Flags               uint32
	Priority            uint16
	Language            uint16
	InitialFrames       uint32
	Scale               uint32
	Rate                uint32
	Start               uint32
	Length              uint32
	SuggestedBufferSize uint32
	Quality             uint32
	SampleSize          uint32
	Frame               Rect
}

const strhSize = 56

// VideoFormat is the 40-byte BITMAPINFOHEADER prefix of a vids strf chunk,
// plus any codec-private extradata trailing it.
type VideoFormat struct {
	HeaderSize       uint32
	Width            int32
	Height           int32
	Planes           uint16
	BitCount         uint16
	Compression      FourCC
	ImageSize        uint32
	HPelsPerMeter    int32
	VPelsPerMeter    int32
	ColoursUsed      uint32
	ColoursImportant uint32
	Extradata        []byte
}

const bitmapInfoHeaderSize = 40

// StreamFormatKind distinguishes the strf sum type.
type StreamFormatKind int

const (
	FormatUnknown StreamFormatKind = iota
	FormatVideo
	FormatAudio
)

// StreamFormat is the strf sum type: Video carries a parsed BITMAPINFOHEADER,
// Audio is retained as an opaque byte range (WAVEFORMATEX interpretation is
// out of scope for this core), Unknown carries neither.
type StreamFormat struct {
	Kind  StreamFormatKind
	Video VideoFormat
	Audio []byte // opaque, zero-copy
}

// StreamDescriptor is one strl's decoded header/format plus its assembled
// frame list (populated later by AssembleFrames).
type StreamDescriptor struct {
	Header StreamHeader
	Format StreamFormat
	Frames []Frame
}

// DecodeHeaders locates and validates the main AVI header and every
// per-stream header/format descriptor, per spec §4.2. diag receives
// warning-level diagnostics for stream types this core does not interpret
// further (mids/txts); it may be nil, in which case defaultDiagnostics is
// used.
func DecodeHeaders(root *ChunkNode, diag DiagnosticFunc) (AVIMainHeader, []StreamDescriptor, error) {
	if diag == nil {
		diag = defaultDiagnostics
	}

	if root.ID != FourCCRIFF {
		return AVIMainHeader{}, nil, newErr(ErrRootNotRiff, root.ID.String(), nil)
	}
	if root.Form != FourCCAVI {
		return AVIMainHeader{}, nil, newErr(ErrRootNotAvi, root.ID.String(), nil)
	}

	hdrl := root.findList(FourCChdrl)
	if hdrl == nil {
		return AVIMainHeader{}, nil, newErr(ErrMissingAvih, "RIFF[AVI ]", nil)
	}

	avihPath := "RIFF[AVI ]/LIST[hdrl]/avih"
	avihChunk := hdrl.find(FourCCavih)
	if avihChunk == nil {
		return AVIMainHeader{}, nil, newErr(ErrMissingAvih, avihPath, nil)
	}
	if avihChunk.Length != avihSize {
		return AVIMainHeader{}, nil, newErr(ErrBadAvihSize, avihPath, nil)
	}

	var main AVIMainHeader
	if err := binary.Read(bytes.NewReader(avihChunk.Payload), binary.LittleEndian, &main); err != nil {
		return AVIMainHeader{}, nil, newErr(ErrBadAvihSize, avihPath, err)
	}

	var strls []*ChunkNode
	for i := range hdrl.Children {
		child := &hdrl.Children[i]
		if child.ID == FourCCLIST && child.Form == FourCCstrl {
			strls = append(strls, child)
		}
	}

	streams := make([]StreamDescriptor, 0, len(strls))
	for i, strl := range strls {
		desc, err := decodeStrl(strl, i, diag)
		if err != nil {
			return AVIMainHeader{}, nil, err
		}
		streams = append(streams, desc)
	}

	if uint32(len(streams)) != main.StreamCount {
		return AVIMainHeader{}, nil, newErr(ErrStreamCountMismatch, avihPath, nil)
	}
	if main.StreamCount > 255 {
		return AVIMainHeader{}, nil, newErr(ErrTooManyStreams, avihPath, nil)
	}

	return main, streams, nil
}

func decodeStrl(strl *ChunkNode, index int, diag DiagnosticFunc) (StreamDescriptor, error) {
	path := "RIFF[AVI ]/LIST[hdrl]/LIST[strl]"

	strhChunks := strl.findAll(FourCCstrh)
	if len(strhChunks) == 0 {
		return StreamDescriptor{}, newErr(ErrMissingStrh, path, nil)
	}
	if len(strhChunks) > 1 {
		return StreamDescriptor{}, newErr(ErrDuplicateStrh, path, nil)
	}
	strhChunk := strhChunks[0]
	if strhChunk.Length != strhSize {
		return StreamDescriptor{}, newErr(ErrBadStrhSize, path+"/strh", nil)
	}

	var header StreamHeader
	if err := binary.Read(bytes.NewReader(strhChunk.Payload), binary.LittleEndian, &header); err != nil {
		return StreamDescriptor{}, newErr(ErrBadStrhSize, path+"/strh", err)
	}

	strfChunks := strl.findAll(FourCCstrf)
	if len(strfChunks) == 0 {
		return StreamDescriptor{}, newErr(ErrMissingStrf, path, nil)
	}
	if len(strfChunks) > 1 {
		return StreamDescriptor{}, newErr(ErrDuplicateStrf, path, nil)
	}
	strfChunk := strfChunks[0]

	if indexOf(strl, strfChunk) < indexOf(strl, strhChunk) {
		return StreamDescriptor{}, newErr(ErrStrfBeforeStrh, path+"/strf", nil)
	}

	format, err := decodeStrf(header.Type, strfChunk, path+"/strf", index, diag)
	if err != nil {
		return StreamDescriptor{}, err
	}

	return StreamDescriptor{Header: header, Format: format}, nil
}

// indexOf returns the position of target among parent's direct children, or
// -1 if not found; used only to confirm strf appears after strh.
func indexOf(parent *ChunkNode, target *ChunkNode) int {
	for i := range parent.Children {
		if &parent.Children[i] == target {
			return i
		}
	}
	return -1
}

// bitmapInfoHeaderWire is the fixed 40-byte prefix of a vids strf payload,
// laid out for a single binary.Read (Extradata is sliced separately since it
// has no fixed size).
type bitmapInfoHeaderWire struct {
	HeaderSize       uint32
	Width            int32
	Height           int32
	Planes           uint16
	BitCount         uint16
	Compression      FourCC
	ImageSize        uint32
	HPelsPerMeter    int32
	VPelsPerMeter    int32
	ColoursUsed      uint32
	ColoursImportant uint32
}

func decodeStrf(streamType FourCC, strf *ChunkNode, path string, index int, diag DiagnosticFunc) (StreamFormat, error) {
	switch streamType {
	case FourCCvids:
		if strf.Length < bitmapInfoHeaderSize {
			return StreamFormat{}, newErr(ErrBadStrhSize, path, nil)
		}
		var wire bitmapInfoHeaderWire
		if err := binary.Read(bytes.NewReader(strf.Payload[:bitmapInfoHeaderSize]), binary.LittleEndian, &wire); err != nil {
			return StreamFormat{}, newErr(ErrBadStrhSize, path, err)
		}
		vf := VideoFormat{
			HeaderSize:       wire.HeaderSize,
			Width:            wire.Width,
			Height:           wire.Height,
			Planes:           wire.Planes,
			BitCount:         wire.BitCount,
			Compression:      wire.Compression,
			ImageSize:        wire.ImageSize,
			HPelsPerMeter:    wire.HPelsPerMeter,
			VPelsPerMeter:    wire.VPelsPerMeter,
			ColoursUsed:      wire.ColoursUsed,
			ColoursImportant: wire.ColoursImportant,
		}
		if strf.Length > bitmapInfoHeaderSize {
			vf.Extradata = strf.Payload[bitmapInfoHeaderSize:strf.Length]
		}
		return StreamFormat{Kind: FormatVideo, Video: vf}, nil

	case FourCCauds:
		return StreamFormat{Kind: FormatAudio, Audio: strf.Payload}, nil

	default:
		diag(ErrMissingStrf, path, "unrecognized stream type "+streamType.String()+" at strl index "+itoa(index)+"; retaining no format")
		return StreamFormat{Kind: FormatUnknown}, nil
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
