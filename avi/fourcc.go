package avi

import "encoding/binary"

// FourCC is a four-byte ASCII tag packed little-endian into a 32-bit
// integer: d[0] | d[1]<<8 | d[2]<<16 | d[3]<<24.
type FourCC uint32

// Well-known chunk and list identifiers.
var (
	FourCCRIFF = ParseFourCC("RIFF")
	FourCCLIST = ParseFourCC("LIST")
	FourCCAVI  = ParseFourCC("AVI ")
	FourCChdrl = ParseFourCC("hdrl")
	FourCCstrl = ParseFourCC("strl")
	FourCCmovi = ParseFourCC("movi")
	FourCCrec  = ParseFourCC("rec ")
	FourCCavih = ParseFourCC("avih")
	FourCCstrh = ParseFourCC("strh")
	FourCCstrf = ParseFourCC("strf")
	FourCCstrn = ParseFourCC("strn")
	FourCCstrd = ParseFourCC("strd")
	FourCCidx1 = ParseFourCC("idx1")
	FourCCvids = ParseFourCC("vids")
	FourCCauds = ParseFourCC("auds")
	FourCCmids = ParseFourCC("mids")
	FourCCtxts = ParseFourCC("txts")
)

// ParseFourCC packs the first four bytes of s into a FourCC. Shorter
// strings are zero-padded.
func ParseFourCC(s string) FourCC {
	var b [4]byte
	copy(b[:], s)
	return FourCC(binary.LittleEndian.Uint32(b[:]))
}

// Bytes renders f back to its four wire bytes.
func (f FourCC) Bytes() [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(f))
	return b
}

// String renders f as its four ASCII characters, for display and path
// breadcrumbs. Non-printable bytes are not sanitized — callers that print
// identifiers from untrusted input should expect that.
func (f FourCC) String() string {
	b := f.Bytes()
	return string(b[:])
}

func isList(id FourCC) bool {
	return id == FourCCRIFF || id == FourCCLIST
}
