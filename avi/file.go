package avi

import "io"

// ParsedFile is the result of a successful Parse: the raw chunk tree, the
// decoded main header, and every stream's header/format/frame list. All
// byte slices it and its fields expose are ranges into the buffer passed to
// Parse; that buffer must outlive the ParsedFile.
type ParsedFile struct {
	Root    ChunkNode
	Header  AVIMainHeader
	Streams []StreamDescriptor
}

// Parse runs the full pipeline described in spec §4.5: parse_chunks,
// decode_headers, assemble_frames. diag receives non-fatal diagnostics; nil
// falls back to defaultDiagnostics.
func Parse(data []byte, diag DiagnosticFunc) (*ParsedFile, error) {
	root, err := ParseChunks(data)
	if err != nil {
		return nil, err
	}

	header, streams, err := DecodeHeaders(&root, diag)
	if err != nil {
		return nil, err
	}

	if err := AssembleFrames(&root, streams); err != nil {
		return nil, err
	}

	return &ParsedFile{Root: root, Header: header, Streams: streams}, nil
}

// FileInfo flattens the parsed file into the Demuxer's summary view.
func (f *ParsedFile) FileInfo() *FileInfo {
	info := &FileInfo{MainHeader: f.Header}
	for i, s := range f.Streams {
		info.Streams = append(info.Streams, Stream{
			Index:      i,
			Type:       streamTypeOf(s.Header.Type),
			Header:     s.Header,
			Format:     s.Format,
			FrameCount: len(s.Frames),
		})
		info.TotalFrames += len(s.Frames)
	}
	return info
}

// Reader wraps an io.Reader for AVI reading. Per spec's non-streaming
// design, Open buffers the entire input before parsing; there is no partial
// or incremental read path.
type Reader struct {
	data    []byte
	file    *ParsedFile
	cursor  int // next stream index to emit from, for ReadPacket
	offsets []int
	diag    DiagnosticFunc
}

// NewReader constructs a Reader that reports diagnostics through diag (nil
// for the default stderr sink).
func NewReader(diag DiagnosticFunc) *Reader {
	return &Reader{diag: diag}
}

// Open reads r to completion and parses it.
func (rd *Reader) Open(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	file, err := Parse(data, rd.diag)
	if err != nil {
		return err
	}
	rd.data = data
	rd.file = file
	rd.offsets = make([]int, len(file.Streams))
	return nil
}

// GetFileInfo returns metadata about the parsed file.
func (rd *Reader) GetFileInfo() (*FileInfo, error) {
	if rd.file == nil {
		return nil, newErr(ErrMissingMovi, "reader", io.ErrClosedPipe)
	}
	return rd.file.FileInfo(), nil
}

// GetStreams returns the flattened per-stream view.
func (rd *Reader) GetStreams() ([]Stream, error) {
	info, err := rd.GetFileInfo()
	if err != nil {
		return nil, err
	}
	return info.Streams, nil
}

// ReadPacket returns the next not-yet-emitted frame across all streams, in
// ascending stream-index order, round-robin over each stream's remaining
// frames. It returns io.EOF once every stream is exhausted.
func (rd *Reader) ReadPacket() (*Packet, error) {
	if rd.file == nil {
		return nil, newErr(ErrMissingMovi, "reader", io.ErrClosedPipe)
	}
	n := len(rd.file.Streams)
	for k := 0; k < n; k++ {
		i := (rd.cursor + k) % n
		s := rd.file.Streams[i]
		if rd.offsets[i] < len(s.Frames) {
			frame := s.Frames[rd.offsets[i]]
			rd.offsets[i]++
			rd.cursor = (i + 1) % n
			return &Packet{
				StreamIndex: i,
				Type:        streamTypeOf(s.Header.Type),
				Data:        frame.Payload,
				KeyFrame:    frame.KeyFrame,
			}, nil
		}
	}
	return nil, io.EOF
}

// Close releases the Reader's reference to the parsed buffer.
func (rd *Reader) Close() error {
	rd.data = nil
	rd.file = nil
	return nil
}
