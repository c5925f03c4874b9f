package avi

import "io"

type muxerStream struct {
	header StreamHeader
	format StreamFormat
	frames [][]byte
}

// Writer wraps an io.Writer for AVI writing. Streams and packets accumulate
// in memory; Finalize runs Compose and writes the resulting byte-exact
// buffer in one call, matching spec §4.4's two-pass composer (there is no
// incremental/streaming write path).
type Writer struct {
	w       io.Writer
	header  AVIMainHeader
	streams []muxerStream
	done    bool
}

// NewWriter constructs a Writer with the given main header. Fields that
// depend on accumulated streams/frames (StreamCount) are filled in by
// Finalize.
func NewWriter(header AVIMainHeader) *Writer {
	return &Writer{header: header}
}

// Create attaches the Writer to its output sink.
func (wr *Writer) Create(w io.Writer) error {
	wr.w = w
	return nil
}

// AddStream registers a new stream and returns its index.
func (wr *Writer) AddStream(header StreamHeader, format StreamFormat) (int, error) {
	if wr.done {
		return 0, newErr(ErrAllocFailure, "writer", io.ErrClosedPipe)
	}
	index := len(wr.streams)
	wr.streams = append(wr.streams, muxerStream{header: header, format: format})
	return index, nil
}

// WritePacket appends packet.Data as the next frame for its stream.
func (wr *Writer) WritePacket(packet Packet) error {
	if wr.done {
		return newErr(ErrAllocFailure, "writer", io.ErrClosedPipe)
	}
	if packet.StreamIndex < 0 || packet.StreamIndex >= len(wr.streams) {
		return newErr(ErrBadStreamIndex, "writer", nil)
	}
	s := &wr.streams[packet.StreamIndex]
	s.frames = append(s.frames, packet.Data)
	return nil
}

// Finalize composes the accumulated streams and frames into a complete AVI
// file and writes it to the attached sink.
func (wr *Writer) Finalize() error {
	if wr.done {
		return newErr(ErrAllocFailure, "writer", io.ErrClosedPipe)
	}

	descriptors := make([]StreamDescriptor, len(wr.streams))
	frames := make([][][]byte, len(wr.streams))
	for i, s := range wr.streams {
		descriptors[i] = StreamDescriptor{Header: s.header, Format: s.format}
		frames[i] = s.frames
	}

	wr.header.StreamCount = uint32(len(wr.streams))

	out, err := Compose(wr.header, descriptors, frames)
	if err != nil {
		return err
	}

	if _, err := wr.w.Write(out); err != nil {
		return err
	}
	wr.done = true
	return nil
}

// Close marks the Writer as finished. Writing without a prior Finalize
// leaves no output; Close after Finalize is a no-op.
func (wr *Writer) Close() error {
	wr.done = true
	return nil
}
