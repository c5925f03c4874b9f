package avi

import (
	"fmt"
	"log/slog"
	"os"
)

// ErrorKind enumerates the fatal conditions a parse or compose can raise.
type ErrorKind int

const (
	ErrShortBuffer ErrorKind = iota
	ErrOverlongChunk
	ErrRaggedList
	ErrRootNotRiff
	ErrRootNotAvi
	ErrMissingAvih
	ErrBadAvihSize
	ErrMissingStrh
	ErrDuplicateStrh
	ErrBadStrhSize
	ErrMissingStrf
	ErrDuplicateStrf
	ErrStrfBeforeStrh
	ErrStreamCountMismatch
	ErrTooManyStreams
	ErrMissingMovi
	ErrBadIdx1Size
	ErrBadIndexOffset
	ErrBadStreamIndex
	ErrAllocFailure
)

var errorKindNames = map[ErrorKind]string{
	ErrShortBuffer:         "ShortBuffer",
	ErrOverlongChunk:       "OverlongChunk",
	ErrRaggedList:          "RaggedList",
	ErrRootNotRiff:         "RootNotRiff",
	ErrRootNotAvi:          "RootNotAvi",
	ErrMissingAvih:         "MissingAvih",
	ErrBadAvihSize:         "BadAvihSize",
	ErrMissingStrh:         "MissingStrh",
	ErrDuplicateStrh:       "DuplicateStrh",
	ErrBadStrhSize:         "BadStrhSize",
	ErrMissingStrf:         "MissingStrf",
	ErrDuplicateStrf:       "DuplicateStrf",
	ErrStrfBeforeStrh:      "StrfBeforeStrh",
	ErrStreamCountMismatch: "StreamCountMismatch",
	ErrTooManyStreams:      "TooManyStreams",
	ErrMissingMovi:         "MissingMovi",
	ErrBadIdx1Size:         "BadIdx1Size",
	ErrBadIndexOffset:      "BadIndexOffset",
	ErrBadStreamIndex:      "BadStreamIndex",
	ErrAllocFailure:        "AllocFailure",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is the error type returned by every parse and compose failure. Path
// is a breadcrumb into the chunk tree (e.g. "RIFF/LIST[hdrl]/avih") useful
// for diagnosing which chunk tripped the invariant.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("avi: %s at %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("avi: %s at %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, &avi.Error{Kind: avi.ErrMissingMovi}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind ErrorKind, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Err: cause}
}

// DiagnosticFunc receives non-fatal diagnostics (skip-level warnings, such
// as an unrecognized strl stream type) emitted during parsing. It
// is the injectable sink spec'd in the design notes in place of writing
// straight to stderr.
type DiagnosticFunc func(kind ErrorKind, path string, msg string)

// defaultDiagnostics logs through slog's default stderr text handler,
// mirroring the teacher's direct-to-stderr reporting but in a form callers
// can swap out.
func defaultDiagnostics(kind ErrorKind, path string, msg string) {
	slog.New(slog.NewTextHandler(os.Stderr, nil)).Warn(msg, "kind", kind.String(), "path", path)
}
