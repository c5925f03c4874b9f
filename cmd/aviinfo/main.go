package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charlescerisier/aviriff/avi"
)

// OutputFormat selects how analyzeFile renders its result.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputText OutputFormat = "text"
)

// Config holds CLI configuration.
type Config struct {
	InputFile    string
	OutputFile   string
	OutputFormat OutputFormat
	ShowFrames   bool
	Verbose      bool
}

// StreamInfo is the JSON-facing view of one stream.
type StreamInfo struct {
	Index      int    `json:"index"`
	Type       string `json:"type"`
	Width      int32  `json:"width,omitempty"`
	Height     int32  `json:"height,omitempty"`
	BitCount   uint16 `json:"bit_count,omitempty"`
	FrameCount int    `json:"frame_count"`
}

// FrameInfo is the JSON-facing view of one assembled frame.
type FrameInfo struct {
	StreamIndex int  `json:"stream_index"`
	Size        int  `json:"size"`
	KeyFrame    bool `json:"key_frame"`
}

// FileOutput is the full JSON document printed by analyzeFile.
type FileOutput struct {
	StreamCount uint32      `json:"stream_count"`
	TotalFrames int         `json:"total_frames"`
	Streams     []StreamInfo `json:"streams"`
	Frames      []FrameInfo `json:"frames,omitempty"`
}

func main() {
	config := parseFlags()

	if config.InputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}

	if _, err := os.Stat(config.InputFile); os.IsNotExist(err) {
		log.Fatalf("Error: input file %q does not exist", config.InputFile)
	}

	if err := analyzeFile(config); err != nil {
		log.Fatalf("Error analyzing file: %v", err)
	}
}

func parseFlags() Config {
	var config Config

	flag.StringVar(&config.InputFile, "i", "", "Input AVI file")
	flag.StringVar(&config.OutputFile, "o", "", "Output file (default: stdout)")
	flag.BoolVar(&config.ShowFrames, "show-frames", false, "Include per-frame information")
	flag.BoolVar(&config.Verbose, "v", false, "Verbose diagnostics on stderr")

	var format string
	flag.StringVar(&format, "f", "json", "Output format (json, text)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] -i input.avi\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i video.avi                # Analyze video.avi, print JSON to stdout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i video.avi -f text         # Text output instead of JSON\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i video.avi -show-frames    # Include per-frame information\n", os.Args[0])
	}

	flag.Parse()

	switch strings.ToLower(format) {
	case "json":
		config.OutputFormat = OutputJSON
	case "text":
		config.OutputFormat = OutputText
	default:
		config.OutputFormat = OutputJSON
	}

	return config
}

func analyzeFile(config Config) error {
	data, err := os.ReadFile(config.InputFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", config.InputFile, err)
	}

	var diag avi.DiagnosticFunc
	if config.Verbose {
		diag = func(kind avi.ErrorKind, path, msg string) {
			fmt.Fprintf(os.Stderr, "warning: %s at %s: %s\n", kind, path, msg)
		}
	}

	parsed, err := avi.Parse(data, diag)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", config.InputFile, err)
	}

	out := buildOutput(parsed, config.ShowFrames)

	w := os.Stdout
	if config.OutputFile != "" {
		f, err := os.Create(config.OutputFile)
		if err != nil {
			return fmt.Errorf("creating %s: %w", config.OutputFile, err)
		}
		defer f.Close()
		w = f
	}

	if config.OutputFormat == OutputText {
		return writeText(w, out)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func buildOutput(parsed *avi.ParsedFile, showFrames bool) FileOutput {
	info := parsed.FileInfo()
	out := FileOutput{StreamCount: info.MainHeader.StreamCount, TotalFrames: info.TotalFrames}

	for _, s := range info.Streams {
		si := StreamInfo{Index: s.Index, Type: string(s.Type), FrameCount: s.FrameCount}
		if s.Format.Kind == avi.FormatVideo {
			si.Width = s.Format.Video.Width
			si.Height = s.Format.Video.Height
			si.BitCount = s.Format.Video.BitCount
		}
		out.Streams = append(out.Streams, si)
	}

	if showFrames {
		for streamIdx, s := range parsed.Streams {
			for i := range s.Frames {
				out.Frames = append(out.Frames, FrameInfo{
					StreamIndex: streamIdx,
					Size:        len(s.Frames[i].Payload),
					KeyFrame:    s.Frames[i].KeyFrame,
				})
			}
		}
	}

	return out
}

func writeText(w *os.File, out FileOutput) error {
	fmt.Fprintf(w, "streams: %d  total frames: %d\n", out.StreamCount, out.TotalFrames)
	for _, s := range out.Streams {
		fmt.Fprintf(w, "  [%d] %-6s frames=%d", s.Index, s.Type, s.FrameCount)
		if s.Width != 0 || s.Height != 0 {
			fmt.Fprintf(w, " %dx%d bitcount=%d", s.Width, s.Height, s.BitCount)
		}
		fmt.Fprintln(w)
	}
	for _, f := range out.Frames {
		fmt.Fprintf(w, "  frame stream=%d size=%d key=%v\n", f.StreamIndex, f.Size, f.KeyFrame)
	}
	return nil
}
