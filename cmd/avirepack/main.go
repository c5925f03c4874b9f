package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/charlescerisier/aviriff/avi"
)

// Config holds CLI configuration.
type Config struct {
	InputFile  string
	OutputFile string
	Verbose    bool
	Progress   bool
	DryRun     bool
}

var version = "dev"

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

	if config.OutputFile == "" {
		dir := filepath.Dir(config.InputFile)
		base := filepath.Base(config.InputFile)
		ext := filepath.Ext(base)
		name := base[:len(base)-len(ext)]
		config.OutputFile = filepath.Join(dir, name+"_repacked"+ext)
	}

	if err := repackFile(config); err != nil {
		log.Fatalf("Error repacking file: %v", err)
	}
}

func parseFlags() Config {
	var config Config

	flag.StringVar(&config.InputFile, "i", "", "Input AVI file (required)")
	flag.StringVar(&config.OutputFile, "o", "", "Output AVI file (default: input_repacked.avi)")
	flag.BoolVar(&config.Verbose, "v", false, "Verbose output")
	flag.BoolVar(&config.Progress, "p", false, "Show progress")
	flag.BoolVar(&config.DryRun, "dry-run", false, "Analyze input without writing output")

	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "avirepack %s - AVI container repacker\n", version)
		fmt.Fprintf(os.Stderr, "\nUsage: %s [options] -i input.avi\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i video.avi                # Repack to video_repacked.avi\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i video.avi -o out.avi      # Specify output file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i video.avi --dry-run       # Analyze without repacking\n", os.Args[0])
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("avirepack %s\n", version)
		os.Exit(0)
	}

	return config
}

func repackFile(config Config) error {
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

	if config.Progress || config.Verbose {
		fmt.Printf("input:  %d bytes, %d stream(s)\n", len(data), len(parsed.Streams))
		for i, s := range parsed.Streams {
			fmt.Printf("  stream %d: %d frame(s)\n", i, len(s.Frames))
		}
	}

	if config.DryRun {
		return nil
	}

	streams := make([]avi.StreamDescriptor, len(parsed.Streams))
	frames := make([][][]byte, len(parsed.Streams))
	for i, s := range parsed.Streams {
		streams[i] = avi.StreamDescriptor{Header: s.Header, Format: s.Format}
		frames[i] = make([][]byte, len(s.Frames))
		for j, f := range s.Frames {
			frames[i][j] = f.Payload
		}
	}

	out, err := avi.Compose(parsed.Header, streams, frames)
	if err != nil {
		return fmt.Errorf("composing output: %w", err)
	}

	if err := os.WriteFile(config.OutputFile, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", config.OutputFile, err)
	}

	if config.Progress || config.Verbose {
		fmt.Printf("output: %d bytes written to %s\n", len(out), config.OutputFile)
	}
	return nil
}
