package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/nscherger/meta-scrubber/exif"
	"github.com/nscherger/meta-scrubber/formats"
	"github.com/nscherger/meta-scrubber/meta"
)

func main() {
	// Parse command line flags
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Extract and display EXIF metadata from JPEG files\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	verbose := flag.Bool("v", false, "Verbose output")
	asJSON := flag.Bool("json", false, "Print metadata as JSON")
	flat := flag.Bool("flat", false, "Print one sorted list instead of grouping by directory")
	flag.Parse()

	// Check arguments
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	filePath := flag.Arg(0)

	ft, err := meta.IdentifyFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("File: %s\n", filePath)
		fmt.Printf("Format: %s\n", ft.Format)
		fmt.Printf("Size: %s\n", humanize.Bytes(uint64(ft.Size)))
		if data, err := os.ReadFile(filePath); err == nil && ft.IsJPEG() {
			if w, h, err := formats.Dimensions(data); err == nil {
				fmt.Printf("Dimensions: %dx%d\n", w, h)
			}
		}
		fmt.Println()
	}

	var r meta.Reader
	m, err := r.Read(filePath)
	if errors.Is(err, formats.ErrNoExif) {
		fmt.Println("No EXIF data found in image.")
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading metadata: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *asJSON:
		s, err := m.ToJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(s)
	case *flat:
		if err := m.Display(os.Stdout, "Current Metadata:"); err != nil {
			os.Exit(1)
		}
	default:
		displayFields(m, *verbose)
	}

	if *verbose && r.Decoder.Skipped != nil {
		fmt.Fprintf(os.Stderr, "\n%d entries skipped:\n", len(r.Decoder.Skipped.Errors))
		for _, err := range r.Decoder.Skipped.Errors {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
		}
	}
}

// displayFields displays fields grouped by directory
func displayFields(m *meta.Metadata, verbose bool) {
	if m.Len() == 0 {
		fmt.Println("No metadata found")
		return
	}

	// Group by directory
	grouped := make(map[exif.IFD][]meta.Field)
	for _, key := range m.Keys() {
		f, _ := m.Get(key)
		grouped[f.IFD] = append(grouped[f.IFD], f)
	}

	// Display each group in layout order
	first := true
	for _, ifd := range exif.AllIFDs {
		fields := grouped[ifd]
		if len(fields) == 0 {
			continue
		}
		if !first {
			fmt.Println()
		}
		first = false

		fmt.Printf("=== %s ===\n", ifd)

		// Find max name length for alignment
		maxLen := 0
		for _, f := range fields {
			maxLen = max(maxLen, len(f.Key))
		}

		slices.SortFunc(fields, func(a, b meta.Field) int { return int(a.Tag) - int(b.Tag) })
		for _, f := range fields {
			if verbose {
				fmt.Printf("%-*s [0x%04X %s] : %v\n", maxLen, f.Key, f.Tag, f.Value.Type, f.Value)
			} else {
				fmt.Printf("%-*s : %v\n", maxLen, f.Key, f.Value)
			}
		}
	}
}
