// Command gen-tags regenerates the tag name tables in the tags package from
// ExifTool's Perl modules.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nscherger/meta-scrubber/parser"
)

func main() {
	// Define command line flags
	var outputDir string
	flag.StringVar(&outputDir, "o", "tags", "Output directory for generated Go files")
	flag.Parse()

	// Check arguments
	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-o output_dir] <exiftool_pm_dir>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s /usr/share/perl5/Image/ExifTool\n", os.Args[0])
		os.Exit(1)
	}

	pmDir := flag.Arg(0)

	// Verify the directory exists
	if info, err := os.Stat(pmDir); os.IsNotExist(err) {
		log.Fatalf("Error: directory %s does not exist", pmDir)
	} else if err != nil {
		log.Fatalf("Error accessing directory %s: %v", pmDir, err)
	} else if !info.IsDir() {
		log.Fatalf("Error: %s is not a directory", pmDir)
	}

	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		log.Fatalf("Error resolving output directory path: %v", err)
	}
	if err := os.MkdirAll(absOutputDir, 0755); err != nil {
		log.Fatalf("Error creating output directory: %v", err)
	}

	fmt.Printf("Parsing ExifTool PM files from: %s\n", pmDir)
	parsedData, err := parser.ParsePMFiles(pmDir)
	if err != nil {
		log.Fatalf("Error parsing PM files: %v", err)
	}
	for _, t := range parser.Targets {
		if table, ok := parsedData.TagTables[t.Table]; ok {
			fmt.Printf("  %s: %d tags\n", t.Table, len(table.Tags))
		}
	}

	if err := parser.GenerateGoFiles(parsedData, absOutputDir); err != nil {
		log.Fatalf("Error generating Go files: %v", err)
	}

	fmt.Printf("Done! Tag files written to %s\n", absOutputDir)
}
