package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nscherger/meta-scrubber/audit"
	"github.com/nscherger/meta-scrubber/config"
	"github.com/nscherger/meta-scrubber/exif"
	"github.com/nscherger/meta-scrubber/formats"
	"github.com/nscherger/meta-scrubber/meta"
	"github.com/nscherger/meta-scrubber/scrub"
)

var progName = filepath.Base(os.Args[0])

type opFlag []exif.Operation

func main() {
	log.SetFlags(0)
	log.SetPrefix(progName + ": ")

	var ops opFlag
	flag.Var(&ops, "op", "Metadata to remove: datetime or gps. Can be repeated.")
	configPath := flag.String("config", "", "YAML configuration file")
	outDir := flag.String("out", "", "Directory for scrubbed files (overrides the configuration)")
	compare := flag.Bool("compare", false, "Compare each scrubbed file with the original")
	verbose := flag.Bool("v", false, "Log skipped entries and verification details")

	flag.Usage = usage
	flag.Parse()

	if len(ops) == 0 || flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	src := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	ft, err := meta.IdentifyFile(src)
	if err != nil {
		log.Fatal(err)
	}
	if !ft.IsJPEG() {
		log.Fatalf("%s: %v", src, formats.ErrNotJPEG)
	}

	auditLog, err := audit.Open(cfg.Audit.Backend, cfg.Audit.Path)
	if err != nil {
		log.Fatal(err)
	}

	opts := []scrub.OptionFunc{scrub.WithConfig(cfg), scrub.WithAudit(auditLog)}
	if *verbose {
		opts = append(opts, scrub.WithLogger(log.Default()))
	}
	p := scrub.New(opts...)

	fmt.Printf("File: %s (%s)\n", src, humanize.Bytes(uint64(ft.Size)))
	err = run(os.Stdout, p, src, ops, *compare, *verbose)
	if cerr := auditLog.Close(); cerr != nil {
		log.Print(cerr)
	}
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

// run shows the metadata of src and applies each operation in turn. It
// keeps going after a failed operation and reports the failure at the end.
func run(w io.Writer, p *scrub.Pipeline, src string, ops []exif.Operation, compare, verbose bool) error {
	original, err := p.Inspect(src)
	switch {
	case errors.Is(err, formats.ErrNoExif):
		fmt.Fprintln(w, "No EXIF data found in image.")
		return nil
	case err != nil:
		log.Printf("reading metadata: %v", err)
		original = meta.FromDocument(nil)
	default:
		if err := original.Display(w, "Original Metadata:"); err != nil {
			return err
		}
	}

	var failed int
	for _, op := range ops {
		fmt.Fprintf(w, "\nRemoving %s metadata...\n", op)
		res, err := p.Scrub(src, op)
		if err != nil {
			log.Printf("error during metadata removal: %v", err)
			failed++
			continue
		}
		fmt.Fprintf(w, "Metadata removed successfully. New file saved as: %s (%s)\n",
			res.Output, humanize.Bytes(uint64(res.OutputSize)))
		if !verbose {
			for _, key := range res.Warnings {
				fmt.Fprintf(w, "Warning: %s still present in file!\n", key)
			}
		}

		if compare {
			rows, err := p.CompareLatest(original)
			if err != nil {
				log.Printf("comparing metadata: %v", err)
				continue
			}
			if err := meta.WriteComparison(w, rows); err != nil {
				return err
			}
		}
	}

	if n := p.Count(); n > 0 {
		fmt.Fprintf(w, "\n%d %s written.\n", n, pluralize(n, "file", "files"))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d %s failed", failed, len(ops), pluralize(len(ops), "operation", "operations"))
	}
	return nil
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", progName)
	fmt.Fprintf(os.Stderr, "  %s -op datetime|gps [-op ...] [options] <file.jpg>\n", progName)
	flag.PrintDefaults()
}

func (o *opFlag) String() string {
	names := make([]string, len(*o))
	for i, op := range *o {
		names[i] = string(op)
	}
	return strings.Join(names, ",")
}

func (o *opFlag) Set(value string) error {
	op, err := exif.ParseOperation(value)
	if err != nil {
		return err
	}
	*o = append(*o, op)
	return nil
}
