// Package scrub removes categories of EXIF metadata from JPEG files.
//
// A Pipeline run reloads the source file, decodes a fresh EXIF document,
// applies one removal operation, encodes and re-embeds the result into a new
// file and finally re-reads that file to confirm the removal. The source
// file is never modified.
package scrub

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/nscherger/meta-scrubber/audit"
	"github.com/nscherger/meta-scrubber/config"
	"github.com/nscherger/meta-scrubber/exif"
	"github.com/nscherger/meta-scrubber/formats"
	"github.com/nscherger/meta-scrubber/meta"
	"github.com/nscherger/meta-scrubber/tags"
)

var (
	ErrUnreadable   = errors.New("file unreadable")
	ErrWriteFailure = errors.New("write failed")
	ErrNoOutput     = errors.New("no scrubbed file yet")
)

// State is a step of a scrub run.
type State int

const (
	Loaded State = iota
	Decoded
	Mutated
	Encoded
	Embedded
	Verified
)

var stateNames = []string{"Loaded", "Decoded", "Mutated", "Encoded", "Embedded", "Verified"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Result describes one scrub run.
type Result struct {
	Source    string
	Output    string
	Operation exif.Operation
	State     State // last state reached

	InputSize  int64
	OutputSize int64

	// Original is the readable metadata before the operation was applied.
	Original *meta.Metadata
	// Current is the metadata re-read from Output; nil unless verified.
	Current *meta.Metadata

	// DecodeErr is set when the EXIF header was unusable and the run went
	// on with an empty document.
	DecodeErr error
	// Skipped holds the entries the decoder dropped, or nil.
	Skipped error
	// Warnings lists tags of the removed category still found in Output.
	Warnings []string
}

// Pipeline runs scrub operations. The output counter and the latest output
// belong to the Pipeline; a Pipeline is safe for concurrent use.
type Pipeline struct {
	opts Options

	mu      sync.Mutex
	counter int
	latest  string
}

// New returns a Pipeline with the given options applied over the defaults.
func New(opts ...OptionFunc) *Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{opts: o}
}

// Count returns the number of files written so far.
func (p *Pipeline) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counter
}

// Latest returns the most recently written output file.
func (p *Pipeline) Latest() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.latest != ""
}

// Inspect returns the readable metadata of src. It returns
// formats.ErrNoExif when src carries no EXIF block.
func (p *Pipeline) Inspect(src string) (*meta.Metadata, error) {
	var r meta.Reader
	m, err := r.Read(src)
	p.logSkipped(src, r.Decoder.Skipped)
	return m, err
}

// Scrub removes the tags selected by op from a fresh decode of src and
// writes the result to a new file. It returns formats.ErrNoExif, without
// writing anything, when src has no EXIF block.
func (p *Pipeline) Scrub(src string, op exif.Operation) (*Result, error) {
	if _, err := exif.ParseOperation(string(op)); err != nil {
		return nil, err
	}
	res := &Result{Source: src, Operation: op}

	// Loaded
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	res.InputSize = int64(len(data))
	block, err := formats.ExtractEXIF(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, src, err)
	}
	if block == nil {
		return nil, formats.ErrNoExif
	}
	res.State = Loaded

	// Decoded
	var dec exif.Decoder
	doc, err := dec.Decode(block)
	if err != nil {
		p.opts.Logger.Printf("%s: %v; continuing without EXIF data", src, err)
		res.DecodeErr = err
		doc = exif.NewDocument(binary.BigEndian)
	}
	p.logSkipped(src, dec.Skipped)
	if dec.Skipped != nil {
		res.Skipped = dec.Skipped
	}
	res.Original = meta.FromDocument(doc)
	res.State = Decoded

	// Mutated
	if err := exif.Apply(doc, op); err != nil {
		return nil, err
	}
	res.State = Mutated

	// Encoded
	newBlock, err := exif.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	res.State = Encoded

	// Embedded
	if p.opts.Pixels == config.PixelsReencode {
		if data, err = formats.Reencode(data, p.opts.Quality); err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
	}
	out, err := formats.EmbedEXIF(data, newBlock)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	if res.Output, err = p.commit(src, out); err != nil {
		return nil, err
	}
	res.OutputSize = int64(len(out))
	res.State = Embedded

	if err := p.opts.Audit.Log(audit.NewRecord(src, res.Output, string(op))); err != nil {
		p.opts.Logger.Printf("audit: %v", err)
	}

	// Verified
	if p.opts.Verify {
		p.verify(res)
	}
	return res, nil
}

// commit writes data to the next output path and advances the counter only
// once the file is in place.
func (p *Pipeline) commit(src string, data []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.opts.OutputDir != "" {
		if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
			return "", fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
	}
	path := OutputPath(src, p.counter+1, p.opts.OutputDir)
	if err := writeFileAtomic(path, data, p.opts.FileMode); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	p.counter++
	p.latest = path
	return path, nil
}

// verify re-reads the output and reports tags of the removed category that
// are still present. Failures are warnings; the written file stays.
func (p *Pipeline) verify(res *Result) {
	var r meta.Reader
	current, err := r.Read(res.Output)
	switch {
	case errors.Is(err, formats.ErrNoExif):
		current = meta.FromDocument(nil)
	case err != nil:
		p.opts.Logger.Printf("verify %s: %v", res.Output, err)
		return
	}
	res.Current = current

	for _, key := range survivors(res.Operation, current) {
		p.opts.Logger.Printf("Warning: %s still present in %s", key, res.Output)
		res.Warnings = append(res.Warnings, key)
	}
	res.State = Verified
}

// survivors returns the keys of current that op should have removed.
func survivors(op exif.Operation, current *meta.Metadata) []string {
	switch op {
	case exif.RemoveDateTime:
		var keys []string
		for _, k := range []string{
			meta.DisplayName(exif.IFD0, tags.DateTime),
			meta.DisplayName(exif.ExifIFD, tags.DateTimeOriginal),
			meta.DisplayName(exif.ExifIFD, tags.DateTimeDigitized),
		} {
			if _, ok := current.Get(k); ok {
				keys = append(keys, k)
			}
		}
		return keys
	case exif.RemoveGPS:
		return current.KeysWithPrefix("GPS")
	}
	return nil
}

// CompareLatest compares original with the metadata of the most recent
// output file.
func (p *Pipeline) CompareLatest(original *meta.Metadata) ([]meta.Row, error) {
	latest, ok := p.Latest()
	if !ok {
		return nil, ErrNoOutput
	}
	current, err := meta.ReadMetadata(latest)
	if errors.Is(err, formats.ErrNoExif) {
		current, err = meta.FromDocument(nil), nil
	}
	if err != nil {
		return nil, err
	}
	return meta.Compare(original, current), nil
}

func (p *Pipeline) logSkipped(src string, skipped *multierror.Error) {
	if skipped == nil {
		return
	}
	for _, err := range skipped.Errors {
		p.opts.Logger.Printf("%s: skipped %v", src, err)
	}
}
