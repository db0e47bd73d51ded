package meta

import (
	"fmt"
	"io"
	"os"

	"github.com/nscherger/meta-scrubber/exif"
	"github.com/nscherger/meta-scrubber/formats"
)

// Reader reads EXIF metadata from files. Entries skipped while decoding the
// last file are left in Decoder.Skipped.
type Reader struct {
	Decoder exif.Decoder
}

// ReadMetadata extracts metadata from a file
func ReadMetadata(filename string) (*Metadata, error) {
	var r Reader
	return r.Read(filename)
}

// ReadMetadataFrom extracts metadata from an io.ReadSeeker
func ReadMetadataFrom(rs io.ReadSeeker, hint string) (*Metadata, error) {
	var r Reader
	return r.ReadFrom(rs, hint)
}

// Read extracts metadata from the named file.
func (r *Reader) Read(filename string) (*Metadata, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return r.ReadFrom(file, filename)
}

// ReadFrom extracts metadata from rs. It returns formats.ErrNoExif when the
// file carries no EXIF block and an error wrapping exif.ErrMalformedHeader
// when the block cannot be decoded.
func (r *Reader) ReadFrom(rs io.ReadSeeker, hint string) (*Metadata, error) {
	doc, err := r.ReadDocument(rs, hint)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc), nil
}

// ReadDocument is ReadFrom without the readable projection.
func (r *Reader) ReadDocument(rs io.ReadSeeker, hint string) (*exif.Document, error) {
	// Determine file format
	format, err := formats.Sniff(rs, hint)
	if err != nil {
		return nil, fmt.Errorf("failed to identify format: %w", err)
	}

	// Get appropriate handler
	handler, err := formats.HandlerFor(format)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(rs)
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}
	block, err := handler.ExtractEXIF(data)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, formats.ErrNoExif
	}
	return r.Decoder.Decode(block)
}
