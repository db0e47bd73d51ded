package meta

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nscherger/meta-scrubber/formats"
)

var (
	ErrNotExist   = errors.New("file does not exist")
	ErrNotRegular = errors.New("not a regular file")
)

// FileType represents the identified file format
type FileType struct {
	Path   string
	Format formats.Format
	Size   int64
}

// IdentifyFile checks that path names a readable regular file and sniffs its
// format. It does not require the format to be supported.
func IdentifyFile(path string) (*FileType, error) {
	// Check if file exists
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	// Check if it's a regular file
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	format, err := formats.Sniff(file, path)
	if err != nil {
		return nil, fmt.Errorf("cannot identify file: %w", err)
	}
	return &FileType{Path: path, Format: format, Size: info.Size()}, nil
}

// IsJPEG reports whether the file was identified as a JPEG.
func (ft *FileType) IsJPEG() bool {
	return ft.Format == formats.FormatJPEG
}
