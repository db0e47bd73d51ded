package formats

import (
	"errors"
	"fmt"
)

// Format identifies a container format.
type Format string

const (
	FormatUnknown Format = ""
	FormatJPEG    Format = "JPEG"
	FormatPNG     Format = "PNG"
	FormatTIFF    Format = "TIFF"
	FormatGIF     Format = "GIF"
)

var (
	ErrNotJPEG     = errors.New("not a JPEG file")
	ErrNoExif      = errors.New("no EXIF data")
	ErrUnsupported = errors.New("unsupported format")
)

// Handler reads and replaces the EXIF block of one container format.
type Handler interface {
	// ExtractEXIF returns the TIFF-formatted EXIF block, or nil when the
	// file carries none.
	ExtractEXIF(data []byte) ([]byte, error)
	// EmbedEXIF returns a copy of data carrying block as its only EXIF
	// block. A nil block strips EXIF entirely.
	EmbedEXIF(data, block []byte) ([]byte, error)
}

var handlers = make(map[Format]Handler)

// RegisterHandler registers the EXIF handler for a format.
func RegisterHandler(f Format, h Handler) {
	handlers[f] = h
}

// HandlerFor returns the handler registered for f.
func HandlerFor(f Format) (Handler, error) {
	h, ok := handlers[f]
	if !ok {
		name := string(f)
		if f == FormatUnknown {
			name = "unknown"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	return h, nil
}
