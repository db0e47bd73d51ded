package formats

import (
	"io"
	"path/filepath"
	"strings"
)

// Sniff determines the format of the data from its magic number, falling
// back to the extension of hint when the magic is not recognised.
func Sniff(r io.ReadSeeker, hint string) (Format, error) {
	// Read first 16 bytes for magic number detection
	header := make([]byte, 16)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return FormatUnknown, err
	}
	header = header[:n]

	// Reset position
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return FormatUnknown, err
	}

	if f := sniffMagic(header); f != FormatUnknown {
		return f, nil
	}
	return sniffExtension(hint), nil
}

// SniffBytes is Sniff for data already in memory.
func SniffBytes(data []byte, hint string) Format {
	if f := sniffMagic(data); f != FormatUnknown {
		return f
	}
	return sniffExtension(hint)
}

func sniffMagic(header []byte) Format {
	switch {
	case len(header) >= 3 && header[0] == 0xFF && header[1] == markerSOI && header[2] == 0xFF:
		return FormatJPEG
	case len(header) >= 8 && string(header[:8]) == "\x89PNG\r\n\x1a\n":
		return FormatPNG
	case len(header) >= 4 && (string(header[:4]) == "II*\x00" || string(header[:4]) == "MM\x00*"):
		return FormatTIFF
	case len(header) >= 6 && (string(header[:6]) == "GIF87a" || string(header[:6]) == "GIF89a"):
		return FormatGIF
	default:
		return FormatUnknown
	}
}

func sniffExtension(hint string) Format {
	switch strings.ToLower(filepath.Ext(hint)) {
	case ".jpg", ".jpeg", ".jpe":
		return FormatJPEG
	case ".png":
		return FormatPNG
	case ".tif", ".tiff":
		return FormatTIFF
	case ".gif":
		return FormatGIF
	default:
		return FormatUnknown
	}
}
