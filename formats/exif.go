package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/nscherger/meta-scrubber/exif"
)

func init() {
	RegisterHandler(FormatJPEG, jpegHandler{})
}

type jpegHandler struct{}

func (jpegHandler) ExtractEXIF(data []byte) ([]byte, error) { return ExtractEXIF(data) }

func (jpegHandler) EmbedEXIF(data, block []byte) ([]byte, error) { return EmbedEXIF(data, block) }

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
	markerTEM  = 0x01
)

var exifPrefix = []byte("Exif\x00\x00")

// segment is one marker segment before the start of scan. Standalone
// markers carry no length and no payload.
type segment struct {
	marker     byte
	standalone bool
	payload    []byte
}

func (s segment) isExif() bool {
	return s.marker == markerAPP1 && bytes.HasPrefix(s.payload, exifPrefix)
}

func (s segment) appendTo(out []byte) []byte {
	out = append(out, 0xFF, s.marker)
	if s.standalone {
		return out
	}
	out = binary.BigEndian.AppendUint16(out, uint16(len(s.payload)+2))
	return append(out, s.payload...)
}

// splitSegments walks the marker segments between SOI and the start of
// scan. It returns them together with the rest of the file, starting at the
// SOS (or EOI) marker; entropy-coded data is never parsed.
func splitSegments(data []byte) ([]segment, []byte, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, nil, ErrNotJPEG
	}

	var segs []segment
	pos := 2
	for {
		if pos+2 > len(data) {
			return nil, nil, fmt.Errorf("%w: truncated before start of scan", ErrNotJPEG)
		}
		if data[pos] != 0xFF {
			return nil, nil, fmt.Errorf("%w: invalid marker at offset %d", ErrNotJPEG, pos)
		}
		marker := data[pos+1]

		switch {
		case marker == 0xFF:
			// Fill byte
			pos++
			continue
		case marker == markerSOS || marker == markerEOI:
			return segs, data[pos:], nil
		case marker == markerTEM || (marker >= 0xD0 && marker <= 0xD7):
			segs = append(segs, segment{marker: marker, standalone: true})
			pos += 2
			continue
		}

		// Read segment length
		if pos+4 > len(data) {
			return nil, nil, fmt.Errorf("%w: truncated segment 0xFF%02X", ErrNotJPEG, marker)
		}
		length := int(binary.BigEndian.Uint16(data[pos+2:]))
		if length < 2 || pos+2+length > len(data) {
			return nil, nil, fmt.Errorf("%w: segment 0xFF%02X overruns the file", ErrNotJPEG, marker)
		}
		segs = append(segs, segment{marker: marker, payload: data[pos+4 : pos+2+length]})
		pos += 2 + length
	}
}

// ExtractEXIF returns a copy of the TIFF-formatted EXIF block carried by
// the first Exif APP1 segment of a JPEG, or nil when there is none.
func ExtractEXIF(data []byte) ([]byte, error) {
	segs, _, err := splitSegments(data)
	if err != nil {
		return nil, err
	}
	for _, s := range segs {
		if s.isExif() {
			return bytes.Clone(s.payload[len(exifPrefix):]), nil
		}
	}
	return nil, nil
}

// EmbedEXIF returns a copy of a JPEG with every Exif APP1 segment replaced
// by a single one carrying block. The new segment follows any leading APP0
// (JFIF) segments; all other segments and the scan data are copied byte for
// byte. A nil block removes EXIF from the file.
func EmbedEXIF(data, block []byte) ([]byte, error) {
	if len(block) > exif.MaxBlockSize {
		return nil, fmt.Errorf("%w: %d byte block does not fit an APP1 segment", exif.ErrEncodeOverflow, len(block))
	}
	segs, rest, err := splitSegments(data)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(data)+len(block)+len(exifPrefix)+4)
	out = append(out, 0xFF, markerSOI)

	i := 0
	for ; i < len(segs) && segs[i].marker == markerAPP0; i++ {
		out = segs[i].appendTo(out)
	}
	if block != nil {
		payload := make([]byte, 0, len(exifPrefix)+len(block))
		payload = append(append(payload, exifPrefix...), block...)
		out = segment{marker: markerAPP1, payload: payload}.appendTo(out)
	}
	for _, s := range segs[i:] {
		if s.isExif() {
			continue
		}
		out = s.appendTo(out)
	}
	return append(out, rest...), nil
}
