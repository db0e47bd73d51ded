package exif

import (
	"fmt"

	"github.com/nscherger/meta-scrubber/tags"
)

// Operation names a category of tags to remove.
type Operation string

const (
	RemoveDateTime Operation = "datetime"
	RemoveGPS      Operation = "gps"
)

// Operations lists every supported operation.
var Operations = []Operation{RemoveDateTime, RemoveGPS}

// dateTimeTags are removed from both the 0th and the Exif IFD.
var dateTimeTags = []uint16{tags.DateTime, tags.DateTimeOriginal, tags.DateTimeDigitized}

// ParseOperation maps an operation identifier to an Operation.
func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations {
		if string(op) == s {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// Apply removes the tags selected by op from doc, in place. Tags outside
// the operation's scope are left untouched and missing tags are not an
// error, so applying an operation twice is the same as applying it once.
func Apply(doc *Document, op Operation) error {
	switch op {
	case RemoveDateTime:
		for _, ifd := range []IFD{IFD0, ExifIFD} {
			for _, tag := range dateTimeTags {
				delete(doc.Dirs[ifd], tag)
			}
		}
	case RemoveGPS:
		doc.Dirs[GPSIFD] = Directory{}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	return nil
}
