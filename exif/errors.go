package exif

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHeader  = errors.New("malformed EXIF header")
	ErrBadType          = errors.New("unknown field type")
	ErrTruncated        = errors.New("value extends past end of block")
	ErrCountMismatch    = errors.New("component count does not fit the value")
	ErrEncodeOverflow   = errors.New("EXIF block too large for an APP1 segment")
	ErrUnknownOperation = errors.New("unknown operation")
)

// EntryError describes one directory entry that could not be decoded or
// encoded. Err is one of ErrBadType, ErrTruncated or ErrCountMismatch.
type EntryError struct {
	IFD  IFD
	Tag  uint16
	Type Type
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s IFD tag 0x%04X (%s): %v", e.IFD, e.Tag, e.Type, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }
