// Package exif models the EXIF block carried in a JPEG APP1 segment: a TIFF
// header followed by an offset-linked set of Image File Directories.
//
// A Document is decoded fresh from bytes, mutated in place, encoded once and
// discarded. Structural pointer tags (Exif, GPS and Interop sub-IFD offsets,
// thumbnail offset and length) never appear in a Directory: the decoder
// consumes them and the encoder regenerates them from the layout it writes.
package exif

import (
	"encoding/binary"
	"maps"
	"slices"
)

// Directory maps tag IDs to values within one namespace. Map order carries
// no meaning; the encoder writes entries in ascending ID order.
type Directory map[uint16]Value

// IDs returns the tag IDs in ascending order.
func (d Directory) IDs() []uint16 {
	return slices.Sorted(maps.Keys(d))
}

// Clone returns a copy of the directory. Values share their payload slices,
// which are never modified in place. A nil directory clones to nil.
func (d Directory) Clone() Directory {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// Document is the decoded form of one EXIF block.
//
// A nil Directory means the block has no such IFD and the encoder writes no
// pointer to it. A non-nil empty Directory is written as a zero-entry IFD.
type Document struct {
	ByteOrder binary.ByteOrder
	Dirs      [numIFDs]Directory
	Thumbnail []byte // JPEG thumbnail referenced from the 1st IFD
}

// NewDocument returns a document with an empty 0th IFD.
func NewDocument(order binary.ByteOrder) *Document {
	doc := &Document{ByteOrder: order}
	doc.Dirs[IFD0] = Directory{}
	return doc
}

// Dir returns the directory for ifd, which may be nil.
func (d *Document) Dir(ifd IFD) Directory {
	return d.Dirs[ifd]
}

// Clone returns a copy that can be mutated without affecting d.
func (d *Document) Clone() *Document {
	c := &Document{ByteOrder: d.ByteOrder}
	for i, dir := range d.Dirs {
		c.Dirs[i] = dir.Clone()
	}
	if d.Thumbnail != nil {
		c.Thumbnail = slices.Clone(d.Thumbnail)
	}
	return c
}

// Len returns the number of entries across all directories.
func (d *Document) Len() int {
	n := 0
	for _, dir := range d.Dirs {
		n += len(dir)
	}
	return n
}
