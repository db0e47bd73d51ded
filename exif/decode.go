package exif

import (
	"encoding/binary"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/nscherger/meta-scrubber/tags"
)

const (
	headerSize = 8
	tiffMagic  = 42
	entrySize  = 12
)

// Decoder parses EXIF blocks. Entries that cannot be decoded are dropped
// from their Directory and recorded in Skipped; they never fail a Decode.
type Decoder struct {
	// Skipped holds one error per dropped entry or unreadable sub-IFD from
	// the last Decode call, or nil when nothing was dropped.
	Skipped *multierror.Error
}

// Decode parses block with a throwaway Decoder.
func Decode(block []byte) (*Document, error) {
	var d Decoder
	return d.Decode(block)
}

// Decode parses a TIFF-formatted EXIF block (the APP1 payload after the
// "Exif\0\0" prefix). Only an unusable header or 0th IFD is an error, and
// it always wraps ErrMalformedHeader.
func (d *Decoder) Decode(block []byte) (*Document, error) {
	d.Skipped = nil

	if len(block) < headerSize {
		return nil, fmt.Errorf("%w: block is %d bytes", ErrMalformedHeader, len(block))
	}

	// Check byte order
	var order binary.ByteOrder
	switch {
	case block[0] == 'I' && block[1] == 'I':
		order = binary.LittleEndian
	case block[0] == 'M' && block[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: invalid byte order %q", ErrMalformedHeader, block[:2])
	}

	// Check magic
	if order.Uint16(block[2:4]) != tiffMagic {
		return nil, fmt.Errorf("%w: bad TIFF magic", ErrMalformedHeader)
	}

	p := &ifdParser{
		data:    block,
		order:   order,
		dec:     d,
		visited: make(map[uint32]bool),
	}
	doc := &Document{ByteOrder: order}

	zeroth, next, err := p.readIFD(IFD0, order.Uint32(block[4:8]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	doc.Dirs[IFD0] = zeroth

	if off, ok := p.takePointer(zeroth, IFD0, tags.ExifIFDPointer); ok {
		doc.Dirs[ExifIFD] = p.readSubIFD(ExifIFD, off)
	}
	if exifDir := doc.Dirs[ExifIFD]; exifDir != nil {
		if off, ok := p.takePointer(exifDir, ExifIFD, tags.InteropIFDPointer); ok {
			doc.Dirs[InteropIFD] = p.readSubIFD(InteropIFD, off)
		}
	}
	if off, ok := p.takePointer(zeroth, IFD0, tags.GPSIFDPointer); ok {
		doc.Dirs[GPSIFD] = p.readSubIFD(GPSIFD, off)
	}

	if next != 0 {
		if first := p.readSubIFD(IFD1, next); first != nil {
			doc.Dirs[IFD1] = first
			doc.Thumbnail = p.takeThumbnail(first)
		}
	}

	return doc, nil
}

func (d *Decoder) skip(err error) {
	d.Skipped = multierror.Append(d.Skipped, err)
}

type ifdParser struct {
	data    []byte
	order   binary.ByteOrder
	dec     *Decoder
	visited map[uint32]bool
}

// readIFD parses the directory at offset and returns it together with the
// offset of the next IFD in the chain. Malformed entries are skipped; only
// an unreadable directory header is an error.
func (p *ifdParser) readIFD(ifd IFD, offset uint32) (Directory, uint32, error) {
	if offset < headerSize || uint64(offset)+2 > uint64(len(p.data)) {
		return nil, 0, fmt.Errorf("%s IFD offset %d out of bounds", ifd, offset)
	}
	if p.visited[offset] {
		return nil, 0, fmt.Errorf("%s IFD offset %d already parsed", ifd, offset)
	}
	p.visited[offset] = true

	// Read number of entries
	numEntries := int(p.order.Uint16(p.data[offset:]))
	pos := uint64(offset) + 2

	dir := make(Directory, numEntries)
	for i := 0; i < numEntries; i++ {
		if pos+entrySize > uint64(len(p.data)) {
			p.dec.skip(fmt.Errorf("%s IFD: %w: %d of %d entries present", ifd, ErrTruncated, i, numEntries))
			return dir, 0, nil
		}
		entry := p.data[pos : pos+entrySize]
		pos += entrySize

		tagID := p.order.Uint16(entry[0:2])
		dataType := Type(p.order.Uint16(entry[2:4]))
		count := p.order.Uint32(entry[4:8])

		value, err := p.readValue(dataType, count, entry[8:12])
		if err != nil {
			p.dec.skip(&EntryError{IFD: ifd, Tag: tagID, Type: dataType, Err: err})
			continue
		}
		dir[tagID] = value
	}

	// Next IFD
	var next uint32
	if pos+4 <= uint64(len(p.data)) {
		next = p.order.Uint32(p.data[pos:])
	}
	return dir, next, nil
}

// readSubIFD reads a directory reached through a pointer. Failure drops the
// whole directory and is recorded as skipped.
func (p *ifdParser) readSubIFD(ifd IFD, offset uint32) Directory {
	dir, _, err := p.readIFD(ifd, offset)
	if err != nil {
		p.dec.skip(err)
		return nil
	}
	return dir
}

// readValue resolves an entry's value, inline when it fits in the 4-byte
// field and at the referenced offset otherwise.
func (p *ifdParser) readValue(dataType Type, count uint32, field []byte) (Value, error) {
	size, ok := dataType.Size()
	if !ok {
		return Value{}, ErrBadType
	}
	if count == 0 {
		return Value{}, ErrCountMismatch
	}

	totalSize := uint64(size) * uint64(count)
	if totalSize > uint64(len(p.data)) {
		return Value{}, ErrCountMismatch
	}

	var valueData []byte
	if totalSize <= 4 {
		valueData = field[:totalSize]
	} else {
		offset := uint64(p.order.Uint32(field))
		if offset+totalSize > uint64(len(p.data)) {
			return Value{}, ErrTruncated
		}
		valueData = p.data[offset : offset+totalSize]
	}
	return decodeValue(dataType, count, valueData, p.order), nil
}

// takePointer removes a sub-IFD pointer tag from dir and returns its offset.
func (p *ifdParser) takePointer(dir Directory, ifd IFD, tag uint16) (uint32, bool) {
	v, ok := dir[tag]
	if !ok {
		return 0, false
	}
	delete(dir, tag)
	if (v.Type != TypeLong && v.Type != TypeIFD) || len(v.Ints) != 1 {
		p.dec.skip(&EntryError{IFD: ifd, Tag: tag, Type: v.Type, Err: ErrCountMismatch})
		return 0, false
	}
	return uint32(v.Ints[0]), true
}

// takeThumbnail removes the JPEGInterchangeFormat offset/length pair from
// the 1st IFD and returns the thumbnail bytes they point at.
func (p *ifdParser) takeThumbnail(first Directory) []byte {
	off, hasOff := p.takePointer(first, IFD1, tags.JPEGInterchange)
	n, hasLen := p.takePointer(first, IFD1, tags.JPEGInterchangeLen)
	if !hasOff || !hasLen || n == 0 {
		return nil
	}
	if uint64(off)+uint64(n) > uint64(len(p.data)) {
		p.dec.skip(&EntryError{IFD: IFD1, Tag: tags.JPEGInterchange, Type: TypeLong, Err: ErrTruncated})
		return nil
	}
	return append([]byte(nil), p.data[off:off+n]...)
}
