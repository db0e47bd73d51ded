package exif

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/nscherger/meta-scrubber/tags"
)

// MaxBlockSize is the largest EXIF block an APP1 segment can carry: the
// 16-bit segment length minus the length field and the "Exif\0\0" prefix.
const MaxBlockSize = math.MaxUint16 - 2 - 6

// ownedTags are the pointer tags the encoder regenerates in each IFD; they
// are never copied from that IFD's Directory. The decoder consumes exactly
// these, so the same IDs anywhere else are kept as ordinary entries.
var ownedTags = map[IFD][]uint16{
	IFD0:    {tags.ExifIFDPointer, tags.GPSIFDPointer},
	ExifIFD: {tags.InteropIFDPointer},
	IFD1:    {tags.JPEGInterchange, tags.JPEGInterchangeLen},
}

type field struct {
	tag   uint16
	typ   Type
	count uint32
	data  []byte
}

type ifdBlock struct {
	ifd    IFD
	fields []field
	offset uint32
	size   uint32
	next   uint32
}

// Encode serializes doc into a TIFF-formatted EXIF block in doc's byte
// order. Layout is header, 0th, Exif, Interop, GPS, 1st IFD, thumbnail;
// entries are sorted by tag ID and values over 4 bytes follow their IFD.
// The output depends only on doc, so encoding twice yields identical bytes.
func Encode(doc *Document) ([]byte, error) {
	order := doc.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}

	exifDir := doc.Dirs[ExifIFD]
	if exifDir == nil && doc.Dirs[InteropIFD] != nil {
		exifDir = Directory{}
	}
	first := doc.Dirs[IFD1]
	thumbnail := doc.Thumbnail
	if first == nil {
		thumbnail = nil
	}

	dirs := map[IFD]Directory{
		IFD0:       doc.Dirs[IFD0],
		ExifIFD:    exifDir,
		InteropIFD: doc.Dirs[InteropIFD],
		GPSIFD:     doc.Dirs[GPSIFD],
		IFD1:       first,
	}
	if dirs[IFD0] == nil {
		dirs[IFD0] = Directory{}
	}

	// Pointer placeholders, filled in once offsets are known.
	placeholders := map[IFD][]uint16{}
	if exifDir != nil {
		placeholders[IFD0] = append(placeholders[IFD0], tags.ExifIFDPointer)
	}
	if dirs[GPSIFD] != nil {
		placeholders[IFD0] = append(placeholders[IFD0], tags.GPSIFDPointer)
	}
	if dirs[InteropIFD] != nil {
		placeholders[ExifIFD] = append(placeholders[ExifIFD], tags.InteropIFDPointer)
	}
	if len(thumbnail) > 0 {
		placeholders[IFD1] = append(placeholders[IFD1], tags.JPEGInterchange, tags.JPEGInterchangeLen)
	}

	var blocks []*ifdBlock
	byIFD := make(map[IFD]*ifdBlock)
	offset := uint64(headerSize)
	for _, ifd := range AllIFDs {
		dir := dirs[ifd]
		if dir == nil {
			continue
		}
		b, err := newIFDBlock(ifd, dir, placeholders[ifd], order)
		if err != nil {
			return nil, err
		}
		b.offset = uint32(min(offset, math.MaxUint32))
		offset += uint64(b.size)
		blocks = append(blocks, b)
		byIFD[ifd] = b
	}
	thumbOffset := offset
	offset += uint64(len(thumbnail))
	if offset > MaxBlockSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrEncodeOverflow, offset)
	}

	// Resolve pointers
	zeroth := byIFD[IFD0]
	if b, ok := byIFD[ExifIFD]; ok {
		zeroth.setLong(tags.ExifIFDPointer, b.offset, order)
	}
	if b, ok := byIFD[GPSIFD]; ok {
		zeroth.setLong(tags.GPSIFDPointer, b.offset, order)
	}
	if b, ok := byIFD[InteropIFD]; ok {
		byIFD[ExifIFD].setLong(tags.InteropIFDPointer, b.offset, order)
	}
	if b, ok := byIFD[IFD1]; ok {
		zeroth.next = b.offset
		if len(thumbnail) > 0 {
			b.setLong(tags.JPEGInterchange, uint32(thumbOffset), order)
			b.setLong(tags.JPEGInterchangeLen, uint32(len(thumbnail)), order)
		}
	}

	out := make([]byte, headerSize, offset)
	if order == binary.LittleEndian {
		copy(out, "II")
	} else {
		copy(out, "MM")
	}
	order.PutUint16(out[2:4], tiffMagic)
	order.PutUint32(out[4:8], headerSize)

	for _, b := range blocks {
		out = b.appendTo(out, order)
	}
	out = append(out, thumbnail...)
	return out, nil
}

func newIFDBlock(ifd IFD, dir Directory, pointers []uint16, order binary.ByteOrder) (*ifdBlock, error) {
	b := &ifdBlock{ifd: ifd}
	for _, id := range dir.IDs() {
		if slices.Contains(ownedTags[ifd], id) {
			continue
		}
		v := dir[id]
		if v.Count() == 0 {
			return nil, &EntryError{IFD: ifd, Tag: id, Type: v.Type, Err: ErrCountMismatch}
		}
		data, err := v.encode(order)
		if err != nil {
			return nil, &EntryError{IFD: ifd, Tag: id, Type: v.Type, Err: err}
		}
		b.fields = append(b.fields, field{tag: id, typ: v.Type, count: v.Count(), data: data})
	}
	for _, tag := range pointers {
		b.fields = append(b.fields, field{tag: tag, typ: TypeLong, count: 1, data: make([]byte, 4)})
	}
	slices.SortFunc(b.fields, func(x, y field) int { return int(x.tag) - int(y.tag) })

	if len(b.fields) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %s IFD has %d entries", ErrEncodeOverflow, ifd, len(b.fields))
	}

	size := uint64(2 + entrySize*len(b.fields) + 4)
	for _, f := range b.fields {
		if len(f.data) > 4 {
			size += uint64(padded(len(f.data)))
		}
	}
	if size > MaxBlockSize {
		return nil, fmt.Errorf("%w: %s IFD needs %d bytes", ErrEncodeOverflow, ifd, size)
	}
	b.size = uint32(size)
	return b, nil
}

func (b *ifdBlock) setLong(tag uint16, v uint32, order binary.ByteOrder) {
	for i := range b.fields {
		if b.fields[i].tag == tag {
			order.PutUint32(b.fields[i].data, v)
			return
		}
	}
}

// appendTo writes the entry table, the next-IFD offset and the out-of-line
// value area. Each out-of-line value starts on a word boundary.
func (b *ifdBlock) appendTo(out []byte, order binary.ByteOrder) []byte {
	var scratch [entrySize]byte

	order.PutUint16(scratch[:2], uint16(len(b.fields)))
	out = append(out, scratch[:2]...)

	dataOffset := b.offset + uint32(2+entrySize*len(b.fields)+4)
	var valueArea []byte
	for _, f := range b.fields {
		clear(scratch[:])
		order.PutUint16(scratch[0:2], f.tag)
		order.PutUint16(scratch[2:4], uint16(f.typ))
		order.PutUint32(scratch[4:8], f.count)
		if len(f.data) <= 4 {
			copy(scratch[8:12], f.data)
		} else {
			order.PutUint32(scratch[8:12], dataOffset)
			valueArea = append(valueArea, f.data...)
			if len(f.data)%2 == 1 {
				valueArea = append(valueArea, 0)
			}
			dataOffset += uint32(padded(len(f.data)))
		}
		out = append(out, scratch[:]...)
	}

	order.PutUint32(scratch[:4], b.next)
	out = append(out, scratch[:4]...)
	return append(out, valueArea...)
}

func padded(n int) int {
	return n + n%2
}
