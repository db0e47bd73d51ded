package exif

import (
	"encoding/binary"

	"github.com/nscherger/meta-scrubber/tags"
)

// sampleDocument returns a document touching every namespace and most
// value shapes, including out-of-line values and a thumbnail.
func sampleDocument(order binary.ByteOrder) *Document {
	doc := NewDocument(order)
	doc.Dirs[IFD0] = Directory{
		tags.Make:           ASCII("Canon"),
		tags.Model:          ASCII("Canon EOS 5D Mark IV"),
		tags.Orientation:    Shorts(1),
		tags.XResolution:    Rationals(Rational{72, 1}),
		tags.YResolution:    Rationals(Rational{72, 1}),
		tags.ResolutionUnit: Shorts(2),
		tags.DateTime:       ASCII("2023:01:01 10:00:00"),
	}
	doc.Dirs[ExifIFD] = Directory{
		tags.ExposureTime:      Rationals(Rational{1, 125}),
		tags.FNumber:           Rationals(Rational{28, 10}),
		tags.ExifVersion:       Undefined([]byte("0231")),
		tags.DateTimeOriginal:  ASCII("2023:01:01 10:00:00"),
		tags.DateTimeDigitized: ASCII("2023:01:01 10:00:00"),
		tags.ExposureBiasValue: SRationals(Rational{-1, 3}),
		tags.UserComment:       Undefined([]byte("ASCII\x00\x00\x00holiday")),
		tags.ISOSpeedRatings:   Shorts(400),
		tags.LensSpecification: Rationals(Rational{24, 1}, Rational{70, 1}, Rational{28, 10}, Rational{28, 10}),
		tags.BrightnessValue:   SLongs(-2),
	}
	doc.Dirs[InteropIFD] = Directory{
		tags.InteropIndex:   ASCII("R98"),
		tags.InteropVersion: Undefined([]byte("0100")),
	}
	doc.Dirs[GPSIFD] = Directory{
		tags.GPSVersionID:   Bytes(2, 2, 0, 0),
		tags.GPSLatitudeRef: ASCII("N"),
		tags.GPSLatitude:    Rationals(Rational{40, 1}, Rational{0, 1}, Rational{0, 1}),
		tags.GPSAltitudeRef: Bytes(0),
		tags.GPSAltitude:    Rationals(Rational{1234, 10}),
	}
	doc.Dirs[IFD1] = Directory{
		tags.XResolution:    Rationals(Rational{72, 1}),
		tags.YResolution:    Rationals(Rational{72, 1}),
		tags.ResolutionUnit: Shorts(2),
	}
	doc.Thumbnail = []byte{0xFF, 0xD8, 0xFF, 0xD9, 0x01}
	return doc
}

type rawEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32
}

// rawBlock assembles a big-endian block with a single 0th IFD. The tail is
// appended right after the IFD, at rawTailOffset(len(entries)).
func rawBlock(entries []rawEntry, tail []byte) []byte {
	b := []byte{'M', 'M', 0, 42, 0, 0, 0, 8}
	b = binary.BigEndian.AppendUint16(b, uint16(len(entries)))
	for _, e := range entries {
		b = binary.BigEndian.AppendUint16(b, e.tag)
		b = binary.BigEndian.AppendUint16(b, e.typ)
		b = binary.BigEndian.AppendUint32(b, e.count)
		b = binary.BigEndian.AppendUint32(b, e.value)
	}
	b = binary.BigEndian.AppendUint32(b, 0)
	return append(b, tail...)
}

func rawTailOffset(n int) uint32 {
	return uint32(8 + 2 + 12*n + 4)
}

// ifdEntries reads the tag IDs and raw value fields of the IFD at offset.
func ifdEntries(block []byte, order binary.ByteOrder, offset uint32) (ids []uint16, values map[uint16]uint32) {
	values = make(map[uint16]uint32)
	n := int(order.Uint16(block[offset:]))
	for i := 0; i < n; i++ {
		pos := int(offset) + 2 + 12*i
		id := order.Uint16(block[pos:])
		ids = append(ids, id)
		values[id] = order.Uint32(block[pos+8:])
	}
	return ids, values
}
