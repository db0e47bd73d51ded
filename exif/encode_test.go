package exif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/nscherger/meta-scrubber/tags"
)

func TestEncodeRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		t.Run(order.String(), func(t *testing.T) {
			doc := sampleDocument(order)
			block, err := Encode(doc)
			if err != nil {
				t.Fatal(err)
			}

			var d Decoder
			got, err := d.Decode(block)
			if err != nil {
				t.Fatal(err)
			}
			if d.Skipped != nil {
				t.Fatalf("unexpected skipped entries: %v", d.Skipped)
			}
			if !reflect.DeepEqual(got, doc) {
				for _, ifd := range AllIFDs {
					if !reflect.DeepEqual(got.Dir(ifd), doc.Dir(ifd)) {
						t.Errorf("%s IFD differs:\n got %v\nwant %v", ifd, got.Dir(ifd), doc.Dir(ifd))
					}
				}
				t.Fatalf("round trip changed the document")
			}

			again, err := Encode(got)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(again, block) {
				t.Error("re-encoding the decoded document produced different bytes")
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	doc := sampleDocument(binary.BigEndian)
	first, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		next, err := Encode(doc)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, next) {
			t.Fatalf("encoding %d differs from the first", i+1)
		}
	}
}

func TestEncodeHeader(t *testing.T) {
	cases := []struct {
		order  binary.ByteOrder
		prefix []byte
	}{
		{binary.BigEndian, []byte{'M', 'M', 0, 42, 0, 0, 0, 8}},
		{binary.LittleEndian, []byte{'I', 'I', 42, 0, 8, 0, 0, 0}},
		{nil, []byte{'M', 'M', 0, 42, 0, 0, 0, 8}},
	}
	for _, c := range cases {
		doc := &Document{ByteOrder: c.order}
		block, err := Encode(doc)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(block, c.prefix) {
			t.Errorf("header = % X, want % X", block[:8], c.prefix)
		}
	}
}

func TestEncodeSortsEntries(t *testing.T) {
	doc := sampleDocument(binary.LittleEndian)
	block, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}

	ids, values := ifdEntries(block, binary.LittleEndian, headerSize)
	if !slices.IsSorted(ids) {
		t.Errorf("0th IFD entries not sorted: %v", ids)
	}
	exifIDs, _ := ifdEntries(block, binary.LittleEndian, values[tags.ExifIFDPointer])
	if !slices.IsSorted(exifIDs) {
		t.Errorf("Exif IFD entries not sorted: %v", exifIDs)
	}
	if !slices.Contains(exifIDs, tags.InteropIFDPointer) {
		t.Error("Exif IFD should carry the Interop pointer")
	}
}

func TestEncodeEmptyGPS(t *testing.T) {
	doc := NewDocument(binary.BigEndian)
	doc.Dirs[IFD0][tags.Make] = ASCII("Canon")
	doc.Dirs[GPSIFD] = Directory{}

	block, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	_, values := ifdEntries(block, binary.BigEndian, headerSize)
	off, ok := values[tags.GPSIFDPointer]
	if !ok {
		t.Fatal("empty GPS directory should still be pointed at")
	}
	if n := binary.BigEndian.Uint16(block[off:]); n != 0 {
		t.Errorf("GPS IFD has %d entries, want 0", n)
	}

	got, err := Decode(block)
	if err != nil {
		t.Fatal(err)
	}
	if gps := got.Dir(GPSIFD); gps == nil || len(gps) != 0 {
		t.Errorf("expected an empty non-nil GPS directory, got %#v", gps)
	}
}

func TestEncodeAbsentGPS(t *testing.T) {
	doc := NewDocument(binary.BigEndian)
	doc.Dirs[IFD0][tags.Make] = ASCII("Canon")

	block, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	_, values := ifdEntries(block, binary.BigEndian, headerSize)
	if _, ok := values[tags.GPSIFDPointer]; ok {
		t.Error("no GPS pointer expected for an absent GPS directory")
	}
	if _, ok := values[tags.ExifIFDPointer]; ok {
		t.Error("no Exif pointer expected for an absent Exif directory")
	}
}

func TestEncodeIgnoresPointerTagsInDirectory(t *testing.T) {
	doc := NewDocument(binary.BigEndian)
	doc.Dirs[IFD0][tags.Make] = ASCII("Canon")
	doc.Dirs[IFD0][tags.GPSIFDPointer] = Longs(12345)

	block, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	ids, _ := ifdEntries(block, binary.BigEndian, headerSize)
	if !slices.Equal(ids, []uint16{tags.Make}) {
		t.Errorf("0th IFD entries = %v, want only Make", ids)
	}
}

// Pointer IDs are only structural in the IFD that owns them.
func TestEncodeKeepsPointerIDsOutsideTheirIFD(t *testing.T) {
	doc := NewDocument(binary.LittleEndian)
	doc.Dirs[IFD0][tags.Make] = ASCII("Canon")
	doc.Dirs[IFD0][tags.JPEGInterchange] = Longs(100)
	doc.Dirs[IFD0][tags.JPEGInterchangeLen] = Longs(20)
	doc.Dirs[IFD0][tags.InteropIFDPointer] = Longs(7)
	doc.Dirs[GPSIFD] = Directory{tags.GPSLatitudeRef: ASCII("N")}
	doc.Dirs[IFD1] = Directory{
		tags.XResolution:    Rationals(Rational{Num: 72, Den: 1}),
		tags.ExifIFDPointer: Longs(9),
	}

	block, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	ids, _ := ifdEntries(block, binary.LittleEndian, headerSize)
	want := []uint16{tags.Make, tags.JPEGInterchange, tags.JPEGInterchangeLen, tags.GPSIFDPointer, tags.InteropIFDPointer}
	if !slices.Equal(ids, want) {
		t.Errorf("0th IFD entries = %v, want %v", ids, want)
	}

	got, err := Decode(block)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, doc)
	}
}

func TestEncodeInteropWithoutExif(t *testing.T) {
	doc := NewDocument(binary.BigEndian)
	doc.Dirs[InteropIFD] = Directory{tags.InteropIndex: ASCII("R98")}

	block, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(block)
	if err != nil {
		t.Fatal(err)
	}
	if got.Dir(ExifIFD) == nil {
		t.Fatal("an Exif IFD is needed to reach the Interop IFD")
	}
	if got.Dir(InteropIFD)[tags.InteropIndex].Text != "R98" {
		t.Errorf("Interop IFD = %v", got.Dir(InteropIFD))
	}
}

func TestEncodeThumbnailNeedsFirstIFD(t *testing.T) {
	doc := NewDocument(binary.BigEndian)
	doc.Thumbnail = []byte{0xFF, 0xD8, 0xFF, 0xD9}

	block, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(block)
	if err != nil {
		t.Fatal(err)
	}
	if got.Thumbnail != nil || got.Dir(IFD1) != nil {
		t.Error("thumbnail without a 1st IFD should be dropped")
	}
}

func TestEncodeOverflow(t *testing.T) {
	t.Run("single value", func(t *testing.T) {
		doc := NewDocument(binary.BigEndian)
		doc.Dirs[IFD0][tags.MakerNote] = Undefined(make([]byte, MaxBlockSize+1))
		if _, err := Encode(doc); !errors.Is(err, ErrEncodeOverflow) {
			t.Errorf("expected ErrEncodeOverflow, got %v", err)
		}
	})
	t.Run("total size", func(t *testing.T) {
		doc := NewDocument(binary.BigEndian)
		doc.Dirs[IFD0][tags.MakerNote] = Undefined(make([]byte, 40000))
		doc.Dirs[ExifIFD] = Directory{tags.UserComment: Undefined(make([]byte, 40000))}
		if _, err := Encode(doc); !errors.Is(err, ErrEncodeOverflow) {
			t.Errorf("expected ErrEncodeOverflow, got %v", err)
		}
	})
	t.Run("just fits", func(t *testing.T) {
		doc := NewDocument(binary.BigEndian)
		// header + count + one entry + next offset
		overhead := headerSize + 2 + entrySize + 4
		n := MaxBlockSize - overhead
		n -= n % 2 // values are padded to an even length
		doc.Dirs[IFD0][tags.MakerNote] = Undefined(make([]byte, n))
		block, err := Encode(doc)
		if err != nil {
			t.Fatal(err)
		}
		if len(block) != overhead+n {
			t.Errorf("block is %d bytes, want %d", len(block), overhead+n)
		}
	})
}

func TestEncodeRejectsEmptyValue(t *testing.T) {
	doc := NewDocument(binary.BigEndian)
	doc.Dirs[IFD0][tags.Orientation] = Shorts()

	_, err := Encode(doc)
	var entryErr *EntryError
	if !errors.As(err, &entryErr) || entryErr.Tag != tags.Orientation {
		t.Fatalf("expected an EntryError for Orientation, got %v", err)
	}
	if !errors.Is(err, ErrCountMismatch) {
		t.Errorf("expected ErrCountMismatch, got %v", err)
	}
}
