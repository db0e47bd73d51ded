package exif

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/nscherger/meta-scrubber/tags"
)

func TestDecodeMalformedHeader(t *testing.T) {
	cases := []struct {
		name  string
		block []byte
	}{
		{"empty", nil},
		{"short", []byte{'I', 'I', 42, 0}},
		{"bad byte order", []byte{'X', 'X', 0, 42, 0, 0, 0, 8, 0, 0}},
		{"bad magic", []byte{'M', 'M', 0, 43, 0, 0, 0, 8, 0, 0}},
		{"0th offset past end", []byte{'M', 'M', 0, 42, 0, 0, 0xFF, 0xFF, 0, 0}},
		{"0th offset inside header", []byte{'M', 'M', 0, 42, 0, 0, 0, 2, 0, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, err := Decode(c.block)
			if !errors.Is(err, ErrMalformedHeader) {
				t.Fatalf("expected ErrMalformedHeader, got %v", err)
			}
			if doc != nil {
				t.Errorf("expected no document, got %+v", doc)
			}
		})
	}
}

func TestDecodeInlineAndOutOfLine(t *testing.T) {
	n := 3
	tail := []byte{0, 0, 0, 72, 0, 0, 0, 1} // 72/1
	tail = append(tail, "Hello World\x00"...)
	block := rawBlock([]rawEntry{
		{tags.Make, uint16(TypeASCII), 4, 0x41424300}, // "ABC\0" inline
		{tags.XResolution, uint16(TypeRational), 1, rawTailOffset(n)},
		{tags.Software, uint16(TypeASCII), 12, rawTailOffset(n) + 8},
	}, tail)

	var d Decoder
	doc, err := d.Decode(block)
	if err != nil {
		t.Fatal(err)
	}
	if d.Skipped != nil {
		t.Fatalf("nothing should be skipped: %v", d.Skipped)
	}
	if doc.ByteOrder != binary.BigEndian {
		t.Errorf("expected big endian, got %v", doc.ByteOrder)
	}

	zeroth := doc.Dir(IFD0)
	if got := zeroth[tags.Make].Text; got != "ABC" {
		t.Errorf("Make = %q, want ABC", got)
	}
	if got := zeroth[tags.XResolution].String(); got != "72" {
		t.Errorf("XResolution = %q, want 72", got)
	}
	if got := zeroth[tags.Software].Text; got != "Hello World" {
		t.Errorf("Software = %q, want Hello World", got)
	}
	for _, ifd := range []IFD{IFD1, ExifIFD, GPSIFD, InteropIFD} {
		if doc.Dir(ifd) != nil {
			t.Errorf("%s IFD should be absent", ifd)
		}
	}
}

func TestDecodeSkipsMalformedEntries(t *testing.T) {
	n := 5
	block := rawBlock([]rawEntry{
		{tags.Make, uint16(TypeASCII), 4, 0x41424300},
		{tags.Model, 99, 1, 0},                          // bad type code
		{tags.Software, uint16(TypeASCII), 20, 5000},    // offset past end
		{tags.Orientation, uint16(TypeShort), 0, 0},     // zero count
		{tags.XResolution, uint16(TypeRational), 1, rawTailOffset(n)},
	}, []byte{0, 0, 0, 72, 0, 0, 0, 1})

	var d Decoder
	doc, err := d.Decode(block)
	if err != nil {
		t.Fatalf("malformed entries must not fail the decode: %v", err)
	}

	zeroth := doc.Dir(IFD0)
	if len(zeroth) != 2 {
		t.Errorf("expected 2 surviving entries, got %d: %v", len(zeroth), zeroth.IDs())
	}
	if _, ok := zeroth[tags.Make]; !ok {
		t.Error("Make should survive")
	}
	if _, ok := zeroth[tags.XResolution]; !ok {
		t.Error("XResolution should survive")
	}

	if d.Skipped == nil || len(d.Skipped.Errors) != 3 {
		t.Fatalf("expected 3 skipped entries, got %v", d.Skipped)
	}
	want := map[uint16]error{
		tags.Model:       ErrBadType,
		tags.Software:    ErrTruncated,
		tags.Orientation: ErrCountMismatch,
	}
	for _, err := range d.Skipped.Errors {
		var entryErr *EntryError
		if !errors.As(err, &entryErr) {
			t.Errorf("expected *EntryError, got %T: %v", err, err)
			continue
		}
		if !errors.Is(err, want[entryErr.Tag]) {
			t.Errorf("tag 0x%04X: got %v, want %v", entryErr.Tag, err, want[entryErr.Tag])
		}
	}
}

func TestDecodeTruncatedEntryTable(t *testing.T) {
	block := rawBlock([]rawEntry{
		{tags.Make, uint16(TypeASCII), 4, 0x41424300},
	}, nil)
	// Claim three entries while only one is present.
	binary.BigEndian.PutUint16(block[8:], 3)
	block = block[:8+2+12]

	var d Decoder
	doc, err := d.Decode(block)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Dir(IFD0)) != 1 {
		t.Errorf("expected the one complete entry, got %v", doc.Dir(IFD0).IDs())
	}
	if d.Skipped == nil || !errors.Is(d.Skipped.Errors[0], ErrTruncated) {
		t.Errorf("expected a truncation to be recorded, got %v", d.Skipped)
	}
}

func TestDecodeBadSubIFDPointer(t *testing.T) {
	block := rawBlock([]rawEntry{
		{tags.Make, uint16(TypeASCII), 4, 0x41424300},
		{tags.GPSIFDPointer, uint16(TypeLong), 1, 0xFFFF},
	}, nil)

	var d Decoder
	doc, err := d.Decode(block)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Dir(GPSIFD) != nil {
		t.Error("unreadable GPS IFD should be dropped")
	}
	if _, ok := doc.Dir(IFD0)[tags.GPSIFDPointer]; ok {
		t.Error("pointer tags must not remain in the directory")
	}
	if d.Skipped == nil {
		t.Error("dropped GPS IFD should be recorded")
	}
}

func TestDecodeNamespacesStayDistinct(t *testing.T) {
	doc := NewDocument(binary.LittleEndian)
	doc.Dirs[IFD0][tags.InteropIndex] = ASCII("R98")
	doc.Dirs[GPSIFD] = Directory{tags.GPSLatitudeRef: ASCII("N")}

	block, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(block)
	if err != nil {
		t.Fatal(err)
	}
	if got.Dir(IFD0)[1].Text != "R98" {
		t.Errorf("0th tag 1 = %q", got.Dir(IFD0)[1].Text)
	}
	if got.Dir(GPSIFD)[1].Text != "N" {
		t.Errorf("GPS tag 1 = %q", got.Dir(GPSIFD)[1].Text)
	}
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	doc := NewDocument(binary.BigEndian)
	doc.Dirs[IFD0][tags.MakerNote] = Undefined([]byte("0123456789"))
	block, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(block)
	if err != nil {
		t.Fatal(err)
	}
	clear(block)
	if string(got.Dir(IFD0)[tags.MakerNote].Bytes) != "0123456789" {
		t.Error("decoded value changed when the input buffer was cleared")
	}
}
