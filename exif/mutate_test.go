package exif

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/nscherger/meta-scrubber/tags"
)

func TestParseOperation(t *testing.T) {
	for _, op := range Operations {
		got, err := ParseOperation(string(op))
		if err != nil || got != op {
			t.Errorf("ParseOperation(%q) = %q, %v", op, got, err)
		}
	}
	for _, s := range []string{"", "GPS", "all", "thumbnail"} {
		if _, err := ParseOperation(s); !errors.Is(err, ErrUnknownOperation) {
			t.Errorf("ParseOperation(%q): expected ErrUnknownOperation, got %v", s, err)
		}
	}
}

func TestApplyRemoveDateTime(t *testing.T) {
	doc := sampleDocument(binary.BigEndian)
	before := doc.Clone()

	if err := Apply(doc, RemoveDateTime); err != nil {
		t.Fatal(err)
	}

	for _, ifd := range []IFD{IFD0, ExifIFD} {
		for _, tag := range []uint16{tags.DateTime, tags.DateTimeOriginal, tags.DateTimeDigitized} {
			if _, ok := doc.Dir(ifd)[tag]; ok {
				t.Errorf("%s IFD still has %s", ifd, tags.ResolveMain(tag))
			}
		}
	}

	// Everything else is untouched.
	if doc.Len() != before.Len()-3 {
		t.Errorf("removed %d entries, want 3", before.Len()-doc.Len())
	}
	for _, ifd := range []IFD{GPSIFD, InteropIFD, IFD1} {
		if !reflect.DeepEqual(doc.Dir(ifd), before.Dir(ifd)) {
			t.Errorf("%s IFD changed", ifd)
		}
	}
	if !reflect.DeepEqual(doc.Thumbnail, before.Thumbnail) {
		t.Error("thumbnail changed")
	}
	if doc.Dir(IFD0)[tags.Make].Text != "Canon" {
		t.Error("Make changed")
	}
	if !reflect.DeepEqual(doc.Dir(ExifIFD)[tags.ExposureTime], before.Dir(ExifIFD)[tags.ExposureTime]) {
		t.Error("ExposureTime changed")
	}
}

func TestApplyRemoveGPS(t *testing.T) {
	doc := sampleDocument(binary.LittleEndian)
	before := doc.Clone()

	if err := Apply(doc, RemoveGPS); err != nil {
		t.Fatal(err)
	}

	gps := doc.Dir(GPSIFD)
	if gps == nil || len(gps) != 0 {
		t.Errorf("GPS IFD should be empty and present, got %#v", gps)
	}
	for _, ifd := range []IFD{IFD0, ExifIFD, InteropIFD, IFD1} {
		if !reflect.DeepEqual(doc.Dir(ifd), before.Dir(ifd)) {
			t.Errorf("%s IFD changed", ifd)
		}
	}
	if !reflect.DeepEqual(doc.Thumbnail, before.Thumbnail) {
		t.Error("thumbnail changed")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	for _, op := range Operations {
		t.Run(string(op), func(t *testing.T) {
			once := sampleDocument(binary.BigEndian)
			if err := Apply(once, op); err != nil {
				t.Fatal(err)
			}
			twice := once.Clone()
			if err := Apply(twice, op); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(once, twice) {
				t.Error("applying twice differs from applying once")
			}

			a, err := Encode(once)
			if err != nil {
				t.Fatal(err)
			}
			b, err := Encode(twice)
			if err != nil {
				t.Fatal(err)
			}
			if string(a) != string(b) {
				t.Error("encoded output differs")
			}
		})
	}
}

func TestApplyOnSparseDocument(t *testing.T) {
	// No Exif or GPS IFD at all.
	doc := NewDocument(binary.BigEndian)
	doc.Dirs[IFD0][tags.Make] = ASCII("Canon")

	if err := Apply(doc, RemoveDateTime); err != nil {
		t.Fatal(err)
	}
	if doc.Dir(ExifIFD) != nil {
		t.Error("RemoveDateTime should not create an Exif IFD")
	}
	if len(doc.Dir(IFD0)) != 1 {
		t.Errorf("0th IFD = %v", doc.Dir(IFD0))
	}
}

func TestApplyUnknownOperation(t *testing.T) {
	doc := sampleDocument(binary.BigEndian)
	before := doc.Clone()
	if err := Apply(doc, Operation("thumbnail")); !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
	if !reflect.DeepEqual(doc, before) {
		t.Error("unknown operation modified the document")
	}
}
