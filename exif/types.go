package exif

import (
	"fmt"

	"github.com/nscherger/meta-scrubber/tags"
)

// Type is a TIFF field type code.
type Type uint16

const (
	TypeByte      Type = 1
	TypeASCII     Type = 2
	TypeShort     Type = 3
	TypeLong      Type = 4
	TypeRational  Type = 5
	TypeSByte     Type = 6
	TypeUndefined Type = 7
	TypeSShort    Type = 8
	TypeSLong     Type = 9
	TypeSRational Type = 10
	TypeFloat     Type = 11
	TypeDouble    Type = 12
	TypeIFD       Type = 13
)

var typeSizes = map[Type]uint32{
	TypeByte: 1, TypeASCII: 1, TypeShort: 2, TypeLong: 4, TypeRational: 8,
	TypeSByte: 1, TypeUndefined: 1, TypeSShort: 2, TypeSLong: 4, TypeSRational: 8,
	TypeFloat: 4, TypeDouble: 8, TypeIFD: 4,
}

var typeNames = map[Type]string{
	TypeByte: "BYTE", TypeASCII: "ASCII", TypeShort: "SHORT", TypeLong: "LONG",
	TypeRational: "RATIONAL", TypeSByte: "SBYTE", TypeUndefined: "UNDEF",
	TypeSShort: "SSHORT", TypeSLong: "SLONG", TypeSRational: "SRATIONAL",
	TypeFloat: "FLOAT", TypeDouble: "DOUBLE", TypeIFD: "IFD",
}

// Size returns the byte size of one component and whether the type is known.
func (t Type) Size() (uint32, bool) {
	size, ok := typeSizes[t]
	return size, ok
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE%d", uint16(t))
}

// IFD names one of the five directory namespaces of an EXIF block.
type IFD int

const (
	IFD0 IFD = iota
	IFD1
	ExifIFD
	GPSIFD
	InteropIFD

	numIFDs
)

var ifdNames = [numIFDs]string{"0th", "1st", "Exif", "GPS", "Interop"}

func (i IFD) String() string {
	if i < 0 || i >= numIFDs {
		return fmt.Sprintf("IFD(%d)", int(i))
	}
	return ifdNames[i]
}

// Namespace returns the tag table used to name entries of this directory.
func (i IFD) Namespace() tags.Namespace {
	if i == GPSIFD {
		return tags.GPS
	}
	return tags.Main
}

// AllIFDs lists the directories in the order they are laid out on encode.
var AllIFDs = []IFD{IFD0, ExifIFD, InteropIFD, GPSIFD, IFD1}
