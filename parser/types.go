package parser

// ParsedData contains the tag tables parsed from PM files
type ParsedData struct {
	// TagTables maps table name to its tag table
	// e.g. "GPS::Main" -> GPS Main table
	TagTables map[string]*TagTable
}

// TagTable represents tags from a single PM module/table
type TagTable struct {
	ModuleName  string             // e.g. "Exif", "GPS"
	PackageName string             // Full Perl package name
	Tags        map[uint16]*TagDef // Tag ID -> definition
}

// TagDef represents a single tag definition
type TagDef struct {
	ID   uint16 // Numeric tag ID
	Name string // Human-readable name
}

// Target selects one table and the Go variable generated from it.
type Target struct {
	Table   string // e.g. "Exif::Main"
	VarName string // e.g. "mainTags"
}

// Targets are the tables the tags package is generated from.
var Targets = []Target{
	{Table: "Exif::Main", VarName: "mainTags"},
	{Table: "GPS::Main", VarName: "gpsTags"},
}

// StandardNames maps ExifTool tag names to the EXIF 2.3 spelling the rest of
// the module displays and matches on.
var StandardNames = map[string]string{
	"ModifyDate":      "DateTime",
	"CreateDate":      "DateTimeDigitized",
	"ImageHeight":     "ImageLength",
	"ThumbnailOffset": "JpegIFOffset",
	"ThumbnailLength": "JpegIFByteCount",
	"InteropOffset":   "ExifInteroperabilityOffset",
	"ISO":             "ISOSpeedRatings",
}
