package tags

// Namespace selects one tag table. The same numeric ID can mean different
// things in different tables, so lookups are always scoped to one of these.
type Namespace string

const (
	Main Namespace = "Main" // 0th, 1st, Exif and Interop directories
	GPS  Namespace = "GPS"  // GPS directory
)

// TagDef represents a single tag definition
type TagDef struct {
	ID        uint16    // Numeric tag ID
	Name      string    // Human-readable name
	Namespace Namespace // Table the ID belongs to
}
