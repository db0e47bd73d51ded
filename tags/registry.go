package tags

//go:generate go run ../cmd/gen-tags -o . $EXIFTOOL_PM_DIR

import "strconv"

// GetTag retrieves a tag definition by namespace and ID
func GetTag(namespace Namespace, id uint16) (TagDef, bool) {
	var table map[uint16]string
	switch namespace {
	case Main:
		table = mainTags
	case GPS:
		table = gpsTags
	default:
		return TagDef{}, false
	}
	name, ok := table[id]
	if !ok {
		return TagDef{}, false
	}
	return TagDef{ID: id, Name: name, Namespace: namespace}, true
}

// ResolveMain returns the display name of a main-table tag, or the decimal
// ID when the tag is unknown.
func ResolveMain(id uint16) string {
	return resolve(Main, id)
}

// ResolveGPS returns the display name of a GPS tag, or the decimal ID when
// the tag is unknown.
func ResolveGPS(id uint16) string {
	return resolve(GPS, id)
}

func resolve(namespace Namespace, id uint16) string {
	if def, ok := GetTag(namespace, id); ok {
		return def.Name
	}
	return strconv.Itoa(int(id))
}
