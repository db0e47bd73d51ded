// Package meta projects decoded EXIF documents into flat, human-readable
// metadata for display, comparison and JSON output.
package meta

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/nscherger/meta-scrubber/exif"
	"github.com/nscherger/meta-scrubber/tags"
)

const (
	gpsPrefix       = "GPS "
	thumbnailPrefix = "Thumbnail "
)

// Field represents a single metadata field
type Field struct {
	IFD   exif.IFD
	Tag   uint16
	Key   string // Display name, unique within a Metadata
	Value exif.Value
}

// Metadata is the readable view of one EXIF document, keyed by display
// name. It is derived for presentation only and never fed back into a
// Document.
type Metadata struct {
	Fields map[string]Field
}

// projection order; the first directory to use a display name keeps it
var projectionOrder = []exif.IFD{exif.IFD0, exif.InteropIFD, exif.ExifIFD, exif.GPSIFD, exif.IFD1}

// FromDocument flattens doc into display-name keyed fields. GPS entries are
// named from the GPS table with a "GPS " prefix and 1st-IFD entries carry a
// "Thumbnail " prefix, so identical tag IDs in different directories never
// collide. The 0th, Interop and Exif IFDs share the main table; when the
// same tag appears in more than one of them, the 0th IFD's value is kept,
// then Interop's. A nil doc yields empty metadata.
func FromDocument(doc *exif.Document) *Metadata {
	m := &Metadata{Fields: make(map[string]Field)}
	if doc == nil {
		return m
	}
	for _, ifd := range projectionOrder {
		for id, v := range doc.Dir(ifd) {
			key := DisplayName(ifd, id)
			if _, ok := m.Fields[key]; ok {
				continue
			}
			m.Fields[key] = Field{IFD: ifd, Tag: id, Key: key, Value: v}
		}
	}
	return m
}

// DisplayName returns the readable key for tag id in ifd.
func DisplayName(ifd exif.IFD, id uint16) string {
	switch ifd {
	case exif.GPSIFD:
		return gpsPrefix + tags.ResolveGPS(id)
	case exif.IFD1:
		return thumbnailPrefix + tags.ResolveMain(id)
	default:
		return tags.ResolveMain(id)
	}
}

// Len returns the number of fields.
func (m *Metadata) Len() int {
	return len(m.Fields)
}

// Keys returns the display names in sorted order.
func (m *Metadata) Keys() []string {
	return slices.Sorted(maps.Keys(m.Fields))
}

// Get returns the field named key.
func (m *Metadata) Get(key string) (Field, bool) {
	f, ok := m.Fields[key]
	return f, ok
}

// KeysWithPrefix returns the sorted keys starting with prefix.
func (m *Metadata) KeysWithPrefix(prefix string) []string {
	var keys []string
	for _, k := range m.Keys() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

type jsonField struct {
	IFD   string `json:"ifd"`
	Tag   string `json:"tag"`
	Type  string `json:"type"`
	Count uint32 `json:"count"`
	Value string `json:"value"`
}

// ToJSON converts metadata to JSON string
func (m *Metadata) ToJSON() (string, error) {
	out := make(map[string]jsonField, len(m.Fields))
	for k, f := range m.Fields {
		out[k] = jsonField{
			IFD:   f.IFD.String(),
			Tag:   fmt.Sprintf("0x%04X", f.Tag),
			Type:  f.Value.Type.String(),
			Count: f.Value.Count(),
			Value: f.Value.String(),
		}
	}
	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "{}", err
	}
	return string(jsonBytes), nil
}

// Display writes the fields sorted by name, one "name: value" line each,
// between dashed rules.
func (m *Metadata) Display(w io.Writer, title string) error {
	rule := strings.Repeat("-", 50)
	if _, err := fmt.Fprintf(w, "\n%s\n%s\n", title, rule); err != nil {
		return err
	}
	for _, k := range m.Keys() {
		if _, err := fmt.Fprintf(w, "%-30s: %s\n", k, m.Fields[k].Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, rule)
	return err
}
