package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"go/format"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	tableRe        = regexp.MustCompile(`^\s*%Image::ExifTool::([A-Za-z0-9_:]+)\s*=\s*\(`)
	tableEndRe     = regexp.MustCompile(`^\s*\);`)
	tagDefStartRe  = regexp.MustCompile(`^\s*(?:0x([0-9a-fA-F]+)|(\d+))\s*=>\s*[\{\[]`)
	tagDefInlineRe = regexp.MustCompile(`^\s*(?:0x([0-9a-fA-F]+)|(\d+))\s*=>\s*'([^']+)'\s*,?\s*$`)
	nameRe         = regexp.MustCompile(`Name\s*=>\s*'([^']+)'`)
)

// ParsePMFiles recursively parses all .pm files in the given directory,
// keeping the tables listed in Targets.
func ParsePMFiles(rootDir string) (*ParsedData, error) {
	data := &ParsedData{TagTables: make(map[string]*TagTable)}

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Only process .pm files
		if !strings.HasSuffix(path, ".pm") || d.IsDir() {
			return nil
		}

		if err := parsePMFile(path, data); err != nil {
			// Log error but continue
			fmt.Fprintf(os.Stderr, "Warning: error parsing %s: %v\n", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// parsePMFile parses a single PM file and adds data to ParsedData
func parsePMFile(path string, data *ParsedData) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// e.g., .../Image/ExifTool/GPS.pm -> GPS
	moduleName := strings.TrimSuffix(filepath.Base(path), ".pm")
	return parsePM(file, moduleName, data)
}

func parsePM(r io.Reader, moduleName string, data *ParsedData) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var table *TagTable
	var current *TagDef
	depth := 0

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		if table == nil {
			if m := tableRe.FindStringSubmatch(line); m != nil && wanted(m[1]) {
				table = &TagTable{
					ModuleName:  moduleName,
					PackageName: "Image::ExifTool::" + m[1],
					Tags:        make(map[uint16]*TagDef),
				}
				data.TagTables[m[1]] = table
				depth = 0
			}
			continue
		}

		// Only keys at the top level of the table are tag IDs; deeper
		// numeric keys belong to PrintConv and the like.
		if depth == 0 && current == nil {
			if tableEndRe.MatchString(line) {
				table = nil
				continue
			}
			if m := tagDefInlineRe.FindStringSubmatch(line); m != nil {
				if id, ok := extractTagKey(m); ok {
					addTag(table, &TagDef{ID: id, Name: m[3]})
				}
				continue
			}
			if m := tagDefStartRe.FindStringSubmatch(line); m != nil {
				if id, ok := extractTagKey(m); ok {
					current = &TagDef{ID: id}
				}
			}
		}

		// A list of conditional definitions takes the first Name
		if current != nil && current.Name == "" {
			if m := nameRe.FindStringSubmatch(line); m != nil {
				current.Name = m[1]
			}
		}

		depth = max(depth+bracketDelta(line), 0)
		if current != nil && depth == 0 {
			if current.Name != "" {
				addTag(table, current)
			}
			current = nil
		}
	}

	return scanner.Err()
}

func wanted(tableName string) bool {
	for _, t := range Targets {
		if t.Table == tableName {
			return true
		}
	}
	return false
}

// addTag keeps the first definition seen for an ID.
func addTag(table *TagTable, def *TagDef) {
	if _, ok := table.Tags[def.ID]; !ok {
		table.Tags[def.ID] = def
	}
}

func extractTagKey(matches []string) (uint16, bool) {
	var id uint64
	var err error
	if matches[1] != "" {
		id, err = strconv.ParseUint(matches[1], 16, 16)
	} else if matches[2] != "" {
		id, err = strconv.ParseUint(matches[2], 10, 16)
	} else {
		return 0, false
	}
	return uint16(id), err == nil
}

// bracketDelta returns the change in {} / [] nesting over one line, ignoring
// quoted strings and trailing comments.
func bracketDelta(line string) int {
	delta := 0
	var quote rune
	escaped := false
	for _, ch := range line {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '#':
			return delta
		case '{', '[':
			delta++
		case '}', ']':
			delta--
		}
	}
	return delta
}

// GenerateGoFiles writes one Go file per target table into outputDir
func GenerateGoFiles(data *ParsedData, outputDir string) error {
	for _, t := range Targets {
		table, ok := data.TagTables[t.Table]
		if !ok || len(table.Tags) == 0 {
			return fmt.Errorf("table %s not found", t.Table)
		}
		if err := generateTagFile(t, table, outputDir); err != nil {
			return fmt.Errorf("error generating file for %s: %w", t.Table, err)
		}
	}
	return nil
}

// fileName turns a table name into a file name, e.g. "GPS::Main" -> "gps_main.go"
func fileName(tableName string) string {
	return strings.ToLower(strings.ReplaceAll(tableName, "::", "_")) + ".go"
}

func generateTagFile(t Target, table *TagTable, outputDir string) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// Code generated by gen-tags. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package tags\n\n")
	fmt.Fprintf(&buf, "// %s contains tag names from %s\n", t.VarName, table.PackageName)
	fmt.Fprintf(&buf, "var %s = map[uint16]string{\n", t.VarName)
	for _, id := range slices.Sorted(maps.Keys(table.Tags)) {
		name := table.Tags[id].Name
		if std, ok := StandardNames[name]; ok {
			name = std
		}
		fmt.Fprintf(&buf, "\t0x%04X: %q,\n", id, name)
	}
	fmt.Fprintf(&buf, "}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, fileName(t.Table)), src, 0o644)
}
