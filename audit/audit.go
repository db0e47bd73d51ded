// Package audit appends one record per scrubbed file to a persistent log.
package audit

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the layout of the Timestamp column.
const TimeFormat = "2006-01-02 15:04:05"

// Backend names a log implementation.
type Backend string

const (
	BackendCSV    Backend = "csv"
	BackendSQLite Backend = "sqlite"
	BackendNone   Backend = "none"
)

var ErrUnknownBackend = errors.New("unknown audit backend")

// Record is one audit entry.
type Record struct {
	ID        uuid.UUID
	Timestamp time.Time
	Original  string // source file
	New       string // scrubbed output file
	Operation string // "datetime" or "gps"
}

// NewRecord stamps a record with a fresh ID and the current time.
func NewRecord(original, newFile, operation string) Record {
	return Record{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		Original:  original,
		New:       newFile,
		Operation: operation,
	}
}

// Logger appends records. Implementations are safe for concurrent use.
type Logger interface {
	Log(r Record) error
	Close() error
}

// Open returns the logger for backend, writing to path.
func Open(backend Backend, path string) (Logger, error) {
	switch backend {
	case BackendCSV:
		return NewCSVLogger(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Nop discards every record.
type Nop struct{}

func (Nop) Log(Record) error { return nil }

func (Nop) Close() error { return nil }
