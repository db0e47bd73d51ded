package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
)

// Header is the first row of a CSV log.
var Header = []string{"Timestamp", "Original File", "New File", "Metadata Removed"}

// CSVLogger appends records to a CSV file, writing the header row only when
// the file is created or empty. The file is opened per record so that an
// external reader always sees complete rows.
type CSVLogger struct {
	path string
	mu   sync.Mutex
}

func NewCSVLogger(path string) *CSVLogger {
	return &CSVLogger{path: path}
}

// Path returns the file the logger appends to.
func (l *CSVLogger) Path() string {
	return l.path
}

func (l *CSVLogger) Log(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat audit log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			f.Close()
			return err
		}
	}
	row := []string{r.Timestamp.Format(TimeFormat), r.Original, r.New, r.Operation}
	if err := w.Write(row); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write audit log: %w", err)
	}
	return f.Close()
}

func (l *CSVLogger) Close() error { return nil }
