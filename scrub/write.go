package scrub

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// OutputPath names the n-th scrubbed copy of src: "<stem>_clean_<n>.jpg",
// in dir or, when dir is empty, next to src.
func OutputPath(src string, n int, dir string) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, fmt.Sprintf("%s_clean_%d.jpg", stem, n))
}

// writeFileAtomic writes data to a temporary file in the destination
// directory and renames it into place, so path either holds the complete
// data or is left untouched.
func writeFileAtomic(path string, data []byte, mode os.FileMode) (err error) {
	tmpPath := filepath.Join(filepath.Dir(path), ".scrub-"+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
