package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/akeil/tkb/internal/logging"
)

// TempPath returns a unique path for a temporary file in dir
// with the given extension.
// The file itself is not created.
func TempPath(dir, ext string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tkb-"+uuid.New().String()+ext)
}

// Move moves a file from src to dst.
// It tries os.Rename() first and falls back on "copy and delete".
//
// If src cannot be deleted after a successful copy,
// NO error is returned and src remains as it was.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	// Rename may have failed when moving across file systems
	// so try again w/ copy & delete.
	logging.Debug("Rename failed for %v -> %v, fall back on copy and delete", src, dst)
	err = copyFile(src, dst)
	if err != nil {
		return err
	}

	ignoredErr := os.Remove(src)
	if ignoredErr != nil {
		logging.Error("Failed to remove file %v", src)
	}

	return nil
}

func copyFile(src, dst string) error {
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, r)
	closeErr := w.Close()
	if err != nil {
		os.Remove(dst)
		return err
	}
	return closeErr
}
