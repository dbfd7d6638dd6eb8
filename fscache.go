package tkb

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/akeil/tkb/internal/errors"
	"github.com/akeil/tkb/internal/logging"
)

type fsCache struct {
	dir string
	mx  sync.RWMutex
}

// NewFilesystemCache returns a Cache implementation that stores cached data
// in the given directory.
//
// Keys are escaped, so paper ids with slashes (old arXiv ids) can be used.
func NewFilesystemCache(dir string) Cache {
	return &fsCache{dir: dir}
}

func (f *fsCache) Get(key string) (io.ReadCloser, error) {
	logging.Debug("Cache get %q", key)
	f.mx.RLock()
	defer f.mx.RUnlock()

	r, err := os.Open(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("Cache miss %q", key)
			return nil, errors.NewNotFound("no cache entry for %q", key)
		}
		logging.Warning("Cache error %q: %v", key, err)
		return nil, err
	}
	return r, nil
}

// Put writes to a temporary file first so that concurrent readers never see
// a partially written entry.
func (f *fsCache) Put(key string, r io.Reader) error {
	logging.Debug("Cache put %q", key)
	f.mx.Lock()
	defer f.mx.Unlock()

	err := f.mkdir()
	if err != nil {
		logging.Warning("Failed to create cache directory %q: %v", f.dir, err)
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".put-*")
	if err != nil {
		logging.Warning("Cache error %q: %v", key, err)
		return err
	}

	_, err = io.Copy(tmp, r)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), f.path(key))
}

func (f *fsCache) Delete(key string) error {
	logging.Debug("Cache delete %q", key)
	f.mx.Lock()
	defer f.mx.Unlock()
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *fsCache) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key))
}

func (f *fsCache) mkdir() error {
	err := os.MkdirAll(f.dir, 0755)
	if err != nil {
		if !os.IsExist(err) {
			return err
		}
	}
	return nil
}
