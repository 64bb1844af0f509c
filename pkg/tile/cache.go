package tile

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultCacheExt is the file extension used for cached tiles.
const DefaultCacheExt = "jpg"

// Cache is a permanent on-disk tile store laid out as
// {dir}/{tileSize}/{zoom}_{x}_{y}.{ext}. Entries never expire.
type Cache struct {
	fs     afero.Fs
	dir    string
	ext    string
	logger logrus.FieldLogger

	pending sync.WaitGroup
}

// NewCache creates a cache rooted at dir on fs.
func NewCache(fs afero.Fs, dir, ext string, logger logrus.FieldLogger) *Cache {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if ext == "" {
		ext = DefaultCacheExt
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cache{fs: fs, dir: dir, ext: ext, logger: logger}
}

// Path returns the file path of a cache entry.
func (c *Cache) Path(k Key) string {
	return filepath.Join(c.dir, strconv.Itoa(k.Size), k.Name()+"."+c.ext)
}

// Get returns the cached bytes of a tile.
func (c *Cache) Get(k Key) ([]byte, bool) {
	data, err := afero.ReadFile(c.fs, c.Path(k))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores a tile in the background. Failures are logged and dropped.
// The entry is written to a temporary file and renamed into place so readers
// never observe a partial tile.
func (c *Cache) Put(k Key, data []byte) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		if err := c.write(k, data); err != nil {
			c.logger.WithError(err).WithField("tile", k.Name()).Debug("Can't write tile to cache")
		}
	}()
}

// Wait blocks until all background writes have settled.
func (c *Cache) Wait() {
	c.pending.Wait()
}

func (c *Cache) write(k Key, data []byte) error {
	dst := c.Path(k)
	dir := filepath.Dir(dst)
	if err := c.fs.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	tmp, err := afero.TempFile(c.fs, dir, k.Name()+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		c.fs.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		c.fs.Remove(name)
		return err
	}
	if err := c.fs.Rename(name, dst); err != nil {
		c.fs.Remove(name)
		return err
	}
	return nil
}
