package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Database is the single entry point onto an opened file: the parsed
// file header, a positioned reader, and the page cache that fronts it.
// It owns exactly one *os.File and is dropped at process exit; there is
// no package-level state.
type Database struct {
	file    *os.File
	header  *FileHeader
	cache   *pageCache
	log     *logrus.Entry
	closeFn func() error
}

// OpenDatabase opens path, parses its file header, and prepares a small
// page cache. Options follow the functional-options pattern; the only
// option is the page-cache size (WithPageCacheSize).
func OpenDatabase(path string, logger *logrus.Logger, opts ...DatabaseOption) (*Database, error) {
	cfg := DefaultDatabaseConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, NewDatabaseError("OpenDatabase", err, map[string]interface{}{"path": path})
	}

	rm := NewResourceManager()
	rm.Add(f)

	headerBuf := make([]byte, fileHeaderSize)
	if _, err := f.ReadAt(headerBuf, 0); err != nil {
		_ = rm.Close()
		return nil, NewDatabaseError("OpenDatabase", err, map[string]interface{}{"path": path, "field": "file header"})
	}

	header, err := parseFileHeader(headerBuf)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	entry := logrus.NewEntry(logger)
	if logger == nil {
		entry = logrus.NewEntry(newLogger())
	}
	entry = entry.WithField("path", path)

	cache, err := newPageCache(cfg.PageCacheSize, entry)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	return &Database{
		file:    f,
		header:  header,
		cache:   cache,
		log:     entry,
		closeFn: rm.Close,
	}, nil
}

// Close releases the underlying file handle.
func (db *Database) Close() error {
	return db.closeFn()
}

// Header exposes the parsed file header (page size, text encoding, etc).
func (db *Database) Header() *FileHeader {
	return db.header
}

// ReadPage returns the decoded page for a 1-based page number, serving
// from the cache when possible.
func (db *Database) ReadPage(number uint32) (*Page, error) {
	if number == 0 {
		return nil, fmt.Errorf("ReadPage: page numbers are 1-based, got 0")
	}

	if buf, ok := db.cache.get(number); ok {
		return parsePage(number, buf)
	}

	buf := make([]byte, db.header.PageSize)
	offset := int64(number-1) * int64(db.header.PageSize)
	n, err := db.file.ReadAt(buf, offset)
	if err != nil && n != len(buf) {
		return nil, NewDatabaseError("ReadPage", err, map[string]interface{}{"page": number, "offset": offset})
	}
	db.cache.put(number, buf)
	db.log.WithField("page", number).Debug("read page from disk")

	return parsePage(number, buf)
}
