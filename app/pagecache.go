package main

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// pageCache fronts the raw file with a small bounded LRU of page buffers.
// This reader never traverses multi-page tables, so the working set per
// query is one or two pages. A ReadPage of a page that is still cached
// is served from memory instead of a second file read.
type pageCache struct {
	cache *lru.Cache[uint32, []byte]
	log   *logrus.Entry
}

func newPageCache(size int, log *logrus.Entry) (*pageCache, error) {
	if size <= 0 {
		size = 8
	}
	c, err := lru.New[uint32, []byte](size)
	if err != nil {
		return nil, NewDatabaseError("newPageCache", err, nil)
	}
	return &pageCache{cache: c, log: log}, nil
}

func (pc *pageCache) get(page uint32) ([]byte, bool) {
	buf, ok := pc.cache.Get(page)
	if ok && pc.log != nil {
		pc.log.WithField("page", page).Debug("page cache hit")
	}
	return buf, ok
}

func (pc *pageCache) put(page uint32, buf []byte) {
	pc.cache.Add(page, buf)
}
