// Copyright 2018 The go-klaytn Authors
// This file is part of the go-klaytn library.
//
// The go-klaytn library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-klaytn library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-klaytn library. If not, see <http://www.gnu.org/licenses/>.

package common

import (
	"errors"

	lru "github.com/hashicorp/golang-lru"

	"github.com/babencoin/babencoin/log"
)

var logger = log.NewModuleLogger(log.Common)

// Cache is a bounded memoization cache. It is never the authority on
// whether a key has been "seen" by a session or a peer - it only spares
// callers from redoing expensive work (signature checks, frame parsing)
// on the same key twice. Eviction is therefore always safe.
type Cache interface {
	Add(key interface{}, value interface{}) (evicted bool)
	Get(key interface{}) (value interface{}, ok bool)
	Contains(key interface{}) bool
	Purge()
}

type lruCache struct {
	lru *lru.Cache
}

func (cache *lruCache) Add(key interface{}, value interface{}) (evicted bool) {
	return cache.lru.Add(key, value)
}

func (cache *lruCache) Get(key interface{}) (value interface{}, ok bool) {
	return cache.lru.Get(key)
}

func (cache *lruCache) Contains(key interface{}) bool {
	return cache.lru.Contains(key)
}

func (cache *lruCache) Purge() {
	cache.lru.Purge()
}

type arcCache struct {
	arc *lru.ARCCache
}

func (cache *arcCache) Add(key interface{}, value interface{}) (evicted bool) {
	cache.arc.Add(key, value)
	return true
}

func (cache *arcCache) Get(key interface{}) (value interface{}, ok bool) {
	return cache.arc.Get(key)
}

func (cache *arcCache) Contains(key interface{}) bool {
	return cache.arc.Contains(key)
}

func (cache *arcCache) Purge() {
	cache.arc.Purge()
}

// CacheConfiger builds a Cache. Two flavors are provided, matching the
// two hashicorp/golang-lru eviction policies this module exercises.
type CacheConfiger interface {
	newCache() (Cache, error)
}

func NewCache(config CacheConfiger) (Cache, error) {
	if config == nil {
		return nil, errors.New("cache config is nil")
	}
	return config.newCache()
}

// LRUConfig builds a strict least-recently-used cache.
type LRUConfig struct {
	CacheSize int
}

func (c LRUConfig) newCache() (Cache, error) {
	l, err := lru.New(c.CacheSize)
	return &lruCache{l}, err
}

// ARCConfig builds an adaptive replacement cache, which copes better
// than plain LRU with a scan of one-off keys (e.g. a burst of
// catch-up requests) pushing out the working set.
type ARCConfig struct {
	CacheSize int
}

func (c ARCConfig) newCache() (Cache, error) {
	arc, err := lru.NewARC(c.CacheSize)
	return &arcCache{arc}, err
}
