package osmapi

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/osm"
	"github.com/rotblauer/osmborders/state"
)

// Cache holds raw relation payloads.
type Cache interface {
	Get(id osm.RelationID) ([]byte, bool, error)
	Put(id osm.RelationID, data []byte) error
	Delete(id osm.RelationID) error
}

// MemoryCache is an in-process LRU cache. Regions sharing a relation
// only download it once per run.
type MemoryCache struct {
	lru *lru.Cache[osm.RelationID, []byte]
}

func NewMemoryCache(size int) (*MemoryCache, error) {
	c, err := lru.New[osm.RelationID, []byte](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: c}, nil
}

func (c *MemoryCache) Get(id osm.RelationID) ([]byte, bool, error) {
	data, ok := c.lru.Get(id)
	return data, ok, nil
}

func (c *MemoryCache) Put(id osm.RelationID, data []byte) error {
	c.lru.Add(id, data)
	return nil
}

func (c *MemoryCache) Delete(id osm.RelationID) error {
	c.lru.Remove(id)
	return nil
}

// Tiered looks up caches in order, back-filling the faster tiers on a hit
// in a slower one. Put writes through to all tiers.
type Tiered []Cache

var _ Cache = Tiered(nil)
var _ Cache = (*state.RelationStore)(nil)

func (t Tiered) Get(id osm.RelationID) ([]byte, bool, error) {
	for i, c := range t {
		data, ok, err := c.Get(id)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		for _, faster := range t[:i] {
			if err := faster.Put(id, data); err != nil {
				return nil, false, err
			}
		}
		return data, true, nil
	}
	return nil, false, nil
}

func (t Tiered) Put(id osm.RelationID, data []byte) error {
	for _, c := range t {
		if err := c.Put(id, data); err != nil {
			return err
		}
	}
	return nil
}

func (t Tiered) Delete(id osm.RelationID) error {
	for _, c := range t {
		if err := c.Delete(id); err != nil {
			return err
		}
	}
	return nil
}
