// Package store keeps the worker's only cross-sample state: which task ids
// have already been handled, so broker redeliveries are not re-analyzed.
package store

import (
	"container/list"
	"sync"
	"time"
)

// Dedup is a TTL-bound LRU of handled task ids.
type Dedup struct {
	mu    sync.Mutex
	cap   int
	ttl   time.Duration
	ll    *list.List               // most-recent at front
	items map[string]*list.Element // task id -> element
}

type entry struct {
	id  string
	exp time.Time
}

func NewDedup(maxKeys int, ttl time.Duration) *Dedup {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Dedup{cap: maxKeys, ttl: ttl, ll: list.New(), items: make(map[string]*list.Element, maxKeys)}
}

// Seen reports whether id was handled within the TTL.
func (d *Dedup) Seen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.items[id]
	if !ok {
		return false
	}
	en := el.Value.(entry)
	if time.Now().Before(en.exp) {
		d.ll.MoveToFront(el)
		return true
	}
	d.ll.Remove(el)
	delete(d.items, id)
	return false
}

// Mark records id as handled, refreshing its TTL if already present. Evicts
// from the cold end when over capacity and sweeps expired tail entries.
func (d *Dedup) Mark(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.items[id]; ok {
		en := el.Value.(entry)
		en.exp = time.Now().Add(d.ttl)
		el.Value = en
		d.ll.MoveToFront(el)
		return
	}
	d.items[id] = d.ll.PushFront(entry{id: id, exp: time.Now().Add(d.ttl)})

	for d.ll.Len() > d.cap {
		t := d.ll.Back()
		if t == nil {
			break
		}
		d.ll.Remove(t)
		delete(d.items, t.Value.(entry).id)
	}
	for {
		t := d.ll.Back()
		if t == nil || time.Now().Before(t.Value.(entry).exp) {
			break
		}
		d.ll.Remove(t)
		delete(d.items, t.Value.(entry).id)
	}
}
