package series

import (
	"slices"
	"sync"
)

// Keyer is implemented by values with a canonical DataStore key.
type Keyer interface {
	Key() string
}

// DataStore is a cache keyed by canonical strings, a channel id or a
// Segment key. It never evicts; owners call Clear when their key space
// changes.
type DataStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func NewDataStore[T any]() *DataStore[T] {
	return &DataStore[T]{items: make(map[string]T)}
}

func (s *DataStore[T]) Set(key string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = v
}

func (s *DataStore[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *DataStore[T]) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[key]
	return ok
}

func (s *DataStore[T]) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

func (s *DataStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.items)
}

func (s *DataStore[T]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Keys returns the stored keys in sorted order.
func (s *DataStore[T]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *DataStore[T]) SetKeyed(k Keyer, v T) {
	s.Set(k.Key(), v)
}

func (s *DataStore[T]) GetKeyed(k Keyer) (T, bool) {
	return s.Get(k.Key())
}
