// Package store 提供进程内、按字符串键索引的通用记录容器。
package store

import "sync"

// KeyedStore 定义了按键存取同一类记录的最小操作集合。
// 不存在的键不是错误：Get 返回 false，Delete 返回 false。
type KeyedStore[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Delete(key string) bool
	Values() []V
	Len() int
}

// Keyed 是 KeyedStore 的内存实现，Values 按插入顺序返回。
// 整个 map 由一把读写锁保护，读操作不会看到写了一半的记录。
type Keyed[V any] struct {
	mu    sync.RWMutex
	items map[string]V
	order []string
}

// NewKeyed 创建一个空的 Keyed 容器。
func NewKeyed[V any]() *Keyed[V] {
	return &Keyed[V]{items: make(map[string]V)}
}

// Get 按键读取记录，不产生任何副作用。
func (s *Keyed[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Set 插入或整体覆盖一条记录。覆盖已有键时保留其原插入位置。
func (s *Keyed[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; !exists {
		s.order = append(s.order, key)
	}
	s.items[key] = value
}

// Delete 删除一条记录，返回删除前该键是否存在。
func (s *Keyed[V]) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; !exists {
		return false
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Values 返回所有记录的快照，之后对容器的修改不会影响已返回的切片。
func (s *Keyed[V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]V, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.items[k])
	}
	return out
}

// Len 返回当前记录数。
func (s *Keyed[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
