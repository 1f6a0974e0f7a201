package store_test

import (
	"fmt"
	"sync"
	"testing"

	"chatmsg-go/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string
	N    int
}

func TestKeyed_GetAbsentIsNotAnError(t *testing.T) {
	s := store.NewKeyed[item]()

	v, ok := s.Get("missing")

	assert.False(t, ok)
	assert.Equal(t, item{}, v)
}

func TestKeyed_SetOverwritesWholeValue(t *testing.T) {
	s := store.NewKeyed[item]()
	s.Set("a", item{Name: "first", N: 1})
	s.Set("a", item{Name: "second"})

	v, ok := s.Get("a")

	require.True(t, ok)
	assert.Equal(t, item{Name: "second"}, v, "no field merge at the store layer")
	assert.Equal(t, 1, s.Len())
}

func TestKeyed_DeleteReportsExistence(t *testing.T) {
	s := store.NewKeyed[item]()
	s.Set("a", item{Name: "a"})

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	assert.False(t, s.Delete("never-set"))
	assert.Equal(t, 0, s.Len())
}

func TestKeyed_ValuesKeepInsertionOrder(t *testing.T) {
	s := store.NewKeyed[item]()
	for _, k := range []string{"c", "a", "b"} {
		s.Set(k, item{Name: k})
	}
	// 覆盖不改变位置，删除后重新插入排到末尾
	s.Set("c", item{Name: "c2"})
	s.Delete("a")
	s.Set("a", item{Name: "a2"})

	names := make([]string, 0)
	for _, v := range s.Values() {
		names = append(names, v.Name)
	}

	assert.Equal(t, []string{"c2", "b", "a2"}, names)
}

func TestKeyed_ValuesIsSnapshot(t *testing.T) {
	s := store.NewKeyed[item]()
	s.Set("a", item{Name: "a"})
	snapshot := s.Values()

	s.Set("a", item{Name: "changed"})
	s.Set("b", item{Name: "b"})
	s.Delete("a")

	require.Len(t, snapshot, 1)
	assert.Equal(t, "a", snapshot[0].Name)
}

func TestKeyed_ConcurrentAccess(t *testing.T) {
	s := store.NewKeyed[item]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			s.Set(key, item{Name: key, N: i})
			_ = s.Values()
			if i%2 == 0 {
				s.Delete(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, s.Len())
	for _, v := range s.Values() {
		assert.Equal(t, fmt.Sprintf("k%d", v.N), v.Name)
	}
}
