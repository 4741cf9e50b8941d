package ripple

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_GlobalAndTyped(t *testing.T) {
	r := NewRegistry[string]()
	r.Set("app_name", "Foo")
	r.SetForType("purchase", "currency", "USD")

	v, ok := r.Get("app_name")
	assert.True(t, ok)
	assert.Equal(t, "Foo", v)
	assert.Equal(t, map[string]string{"currency": "USD"}, r.ForType("purchase"))
	assert.Empty(t, r.ForType("level1Complete"))
	assert.Equal(t, map[string]map[string]string{"purchase": {"currency": "USD"}}, r.AllTypes())

	r.RemoveForType("purchase", "currency")
	r.RemoveForType("missing", "currency")
	assert.Empty(t, r.AllTypes())

	r.Remove("app_name")
	r.Remove("app_name")
	_, ok = r.Get("app_name")
	assert.False(t, ok)
}

func TestRegistry_ReadsAreCopies(t *testing.T) {
	r := NewRegistry[float64]()
	r.Set("score", 1)

	global := r.Global()
	global["score"] = 2

	v, _ := r.Get("score")
	assert.Equal(t, float64(1), v)
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry[string]()
	r.Set("a", "1")
	r.SetForType("t", "b", "2")
	r.Clear()
	assert.Empty(t, r.Global())
	assert.Empty(t, r.AllTypes())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry[int]()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", j%10)
				r.Set(key, i)
				r.SetForType("t", key, j)
				_ = r.Global()
				_ = r.AllTypes()
				r.RemoveForType("t", key)
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.Global(), 10)
}
