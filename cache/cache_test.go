// api/cache/cache_test.go
package cache_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/postly/api/cache"
)

func TestStoreReadWrite(t *testing.T) {
	store := cache.New()

	_, ok := store.Read("user:1")
	assert.False(t, ok)

	err := store.Write(map[string]string{"username": "ada"}, "user:1")
	assert.NoError(t, err)

	raw, ok := store.Read("user:1")
	assert.True(t, ok)
	assert.JSONEq(t, `{"username":"ada"}`, raw)
}

func TestStoreOverwrite(t *testing.T) {
	store := cache.New()

	assert.NoError(t, store.Write("first", "key"))
	assert.NoError(t, store.Write("second", "key"))

	raw, ok := store.Read("key")
	assert.True(t, ok)
	assert.Equal(t, `"second"`, raw)
	assert.Equal(t, 1, store.Len())
}

func TestStoreWriteUnserializable(t *testing.T) {
	store := cache.New()

	err := store.Write(make(chan int), "key")
	assert.Error(t, err)

	_, ok := store.Read("key")
	assert.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	store := cache.New()

	assert.NoError(t, store.Write("value", "key"))
	store.Delete("key")

	_, ok := store.Read("key")
	assert.False(t, ok)

	// Deleting a missing key is a no-op
	store.Delete("key")
}

func TestStoreDeletePrefix(t *testing.T) {
	store := cache.New()

	assert.NoError(t, store.Write("p1", "posts-page:1-limit:16"))
	assert.NoError(t, store.Write("p2", "posts-page:2-limit:16"))
	assert.NoError(t, store.Write("p3", "posts-page:1-limit:16-searchQuery:go"))
	assert.NoError(t, store.Write("post", "post:abc"))
	assert.NoError(t, store.Write("user", "user:abc"))

	store.DeletePrefix("posts-page:")

	_, ok := store.Read("posts-page:1-limit:16")
	assert.False(t, ok)
	_, ok = store.Read("posts-page:2-limit:16")
	assert.False(t, ok)
	_, ok = store.Read("posts-page:1-limit:16-searchQuery:go")
	assert.False(t, ok)

	// Entries outside the prefix family survive
	_, ok = store.Read("post:abc")
	assert.True(t, ok)
	_, ok = store.Read("user:abc")
	assert.True(t, ok)
}

func TestStoreDeletePrefixScopedToUser(t *testing.T) {
	store := cache.New()

	assert.NoError(t, store.Write("a", cache.CreatedPostsPageKey("u1", 1, 16, "")))
	assert.NoError(t, store.Write("b", cache.CreatedPostsPageKey("u1", 2, 16, "")))
	assert.NoError(t, store.Write("c", cache.CreatedPostsPageKey("u2", 1, 16, "")))
	assert.NoError(t, store.Write("d", cache.UserKey("u1")))

	store.DeletePrefix(cache.CreatedPostsPrefix("u1"))

	_, ok := store.Read(cache.CreatedPostsPageKey("u1", 1, 16, ""))
	assert.False(t, ok)
	_, ok = store.Read(cache.CreatedPostsPageKey("u1", 2, 16, ""))
	assert.False(t, ok)
	_, ok = store.Read(cache.CreatedPostsPageKey("u2", 1, 16, ""))
	assert.True(t, ok)
	_, ok = store.Read(cache.UserKey("u1"))
	assert.True(t, ok)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := cache.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key:%d", n)
			assert.NoError(t, store.Write(n, key))
			_, _ = store.Read(key)
			if n%2 == 0 {
				store.Delete(key)
			}
		}(i)
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.DeletePrefix("key:1")
		}()
	}
	wg.Wait()

	// Odd keys outside the deleted prefix family must still be readable
	_, ok := store.Read("key:3")
	assert.True(t, ok)
}
