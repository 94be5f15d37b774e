package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seed(t *testing.T) {
	store := NewConfigStore(map[string]any{"engine.delimiter": ","}, map[string]any{"log.level": "debug"})

	assert.Equal(t, ",", store.GetString("engine.delimiter"))
	assert.Equal(t, "debug", store.GetString("log.level"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("webhook.url", "http://a"))
	require.NoError(t, store.Set("webhook.url", "http://b"))

	val, ok := store.Get("webhook.url")
	assert.True(t, ok)
	assert.Equal(t, "http://b", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"int":     int64(5),
		"float":   0.01,
		"intf":    2,
		"bool":    true,
		"str":     "x",
		"list":    []any{"utf-8", 3, "windows-874"},
		"strs":    []string{"a", "b"},
		"csv":     "a, b ,,c",
		"wrongty": "nope",
	})

	assert.Equal(t, 5, store.GetInt("int"))
	assert.Equal(t, 0.01, store.GetFloat("float"))
	assert.Equal(t, 2.0, store.GetFloat("intf"))
	assert.True(t, store.GetBool("bool"))
	assert.False(t, store.GetBool("str"))
	assert.Equal(t, "", store.GetString("int"))
	assert.Equal(t, 0, store.GetInt("wrongty"))
	assert.Equal(t, []string{"utf-8", "windows-874"}, store.GetStringSlice("list"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("strs"))
	assert.Equal(t, []string{"a", "b", "c"}, store.GetStringSlice("csv"))
	assert.Nil(t, store.GetStringSlice("int"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_SaveLoad(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_Concurrent(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("k", i)
			_ = store.GetInt("k")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("k")
	assert.True(t, ok)
}
