package prefstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_DefaultUntilLoadResolves(t *testing.T) {
	kv := NewMemoryKV()
	kv.Seed("k", `"stored"`)
	release := kv.GateReads()

	v := NewValue(kv, "k", "default")

	ctx := context.Background()
	assert.Equal(t, "default", v.Get(ctx))
	assert.False(t, v.Loaded())

	release()
	v.Flush()

	assert.Equal(t, "stored", v.Get(ctx))
	assert.True(t, v.Loaded())
}

func TestValue_MissingKeyKeepsDefault(t *testing.T) {
	kv := NewMemoryKV()
	v := NewValue(kv, "k", 42)

	ctx := context.Background()
	_ = v.Get(ctx)
	v.Flush()

	assert.Equal(t, 42, v.Get(ctx))
	assert.True(t, v.Loaded())
}

func TestValue_WriteSupersedesInFlightLoad(t *testing.T) {
	kv := NewMemoryKV()
	kv.Seed("k", `"old"`)
	release := kv.GateReads()

	v := NewValue(kv, "k", "default")
	ctx := context.Background()

	// The write lands while the initial read is still blocked.
	v.Set(ctx, "new")
	assert.Equal(t, "new", v.Get(ctx))

	release()
	v.Flush()

	// The stale load result was discarded, and the write persisted.
	assert.Equal(t, "new", v.Get(ctx))
	raw, ok := kv.Stored("k")
	require.True(t, ok)
	assert.JSONEq(t, `"new"`, raw)
}

func TestValue_ReadYourWritesBeforePersist(t *testing.T) {
	kv := NewMemoryKV()
	release := kv.GateWrites()

	v := NewValue(kv, "k", []string{})
	ctx := context.Background()

	v.Set(ctx, []string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, v.Get(ctx))

	// Nothing durable yet.
	_, ok := kv.Stored("k")
	assert.False(t, ok)

	release()
	v.Flush()

	raw, ok := kv.Stored("k")
	require.True(t, ok)
	assert.JSONEq(t, `["a","b"]`, raw)
}

// stallKV delays the first Set until released, so a test can hold a persist
// in flight while later writes land.
type stallKV struct {
	*MemoryKV
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newStallKV() *stallKV {
	return &stallKV{
		MemoryKV: NewMemoryKV(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (s *stallKV) Set(ctx context.Context, key, value string) error {
	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.entered)
		<-s.release
	}
	return s.MemoryKV.Set(ctx, key, value)
}

func TestValue_StalePersistCannotOverwriteNewerWrite(t *testing.T) {
	kv := newStallKV()
	v := NewValue(kv, "k", "default")
	ctx := context.Background()

	// The first write's persist is held mid-flight inside Set.
	v.Set(ctx, "v1")
	<-kv.entered

	// A newer write lands while the old persist is still stalled.
	v.Set(ctx, "v2")
	close(kv.release)
	v.Flush()

	// The saver re-persists after the stalled Set completes, so durable
	// state ends on the newest value, never the superseded one.
	raw, ok := kv.Stored("k")
	require.True(t, ok)
	assert.JSONEq(t, `"v2"`, raw)
	assert.Equal(t, "v2", v.Get(ctx))
}

func TestValue_CorruptPayloadFallsBackToDefault(t *testing.T) {
	kv := NewMemoryKV()
	kv.Seed("k", `{not json`)

	v := NewValue(kv, "k", "default")
	ctx := context.Background()

	_ = v.Get(ctx)
	v.Flush()

	assert.Equal(t, "default", v.Get(ctx))
	assert.True(t, v.Loaded())
}

func TestValue_PersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	kv := NewMemoryKV()
	kv.FailWrites(errors.New("storage down"))

	v := NewValue(kv, "k", "default")
	ctx := context.Background()

	v.Set(ctx, "written")
	v.Flush()

	// The failure is swallowed: reads still see the write, storage has nothing.
	assert.Equal(t, "written", v.Get(ctx))
	_, ok := kv.Stored("k")
	assert.False(t, ok)
}

func TestValue_UpdateDoesNotLoseConcurrentWrites(t *testing.T) {
	kv := NewMemoryKV()
	v := NewValue(kv, "k", 0)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Update(ctx, func(cur int) int { return cur + 1 })
		}()
	}
	wg.Wait()
	v.Flush()

	assert.Equal(t, n, v.Get(ctx))

	// Persists are serialized per value, so storage also ends on the final state.
	raw, ok := kv.Stored("k")
	require.True(t, ok)
	assert.JSONEq(t, `50`, raw)
}

func TestValue_ResetRestoresDefaultAndDeletes(t *testing.T) {
	kv := NewMemoryKV()
	v := NewValue(kv, "k", "default")
	ctx := context.Background()

	v.Set(ctx, "written")
	v.Flush()
	_, ok := kv.Stored("k")
	require.True(t, ok)

	v.Reset(ctx)
	v.Flush()

	assert.Equal(t, "default", v.Get(ctx))
	_, ok = kv.Stored("k")
	assert.False(t, ok)
}
