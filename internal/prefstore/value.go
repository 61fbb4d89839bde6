// Package prefstore implements durable key-value preference state. A Value
// serves its default until the asynchronous load from storage resolves,
// applies writes to memory synchronously, and persists them in the
// background: preference loss on crash is acceptable, blocking a caller on
// persistence is not.
package prefstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrKeyNotFound is returned by KV.Get when no value is stored for the key.
var ErrKeyNotFound = errors.New("prefstore: key not found")

// KV is the durable storage medium. Implementations must treat values as
// opaque strings; prefstore owns the key namespace.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	saveAttempts = 3
	saveTimeout  = 5 * time.Second
	saveBackoff  = 100 * time.Millisecond
)

// Value is a single named preference of type T. Reads never block on
// storage: before the initial load resolves they return the default, after
// a write they return the written value immediately.
type Value[T any] struct {
	kv  KV
	key string
	def T

	mu     sync.RWMutex
	cur    T
	loaded bool
	seq    uint64
	saving bool

	loadOnce sync.Once
	pending  sync.WaitGroup
}

func NewValue[T any](kv KV, key string, def T) *Value[T] {
	return &Value[T]{kv: kv, key: key, def: def, cur: def}
}

// Get returns the current in-memory value, kicking off the initial load on
// first access.
func (v *Value[T]) Get(ctx context.Context) T {
	v.ensureLoad()
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur
}

// Loaded reports whether the initial read from storage has resolved.
// Callers gating user actions on a preference should treat a not-yet-loaded
// value as "don't prompt" rather than "unset".
func (v *Value[T]) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

// Set replaces the value. The in-memory update is visible to subsequent
// reads immediately; durable persistence happens in the background.
func (v *Value[T]) Set(ctx context.Context, val T) {
	v.ensureLoad()
	v.mu.Lock()
	v.cur = val
	v.seq++
	v.mu.Unlock()
	v.scheduleSave()
}

// Update applies fn to the previous value and stores the result, all under
// the value's lock. Any update derived from the previous state must use
// this form so rapid successive calls cannot lose writes.
func (v *Value[T]) Update(ctx context.Context, fn func(T) T) T {
	v.ensureLoad()
	v.mu.Lock()
	v.cur = fn(v.cur)
	v.seq++
	next := v.cur
	v.mu.Unlock()
	v.scheduleSave()
	return next
}

// Reset restores the default in memory and removes the stored entry.
func (v *Value[T]) Reset(ctx context.Context) {
	v.mu.Lock()
	v.cur = v.def
	v.loaded = true
	v.seq++
	v.mu.Unlock()

	v.pending.Add(1)
	go func() {
		defer v.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := v.kv.Delete(ctx, v.key); err != nil {
			log.Warn().Err(err).Str("key", v.key).Msg("preference delete failed")
		}
	}()
}

// Flush blocks until all background persists issued so far have settled.
// Called on shutdown; tests use it to observe the async load.
func (v *Value[T]) Flush() {
	v.pending.Wait()
}

func (v *Value[T]) ensureLoad() {
	v.loadOnce.Do(func() {
		v.pending.Add(1)
		go func() {
			defer v.pending.Done()
			v.load()
		}()
	})
}

// load resolves the initial read. A write that lands before the read
// resolves wins: the loaded value is discarded rather than clobbering it.
func (v *Value[T]) load() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	raw, err := v.kv.Get(ctx, v.key)

	v.mu.Lock()
	defer v.mu.Unlock()
	defer func() { v.loaded = true }()

	if v.seq > 0 {
		return
	}
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			log.Warn().Err(err).Str("key", v.key).Msg("preference load failed, using default")
		}
		return
	}

	var val T
	if err := json.Unmarshal([]byte(raw), &val); err != nil {
		log.Warn().Err(err).Str("key", v.key).Msg("corrupt preference payload, using default")
		return
	}
	v.cur = val
}

// scheduleSave starts the background saver unless one is already running.
// At most one persist is in flight per Value, so persists reach storage in
// write order and a stale value can never land after a newer one.
func (v *Value[T]) scheduleSave() {
	v.mu.Lock()
	if v.saving {
		v.mu.Unlock()
		return
	}
	v.saving = true
	v.mu.Unlock()

	v.pending.Add(1)
	go func() {
		defer v.pending.Done()
		v.saveLoop()
	}()
}

// saveLoop persists snapshots of the current value until no newer write
// remains. The running/newer-write check and the seq snapshot share the
// value's lock, so a write during the final persist always restarts the loop.
func (v *Value[T]) saveLoop() {
	for {
		v.mu.Lock()
		seq := v.seq
		data, err := json.Marshal(v.cur)
		v.mu.Unlock()

		if err != nil {
			log.Error().Err(err).Str("key", v.key).Msg("preference marshal failed, value not persisted")
		} else {
			v.persist(seq, data)
		}

		v.mu.Lock()
		if v.seq == seq {
			v.saving = false
			v.mu.Unlock()
			return
		}
		v.mu.Unlock()
	}
}

// persist writes one snapshot, retrying with backoff. A newer write cuts the
// retries short; the saver loop re-persists with the fresh value instead.
func (v *Value[T]) persist(seq uint64, data []byte) {
	for attempt := 0; attempt < saveAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(saveBackoff << (attempt - 1))

			v.mu.RLock()
			superseded := v.seq != seq
			v.mu.RUnlock()
			if superseded {
				return
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := v.kv.Set(ctx, v.key, string(data))
		cancel()
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("key", v.key).Int("attempt", attempt+1).Msg("preference persist failed")
	}
	log.Error().Str("key", v.key).Msg("preference persist gave up, in-memory value remains authoritative")
}
