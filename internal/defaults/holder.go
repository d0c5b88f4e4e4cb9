package defaults

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

// Holder keeps the active default behind an atomic pointer. The held document
// is never mutated; updates build a new value and swap the reference.
type Holder struct {
	cur   atomic.Pointer[vehicle.Config]
	store *Store
	mu    sync.Mutex
}

// NewHolder validates cfg before holding it. store may be nil, in which case
// Replace does not persist.
func NewHolder(cfg vehicle.Config, store *Store) (*Holder, error) {
	h := &Holder{store: store}
	if err := h.Swap(cfg); err != nil {
		return nil, err
	}
	return h, nil
}

// Current returns a copy of the active default.
func (h *Holder) Current() vehicle.Config {
	return h.cur.Load().Clone()
}

// Swap replaces the in-memory default without touching storage.
func (h *Holder) Swap(cfg vehicle.Config) error {
	if err := vehicle.Validate(cfg); err != nil {
		return err
	}
	next := cfg.Clone()
	h.cur.Store(&next)
	return nil
}

// Reload reads the store and swaps the result in when it differs from the
// current default. It holds the same lock as Replace, so the file it reads is
// never older than the last Replace.
func (h *Holder) Reload() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.store == nil {
		return false, errors.New("defaults: no store attached")
	}
	cfg, err := h.store.Load()
	if err != nil {
		return false, err
	}
	if reflect.DeepEqual(cfg, *h.cur.Load()) {
		return false, nil
	}
	if err := h.Swap(cfg); err != nil {
		return false, err
	}
	return true, nil
}

// Replace persists cfg (when a store is attached) and then swaps it in.
// Nothing changes if either step fails.
func (h *Holder) Replace(cfg vehicle.Config) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := vehicle.Validate(cfg); err != nil {
		return err
	}
	if h.store != nil {
		if err := h.store.Save(cfg); err != nil {
			return err
		}
	}
	return h.Swap(cfg)
}
