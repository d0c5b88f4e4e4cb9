package defaults

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewHolder_RejectsInvalid(t *testing.T) {
	bad := vehicle.Default()
	bad.OperationMode = "hover"
	_, err := NewHolder(bad, nil)
	assert.Error(t, err)
}

func TestHolder_CurrentIsACopy(t *testing.T) {
	h, err := NewHolder(vehicle.Example(), nil)
	require.NoError(t, err)

	c := h.Current()
	c.TargetSequence[0].X = -1
	c.ReplanConditions = append(c.ReplanConditions, "x")

	assert.Equal(t, vehicle.Example(), h.Current())
}

func TestHolder_SwapKeepsOldOnInvalid(t *testing.T) {
	h, err := NewHolder(vehicle.Default(), nil)
	require.NoError(t, err)

	bad := vehicle.Example()
	bad.TargetSequence[1].Depth = 900
	assert.Error(t, h.Swap(bad))
	assert.Equal(t, vehicle.Default(), h.Current())

	require.NoError(t, h.Swap(vehicle.Example()))
	assert.Equal(t, vehicle.Example(), h.Current())
}

func TestHolder_Reload(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "default_config.json"))
	h, err := NewHolder(vehicle.Default(), store)
	require.NoError(t, err)
	require.NoError(t, store.Save(vehicle.Default()))

	changed, err := h.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, store.Save(vehicle.Example()))
	changed, err = h.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, vehicle.Example(), h.Current())

	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"transit_speed": 9}`), 0o644))
	changed, err = h.Reload()
	assert.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, vehicle.Example(), h.Current())

	_, err = (&Holder{}).Reload()
	assert.Error(t, err)
}

func TestHolder_ReloadDoesNotUndoConcurrentReplace(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "default_config.json"))
	h, err := NewHolder(vehicle.Default(), store)
	require.NoError(t, err)
	require.NoError(t, store.Save(vehicle.Default()))

	// hold the lock as Replace would, so the reload has to queue behind it
	h.mu.Lock()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = h.Reload()
	}()

	select {
	case <-done:
		t.Fatal("Reload ran while the holder was locked")
	case <-time.After(50 * time.Millisecond):
	}

	next := vehicle.Example()
	require.NoError(t, store.Save(next))
	require.NoError(t, h.Swap(next))
	h.mu.Unlock()
	<-done

	assert.Equal(t, vehicle.Example(), h.Current())
}

func TestHolder_ReplacePersists(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "default_config.json"))
	h, err := NewHolder(vehicle.Default(), store)
	require.NoError(t, err)

	require.NoError(t, h.Replace(vehicle.Example()))
	assert.Equal(t, vehicle.Example(), h.Current())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, vehicle.Example(), loaded)
}

func TestHolder_ConcurrentReadersSeeWholeDocuments(t *testing.T) {
	h, err := NewHolder(vehicle.Default(), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c := h.Current()
				if c.OperationMode == vehicle.ModeSearch {
					assert.Len(t, c.TargetSequence, 2)
				} else {
					assert.Len(t, c.TargetSequence, 0)
				}
			}
		}()
	}
	for j := 0; j < 100; j++ {
		if j%2 == 0 {
			require.NoError(t, h.Swap(vehicle.Example()))
		} else {
			require.NoError(t, h.Swap(vehicle.Default()))
		}
	}
	wg.Wait()
}

func TestWatcher_ReloadsValidChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default_config.json")
	store := NewStore(path)
	cfg, err := store.LoadOrCreate()
	require.NoError(t, err)

	h, err := NewHolder(cfg, store)
	require.NoError(t, err)

	w, err := NewWatcher(store, h, quietLogger())
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`{"transit_speed": 3.3, "operation_mode": "search"}`), 0o644))
	require.Eventually(t, func() bool {
		return h.Current().TransitSpeed == 3.3
	}, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, vehicle.ModeSearch, h.Current().OperationMode)

	require.NoError(t, os.WriteFile(path, []byte(`{"transit_speed": 42}`), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 3.3, h.Current().TransitSpeed)

	require.NoError(t, store.Save(vehicle.Example()))
	require.Eventually(t, func() bool {
		return h.Current().TransitSpeed == vehicle.Example().TransitSpeed
	}, 3*time.Second, 10*time.Millisecond)
}

func TestWatcher_CloseWithoutStart(t *testing.T) {
	h, err := NewHolder(vehicle.Default(), nil)
	require.NoError(t, err)
	w, err := NewWatcher(NewStore(filepath.Join(t.TempDir(), "c.json")), h, quietLogger())
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}
