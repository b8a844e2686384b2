package reactivity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/marl"
	"github.com/aretw0/marl/pkg/core"
)

func TestServiceWatch(t *testing.T) {
	tmpDir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	service, err := marl.New(tmpDir)
	require.NoError(t, err)

	// Seed the kind directory so the watcher covers it from the start.
	seed := service.NewModel("page", marl.Attributes{"id": "seed"})
	require.NoError(t, service.SaveModel(ctx, seed))

	events, err := service.Watch(ctx, "page/*")
	require.NoError(t, err)

	// The watch loop starts asynchronously.
	time.Sleep(200 * time.Millisecond)

	m := service.NewModel("page", marl.Attributes{"id": "home", "title": "Home"})
	require.NoError(t, service.SaveModel(ctx, m))

	select {
	case e := <-events:
		require.Equal(t, "page", e.Kind)
		require.Equal(t, "home", e.ID)
		require.Equal(t, core.EventCreate, e.Type)
	case <-ctx.Done():
		t.Fatal("timed out waiting for create event")
	}
}

func TestWatchUnsupportedStore(t *testing.T) {
	service, err := marl.New("", marl.WithStore(core.NopStore{}))
	require.NoError(t, err)

	_, err = service.Watch(context.Background(), "")
	require.Error(t, err)
}
