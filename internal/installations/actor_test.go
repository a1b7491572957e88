package installations

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationhub/internal/domain"
	"stationhub/internal/eventbus"
)

// runActor starts an actor and returns a function that closes the sender
// and waits until everything queued has been applied.
func runActor(t *testing.T, opts ...Option) (*Actor, *Sender, func()) {
	t.Helper()
	a, tx := New(opts...)
	a.Start(context.Background())

	drain := func() {
		tx.Close()
		select {
		case <-a.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("actor did not stop after the queue closed")
		}
	}
	return a, tx, drain
}

func send(t *testing.T, tx *Sender, actions ...domain.InstallationAction) {
	t.Helper()
	for _, action := range actions {
		require.NoError(t, tx.Send(context.Background(), action))
	}
}

func discovered(v domain.GameVersion) domain.Installation {
	return domain.Installation{Version: v, Kind: domain.Discovered()}
}

func downloading(v domain.GameVersion) domain.Installation {
	return domain.Installation{Version: v, Kind: domain.Downloading(InitialProgress, DownloadTotal)}
}

func TestDiscoveredReplacesDiscovered(t *testing.T) {
	a, tx, drain := runActor(t)

	send(t, tx,
		domain.VersionDiscoveredAction{New: "A"},
		domain.VersionDiscoveredAction{New: "B", Old: domain.VersionRef("A")},
	)
	drain()

	assert.Equal(t, []domain.Installation{discovered("B")}, a.Snapshot())
}

func TestDiscoveredKeepsDownloading(t *testing.T) {
	a, tx, drain := runActor(t)

	send(t, tx,
		domain.InstallAction{Version: "A"},
		domain.VersionDiscoveredAction{New: "B", Old: domain.VersionRef("A")},
	)
	drain()

	require.Equal(t, 2, a.Count())
	got, ok := a.Get("A")
	require.True(t, ok)
	assert.Equal(t, downloading("A"), got)
	got, ok = a.Get("B")
	require.True(t, ok)
	assert.Equal(t, discovered("B"), got)
}

func TestDiscoveredKeepsTerminalRecords(t *testing.T) {
	a, tx, drain := runActor(t)

	send(t, tx,
		domain.InstallAction{Version: "1.0.0"},
		domain.InstallFinishedAction{Version: "1.0.0"},
		domain.InstallAction{Version: "1.1.0"},
		domain.InstallFailedAction{Version: "1.1.0", Reason: "disk full"},
		domain.VersionDiscoveredAction{New: "1.2.0", Old: domain.VersionRef("1.0.0")},
		domain.VersionDiscoveredAction{New: "1.3.0", Old: domain.VersionRef("1.1.0")},
	)
	drain()

	assert.Equal(t, []domain.Installation{
		discovered("1.3.0"),
		discovered("1.2.0"),
		{Version: "1.1.0", Kind: domain.Failed("disk full")},
		{Version: "1.0.0", Kind: domain.Installed()},
	}, a.Snapshot())
}

func TestDiscoveredWithUnknownOldStillInserts(t *testing.T) {
	a, tx, drain := runActor(t)

	send(t, tx, domain.VersionDiscoveredAction{New: "B", Old: domain.VersionRef("missing")})
	drain()

	assert.Equal(t, []domain.Installation{discovered("B")}, a.Snapshot())
}

func TestDiscoveredReplacingItselfIsNoop(t *testing.T) {
	a, tx, drain := runActor(t)

	send(t, tx,
		domain.InstallAction{Version: "A"},
		domain.VersionDiscoveredAction{New: "A", Old: domain.VersionRef("A")},
	)
	drain()

	assert.Equal(t, []domain.Installation{downloading("A")}, a.Snapshot())
}

func TestInstallAlwaysResetsDownload(t *testing.T) {
	a, tx, drain := runActor(t)

	send(t, tx,
		domain.VersionDiscoveredAction{New: "A"},
		domain.InstallAction{Version: "A"},
		domain.DownloadProgressAction{Version: "A", Progress: 50},
		domain.InstallAction{Version: "A"},
		domain.InstallAction{Version: "B"},
	)
	drain()

	assert.Equal(t, []domain.Installation{downloading("B"), downloading("A")}, a.Snapshot())
}

func TestDownloadProgressIsMonotonicAndBounded(t *testing.T) {
	a, tx, drain := runActor(t)

	send(t, tx,
		domain.InstallAction{Version: "A"},
		domain.DownloadProgressAction{Version: "A", Progress: 40},
		domain.DownloadProgressAction{Version: "A", Progress: 10},
	)

	send(t, tx,
		domain.InstallAction{Version: "B"},
		domain.DownloadProgressAction{Version: "B", Progress: 500},
	)
	drain()

	got, _ := a.Get("A")
	assert.Equal(t, domain.Downloading(40, DownloadTotal), got.Kind)
	got, _ = a.Get("B")
	assert.Equal(t, domain.Downloading(DownloadTotal, DownloadTotal), got.Kind)
}

func TestDownloadUpdatesIgnoredUnlessDownloading(t *testing.T) {
	a, tx, drain := runActor(t)

	send(t, tx,
		domain.VersionDiscoveredAction{New: "A"},
		domain.DownloadProgressAction{Version: "A", Progress: 10},
		domain.InstallFinishedAction{Version: "A"},
		domain.InstallFailedAction{Version: "missing"},
		domain.DownloadProgressAction{Version: "missing", Progress: 10},
	)
	drain()

	assert.Equal(t, []domain.Installation{discovered("A")}, a.Snapshot())
}

type unknownAction struct{}

func (unknownAction) Type() domain.ActionType { return "Uninstall" }

func TestUnknownActionIsIgnored(t *testing.T) {
	a, tx, drain := runActor(t)

	send(t, tx,
		domain.VersionDiscoveredAction{New: "A"},
		unknownAction{},
		domain.VersionDiscoveredAction{New: "B"},
	)
	drain()

	assert.Equal(t, 2, a.Count())
}

func TestConcurrentInstallsAllApply(t *testing.T) {
	a, tx, drain := runActor(t)

	versions := []domain.GameVersion{"v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8"}
	var wg sync.WaitGroup
	for _, v := range versions {
		producer := tx.Clone()
		wg.Add(1)
		go func(v domain.GameVersion) {
			defer wg.Done()
			defer producer.Close()
			assert.NoError(t, producer.Send(context.Background(), domain.InstallAction{Version: v}))
		}(v)
	}
	wg.Wait()
	drain()

	require.Equal(t, len(versions), a.Count())
	for _, v := range versions {
		got, ok := a.Get(v)
		require.True(t, ok, v)
		assert.Equal(t, downloading(v), got)
	}
}

func TestEndToEndScenario(t *testing.T) {
	a, tx, drain := runActor(t)

	send(t, tx,
		domain.VersionDiscoveredAction{New: "v1"},
		domain.VersionDiscoveredAction{New: "v2", Old: domain.VersionRef("v1")},
		domain.InstallAction{Version: "v2"},
	)
	drain()

	assert.Equal(t, 1, a.Count())
	assert.Equal(t, []domain.Installation{downloading("v2")}, a.Snapshot())
}

func TestLoopStopsOnlyWhenEverySenderIsClosed(t *testing.T) {
	a, tx := New()
	a.Start(context.Background())

	other := tx.Clone()
	tx.Close()

	select {
	case <-a.Done():
		t.Fatal("actor stopped while a sender was still open")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, other.Send(context.Background(), domain.VersionDiscoveredAction{New: "A"}))
	other.Close()

	select {
	case <-a.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("actor did not stop")
	}
	assert.Equal(t, 1, a.Count())
}

func TestSendAfterCloseFails(t *testing.T) {
	_, tx := New()
	clone := tx.Clone()

	tx.Close()
	assert.ErrorIs(t, tx.Send(context.Background(), domain.InstallAction{Version: "A"}), ErrQueueClosed)
	assert.NotPanics(t, tx.Close)

	clone.Close()
	assert.ErrorIs(t, tx.Clone().Send(context.Background(), domain.InstallAction{Version: "A"}), ErrQueueClosed)
}

func TestSendBlocksWhenQueueIsFull(t *testing.T) {
	// not started, so nothing drains the queue
	_, tx := New(WithQueueSize(1))
	defer tx.Close()

	require.NoError(t, tx.Send(context.Background(), domain.InstallAction{Version: "A"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := tx.Send(ctx, domain.InstallAction{Version: "B"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	a, tx := New()
	defer tx.Close()

	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)
	cancel()

	select {
	case <-a.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("actor did not stop on cancel")
	}
}

func TestPublishesChanges(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	events := make(chan eventbus.InstallationsChangedEvent, 4)
	bus.Subscribe(eventbus.EventInstallationsChanged, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.InstallationsChangedEvent); ok {
			events <- ev
		}
	})

	_, tx, drain := runActor(t, WithEventBus(bus))
	send(t, tx,
		domain.DownloadProgressAction{Version: "missing"},
		domain.VersionDiscoveredAction{New: "A"},
	)
	drain()

	select {
	case ev := <-events:
		assert.Equal(t, domain.ActionVersionDiscovered, ev.Action)
		assert.Equal(t, 1, ev.Count)
	case <-time.After(time.Second):
		t.Fatal("no change event published")
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected event for a no-op action: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
