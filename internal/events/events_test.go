package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingObserver struct {
	name   string
	only   string
	events []Event
	err    error
}

func (o *recordingObserver) OnEvent(e Event) error {
	o.events = append(o.events, e)
	return o.err
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) ShouldHandle(t string) bool { return o.only == "" || o.only == t }

type fakeRecorder struct {
	ok, failed int
}

func (r *fakeRecorder) RecordReload(err error) {
	if err != nil {
		r.failed++
		return
	}
	r.ok++
}

func TestDispatcher_DeliversToInterestedObservers(t *testing.T) {
	d := NewDispatcher(nil)
	all := &recordingObserver{name: "all"}
	failedOnly := &recordingObserver{name: "failed", only: ReloadFailed}
	d.Register(all)
	d.Register(failedOnly)
	require.Equal(t, 2, d.ObserverCount())

	d.Dispatch(NewReloaded(context.Background(), CatalogReloadedEvent{Cards: 3}))

	require.Len(t, all.events, 1)
	assert.Empty(t, failedOnly.events)
	p, ok := Payload[CatalogReloadedEvent](all.events[0])
	require.True(t, ok)
	assert.Equal(t, 3, p.Cards)

	_, ok = Payload[ReloadFailedEvent](all.events[0])
	assert.False(t, ok)
}

func TestDispatcher_ObserverErrorDoesNotStopDelivery(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewDispatcher(zap.New(core))
	first := &recordingObserver{name: "first", err: errors.New("boom")}
	second := &recordingObserver{name: "second"}
	d.Register(first)
	d.Register(second)

	d.Dispatch(Event{Type: "test"})

	assert.Len(t, second.events, 1)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "first", logs.All()[0].ContextMap()["observer"])
}

func TestDispatcher_Unregister(t *testing.T) {
	d := NewDispatcher(nil)
	o := &recordingObserver{name: "o"}
	d.Register(o)
	d.Unregister(o)

	d.Dispatch(Event{Type: "test"})

	assert.Empty(t, o.events)
	assert.Equal(t, 0, d.ObserverCount())
}

func TestMetricsObserver(t *testing.T) {
	r := &fakeRecorder{}
	d := NewDispatcher(nil)
	d.Register(NewMetricsObserver(r))

	d.Dispatch(NewReloaded(context.Background(), CatalogReloadedEvent{}))
	d.Dispatch(NewReloadFailed(context.Background(), errors.New("bad file")))
	d.Dispatch(Event{Type: "other"})

	assert.Equal(t, 1, r.ok)
	assert.Equal(t, 1, r.failed)
}

func TestLoggingObserver(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	o := NewLoggingObserver(zap.New(core))

	require.NoError(t, o.OnEvent(NewReloaded(context.Background(), CatalogReloadedEvent{Cards: 7})))
	require.NoError(t, o.OnEvent(NewReloadFailed(context.Background(), errors.New("bad file"))))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "catalog reloaded", entries[0].Message)
	assert.Equal(t, int64(7), entries[0].ContextMap()["cards"])
	assert.Equal(t, "catalog reload failed", entries[1].Message)
}
