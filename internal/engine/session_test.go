package engine

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"donationsync/internal/domain"
	"donationsync/internal/infra"
)

func testLogger() infra.Logger {
	return zerolog.New(io.Discard)
}

type fakeAPI struct {
	listCalls   atomic.Int64
	deleteCalls atomic.Int64

	listFn   func(ctx context.Context, userID string) ([]domain.DonationRecord, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeAPI) List(ctx context.Context, userID string) ([]domain.DonationRecord, error) {
	f.listCalls.Add(1)
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, userID)
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.deleteCalls.Add(1)
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

type fakeSignals struct {
	dirty  bool
	resets int
	err    error
}

func (f *fakeSignals) Dirty(ctx context.Context) (bool, error) {
	return f.dirty, f.err
}

func (f *fakeSignals) Reset(ctx context.Context) error {
	f.resets++
	f.dirty = false
	return nil
}

func records(ids ...string) []domain.DonationRecord {
	out := make([]domain.DonationRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.DonationRecord{ID: id, Status: domain.StatusPending})
	}
	return out
}

func newTestSession(t *testing.T, api domain.DonationAPI, signals domain.SignalStore) *Session {
	t.Helper()
	session, err := NewSession("user-1", api, signals, testLogger())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return session
}

func TestNewSession_RequiresUserID(t *testing.T) {
	if _, err := NewSession("", &fakeAPI{}, &fakeSignals{}, testLogger()); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestLoad_ReplacesRecordsInServerOrder(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
		return records("3", "1", "2"), nil
	}}
	session := newTestSession(t, api, &fakeSignals{})

	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	snap := session.Snapshot()
	if snap.Loading {
		t.Fatal("loading flag not cleared")
	}
	if snap.Err != nil {
		t.Fatalf("unexpected error: %v", snap.Err)
	}
	want := []string{"3", "1", "2"}
	if len(snap.Records) != len(want) {
		t.Fatalf("got %d records, want %d", len(snap.Records), len(want))
	}
	for i, id := range want {
		if snap.Records[i].ID != id {
			t.Fatalf("record %d: got id %q, want %q", i, snap.Records[i].ID, id)
		}
	}
}

func TestLoad_FailureEmptiesCacheAndSetsLoadFailed(t *testing.T) {
	calls := 0
	api := &fakeAPI{listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
		calls++
		if calls == 1 {
			return records("1", "2"), nil
		}
		return nil, errors.New("boom")
	}}
	session := newTestSession(t, api, &fakeSignals{})

	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if err := session.Load(context.Background()); !errors.Is(err, domain.ErrLoadFailed) {
		t.Fatalf("second Load: got %v, want ErrLoadFailed", err)
	}

	snap := session.Snapshot()
	if len(snap.Records) != 0 {
		t.Fatalf("cache not emptied, %d records remain", len(snap.Records))
	}
	if !errors.Is(snap.Err, domain.ErrLoadFailed) {
		t.Fatalf("snapshot error: got %v, want ErrLoadFailed", snap.Err)
	}
	if snap.Loading {
		t.Fatal("loading flag not cleared on failure")
	}
}

func TestLoad_InFlightGuardDropsSecondCall(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
		close(started)
		<-release
		return records("1"), nil
	}}
	session := newTestSession(t, api, &fakeSignals{})

	done := make(chan error, 1)
	go func() { done <- session.Load(context.Background()) }()
	<-started

	// Second load while the first is in flight: dropped, no network call.
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("dropped Load returned error: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if got := api.listCalls.Load(); got != 1 {
		t.Fatalf("got %d list calls, want 1", got)
	}
}

func TestDeleteRecord_RemovesExactlyOne(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
		return []domain.DonationRecord{
			{ID: "1", Status: domain.StatusPending},
			{ID: "2", Status: domain.StatusCompleted},
		}, nil
	}}
	session := newTestSession(t, api, &fakeSignals{})
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := session.DeleteRecord(context.Background(), "1"); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}

	snap := session.Snapshot()
	if len(snap.Records) != 1 || snap.Records[0].ID != "2" {
		t.Fatalf("unexpected cache after delete: %+v", snap.Records)
	}
	if snap.Records[0].Status != domain.StatusCompleted {
		t.Fatalf("surviving record mutated: %+v", snap.Records[0])
	}
	if snap.Loading {
		t.Fatal("loading flag not cleared after delete")
	}
}

func TestDeleteRecord_FailureLeavesCacheIntact(t *testing.T) {
	api := &fakeAPI{
		listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
			return records("1", "2", "3"), nil
		},
		deleteFn: func(context.Context, string) error {
			return errors.New("server said no")
		},
	}
	session := newTestSession(t, api, &fakeSignals{})
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := session.DeleteRecord(context.Background(), "2"); !errors.Is(err, domain.ErrDeleteFailed) {
		t.Fatalf("got %v, want ErrDeleteFailed", err)
	}

	snap := session.Snapshot()
	if len(snap.Records) != 3 {
		t.Fatalf("cache changed on failed delete: %+v", snap.Records)
	}
	for i, id := range []string{"1", "2", "3"} {
		if snap.Records[i].ID != id {
			t.Fatalf("record order changed: %+v", snap.Records)
		}
	}
	if !errors.Is(snap.Err, domain.ErrDeleteFailed) {
		t.Fatalf("snapshot error: got %v, want ErrDeleteFailed", snap.Err)
	}
}

func TestDeleteRecord_UnknownIDIsNoop(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
		return records("1"), nil
	}}
	session := newTestSession(t, api, &fakeSignals{})
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := session.DeleteRecord(context.Background(), "nope"); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if got := api.deleteCalls.Load(); got != 0 {
		t.Fatalf("got %d delete calls, want 0", got)
	}
	if snap := session.Snapshot(); len(snap.Records) != 1 {
		t.Fatalf("cache changed: %+v", snap.Records)
	}
}

func TestPoll_DirtyTriggersOneLoadAndReset(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
		return records("1"), nil
	}}
	signals := &fakeSignals{dirty: true}
	session := newTestSession(t, api, signals)

	session.poll(context.Background())

	if got := api.listCalls.Load(); got != 1 {
		t.Fatalf("got %d loads, want 1", got)
	}
	if signals.resets != 1 {
		t.Fatalf("got %d resets, want 1", signals.resets)
	}

	// Flag is clean now: the next poll must not reload.
	session.poll(context.Background())
	if got := api.listCalls.Load(); got != 1 {
		t.Fatalf("clean flag triggered a load, %d total", got)
	}
}

func TestPoll_SignalReadErrorSkipsLoad(t *testing.T) {
	api := &fakeAPI{}
	signals := &fakeSignals{err: errors.New("flag store down")}
	session := newTestSession(t, api, signals)

	session.poll(context.Background())

	if got := api.listCalls.Load(); got != 0 {
		t.Fatalf("load triggered despite flag read error, %d calls", got)
	}
}

func TestStartClose_StopsPollLoop(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
		return records("1"), nil
	}}
	signals := &fakeSignals{dirty: true}
	session := newTestSession(t, api, signals)

	session.Start(5 * time.Millisecond)

	deadline := time.After(2 * time.Second)
	for api.listCalls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("poll loop never fired")
		case <-time.After(time.Millisecond):
		}
	}

	session.Close()
	session.Close() // idempotent

	calls := api.listCalls.Load()
	time.Sleep(20 * time.Millisecond)
	if got := api.listCalls.Load(); got != calls {
		t.Fatalf("poll loop still running after Close: %d -> %d", calls, got)
	}
}

func TestClose_WithoutStart(t *testing.T) {
	session := newTestSession(t, &fakeAPI{}, &fakeSignals{})
	session.Close()
	session.Close()
}
