package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"donationsync/internal/domain"
)

func newTestManager(api domain.DonationAPI) *Manager {
	return NewManager(api, &fakeSignals{}, testLogger(), 50*time.Millisecond)
}

func TestManager_MountLoadsAndRegisters(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
		return records("1", "2"), nil
	}}
	manager := newTestManager(api)
	defer manager.Close()

	session, err := manager.Mount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if got := len(session.Snapshot().Records); got != 2 {
		t.Fatalf("initial load: got %d records, want 2", got)
	}

	got, err := manager.Get("user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != session {
		t.Fatal("Get returned a different session")
	}
}

func TestManager_MountTwiceReturnsSessionExists(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
		return records("1"), nil
	}}
	manager := newTestManager(api)
	defer manager.Close()

	first, err := manager.Mount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if _, err := manager.Mount(context.Background(), "user-1"); !errors.Is(err, domain.ErrSessionExists) {
		t.Fatalf("got %v, want ErrSessionExists", err)
	}

	// The live session must be undisturbed.
	live, err := manager.Get("user-1")
	if err != nil || live != first {
		t.Fatalf("live session disturbed: %v", err)
	}
}

func TestManager_MountSurvivesLoadFailure(t *testing.T) {
	api := &fakeAPI{listFn: func(context.Context, string) ([]domain.DonationRecord, error) {
		return nil, errors.New("remote down")
	}}
	manager := newTestManager(api)
	defer manager.Close()

	session, err := manager.Mount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	snap := session.Snapshot()
	if !errors.Is(snap.Err, domain.ErrLoadFailed) {
		t.Fatalf("snapshot error: got %v, want ErrLoadFailed", snap.Err)
	}
}

func TestManager_UnmountStopsAndForgets(t *testing.T) {
	api := &fakeAPI{}
	manager := newTestManager(api)

	if _, err := manager.Mount(context.Background(), "user-1"); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := manager.Unmount("user-1"); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if _, err := manager.Get("user-1"); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("got %v, want ErrNoSession", err)
	}
	if err := manager.Unmount("user-1"); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("second Unmount: got %v, want ErrNoSession", err)
	}
}
