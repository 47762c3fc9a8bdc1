package state

import (
	"sync"
	"testing"
	"time"
)

func TestStore_SetAndSnapshot(t *testing.T) {
	var s Store[[]int]

	if got := s.Snapshot(); got != nil {
		t.Fatalf("zero store snapshot = %v, want nil", got)
	}

	before := time.Now()
	s.Set([]int{1, 2})

	if got := s.Snapshot(); len(got) != 2 || got[0] != 1 {
		t.Fatalf("snapshot = %v, want [1 2]", got)
	}
	if s.Version() != 1 {
		t.Fatalf("Version = %d, want 1", s.Version())
	}
	if s.LastUpdated().Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", s.LastUpdated(), before)
	}
}

func TestStore_UpdateAppliesFunction(t *testing.T) {
	s := NewStore(10)
	got := s.Update(func(v int) int { return v + 5 })
	if got != 15 || s.Snapshot() != 15 {
		t.Fatalf("Update = %d, snapshot = %d, want 15", got, s.Snapshot())
	}
}

func TestStore_SubscribeCoalescesAndCancels(t *testing.T) {
	s := NewStore("a")
	ch, cancel := s.Subscribe()

	s.Set("b")
	s.Set("c")

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal received")
	}
	select {
	case <-ch:
		t.Fatal("signals were not coalesced")
	default:
	}
	if s.Snapshot() != "c" {
		t.Fatalf("snapshot = %q, want c", s.Snapshot())
	}

	cancel()
	cancel()
	s.Set("d")
	select {
	case <-ch:
		t.Fatal("signal delivered after cancel")
	default:
	}
}

func TestStore_ConcurrentWritersAndReaders(t *testing.T) {
	var s Store[int]
	ch, cancel := s.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Update(func(v int) int { return v + 1 })
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()

	if s.Snapshot() != 800 || s.Version() != 800 {
		t.Fatalf("snapshot = %d version = %d, want 800/800", s.Snapshot(), s.Version())
	}
	select {
	case <-ch:
	default:
		t.Fatal("subscriber missed all changes")
	}
}

func TestView_Constructors(t *testing.T) {
	if v := Idle[int](); !v.IsIdle() || v.Phase.String() != "idle" {
		t.Fatalf("Idle = %#v", v)
	}
	if v := Loading[int](); !v.IsLoading() {
		t.Fatalf("Loading = %#v", v)
	}
	if v := Success(3); !v.IsSuccess() || v.Data != 3 {
		t.Fatalf("Success = %#v", v)
	}
	if v := Failure[int]("boom"); !v.IsError() || v.Message != "boom" {
		t.Fatalf("Failure = %#v", v)
	}
	if v := Empty[int](); !v.IsEmpty() || v.Phase.String() != "empty" {
		t.Fatalf("Empty = %#v", v)
	}
}

func TestView_Resolve(t *testing.T) {
	isEmpty := func(v []string) bool { return len(v) == 0 }
	if v := Resolve([]string{}, isEmpty); !v.IsEmpty() {
		t.Fatalf("Resolve(empty) = %v, want empty", v.Phase)
	}
	if v := Resolve([]string{"x"}, isEmpty); !v.IsSuccess() || len(v.Data) != 1 {
		t.Fatalf("Resolve(data) = %#v, want success", v)
	}
	if v := Resolve([]string{}, nil); !v.IsSuccess() {
		t.Fatalf("Resolve with nil predicate = %v, want success", v.Phase)
	}
	if Phase(99).String() != "unknown" {
		t.Fatalf("unknown phase label = %q", Phase(99).String())
	}
}
