package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/i474232898/climate-dashboard/internal/weather"
)

type fakeUpdater struct {
	report weather.CycleReport
	calls  int
}

func (f *fakeUpdater) UpdateCycle(context.Context) weather.CycleReport {
	f.calls++
	return f.report
}

func TestStart_disabled(t *testing.T) {
	u := &fakeUpdater{}
	s := New(0, u, nil)
	defer s.Stop()

	if s.Enabled() {
		t.Fatal("Enabled() = true for zero interval")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if u.calls != 0 {
		t.Errorf("updater called %d times; want 0", u.calls)
	}
}

func TestStart_waitsForFirstTick(t *testing.T) {
	u := &fakeUpdater{}
	s := New(time.Hour, u, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if u.calls != 0 {
		t.Errorf("updater ran %d times right after Start; want 0", u.calls)
	}
}

func TestRunOnce_reloadsAfterSuccessfulCycle(t *testing.T) {
	u := &fakeUpdater{report: weather.CycleReport{ID: "c1", Total: 3}}
	reloads := 0
	s := New(time.Minute, u, func() error { reloads++; return nil })

	s.runOnce()

	if u.calls != 1 || reloads != 1 {
		t.Errorf("calls=%d reloads=%d; want 1/1", u.calls, reloads)
	}
}

func TestRunOnce_skipsReloadWhenCycleFails(t *testing.T) {
	u := &fakeUpdater{report: weather.CycleReport{ID: "c1", Err: errors.New("disk full")}}
	reloads := 0
	s := New(time.Minute, u, func() error { reloads++; return nil })

	s.runOnce()

	if reloads != 0 {
		t.Errorf("reloads = %d; want 0 after a failed cycle", reloads)
	}
}
