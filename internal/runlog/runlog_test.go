package runlog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T) *SQLiteService {
	t.Helper()
	s, err := NewSQLiteService(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteService failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteRunRoundTrip(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	started := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	id, err := s.RecordRunStart(ctx, RunStart{Class: "IRONCLAD", Ascension: 4, Seed: "SPIRE77", StartedAt: started})
	if err != nil {
		t.Fatalf("RecordRunStart failed: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected non-zero run id")
	}

	end := RunEnd{
		Victory:  true,
		Score:    412,
		Floor:    51,
		Faults:   2,
		TapePath: "/tapes/run1.jsonl",
		EndedAt:  started.Add(40 * time.Minute),
	}
	if err := s.RecordRunEnd(ctx, id, end); err != nil {
		t.Fatalf("RecordRunEnd failed: %v", err)
	}

	runs, err := s.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.Class != "IRONCLAD" || r.Ascension != 4 || r.Seed != "SPIRE77" {
		t.Fatalf("run did not round-trip: %+v", r)
	}
	if !r.StartedAt.Equal(started) {
		t.Fatalf("expected StartedAt %v, got %v", started, r.StartedAt)
	}
	if r.EndedAt == nil || !r.EndedAt.Equal(end.EndedAt) {
		t.Fatalf("expected EndedAt %v, got %v", end.EndedAt, r.EndedAt)
	}
	if !r.Victory || r.Score != 412 || r.Floor != 51 || r.Faults != 2 || r.TapePath != "/tapes/run1.jsonl" {
		t.Fatalf("outcome did not round-trip: %+v", r)
	}
}

func TestSQLiteRunWithoutEndIsIncomplete(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.RecordRunStart(ctx, RunStart{Class: "DEFECT"}); err != nil {
		t.Fatalf("RecordRunStart failed: %v", err)
	}
	runs, err := s.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].EndedAt != nil {
		t.Fatalf("expected nil EndedAt for an unfinished run")
	}
}

func TestSQLiteRunEndUnknownID(t *testing.T) {
	s := newTestService(t)

	err := s.RecordRunEnd(context.Background(), 999, RunEnd{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteRetainTrimsOldestRuns(t *testing.T) {
	s := newTestService(t)
	s.retain = 2
	ctx := context.Background()

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, seed := range []string{"RUN0", "RUN1", "RUN2"} {
		if _, err := s.RecordRunStart(ctx, RunStart{Seed: seed, StartedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("RecordRunStart %s failed: %v", seed, err)
		}
	}

	runs, err := s.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected retention to keep 2 runs, got %d", len(runs))
	}
	if runs[0].Seed != "RUN2" || runs[1].Seed != "RUN1" {
		t.Fatalf("expected newest runs first, got %s then %s", runs[0].Seed, runs[1].Seed)
	}
}

func TestNewServiceFromEnvModes(t *testing.T) {
	svc, backend, err := NewServiceFromEnv("off")
	if err != nil {
		t.Fatalf("NewServiceFromEnv(off) failed: %v", err)
	}
	if backend != "off" {
		t.Fatalf("expected backend off, got %s", backend)
	}
	if id, err := svc.RecordRunStart(context.Background(), RunStart{}); err != nil || id != 0 {
		t.Fatalf("expected no-op start, got id=%d err=%v", id, err)
	}

	t.Setenv("RUNLOG_SQLITE_PATH", filepath.Join(t.TempDir(), "runs.db"))
	svc, backend, err = NewServiceFromEnv("sqlite")
	if err != nil {
		t.Fatalf("NewServiceFromEnv(sqlite) failed: %v", err)
	}
	if backend != "sqlite" {
		t.Fatalf("expected backend sqlite, got %s", backend)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, _, err := NewServiceFromEnv("bogus"); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}
