package reports

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vitalis-health/vitalis-go/internal/api"
)

func testCache(t *testing.T) *Cache {
	t.Helper()

	cache, err := OpenCacheInMemory(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("OpenCacheInMemory: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func sampleReports() []api.Report {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return []api.Report{
		{ID: 3, FileName: "march.pdf", UploadedAt: base.Add(48 * time.Hour), Summary: "all clear"},
		{ID: 1, FileName: "january.pdf", UploadedAt: base, Summary: "low iron"},
		{ID: 2, FileName: "february.pdf", UploadedAt: base.Add(24 * time.Hour), Summary: "improving"},
	}
}

func TestCacheReplaceAndList(t *testing.T) {
	cache := testCache(t)

	if err := cache.Replace(sampleReports()); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := cache.Reports()
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d reports, want 3", len(got))
	}
	// Iteration order follows the ID-encoded keys.
	for i, wantID := range []int{1, 2, 3} {
		if got[i].ID != wantID {
			t.Errorf("reports[%d].ID = %d, want %d", i, got[i].ID, wantID)
		}
	}
	if got[0].Summary != "low iron" {
		t.Errorf("reports[0].Summary = %q, want %q", got[0].Summary, "low iron")
	}
}

func TestCacheReplaceDropsStale(t *testing.T) {
	cache := testCache(t)

	if err := cache.Replace(sampleReports()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := cache.Replace(sampleReports()[:1]); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := cache.Reports()
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("got %+v, want only report 3", got)
	}
}

func TestCacheLatestByUploadTime(t *testing.T) {
	cache := testCache(t)

	if err := cache.Replace(sampleReports()); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	latest, err := cache.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != 3 {
		t.Errorf("Latest().ID = %d, want 3", latest.ID)
	}
}

func TestCacheLatestEmpty(t *testing.T) {
	cache := testCache(t)

	_, err := cache.Latest()
	if !errors.Is(err, ErrCacheEmpty) {
		t.Fatalf("Latest on empty cache: err = %v, want ErrCacheEmpty", err)
	}
}

func TestCacheClear(t *testing.T) {
	cache := testCache(t)

	if err := cache.Replace(sampleReports()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	got, err := cache.Reports()
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d reports after Clear, want 0", len(got))
	}
}

func TestCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cache, err := OpenCache(dir, logger)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	if err := cache.Put(sampleReports()[1]); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenCache(dir, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Reports()
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if len(got) != 1 || got[0].FileName != "january.pdf" {
		t.Fatalf("got %+v after reopen, want january.pdf", got)
	}
	if !got[0].UploadedAt.Equal(sampleReports()[1].UploadedAt) {
		t.Errorf("UploadedAt = %v, want %v", got[0].UploadedAt, sampleReports()[1].UploadedAt)
	}
}
