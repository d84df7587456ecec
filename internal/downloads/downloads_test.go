package downloads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestPending_FetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.css")
	if err := os.WriteFile(path, []byte("body{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewManager()
	job := m.Add(path)
	if job.HasData() {
		t.Fatal("job has data before fetch")
	}
	if err := job.Fetch(context.Background(), http.DefaultClient); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !job.HasData() || string(job.Data()) != "body{}" {
		t.Fatalf("data %q", job.Data())
	}
}

func TestPending_FetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	job := NewManager().Add(srv.URL + "/asset.png")
	if err := job.Fetch(context.Background(), srv.Client()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(job.Data()) != "remote" {
		t.Fatalf("data %q", job.Data())
	}
}

func TestPending_FetchFailureIsSticky(t *testing.T) {
	job := NewManager().Add(filepath.Join(t.TempDir(), "missing.png"))
	if err := job.Fetch(context.Background(), http.DefaultClient); err == nil {
		t.Fatal("expected error for missing file")
	}
	// a failed job never reports data and is not retried
	if job.HasData() {
		t.Fatal("failed job reports data")
	}
	if err := job.Fetch(context.Background(), http.DefaultClient); err != nil {
		t.Fatalf("second Fetch should be a no-op, got %v", err)
	}
}

func TestManager_FetchAllCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.css")
	if err := os.WriteFile(good, []byte("ok"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewManager()
	m.Add(good)
	m.Add(filepath.Join(dir, "bad.css"))

	errs := m.FetchAll(context.Background(), 2)
	if len(errs) != 1 {
		t.Fatalf("errors %v, want exactly one", errs)
	}
	if jobs := m.Jobs(); !jobs[0].HasData() {
		t.Error("good job not fetched")
	}
}
