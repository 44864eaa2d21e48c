package command

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vitalis-health/vitalis-go/internal/session"
)

func handleReports(server *mockServer) {
	server.handle("/api/reports/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			jsonResponse(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		jsonResponse(w, http.StatusOK, []map[string]any{
			{
				"id":          1,
				"file_name":   "bloodwork.pdf",
				"uploaded_at": time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
				"summary":     "Mostly normal results.",
			},
			{
				"id":             2,
				"file_name":      "followup.pdf",
				"uploaded_at":    time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
				"summary":        "Iron back in range.",
				"extracted_text": "full text here",
			},
		})
	})
}

func TestReportListRequiresLogin(t *testing.T) {
	server := newMockServer(t)
	f := newFixture(t, server, "")

	err := f.run(t, "report", "list")
	if err == nil {
		t.Fatal("report list succeeded while anonymous")
	}
	if !strings.Contains(err.Error(), "Please log in to continue.") {
		t.Errorf("err = %v", err)
	}
}

func TestReportList(t *testing.T) {
	server := newMockServer(t)
	handleToken(server, "correct")
	handleReports(server)
	f := newFixture(t, server, "")
	f.login(t)

	if err := f.run(t, "report", "list"); err != nil {
		t.Fatalf("report list: %v", err)
	}

	out := f.out.String()
	if !strings.Contains(out, "bloodwork.pdf") || !strings.Contains(out, "followup.pdf") {
		t.Errorf("reports missing from %q", out)
	}
}

func TestReportListCachedAfterFetch(t *testing.T) {
	server := newMockServer(t)
	handleToken(server, "correct")
	handleReports(server)
	f := newFixture(t, server, "")
	f.login(t)

	if err := f.run(t, "report", "list"); err != nil {
		t.Fatalf("report list: %v", err)
	}
	f.out.Reset()

	if err := f.run(t, "report", "list", "--cached"); err != nil {
		t.Fatalf("report list --cached: %v", err)
	}
	if !strings.Contains(f.out.String(), "bloodwork.pdf") {
		t.Errorf("cached list missing reports: %q", f.out.String())
	}
}

func TestReportLatest(t *testing.T) {
	server := newMockServer(t)
	handleToken(server, "correct")
	handleReports(server)
	f := newFixture(t, server, "")
	f.login(t)

	if err := f.run(t, "report", "latest"); err != nil {
		t.Fatalf("report latest: %v", err)
	}

	out := f.out.String()
	if !strings.Contains(out, "followup.pdf") {
		t.Errorf("latest should be followup.pdf: %q", out)
	}
	if strings.Contains(out, "Mostly normal results.") {
		t.Errorf("older report shown as latest: %q", out)
	}
}

func TestReportUpload(t *testing.T) {
	server := newMockServer(t)
	handleToken(server, "correct")
	server.handle("/api/reports/upload/", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "bad multipart"})
			return
		}
		if _, _, err := r.FormFile("report_file"); err != nil {
			jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "report_file missing"})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"report_id": 9,
			"summary":   "Cholesterol slightly elevated.",
			"findings": []map[string]string{
				{"name": "LDL", "value": "3.4", "unit": "mmol/L", "status": "high"},
			},
		})
	})
	f := newFixture(t, server, "")
	f.login(t)

	path := filepath.Join(t.TempDir(), "scan.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := f.run(t, "report", "upload", path); err != nil {
		t.Fatalf("report upload: %v", err)
	}

	out := f.out.String()
	if !strings.Contains(out, "Cholesterol slightly elevated.") {
		t.Errorf("summary missing: %q", out)
	}
	if !strings.Contains(out, "LDL") {
		t.Errorf("findings missing: %q", out)
	}
}

// TestReportListSessionExpired drives the expiry path end to end: the
// stored token is no longer accepted, so the first protected call tears
// the session down and leaves the expiry notice behind.
func TestReportListSessionExpired(t *testing.T) {
	server := newMockServer(t)
	handleToken(server, "correct")
	server.handle("/api/reports/", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
	})
	f := newFixture(t, server, "")
	f.login(t)

	if err := f.run(t, "report", "list"); err == nil {
		t.Fatal("report list with stale token succeeded")
	}

	if f.env.Sessions.State() != session.Anonymous {
		t.Error("session survived a 401")
	}
	if f.env.Nav.Current() != session.ViewLogin {
		t.Errorf("view = %s, want login", f.env.Nav.Current())
	}
	if f.env.Nav.LastNotice() != session.SessionExpiredNotice {
		t.Errorf("notice = %q", f.env.Nav.LastNotice())
	}
}

func TestReportUploadMissingArg(t *testing.T) {
	server := newMockServer(t)
	handleToken(server, "correct")
	f := newFixture(t, server, "")
	f.login(t)

	if err := f.run(t, "report", "upload"); err == nil {
		t.Fatal("upload without a file succeeded")
	}
}
