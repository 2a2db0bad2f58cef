package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kjstillabower/climate-trends-service/internal/testhelpers"
)

func newStaticRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testhelpers.WriteFile(t, dir, "indexme.html", "<h1>climate</h1>")
	testhelpers.WriteFile(t, dir, "js/app.js", "console.log('ok')")
	testhelpers.WriteFile(t, dir, ".env", "SECRET=1")
	testhelpers.WriteFile(t, dir, ".git/config", "[core]")
	if err := os.Mkdir(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatalf("mkdir assets: %v", err)
	}
	return dir
}

// TestStaticHandler verifies index mapping, pass-through files and 404s for directories,
// missing files, hidden files and paths escaping the root.
func TestStaticHandler(t *testing.T) {
	root := newStaticRoot(t)
	h := NewStaticHandler(root, "indexme.html")

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"root serves index", "/", http.StatusOK, "<h1>climate</h1>"},
		{"nested file", "/js/app.js", http.StatusOK, "console.log('ok')"},
		{"missing file", "/nope.html", http.StatusNotFound, ""},
		{"directory", "/assets", http.StatusNotFound, ""},
		{"traversal stays under root", "/../indexme.html", http.StatusOK, "<h1>climate</h1>"},
		{"dotfile", "/.env", http.StatusNotFound, ""},
		{"file under dot directory", "/.git/config", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tt.path
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestStaticHandler_MissingIndex(t *testing.T) {
	h := NewStaticHandler(t.TempDir(), "indexme.html")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
