package backup

import (
	"bytes"
	"crypto/rand"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"financetracker/internal/config"
	"financetracker/internal/services/storage"
)

// failingWriter accepts headers but refuses every body write
type failingWriter struct {
	header http.Header
}

func (w *failingWriter) Header() http.Header { return w.header }
func (w *failingWriter) WriteHeader(int) {}
func (w *failingWriter) Write([]byte) (int, error) { return 0, errors.New("client went away") }

func setup(t *testing.T) (*config.Config, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	c := &config.Config{DataDirectory: dir, DraftsDirectory: filepath.Join(dir, "drafts")}
	if err := os.MkdirAll(c.DraftsDirectory, 0755); err != nil {
		t.Fatal(err)
	}
	s, err := storage.New(dir)
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}

	var logs bytes.Buffer
	Initialize(c, s, zerolog.New(&logs))
	return c, &logs
}

func TestBackupLogsFailedWrites(t *testing.T) {
	c, logs := setup(t)

	// incompressible so the archive has to flush to the writer
	data := make([]byte, 256<<10)
	rand.Read(data)
	if err := os.WriteFile(filepath.Join(c.DraftsDirectory, "form_big.json"), data, 0600); err != nil {
		t.Fatal(err)
	}

	HandleBackup(&failingWriter{header: http.Header{}}, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(logs.String(), "backup entry skipped") {
		t.Errorf("expected a logged write failure, got %q", logs.String())
	}
}

func TestRestoreTarget(t *testing.T) {
	c, _ := setup(t)

	tests := []struct {
		name string
		want string
	}{
		{"theme.json", filepath.Join(c.DataDirectory, "theme.json")},
		{"drafts/form_a.json", filepath.Join(c.DraftsDirectory, "form_a.json")},
		{"../escape.json", ""},
		{"other/form_a.json", ""},
		{"notes.txt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := restoreTarget(tt.name); got != tt.want {
				t.Errorf("restoreTarget(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
