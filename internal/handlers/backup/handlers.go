package backup

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"financetracker/internal/config"
	httputil "financetracker/internal/http"
	"financetracker/internal/services/storage"
)

// maxUpload caps uploaded backup archives
const maxUpload = 10 << 20

var (
	cfg   *config.Config
	store *storage.Storage
	log   = zerolog.Nop()
)

// Initialize sets up the backup package with required dependencies
func Initialize(c *config.Config, s *storage.Storage, l zerolog.Logger) {
	cfg = c
	store = s
	log = l.With().Str("component", "backup").Logger()
}

// Routes mounts the backup endpoints under /api/backup
func Routes(r chi.Router) {
	r.Get("/", HandleBackup)
	r.Post("/restore", HandleRestore)
	r.Delete("/drafts", HandleDeleteAllDrafts)
}

type entry struct {
	name string // path inside the archive
	path string // path on disk
}

// backupEntries lists top-level preference files and every draft, named the
// way restoreTarget expects them
func backupEntries() ([]entry, error) {
	var out []entry
	for _, src := range []struct{ dir, prefix string }{
		{cfg.DataDirectory, ""},
		{cfg.DraftsDirectory, "drafts/"},
	} {
		files, err := os.ReadDir(src.dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			out = append(out, entry{name: src.prefix + f.Name(), path: filepath.Join(src.dir, f.Name())})
		}
	}
	return out, nil
}

// HandleBackup streams a zip of drafts and preferences. Entries are always
// plaintext so the archive can be restored into any installation.
func HandleBackup(w http.ResponseWriter, r *http.Request) {
	entries, err := backupEntries()
	if err != nil {
		httputil.ErrorResponse(w, "Error reading data directory", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("finance_backup_%s.zip", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	zw := zip.NewWriter(w)
	defer zw.Close()

	for _, e := range entries {
		data, err := store.ReadFile(e.path)
		if err != nil {
			// headers are already out, so all we can do is log and skip
			log.Error().Err(err).Str("file", e.name).Msg("backup entry skipped")
			continue
		}
		f, err := zw.Create(e.name)
		if err != nil {
			log.Error().Err(err).Str("file", e.name).Msg("backup entry skipped")
			continue
		}
		if _, err := f.Write(data); err != nil {
			log.Error().Err(err).Str("file", e.name).Msg("backup entry skipped")
		}
	}
}

// restoreTarget maps a zip entry to its destination, or "" to skip it.
// Only top-level preference files and drafts/<name>.json are accepted.
func restoreTarget(name string) string {
	name = filepath.ToSlash(filepath.Clean(name))
	if !strings.HasSuffix(name, ".json") || strings.Contains(name, "..") {
		return ""
	}

	dir, base := filepath.Split(name)
	switch dir {
	case "":
		return filepath.Join(cfg.DataDirectory, base)
	case "drafts/":
		return filepath.Join(cfg.DraftsDirectory, base)
	}
	return ""
}

// HandleRestore writes the entries of an uploaded backup through storage,
// so they are encrypted when encryption is on
func HandleRestore(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		httputil.ErrorResponse(w, "File too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.ErrorResponse(w, "Error reading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		httputil.ErrorResponse(w, "Only ZIP backup files are allowed", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		httputil.ErrorResponse(w, "Error reading file", http.StatusInternalServerError)
		return
	}
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		httputil.ErrorResponse(w, "Invalid ZIP file", http.StatusBadRequest)
		return
	}

	restored := 0
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		dest := restoreTarget(zf.Name)
		if dest == "" {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			log.Warn().Err(err).Str("entry", zf.Name).Msg("cannot open backup entry")
			continue
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxUpload))
		rc.Close()
		if err != nil {
			log.Warn().Err(err).Str("entry", zf.Name).Msg("cannot read backup entry")
			continue
		}

		if err := store.WriteFile(dest, data, 0600); err != nil {
			log.Error().Err(err).Str("entry", zf.Name).Msg("cannot restore backup entry")
			continue
		}
		restored++
	}

	if restored == 0 {
		httputil.ErrorResponse(w, "No restorable files found in backup", http.StatusBadRequest)
		return
	}

	log.Info().Int("files", restored).Msg("restore complete")
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"restored": restored})
}

// HandleDeleteAllDrafts removes every saved draft
func HandleDeleteAllDrafts(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(cfg.DraftsDirectory)
	if err != nil && !os.IsNotExist(err) {
		httputil.ErrorResponse(w, "Error reading drafts directory", http.StatusInternalServerError)
		return
	}

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := store.Remove(filepath.Join(cfg.DraftsDirectory, entry.Name())); err != nil {
			log.Error().Err(err).Str("file", entry.Name()).Msg("cannot delete draft")
			continue
		}
		deleted++
	}

	log.Info().Int("drafts", deleted).Msg("drafts deleted")
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}
