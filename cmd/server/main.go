package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"financetracker/internal/config"
	"financetracker/internal/handlers/backup"
	calchandlers "financetracker/internal/handlers/calculators"
	drafthandlers "financetracker/internal/handlers/drafts"
	uihandlers "financetracker/internal/handlers/ui"
	httputil "financetracker/internal/http"
	"financetracker/internal/logging"
	"financetracker/internal/services/drafts"
	"financetracker/internal/services/finance"
	"financetracker/internal/services/storage"
	"financetracker/internal/services/ui"
	"financetracker/internal/version"
)

var (
	cfg     *config.Config
	store   *storage.Storage
	uiState *ui.State
	logger  zerolog.Logger
)

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	enableEncryption := flag.Bool("enable-encryption", false, "Encrypt the data directory and exit")
	flag.Parse()

	info := version.Get()
	if *showVersion {
		fmt.Println(info.String())
		return
	}

	// Debug only known after config, so start with a JSON logger
	logger = logging.Default(false)
	var err error
	cfg, err = config.Load(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger = logging.Default(cfg.Debug)
	if w := info.Warning(); w != "" {
		logger.Warn().Msg(w)
	}

	if *enableEncryption {
		if err := runEnableEncryption(); err != nil {
			logger.Fatal().Err(err).Msg("could not enable encryption")
		}
		logger.Info().Str("dir", cfg.DataDirectory).Msg("data directory encrypted")
		return
	}

	if err := SetupDependencies(cfg); err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer uiState.Close()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info().
		Str("addr", cfg.ListenAddr).
		Str("data_dir", cfg.DataDirectory).
		Str("version", info.Header()).
		Msg("finance tracker starting")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	store.Lock()
}

// SetupDependencies opens storage and wires every handler package
func SetupDependencies(c *config.Config) error {
	cfg = c
	httputil.SetLogger(logger)

	var err error
	store, err = storage.New(c.DataDirectory)
	if err != nil {
		return err
	}
	if store.IsEncrypted() {
		if err := unlock(c.Password); err != nil {
			return err
		}
	}

	formatter, err := finance.NewFormatter(c.Currency)
	if err != nil {
		return err
	}

	kv := storage.NewFileKV(store, c.DraftsDirectory)
	draftStore := drafts.New(kv, c.DraftKeyPrefix, logger)
	uiState = ui.New(storage.NewFileKV(store, c.DataDirectory), c.NotificationTTL, logger)

	drafthandlers.Initialize(draftStore)
	calchandlers.Initialize(formatter)
	uihandlers.Initialize(uiState)
	backup.Initialize(c, store, logger)
	return nil
}

// SetupRouter builds the HTTP routes
func SetupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(versionHeader(version.Get().Header()))

	r.Get("/api/health", handleHealth)
	r.Route("/api/drafts", drafthandlers.Routes)
	r.Route("/api/calc", calchandlers.Routes)
	r.Route("/api/ui", uihandlers.Routes)
	r.Route("/api/backup", backup.Routes)

	return r
}

func versionHeader(v string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-App-Version", v)
			next.ServeHTTP(w, r)
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   version.Get(),
		"encrypted": store.IsEncrypted(),
		"unlocked":  store.IsUnlocked(),
	})
}

// unlock opens an encrypted data directory with the configured password,
// prompting on the terminal when none is configured
func unlock(password string) error {
	if password == "" {
		var err error
		password, err = promptPassword("Data directory is encrypted. Password: ")
		if err != nil {
			return err
		}
	}
	if err := store.Unlock(password); err != nil {
		return fmt.Errorf("unlock data directory: %w", err)
	}
	logger.Info().Msg("data directory unlocked")
	return nil
}

func runEnableEncryption() error {
	var err error
	store, err = storage.New(cfg.DataDirectory)
	if err != nil {
		return err
	}

	password := cfg.Password
	if password == "" {
		password, err = promptPassword("New password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return errors.New("passwords do not match")
		}
	}
	return store.EnableEncryption(password)
}

func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no password configured and stdin is not a terminal; set FINANCE_PASSWORD")
	}

	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
