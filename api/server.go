// Package api serves budget extraction and the summary reports over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/obelisk/budgetdb/aggregate"
	"github.com/obelisk/budgetdb/extractor"
	"github.com/obelisk/budgetdb/extractor/common"
	"github.com/obelisk/budgetdb/integrations"
	"github.com/obelisk/budgetdb/logger"
	"github.com/obelisk/budgetdb/render"
	"github.com/obelisk/budgetdb/table"
	"github.com/rs/zerolog"
)

// Config holds the API server configuration
type Config struct {
	Port       string
	Extraction common.Config
	FontPath   string
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:       ":8080",
		Extraction: common.DefaultConfig(),
	}
}

type extractFunc func(ctx context.Context, r io.Reader, name string, cfg common.Config) (extractor.Result, error)

// Server represents the HTTP API server
type Server struct {
	config  Config
	router  chi.Router
	store   integrations.Store
	log     zerolog.Logger
	extract extractFunc

	// one extraction, and so one store writer, at a time
	mu sync.Mutex
}

// New creates a new API server. The store backs /report, /records and
// /ministries and receives persisted extractions.
func New(cfg Config, store integrations.Store, log zerolog.Logger) *Server {
	s := &Server{
		config:  cfg,
		store:   store,
		log:     log,
		extract: extractor.ProcessReader,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(Recovery(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/extract", s.handleExtract)
	r.Get("/report", s.handleReport)
	r.Get("/records", s.handleRecords)
	r.Get("/ministries", s.handleMinistries)
	r.Get("/ministries/{name}", s.handleMinistry)

	s.router = r
}

// Handler returns the http.Handler for the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.config.Port).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract handles PDF extraction requests
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form with 32MB max memory
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "Could not parse multipart form: "+err.Error())
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Could not get uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Could not read file: "+err.Error())
		return
	}

	opts := parseExtractOptions(r)
	if opts.Format != "json" && opts.Format != "csv" {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", opts.Format))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := logger.WithContext(r.Context(), s.log)
	result, err := s.extract(ctx, bytes.NewReader(fileBytes), handler.Filename, s.config.Extraction)
	if err != nil {
		s.log.Warn().Err(err).Str("file", handler.Filename).Msg("extraction failed")
		WriteError(w, http.StatusUnprocessableEntity, "Could not extract budget lines: "+err.Error())
		return
	}

	if opts.Persist {
		if err := integrations.Replace(ctx, s.store, result.Lines); err != nil {
			s.log.Error().Err(err).Msg("failed to persist lines")
			WriteError(w, http.StatusInternalServerError, "Failed to persist lines")
			return
		}
	}

	if opts.Format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Source+".csv"))
		if err := table.Encode(w, result.Lines); err != nil {
			s.log.Error().Err(err).Msg("failed to write csv")
		}
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// ExtractOptions holds the options for extraction
type ExtractOptions struct {
	Persist bool
	Format  string
}

// parseExtractOptions reads options from form values or query params
func parseExtractOptions(r *http.Request) ExtractOptions {
	format := strings.ToLower(coalesce(r.FormValue("format"), r.URL.Query().Get("format"), "json"))
	return ExtractOptions{
		Persist: r.FormValue("persist") == "true" || r.URL.Query().Get("persist") == "true",
		Format:  format,
	}
}

func (s *Server) loadLines(w http.ResponseWriter, r *http.Request) ([]common.BudgetLine, bool) {
	lines, err := s.store.LoadAll(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load lines")
		WriteError(w, http.StatusInternalServerError, "Failed to load lines")
		return nil, false
	}
	return lines, true
}

// handleReport returns both articles and the verdict, as JSON or as a PDF
// with ?format=pdf
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	lines, ok := s.loadLines(w, r)
	if !ok {
		return
	}
	summary := aggregate.Summarize(lines)

	if strings.EqualFold(r.URL.Query().Get("format"), "pdf") {
		data, err := render.NewPDFRenderer(s.config.FontPath).Render(r.URL.Query().Get("title"), summary)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to render pdf")
			WriteError(w, http.StatusInternalServerError, "Failed to render report")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(data)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	lines, ok := s.loadLines(w, r)
	if !ok {
		return
	}

	selector := r.URL.Query().Get("type")
	if selector == "" {
		view := aggregate.View{Lines: lines}
		for _, l := range lines {
			view.Sum = view.Sum.Add(l.Amount)
		}
		if view.Lines == nil {
			view.Lines = []common.BudgetLine{}
		}
		WriteJSON(w, http.StatusOK, view)
		return
	}

	entryType, ok := aggregate.ParseEntryType(selector)
	if !ok {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown type %q", selector))
		return
	}
	WriteJSON(w, http.StatusOK, aggregate.ByType(lines, entryType))
}

func (s *Server) handleMinistries(w http.ResponseWriter, r *http.Request) {
	lines, ok := s.loadLines(w, r)
	if !ok {
		return
	}
	ministries := aggregate.KnownMinistries(lines)
	if ministries == nil {
		ministries = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ministries": ministries,
		"count":      len(ministries),
	})
}

func (s *Server) handleMinistry(w http.ResponseWriter, r *http.Request) {
	lines, ok := s.loadLines(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	// chi routes on RawPath when set, leaving the segment escaped
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	view, found := aggregate.ByMinistry(lines, name)
	if !found {
		err := fmt.Errorf("%w: %s", common.ErrMinistryNotFound, name)
		WriteError(w, statusFor(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrMinistryNotFound), errors.Is(err, common.ErrMissingInput):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDecode), errors.Is(err, common.ErrMalformedAmount):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// coalesce returns the first non-empty string
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
