// Package dashboard serves the inventory views over HTTP.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/narrative"
	"github.com/netbeacon/azvnet/report"
	"github.com/netbeacon/azvnet/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"index", "routes", "peerings", "insights", "validate", "report", "narrative"}

// Fetcher pulls a fresh snapshot from Azure.
type Fetcher interface {
	Fetch(ctx context.Context) (*inventory.Snapshot, error)
}

// Narrator writes prose about a snapshot.
type Narrator interface {
	Generate(ctx context.Context, snap *inventory.Snapshot, mode narrative.Mode) (string, error)
}

// Options wires the optional collaborators. A nil Fetcher or Narrator disables the matching action.
type Options struct {
	Fetcher      Fetcher
	Narrator     Narrator
	NarrativeDir string
}

// Server renders dashboard pages from the store's current snapshot.
type Server struct {
	store     *inventory.Store
	opts      Options
	templates map[string]*template.Template
	pdf       *report.PDFGenerator
}

// New parses the embedded templates.
func New(store *inventory.Store, opts Options) (*Server, error) {
	if opts.NarrativeDir == "" {
		opts.NarrativeDir = "narratives"
	}
	s := &Server{
		store:     store,
		opts:      opts,
		templates: make(map[string]*template.Template),
		pdf:       report.NewPDFGenerator(),
	}
	funcs := template.FuncMap{"join": strings.Join}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		s.templates[name] = t
	}
	return s, nil
}

// Handler returns the routed handler with request ids, logging and metrics applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.handle(mux, "GET /{$}", "index", s.index)
	s.handle(mux, "POST /load-environment", "load_environment", s.loadEnvironment)
	s.handle(mux, "/routes", "routes", s.routes)
	s.handle(mux, "/validate-hub-peerings", "validate_hub_peerings", s.validateHubPeerings)
	s.handle(mux, "GET /insights", "insights", s.insights)
	s.handle(mux, "/auto-validate", "auto_validate", s.autoValidate)
	s.handle(mux, "GET /pretty-json", "pretty_json", s.prettyJSON)
	s.handle(mux, "GET /download-json", "download_json", s.downloadJSON)
	s.handle(mux, "GET /generate-report", "generate_report", s.generateReport)
	s.handle(mux, "GET /download-report", "download_report", s.downloadReport)
	s.handle(mux, "POST /narrative", "narrative", s.narrative)
	s.handle(mux, "GET /api/insights", "api_insights", s.apiInsights)
	s.handle(mux, "GET /api/issues", "api_issues", s.apiIssues)
	s.handle(mux, "GET /healthz", "healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	return withRequestID(mux)
}

func (s *Server) handle(mux *http.ServeMux, pattern, route string, h http.HandlerFunc) {
	mux.Handle(pattern, instrument(route, h))
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.WithFields(map[string]interface{}{"addr": addr}).Info("dashboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down dashboard: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// page is the data every template receives.
type page struct {
	Title   string
	Message string
	Error   string
	Data    any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, p page) {
	var buf bytes.Buffer
	if err := s.templates[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		logFor(r).WithField("template", name).Errorf("rendering: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func logFor(r *http.Request) *logrus.Entry {
	return utils.WithFields(map[string]interface{}{
		"request_id": requestID(r.Context()),
		"path":       r.URL.Path,
	})
}
