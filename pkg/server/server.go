// pkg/server/server.go

// Package server exposes the invoice builder as an HTML form application
// and a small JSON API.
package server

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/invoice-builder/docs" // swagger spec served under /swagger/
	"github.com/invoice-builder/pkg/archive"
	"github.com/invoice-builder/pkg/config"
	"github.com/invoice-builder/pkg/invoice"
	"github.com/invoice-builder/pkg/logging"
	"github.com/invoice-builder/pkg/render"
	"github.com/invoice-builder/pkg/session"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures a Server.
type Options struct {
	Invoice    config.InvoiceConfig
	SessionTTL time.Duration
	// MaxSessions caps live form sessions, 0 = unlimited.
	MaxSessions int
	Archiver    archive.Archiver
	Logger      *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server handles form sessions and render requests.
type Server struct {
	cfg      config.InvoiceConfig
	store    *session.Store
	archiver archive.Archiver
	logger   *slog.Logger
	now      func() time.Time
	pages    *template.Template
}

func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Invoice,
		archiver: opts.Archiver,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.archiver == nil {
		s.archiver = archive.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.store = session.NewStore(opts.SessionTTL, opts.MaxSessions, s.newBuilder)
	s.pages = template.Must(template.New("pages").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}).ParseFS(templateFS, "templates/*.html"))
	return s
}

// DefaultHeader is the header a new session starts with.
func (s *Server) DefaultHeader() invoice.Header {
	today := s.now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return invoice.Header{
		Number: invoice.DefaultNumber(s.cfg.NumberPrefix, today),
		Date:   today,
		Issuer: s.cfg.Issuer,
	}
}

func (s *Server) newBuilder() *invoice.Builder {
	return invoice.NewBuilder(s.DefaultHeader(), invoice.WithMaxItems(s.cfg.MaxItems))
}

func (s *Server) pdfRenderer() render.PDFRenderer {
	return render.PDFRenderer{Currency: s.cfg.Currency}
}

// renderer picks the renderer for a format name, applying configuration.
func (s *Server) renderer(format string) (render.Renderer, error) {
	r, err := render.ForFormat(format)
	if err != nil {
		return nil, err
	}
	if _, ok := r.(render.PDFRenderer); ok {
		return s.pdfRenderer(), nil
	}
	return r, nil
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.indexHandler).Methods("GET")
	r.HandleFunc("/healthz", healthHandler).Methods("GET")
	r.HandleFunc("/sessions", s.newSessionHandler).Methods("POST")

	sr := r.PathPrefix("/sessions/{id}").Subrouter()
	sr.HandleFunc("", s.sessionPageHandler).Methods("GET")
	sr.HandleFunc("/header", s.updateHeaderHandler).Methods("POST")
	sr.HandleFunc("/items", s.addItemHandler).Methods("POST")
	sr.HandleFunc("/clear", s.clearItemsHandler).Methods("POST")
	sr.HandleFunc("/invoice.{ext:pdf|txt}", s.downloadHandler).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/render", s.renderHandler).Methods("POST")

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return logging.Middleware(s.logger)(r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
