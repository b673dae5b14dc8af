// Package api serves the Wikipedia lookups as a small REST API next to the
// MCP endpoint.
//
//	GET /api/wikipedia/search?query=...
//	GET /api/wikipedia/sections?topic=...
//	GET /api/wikipedia/section?topic=...&sectionTitle=...
//	GET /health
//
// A lookup that yields nothing answers 404; blank parameters answer 400.
// Placeholder entities (for example a section that was not found in an
// existing article) are ordinary 200 responses.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/api/types"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/httputil"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/logging"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/wikipedia"
)

// Lookup is the gateway surface the REST handlers need. Errors are
// *wikipedia.Error values.
type Lookup interface {
	LookupSearch(ctx context.Context, query string) (*wikipedia.SearchResult, error)
	LookupSections(ctx context.Context, topic string) (*wikipedia.SectionOutline, error)
	LookupSectionContent(ctx context.Context, topic, sectionTitle string) (*wikipedia.SectionContent, error)
}

// API serves the REST endpoints.
type API struct {
	lookup    Lookup
	version   string
	startedAt time.Time
	log       *slog.Logger
}

// Option configures an API.
type Option func(*API)

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(a *API) { a.version = v }
}

// WithLogger sets the logger used for failed lookups.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates an API backed by lookup.
func New(lookup Lookup, opts ...Option) *API {
	a := &API{
		lookup:    lookup,
		version:   "dev",
		startedAt: time.Now(),
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler returns the routes served by the API.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /api/wikipedia/search", a.handleSearch)
	mux.HandleFunc("GET /api/wikipedia/sections", a.handleSections)
	mux.HandleFunc("GET /api/wikipedia/section", a.handleSectionContent)
	return mux
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, types.HealthResponse{
		Status:    "ok",
		Version:   a.version,
		Uptime:    int64(time.Since(a.startedAt).Seconds()),
		Timestamp: time.Now().UTC(),
	})
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	res, err := a.lookup.LookupSearch(r.Context(), query)
	if err != nil {
		a.writeLookupError(w, r, err, "query is required", "No Wikipedia article found for '"+query+"'")
		return
	}
	httputil.WriteOK(w, res)
}

func (a *API) handleSections(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	out, err := a.lookup.LookupSections(r.Context(), topic)
	if err != nil {
		a.writeLookupError(w, r, err, "topic is required", "No sections found for '"+topic+"'")
		return
	}
	httputil.WriteOK(w, out)
}

// handleSectionContent accepts section_title as an alias of sectionTitle.
func (a *API) handleSectionContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	topic := q.Get("topic")
	sectionTitle := q.Get("sectionTitle")
	if sectionTitle == "" {
		sectionTitle = q.Get("section_title")
	}

	sc, err := a.lookup.LookupSectionContent(r.Context(), topic, sectionTitle)
	if err != nil {
		a.writeLookupError(w, r, err, "topic and sectionTitle are required",
			"No content found for section '"+sectionTitle+"' in '"+topic+"'")
		return
	}
	httputil.WriteOK(w, sc)
}

// writeLookupError maps blank input to 400 and every other absence to 404.
func (a *API) writeLookupError(w http.ResponseWriter, r *http.Request, err error, invalidMsg, notFoundMsg string) {
	if errors.Is(err, wikipedia.ErrInvalidInput) {
		httputil.WriteBadRequest(w, wikipedia.KindInvalidInput.String(), invalidMsg)
		return
	}

	kind := wikipedia.KindOf(err)
	attrs := []any{"path", r.URL.Path, "kind", kind.String(), "error", err}
	if id := httputil.RequestIDFromContext(r.Context()); id != "" {
		attrs = append(attrs, "requestId", id)
	}
	if kind == wikipedia.KindTransport || kind == wikipedia.KindParse {
		a.log.Warn("lookup failed", attrs...)
	} else {
		a.log.Debug("lookup found nothing", attrs...)
	}

	code := wikipedia.KindNotFound.String()
	if kind != 0 {
		code = kind.String()
	}
	httputil.WriteNotFound(w, code, notFoundMsg)
}
