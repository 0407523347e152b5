package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/couchcryptid/climate-insights-dashboard/internal/dashboard"
	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
)

// Server exposes the dashboard page, chart, export and JSON API alongside
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	dash       *dashboard.Dashboard
	logger     *slog.Logger
}

// NewServer creates an HTTP server over dash. corsOrigins lists the origins
// allowed to call it cross-site.
func NewServer(addr string, dash *dashboard.Dashboard, ready sharedobs.ReadinessChecker, corsOrigins []string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		dash:   dash,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /chart", s.handleChart)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/extent", s.handleExtent)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	})
	s.handler = s.requestLogger(c.Handler(mux))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r, false)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.dash.RenderPage(&buf, sel); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeBody(w, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r, false)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.dash.Chart(&buf, sel); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeBody(w, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r, false)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.dash.Export(&buf, sel); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+dashboard.ExportFilename+`"`)
	writeBody(w, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r, true)
	if !ok {
		return
	}
	summary, err := s.dash.Summary(sel)
	if errors.Is(err, domain.ErrNoData) {
		sharedobs.WriteJSON(w, http.StatusOK, summaryResponse{Range: sel.Range, Empty: true, Error: dashboard.NoDataMessage})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, summaryResponse{Range: sel.Range, Columns: toColumnJSON(summary)})
}

func (s *Server) handleExtent(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.dash.Extent())
}

// selection parses the query, answering 400 on invalid input. asJSON picks
// the error body format.
func (s *Server) selection(w http.ResponseWriter, r *http.Request, asJSON bool) (dashboard.Selection, bool) {
	sel, err := s.dash.ParseSelection(r.URL.Query())
	if err == nil {
		return sel, true
	}
	if !dashboard.IsBadRequest(err) {
		s.serverError(w, r, err)
		return sel, false
	}
	if asJSON {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	} else {
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
	return sel, false
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		"path", r.URL.Path,
		"request_id", w.Header().Get(headerRequestID),
		"error", err,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

type summaryResponse struct {
	Range   domain.YearRange `json:"range"`
	Columns []columnJSON     `json:"columns,omitempty"`
	Empty   bool             `json:"empty,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type columnJSON struct {
	Column string    `json:"column"`
	Count  int       `json:"count"`
	Mean   jsonFloat `json:"mean"`
	StdDev jsonFloat `json:"std"`
	Min    jsonFloat `json:"min"`
	P25    jsonFloat `json:"p25"`
	Median jsonFloat `json:"median"`
	P75    jsonFloat `json:"p75"`
	Max    jsonFloat `json:"max"`
}

// jsonFloat encodes NaN as null.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

func toColumnJSON(s domain.Summary) []columnJSON {
	out := make([]columnJSON, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = columnJSON{
			Column: c.Column,
			Count:  c.Count,
			Mean:   jsonFloat(c.Mean),
			StdDev: jsonFloat(c.StdDev),
			Min:    jsonFloat(c.Min),
			P25:    jsonFloat(c.P25),
			Median: jsonFloat(c.Median),
			P75:    jsonFloat(c.P75),
			Max:    jsonFloat(c.Max),
		}
	}
	return out
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck // client went away
}
