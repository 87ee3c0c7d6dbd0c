// Package web serves weekly reports to a single local user; it has no
// auth/CSRF protection.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ministrylog/config"
	"ministrylog/hwpx"
	"ministrylog/internal/logger"
	"ministrylog/internal/timeutil"
	"ministrylog/ministry"
	"ministrylog/output"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

var weekTemplate = template.Must(template.ParseFS(templateFS, "templates/week.html"))

type Server struct {
	store    output.WeekSource
	cfg      config.Config
	log      *logger.Logger
	template hwpx.TemplateSource
	now      func() time.Time
	mux      *http.ServeMux
}

type downloadView struct {
	Label string
	Link  string
}

type visitView struct {
	Kind  ministry.VisitKind
	Total int
}

type weekPageView struct {
	Title        string
	Profile      string
	Range        string
	PreviousWeek string
	NextWeek     string
	Placed       int
	Downloads    []downloadView
	Visits       []visitView
}

type weekSummaryResponse struct {
	WeekStart string                       `json:"weekStart"`
	WeekEnd   string                       `json:"weekEnd"`
	Placed    int                          `json:"placed"`
	Skipped   int                          `json:"skipped"`
	Visits    map[ministry.VisitKind]int   `json:"visits"`
	Daily     []map[ministry.VisitKind]int `json:"daily"`
	HasPlan   bool                         `json:"hasPlan"`
	HasNote   bool                         `json:"hasNote"`
}

var downloadLabels = map[string]string{
	"xlsx": "엑셀 (.xlsx)",
	"hwpx": "한글 (.hwpx)",
	"html": "클립보드 표 (.html)",
	"csv":  "활동 기록 (.csv)",
}

func NewServer(store output.WeekSource, cfg config.Config, log *logger.Logger) (http.Handler, error) {
	source, err := hwpx.NewSource(cfg.Template.Path, cfg.Template.URL)
	if err != nil {
		return nil, err
	}

	server := &Server{
		store:    store,
		cfg:      cfg,
		log:      logger.OrNop(log),
		template: source,
		now:      time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("GET /week/{date}", server.handleWeek)
	mux.HandleFunc("GET /week/{date}/{format}", server.handleWeekExport)
	mux.HandleFunc("GET /api/week/{date}", server.handleAPIWeek)
	mux.Handle("GET /metrics", promhttp.Handler())
	server.mux = mux

	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	week := timeutil.WeekOf(s.now())
	http.Redirect(w, r, "/week/"+timeutil.FormatDate(week.Start), http.StatusFound)
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseDate(r.PathValue("date"))
	if err != nil {
		http.Error(w, "invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	input, err := output.LoadWeek(s.store, day, s.cfg.Profile)
	if err != nil {
		s.log.Error("load week failed", "date", timeutil.FormatDate(day), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summary := output.BuildWeeklySummary(input.Window, input.Entries)
	start := timeutil.FormatDate(input.Window.Start)
	view := weekPageView{
		Title:        fmt.Sprintf("%d월 %d주 주간사역일지", input.Window.Start.Month(), timeutil.WeekOfMonth(input.Window.Start)),
		Profile:      strings.TrimSpace(input.Profile.Department + " " + input.Profile.Name),
		Range:        start + " ~ " + timeutil.FormatDate(input.Window.End()),
		PreviousWeek: timeutil.FormatDate(input.Window.Start.AddDate(0, 0, -7)),
		NextWeek:     timeutil.FormatDate(input.Window.Start.AddDate(0, 0, 7)),
		Placed:       summary.Placed,
	}
	for _, format := range output.Formats() {
		view.Downloads = append(view.Downloads, downloadView{
			Label: downloadLabels[format],
			Link:  "/week/" + start + "/" + format,
		})
	}
	for _, kind := range ministry.VisitKinds() {
		view.Visits = append(view.Visits, visitView{Kind: kind, Total: summary.Visits.Total(kind)})
	}

	var buf bytes.Buffer
	if err := weekTemplate.Execute(&buf, view); err != nil {
		http.Error(w, fmt.Sprintf("render week page: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleWeekExport(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseDate(r.PathValue("date"))
	if err != nil {
		http.Error(w, "invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	exporter, err := output.ExporterForFormat(r.PathValue("format"), output.ExporterOptions{
		Log:      s.log,
		Template: s.template,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	input, err := output.LoadWeek(s.store, day, s.cfg.Profile)
	if err != nil {
		s.log.Error("load week failed", "date", timeutil.FormatDate(day), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sink := &responseSink{w: w}
	if _, err := exporter.Export(r.Context(), input, sink); err != nil {
		if sink.wrote {
			// Headers are already out; the client sees a truncated body.
			s.log.Warn("export response interrupted", "format", exporter.Format(), "week", timeutil.FormatDate(input.Window.Start), "error", err)
			return
		}
		http.Error(w, exportErrorMessage(err), http.StatusInternalServerError)
		return
	}
}

func (s *Server) handleAPIWeek(w http.ResponseWriter, r *http.Request) {
	day, err := timeutil.ParseDate(r.PathValue("date"))
	if err != nil {
		http.Error(w, "invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	input, err := output.LoadWeek(s.store, day, s.cfg.Profile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summary := output.BuildWeeklySummary(input.Window, input.Entries)
	resp := weekSummaryResponse{
		WeekStart: timeutil.FormatDate(input.Window.Start),
		WeekEnd:   timeutil.FormatDate(input.Window.End()),
		Placed:    summary.Placed,
		Skipped:   summary.Skipped,
		Visits:    make(map[ministry.VisitKind]int),
		Daily:     make([]map[ministry.VisitKind]int, 0, 7),
		HasPlan:   input.Plan != nil,
		HasNote:   input.Note != nil,
	}
	for _, kind := range ministry.VisitKinds() {
		resp.Visits[kind] = summary.Visits.Total(kind)
	}
	for dayOffset := range input.Window.Days() {
		counts := make(map[ministry.VisitKind]int)
		for _, kind := range ministry.VisitKinds() {
			counts[kind] = summary.Visits.Day(dayOffset, kind)
		}
		resp.Daily = append(resp.Daily, counts)
	}

	writeJSON(w, http.StatusOK, resp)
}

// exportErrorMessage separates a broken template deployment from other
// rendering failures so the operator knows where to look.
func exportErrorMessage(err error) string {
	if hwpx.IsTemplateError(err) {
		return "report template unavailable, check the template deployment: " + err.Error()
	}
	if errors.Is(err, context.Canceled) {
		return "export canceled"
	}
	return "export failed: " + err.Error()
}

// responseSink delivers an artifact as the HTTP response body. HTML is shown
// inline so the browser can copy the table; everything else downloads.
type responseSink struct {
	w     http.ResponseWriter
	wrote bool
}

func (s *responseSink) Deliver(ctx context.Context, artifact *output.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	disposition := "attachment"
	contentType := artifact.MIMEType
	if artifact.MIMEType == output.MIMETypeHTML || artifact.MIMEType == output.MIMETypeCSV {
		contentType += "; charset=utf-8"
	}
	if artifact.MIMEType == output.MIMETypeHTML {
		disposition = "inline"
	}

	header := s.w.Header()
	header.Set("Content-Type", contentType)
	header.Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": artifact.Name}))
	header.Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	s.wrote = true
	s.w.WriteHeader(http.StatusOK)
	if _, err := s.w.Write(artifact.Data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
