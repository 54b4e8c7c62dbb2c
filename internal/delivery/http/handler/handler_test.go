package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap/zaptest"

	"github.com/user/schema-scanner/internal/entity"
	"github.com/user/schema-scanner/internal/repository"
	"github.com/user/schema-scanner/internal/usecase"
)

const testScanID = "7d444840-9dc0-11d1-b245-5ffdce74fad2"

type fakeScanner struct {
	analyzeOpts entity.ScanOptions
	startOpts   entity.ScanOptions
	startErr    error
	records     map[string]*entity.ScanRecord
}

func (f *fakeScanner) AnalyzeSinglePage(_ context.Context, url string, opts entity.ScanOptions) (*entity.ScanRecord, error) {
	f.analyzeOpts = opts
	switch url {
	case "https://ex.com/":
		return &entity.ScanRecord{ID: testScanID, URL: url, Status: entity.ScanStatusCompleted, Analysis: &entity.Analysis{Score: 100}}, nil
	case "https://down.example/":
		return &entity.ScanRecord{ID: testScanID, URL: url, Status: entity.ScanStatusFailed, Error: "fetch failed"}, nil
	}
	return nil, usecase.ErrInvalidURL
}

func (f *fakeScanner) HealthCheck(_ context.Context, url string) (*entity.HealthReport, error) {
	if url == "https://ex.com/" {
		return &entity.HealthReport{URL: url, Status: entity.HealthHealthy, Score: 100}, nil
	}
	return nil, repository.ErrFetchTimeout
}

func (f *fakeScanner) StartSiteScan(_ context.Context, _ string, opts entity.ScanOptions) (string, error) {
	f.startOpts = opts
	if f.startErr != nil {
		return "", f.startErr
	}
	return testScanID, nil
}

func (f *fakeScanner) RunSiteScan(context.Context, string, entity.ScanOptions) (*entity.ScanRecord, error) {
	return nil, errors.New("not used")
}

func (f *fakeScanner) GetScanRecord(_ context.Context, id string) (*entity.ScanRecord, error) {
	if id == "bad" {
		return nil, usecase.ErrInvalidScanID
	}
	if r, ok := f.records[id]; ok {
		return r, nil
	}
	return nil, repository.ErrScanNotFound
}

func (f *fakeScanner) GetLatestScan(_ context.Context, url string) (*entity.ScanRecord, error) {
	for _, r := range f.records {
		if r.URL == url {
			return r, nil
		}
	}
	return nil, repository.ErrScanNotFound
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, s *fakeScanner, deps map[string]Pinger) http.Handler {
	t.Helper()
	h := NewHandler(s, deps, zaptest.NewLogger(t))
	r := chi.NewRouter()
	r.Get("/api/health", h.HandleServiceHealth)
	r.Post("/api/analyze", h.HandleAnalyze)
	r.Post("/api/health-check", h.HandleHealthCheck)
	r.Post("/api/scans", h.HandleSubmitScan)
	r.Get("/api/scans", h.HandleGetLatestScan)
	r.Get("/api/scans/{scanID}", h.HandleGetScan)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"completed", `{"url":"https://ex.com/"}`, http.StatusOK},
		{"fetch failure", `{"url":"https://down.example/"}`, http.StatusBadGateway},
		{"invalid url", `{"url":"nope"}`, http.StatusBadRequest},
		{"malformed body", `{"url":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, newTestRouter(t, &fakeScanner{}, nil), http.MethodPost, "/api/analyze", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("unexpected content type %q", ct)
			}
		})
	}

	t.Run("options default to enabled", func(t *testing.T) {
		t.Parallel()
		s := &fakeScanner{}
		rec := do(t, newTestRouter(t, s, nil), http.MethodPost, "/api/analyze",
			`{"url":"https://ex.com/","options":{"consistency_check":false}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if s.analyzeOpts.ConsistencyCheck || !s.analyzeOpts.Recommendations || !s.analyzeOpts.DeepScan || !s.analyzeOpts.EntityAnalysis {
			t.Errorf("unexpected options %+v", s.analyzeOpts)
		}
	})
}

func TestHandleHealthCheck(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakeScanner{}, nil)

	rec := do(t, h, http.MethodPost, "/api/health-check", `{"url":"https://ex.com/"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var report entity.HealthReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.Status != entity.HealthHealthy {
		t.Errorf("unexpected report %+v", report)
	}

	rec = do(t, h, http.MethodPost, "/api/health-check", `{"url":"https://slow.example/"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 on fetch timeout, got %d", rec.Code)
	}
}

func TestHandleSubmitScan(t *testing.T) {
	t.Parallel()

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()
		s := &fakeScanner{}
		rec := do(t, newTestRouter(t, s, nil), http.MethodPost, "/api/scans",
			`{"url":"https://ex.com/","options":{"max_pages":10,"crawl_depth":2,"include_sitemaps":true}}`)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}
		var resp struct {
			Status string `json:"status"`
			ScanID string `json:"scan_id"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.ScanID != testScanID || resp.Status != "pending" {
			t.Errorf("unexpected response %+v", resp)
		}
		if s.startOpts.MaxPages != 10 || s.startOpts.Depth(-1) != 2 || !s.startOpts.IncludeSitemaps || s.startOpts.DeepScan {
			t.Errorf("unexpected options %+v", s.startOpts)
		}
	})

	t.Run("crawl depth zero differs from omitted", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			body string
			want int
		}{
			{name: "omitted", body: `{"url":"https://ex.com/","options":{"max_pages":5}}`, want: -1},
			{name: "zero", body: `{"url":"https://ex.com/","options":{"crawl_depth":0}}`, want: 0},
		}
		for _, tt := range tests {
			s := &fakeScanner{}
			rec := do(t, newTestRouter(t, s, nil), http.MethodPost, "/api/scans", tt.body)
			if rec.Code != http.StatusAccepted {
				t.Fatalf("%s: expected 202, got %d", tt.name, rec.Code)
			}
			if got := s.startOpts.Depth(-1); got != tt.want {
				t.Errorf("%s: expected depth %d, got %d", tt.name, tt.want, got)
			}
		}
	})

	t.Run("queue full", func(t *testing.T) {
		t.Parallel()
		rec := do(t, newTestRouter(t, &fakeScanner{startErr: usecase.ErrScanQueueFull}, nil), http.MethodPost, "/api/scans", `{"url":"https://ex.com/"}`)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("unexpected error", func(t *testing.T) {
		t.Parallel()
		rec := do(t, newTestRouter(t, &fakeScanner{startErr: errors.New("redis down")}, nil), http.MethodPost, "/api/scans", `{"url":"https://ex.com/"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "redis down") {
			t.Error("internal errors must not leak to clients")
		}
	})
}

func TestHandleGetScan(t *testing.T) {
	t.Parallel()

	completed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := &fakeScanner{records: map[string]*entity.ScanRecord{
		testScanID: {
			ID: testScanID, URL: "https://ex.com/", Type: entity.ScanTypeSiteScan,
			Status: entity.ScanStatusCompleted, CompletedAt: &completed,
			Pages: []entity.PageResult{{URL: "https://ex.com/"}, {URL: "https://ex.com/a"}},
		},
	}}
	h := newTestRouter(t, s, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"found", "/api/scans/" + testScanID, http.StatusOK},
		{"unknown", "/api/scans/00000000-0000-0000-0000-000000000000", http.StatusNotFound},
		{"invalid id", "/api/scans/bad", http.StatusBadRequest},
		{"latest by url", "/api/scans?url=https://ex.com/", http.StatusOK},
		{"latest without url", "/api/scans", http.StatusBadRequest},
		{"latest unknown url", "/api/scans?url=https://none.example/", http.StatusNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, h, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body)
			}
		})
	}

	t.Run("latest reports a status summary", func(t *testing.T) {
		t.Parallel()
		rec := do(t, h, http.MethodGet, "/api/scans?url=https://ex.com/", "")
		var resp struct {
			ScanID       string `json:"scan_id"`
			PagesScanned int    `json:"pages_scanned"`
			Status       string `json:"status"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.ScanID != testScanID || resp.PagesScanned != 2 || resp.Status != "completed" {
			t.Errorf("unexpected response %+v", resp)
		}
	})
}

func TestHandleServiceHealth(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t, &fakeScanner{}, map[string]Pinger{"redis": fakePinger{}}), http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec = do(t, newTestRouter(t, &fakeScanner{}, map[string]Pinger{
		"redis":    fakePinger{},
		"postgres": fakePinger{err: errors.New("connection refused")},
	}), http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["postgres"] != "unhealthy" || body["redis"] != "healthy" || body["status"] != "degraded" {
		t.Errorf("unexpected body %v", body)
	}
}
