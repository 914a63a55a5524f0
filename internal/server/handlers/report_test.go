package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/domainworth/domainworth/internal/core"
)

func reportRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/report/{name}", ReportHandler)
	return r
}

func TestReportHandlerReturnsReport(t *testing.T) {
	SetReportRunner(func(ctx context.Context, name string) (*core.Report, error) {
		return &core.Report{
			Name:      name,
			Appraisal: core.Appraisal{Score: 82, Grade: "B"},
		}, nil
	})
	t.Cleanup(func() { SetReportRunner(nil) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/mint", nil)
	rec := httptest.NewRecorder()

	reportRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var report core.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if report.Name != "mint" {
		t.Fatalf("expected report for mint, got %s", report.Name)
	}
	if report.Appraisal.Grade != "B" {
		t.Fatalf("expected grade B, got %s", report.Appraisal.Grade)
	}
}

func TestReportHandlerMapsRunnerFailure(t *testing.T) {
	SetReportRunner(func(ctx context.Context, name string) (*core.Report, error) {
		return nil, errors.New("registry unreachable")
	})
	t.Cleanup(func() { SetReportRunner(nil) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/mint", nil)
	rec := httptest.NewRecorder()

	reportRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Error.Code != "EXTERNAL_SERVICE_ERROR" {
		t.Fatalf("expected EXTERNAL_SERVICE_ERROR, got %s", resp.Error.Code)
	}
}

func TestReportHandlerWithoutRunner(t *testing.T) {
	SetReportRunner(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/mint", nil)
	rec := httptest.NewRecorder()

	reportRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
